package engine

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/railbirdlabs/railbird/poker"
)

// scriptedEvaluator ranks seats by a fixed table instead of by cards
type scriptedEvaluator struct {
	ranks map[int]int32
	calls int
}

func scripted(ranks map[int]int32) *scriptedEvaluator {
	return &scriptedEvaluator{ranks: ranks}
}

func (s *scriptedEvaluator) EvaluateHand(_ [2]poker.Card, _ []poker.Card) (RankedHand, error) {
	return RankedHand{Description: "scripted hand"}, nil
}

func (s *scriptedEvaluator) DetermineWinners(entries []ShowdownEntry, _ []poker.Card) ([]PotWinner, error) {
	s.calls++
	var best int32
	var winners []PotWinner
	for _, e := range entries {
		r := s.ranks[e.Seat]
		w := PotWinner{Seat: e.Seat, Hand: RankedHand{Description: fmt.Sprintf("rank %d", r), Rank: r}}
		switch {
		case len(winners) == 0 || r > best:
			best = r
			winners = []PotWinner{w}
		case r == best:
			winners = append(winners, w)
		}
	}
	return winners, nil
}

func contributed(seat, amount int, allIn, folded bool) *Participant {
	return &Participant{
		Seat:          seat,
		Contributed:   amount,
		AllIn:         allIn,
		Folded:        folded,
		StartingStack: amount,
	}
}

func TestSidePotsSinglePotWhenContributionsEqual(t *testing.T) {
	t.Parallel()

	ps := []*Participant{
		contributed(0, 100, true, false),
		contributed(1, 100, true, false),
		contributed(2, 100, false, false),
	}
	pots := BuildSidePots(ps)

	if len(pots) != 1 {
		t.Fatalf("expected 1 pot, got %d", len(pots))
	}
	if pots[0].Amount != 300 {
		t.Errorf("pot should be 300, got %d", pots[0].Amount)
	}
	if !reflect.DeepEqual(pots[0].Eligible, []int{0, 1, 2}) {
		t.Errorf("all seats should be eligible, got %v", pots[0].Eligible)
	}
}

func TestSidePotsLayeredByContributionLevel(t *testing.T) {
	t.Parallel()

	// Two seats all-in for 100, one seat in for 300: a 300 main pot for
	// everyone and a 200 layer only the deep seat reached.
	ps := []*Participant{
		contributed(0, 100, true, false),
		contributed(1, 100, true, false),
		contributed(2, 300, false, false),
	}
	pots := BuildSidePots(ps)

	if len(pots) != 2 {
		t.Fatalf("expected 2 pots, got %+v", pots)
	}
	if pots[0].Amount != 300 || !reflect.DeepEqual(pots[0].Eligible, []int{0, 1, 2}) {
		t.Errorf("main pot wrong: %+v", pots[0])
	}
	if pots[1].Amount != 200 || !reflect.DeepEqual(pots[1].Eligible, []int{2}) {
		t.Errorf("side pot wrong: %+v", pots[1])
	}
}

func TestSequentialAllInsConvergeToSidePots(t *testing.T) {
	t.Parallel()

	// However the betting got there, final contributions alone determine
	// the layering: 50 and 100 all-ins under two full 150 stacks.
	ps := []*Participant{
		contributed(0, 50, true, false),
		contributed(1, 100, true, false),
		contributed(2, 150, false, false),
		contributed(3, 150, false, false),
	}
	pots := BuildSidePots(ps)

	if len(pots) != 3 {
		t.Fatalf("expected 3 pots, got %+v", pots)
	}
	expected := []SidePot{
		{Amount: 200, Eligible: []int{0, 1, 2, 3}},
		{Amount: 150, Eligible: []int{1, 2, 3}},
		{Amount: 100, Eligible: []int{2, 3}},
	}
	if !reflect.DeepEqual(pots, expected) {
		t.Errorf("pot layering wrong:\n got %+v\nwant %+v", pots, expected)
	}
}

func TestFoldedContributionsSpreadAcrossLayers(t *testing.T) {
	t.Parallel()

	// Seat 0 folded after putting in 75: 50 of it lands in the layer the
	// short all-in reached, the remaining 25 in the upper layer. Folded
	// seats are never eligible.
	ps := []*Participant{
		contributed(0, 75, false, true),
		contributed(1, 50, true, false),
		contributed(2, 200, false, false),
		contributed(3, 200, false, false),
	}
	pots := BuildSidePots(ps)

	if len(pots) != 2 {
		t.Fatalf("expected 2 pots, got %+v", pots)
	}
	if pots[0].Amount != 200 || !reflect.DeepEqual(pots[0].Eligible, []int{1, 2, 3}) {
		t.Errorf("main pot wrong: %+v", pots[0])
	}
	if pots[1].Amount != 325 || !reflect.DeepEqual(pots[1].Eligible, []int{2, 3}) {
		t.Errorf("upper layer wrong: %+v", pots[1])
	}
}

func TestSettleDefaultWinWithoutEvaluator(t *testing.T) {
	t.Parallel()

	h := newTestHand(t, []int{200, 200, 200}, 0)
	mustApply(t, h, 0, Decision{Kind: Fold})
	mustApply(t, h, 1, Decision{Kind: Fold})

	eval := scripted(nil)
	if err := h.Settle(eval); err != nil {
		t.Fatalf("settle: %v", err)
	}

	if eval.calls != 0 {
		t.Errorf("default win must not consult the evaluator, got %d calls", eval.calls)
	}
	if h.WinnerSeat != 2 {
		t.Errorf("big blind should win by default, got seat %d", h.WinnerSeat)
	}
	if h.WinningHand != "wins uncontested" {
		t.Errorf("unexpected winning hand label %q", h.WinningHand)
	}

	// The uncalled half of the big blind comes back before the award.
	p := h.ParticipantAt(2)
	if p.Refunded != 10 {
		t.Errorf("expected refund of 10, got %d", p.Refunded)
	}
	if p.Stack != 210 {
		t.Errorf("winner stack should be 210, got %d", p.Stack)
	}
}

func TestSettleAllInShowdownAwardsWholePot(t *testing.T) {
	t.Parallel()

	h := newTestHand(t, []int{100, 100, 300}, 0)
	mustApply(t, h, 0, Decision{Kind: AllIn})
	mustApply(t, h, 1, Decision{Kind: AllIn})
	mustApply(t, h, 2, Decision{Kind: Call})

	h.RunOutBoard()
	if len(h.Board) != 5 {
		t.Fatalf("run-out should reveal 5 cards, got %d", len(h.Board))
	}

	if err := h.Settle(scripted(map[int]int32{0: 1, 1: 9, 2: 5})); err != nil {
		t.Fatalf("settle: %v", err)
	}

	if h.WinnerSeat != 1 {
		t.Errorf("seat 1 should win, got %d", h.WinnerSeat)
	}
	if got := h.ParticipantAt(1).Stack; got != 300 {
		t.Errorf("winner should hold 300, got %d", got)
	}
	if got := h.ParticipantAt(2).Stack; got != 200 {
		t.Errorf("seat 2 should keep its uncommitted 200, got %d", got)
	}
}

func TestSettleLayeredPotsAwardIndependently(t *testing.T) {
	t.Parallel()

	// Seat 0 is all-in short but holds the best hand: it wins only the
	// layer it reached; the side pot goes to the best hand among the rest.
	h := newTestHand(t, []int{50, 100, 100}, 0)
	mustApply(t, h, 0, Decision{Kind: AllIn}) // 50
	mustApply(t, h, 1, Decision{Kind: AllIn}) // 100
	mustApply(t, h, 2, Decision{Kind: Call})  // 100 total, also all-in

	h.RunOutBoard()
	eval := scripted(map[int]int32{0: 9, 1: 5, 2: 1})
	if err := h.Settle(eval); err != nil {
		t.Fatalf("settle: %v", err)
	}

	if len(h.Pots) != 2 {
		t.Fatalf("expected 2 pots, got %+v", h.Pots)
	}
	if got := h.ParticipantAt(0).Stack; got != 150 {
		t.Errorf("short stack should win the 150 main pot, got %d", got)
	}
	if got := h.ParticipantAt(1).Stack; got != 100 {
		t.Errorf("seat 1 should win the 100 side pot, got %d", got)
	}
	if got := h.ParticipantAt(2).Stack; got != 0 {
		t.Errorf("seat 2 should be felted, got %d", got)
	}
	if h.WinnerSeat != 0 {
		t.Errorf("largest total award should define the winner, got %d", h.WinnerSeat)
	}
}

func TestSettleAutoAwardsSingleEligibleLayer(t *testing.T) {
	t.Parallel()

	// The upper layer was reached only by seat 2 (the other money in it
	// came from a fold). It goes to seat 2 without consulting the
	// evaluator, even though seat 0 holds the best hand.
	board, _ := poker.Deal(poker.NewOrderedDeck(), 5)
	h := &Hand{
		ID:         "hand-layered",
		Round:      Showdown,
		Board:      board,
		Pot:        250,
		WinnerSeat: -1,
		Participants: []*Participant{
			{Seat: 0, Contributed: 50, AllIn: true, StartingStack: 50},
			{Seat: 1, Contributed: 100, Folded: true, StartingStack: 100},
			{Seat: 2, Contributed: 100, AllIn: true, StartingStack: 100},
		},
	}

	eval := scripted(map[int]int32{0: 9, 2: 1})
	if err := h.Settle(eval); err != nil {
		t.Fatalf("settle: %v", err)
	}

	if eval.calls != 1 {
		t.Errorf("only the contested layer should reach the evaluator, got %d calls", eval.calls)
	}
	if got := h.ParticipantAt(0).Stack; got != 150 {
		t.Errorf("seat 0 should win the 150 main pot, got %d", got)
	}
	if got := h.ParticipantAt(2).Stack; got != 100 {
		t.Errorf("seat 2 should take the 100 upper layer on eligibility alone, got %d", got)
	}
}

func TestSettleSplitPotRemainderToLowestSeat(t *testing.T) {
	t.Parallel()

	h := newTestHand(t, []int{200, 200, 200}, 0)
	mustApply(t, h, 0, Decision{Kind: Raise, Amount: 45})
	mustApply(t, h, 1, Decision{Kind: Call})
	mustApply(t, h, 2, Decision{Kind: Call})
	for h.Round != River {
		h.AdvanceRound()
		mustApply(t, h, 1, Decision{Kind: Check})
		mustApply(t, h, 2, Decision{Kind: Check})
		mustApply(t, h, 0, Decision{Kind: Check})
	}

	if h.Pot != 135 {
		t.Fatalf("pot should be 135, got %d", h.Pot)
	}

	// Seats 0 and 1 tie; 135 splits 68/67 with the odd chip to seat 0.
	if err := h.Settle(scripted(map[int]int32{0: 7, 1: 7, 2: 1})); err != nil {
		t.Fatalf("settle: %v", err)
	}
	if got := h.ParticipantAt(0).Stack; got != 223 {
		t.Errorf("seat 0 should hold 223, got %d", got)
	}
	if got := h.ParticipantAt(1).Stack; got != 222 {
		t.Errorf("seat 1 should hold 222, got %d", got)
	}
	if h.WinnerSeat != 0 {
		t.Errorf("tie should resolve to the lowest seat, got %d", h.WinnerSeat)
	}
}

func TestSettlementConservesChips(t *testing.T) {
	t.Parallel()

	stacks := []int{80, 150, 220, 60}
	h := newTestHand(t, stacks, 1)
	mustApply(t, h, 0, Decision{Kind: AllIn})
	mustApply(t, h, 1, Decision{Kind: Call})
	mustApply(t, h, 2, Decision{Kind: AllIn})
	mustApply(t, h, 3, Decision{Kind: Fold})
	mustApply(t, h, 1, Decision{Kind: Call})

	h.RunOutBoard()
	if err := h.Settle(scripted(map[int]int32{0: 3, 1: 6, 2: 2})); err != nil {
		t.Fatalf("settle: %v", err)
	}

	total := 0
	for _, p := range h.Participants {
		if p.Stack < 0 {
			t.Errorf("seat %d has negative stack %d", p.Seat, p.Stack)
		}
		total += p.Stack
	}
	want := 0
	for _, s := range stacks {
		want += s
	}
	if total != want {
		t.Errorf("settlement conserved %d of %d chips", total, want)
	}
}

func TestSettleTwiceIsIntegrityError(t *testing.T) {
	t.Parallel()

	h := newTestHand(t, []int{200, 200}, 0)
	mustApply(t, h, 1, Decision{Kind: Fold})
	if err := h.Settle(scripted(nil)); err != nil {
		t.Fatalf("settle: %v", err)
	}
	if err := h.Settle(scripted(nil)); !IsIntegrityError(err) {
		t.Errorf("expected IntegrityError on double settle, got %v", err)
	}
}
