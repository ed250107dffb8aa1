package engine

import (
	"fmt"
	"sort"
)

// SidePot is a slice of the pot eligible to a subset of participants
type SidePot struct {
	Amount   int
	Eligible []int // table seat numbers, ascending
}

// BuildSidePots derives the pot layering solely from final cumulative
// contributions, independent of how capping was applied during play.
//
// Contribution levels of non-folded participants are sorted ascending;
// each level's increment over the previous one forms a pot eligible to
// exactly the participants who contributed at least that level. Folded
// participants' money is distributed into the layers they reached. When
// no all-in participant sits at a distinct contribution level, the single
// pot covers the full amount; this avoids fragmenting pots when every
// contribution is equal.
func BuildSidePots(participants []*Participant) []SidePot {
	total := 0
	for _, p := range participants {
		total += p.InPot()
	}

	var eligible []int
	for _, p := range participants {
		if !p.Folded {
			eligible = append(eligible, p.Seat)
		}
	}
	sort.Ints(eligible)

	if !hasDistinctAllInLevel(participants) {
		if total == 0 {
			return nil
		}
		return []SidePot{{Amount: total, Eligible: eligible}}
	}

	levelSet := make(map[int]bool)
	for _, p := range participants {
		if !p.Folded && p.InPot() > 0 {
			levelSet[p.InPot()] = true
		}
	}
	levels := make([]int, 0, len(levelSet))
	for l := range levelSet {
		levels = append(levels, l)
	}
	sort.Ints(levels)

	var pots []SidePot
	prev := 0
	for _, level := range levels {
		pot := SidePot{}
		for _, p := range participants {
			slice := min(p.InPot(), level) - min(p.InPot(), prev)
			pot.Amount += slice
			if !p.Folded && p.InPot() >= level {
				pot.Eligible = append(pot.Eligible, p.Seat)
			}
		}
		sort.Ints(pot.Eligible)
		if pot.Amount > 0 {
			pots = append(pots, pot)
		}
		prev = level
	}
	return pots
}

// hasDistinctAllInLevel reports whether some non-folded all-in
// participant's contribution differs from another contender's
func hasDistinctAllInLevel(participants []*Participant) bool {
	for _, p := range participants {
		if p.Folded || !p.AllIn {
			continue
		}
		for _, q := range participants {
			if q == p || q.Folded {
				continue
			}
			if q.InPot() != p.InPot() {
				return true
			}
		}
	}
	return false
}

// Settle refunds any uncalled excess, builds the side pots and awards
// each pot to its best eligible hand(s). A lone remaining contender wins
// everything by default without any evaluator call. Pots split between
// tied winners are divided evenly; the remainder goes to the first winner
// in tie-break order (ascending seat).
func (h *Hand) Settle(eval Evaluator) error {
	if h.state == HandResolved {
		return integrityf(h.ID, "hand already resolved")
	}

	h.refundUncalled()

	contenders := h.NonFolded()
	if len(contenders) == 0 {
		return integrityf(h.ID, "no contenders at settlement")
	}

	awards := make(map[int]int)
	bestHands := make(map[int]RankedHand)

	if len(contenders) == 1 {
		winner := contenders[0]
		h.Pots = []SidePot{{Amount: h.Pot, Eligible: []int{winner.Seat}}}
		awards[winner.Seat] = h.Pot
		bestHands[winner.Seat] = RankedHand{Description: "wins uncontested"}
	} else {
		h.Pots = BuildSidePots(h.Participants)
		if err := h.checkPotCompleteness(); err != nil {
			return err
		}

		for _, pot := range h.Pots {
			if len(pot.Eligible) == 1 {
				// Only one contender reached this layer; it is theirs
				// regardless of hand rank.
				awards[pot.Eligible[0]] += pot.Amount
				continue
			}

			entries := make([]ShowdownEntry, 0, len(pot.Eligible))
			for _, seat := range pot.Eligible {
				entries = append(entries, ShowdownEntry{Seat: seat, HoleCards: h.ParticipantAt(seat).HoleCards})
			}
			winners, err := eval.DetermineWinners(entries, h.Board)
			if err != nil {
				return fmt.Errorf("determining winners: %w", err)
			}
			if len(winners) == 0 {
				return integrityf(h.ID, "zero eligible winners for pot of %d", pot.Amount)
			}

			share := pot.Amount / len(winners)
			remainder := pot.Amount % len(winners)
			for i, w := range winners {
				amount := share
				if i == 0 {
					amount += remainder
				}
				awards[w.Seat] += amount
				bestHands[w.Seat] = w.Hand
			}
		}
	}

	for seat, amount := range awards {
		h.ParticipantAt(seat).Stack += amount
	}

	h.WinnerSeat = topAward(awards)
	if _, ok := bestHands[h.WinnerSeat]; !ok && len(h.Board) == 5 {
		// Winner took only auto-awarded pots; describe their hand anyway.
		if rh, err := eval.EvaluateHand(h.ParticipantAt(h.WinnerSeat).HoleCards, h.Board); err == nil {
			bestHands[h.WinnerSeat] = rh
		}
	}
	h.WinningHand = bestHands[h.WinnerSeat].Description
	h.state = HandResolved

	return h.checkResolvedConservation()
}

// topAward picks the seat awarded the largest total; ties resolve to the
// lowest seat number.
func topAward(awards map[int]int) int {
	winner, best := -1, -1
	for seat, amount := range awards {
		if amount > best || (amount == best && seat < winner) {
			winner, best = seat, amount
		}
	}
	return winner
}

// checkPotCompleteness verifies the side pots cover the pot exactly and
// that every contender is eligible for at least one pot.
func (h *Hand) checkPotCompleteness() error {
	sum := 0
	covered := make(map[int]bool)
	for _, pot := range h.Pots {
		sum += pot.Amount
		for _, seat := range pot.Eligible {
			covered[seat] = true
		}
	}
	if sum != h.Pot {
		return integrityf(h.ID, "side pots sum %d != pot %d", sum, h.Pot)
	}
	for _, p := range h.NonFolded() {
		if p.InPot() > 0 && !covered[p.Seat] {
			return integrityf(h.ID, "seat %d not eligible for any pot", p.Seat)
		}
	}
	return nil
}

// checkResolvedConservation verifies that settlement moved every chip
// back to a stack: final stacks must sum to the starting stacks.
func (h *Hand) checkResolvedConservation() error {
	start, final := 0, 0
	for _, p := range h.Participants {
		if p.Stack < 0 {
			return integrityf(h.ID, "negative stack for seat %d after settlement", p.Seat)
		}
		start += p.StartingStack
		final += p.Stack
	}
	if start != final {
		return integrityf(h.ID, "settlement conserved %d of %d starting chips", final, start)
	}
	return nil
}
