package engine

import (
	"time"

	"github.com/railbirdlabs/railbird/poker"
)

// Hand is one deal of cards to showdown or fold-out. All mutation goes
// through Apply, AdvanceRound, RunOutBoard and Settle; the append-only
// Log records every forced and voluntary action.
type Hand struct {
	ID     string
	GameID string
	Number int // sequence number within the game

	state HandStatus
	Round Round
	Board []poker.Card // revealed progressively, up to 5
	Pot   int

	DealerIdx    int
	Participants []*Participant
	Log          []ActionRecord

	SmallBlind int
	BigBlind   int

	BettingClosesAt time.Time

	// Settlement results, valid once resolved
	Pots        []SidePot
	WinnerSeat  int
	WinningHand string

	deck          poker.Deck
	lastRaiseSize int
	seq           int
}

// HandConfig carries everything needed to start a hand
type HandConfig struct {
	ID              string
	GameID          string
	Number          int
	Deck            poker.Deck
	Seats           []SeatStake
	DealerIdx       int
	SmallBlind      int
	BigBlind        int
	BettingClosesAt time.Time
}

// SeatStake is a funded seat entering a hand
type SeatStake struct {
	Seat  int
	Chips int
}

// NewHand deals hole cards to every funded seat, posts blinds as forced
// actions and leaves the hand at preflop with the first voluntary action
// pending.
func NewHand(cfg HandConfig) *Hand {
	h := &Hand{
		ID:              cfg.ID,
		GameID:          cfg.GameID,
		Number:          cfg.Number,
		state:           HandBettingOpen,
		Round:           Preflop,
		DealerIdx:       cfg.DealerIdx,
		SmallBlind:      cfg.SmallBlind,
		BigBlind:        cfg.BigBlind,
		BettingClosesAt: cfg.BettingClosesAt,
		WinnerSeat:      -1,
		deck:            cfg.Deck,
		lastRaiseSize:   cfg.BigBlind,
	}

	for _, s := range cfg.Seats {
		h.Participants = append(h.Participants, &Participant{
			Seat:          s.Seat,
			Stack:         s.Chips,
			StartingStack: s.Chips,
		})
	}

	for _, p := range h.Participants {
		p.HoleCards, h.deck = poker.DealHole(h.deck)
	}

	n := len(h.Participants)
	h.postBlind(h.Participants[(cfg.DealerIdx+1)%n], cfg.SmallBlind)
	h.postBlind(h.Participants[(cfg.DealerIdx+2)%n], cfg.BigBlind)

	return h
}

func (h *Hand) postBlind(p *Participant, amount int) {
	paid := p.pay(amount)
	h.Pot += paid
	h.Log = append(h.Log, ActionRecord{
		Seat:   p.Seat,
		Kind:   Blind,
		Amount: paid,
		Round:  Preflop,
		Seq:    h.nextSeq(),
	})
}

func (h *Hand) nextSeq() int {
	h.seq++
	return h.seq
}

// State returns the hand-level lifecycle state
func (h *Hand) State() HandStatus {
	return h.state
}

// BeginPlay marks the spectator betting window closed for this hand
func (h *Hand) BeginPlay() {
	if h.state == HandBettingOpen {
		h.state = HandPlaying
	}
}

// Resolved reports whether the hand has been settled
func (h *Hand) Resolved() bool {
	return h.state == HandResolved
}

// TableBet returns the highest current-round bet at the table
func (h *Hand) TableBet() int {
	best := 0
	for _, p := range h.Participants {
		if p.Bet > best {
			best = p.Bet
		}
	}
	return best
}

// NonFolded returns the participants still contesting the pot
func (h *Hand) NonFolded() []*Participant {
	var out []*Participant
	for _, p := range h.Participants {
		if !p.Folded {
			out = append(out, p)
		}
	}
	return out
}

// ParticipantAt returns the participant seated at the given table seat
func (h *Hand) ParticipantAt(seat int) *Participant {
	for _, p := range h.Participants {
		if p.Seat == seat {
			return p
		}
	}
	return nil
}

// NextToAct resolves who must act next in the current round, consulting
// only the action log and current bets.
func (h *Hand) NextToAct() (int, error) {
	return NextActor(h.Participants, h.Log, h.Round, h.TableBet(), h.DealerIdx)
}

// AdvanceRound reveals the next tranche of community cards (3 at the
// flop, 1 at the turn and river), resets every participant's round bet
// and moves to the next round. At the river it moves to showdown without
// dealing further; settlement takes over from there.
func (h *Hand) AdvanceRound() {
	for _, p := range h.Participants {
		p.Bet = 0
	}
	h.lastRaiseSize = h.BigBlind

	switch h.Round {
	case Preflop:
		var flop []poker.Card
		flop, h.deck = poker.DealFlop(h.deck)
		h.Board = append(h.Board, flop...)
		h.Round = Flop
	case Flop:
		var turn poker.Card
		turn, h.deck = poker.DealTurn(h.deck)
		h.Board = append(h.Board, turn)
		h.Round = Turn
	case Turn:
		var river poker.Card
		river, h.deck = poker.DealRiver(h.deck)
		h.Board = append(h.Board, river)
		h.Round = River
	case River:
		h.Round = Showdown
	}
}

// NeedsRunOut reports whether the board should be fast-forwarded without
// soliciting further decisions: either two or more contenders are all-in
// with nobody left to act, or a lone un-all-in contender already covers
// every all-in amount.
func (h *Hand) NeedsRunOut() bool {
	if h.Round == Showdown || len(h.NonFolded()) < 2 {
		return false
	}
	_, err := h.NextToAct()
	return err == ErrNoneCanAct
}

// RunOutBoard refunds any uncallable excess, then advances rounds without
// soliciting any decisions until the river is dealt. The hand is then
// ready for settlement.
func (h *Hand) RunOutBoard() {
	h.refundUncalled()
	for h.Round != Showdown {
		h.AdvanceRound()
	}
}

// refundUncalled returns to the highest contributor any amount no
// opponent could ever match. The refund is subtracted from the pot, but
// cumulative contributions stay monotonic; the refund is tracked
// separately.
func (h *Hand) refundUncalled() {
	contenders := h.NonFolded()
	if len(contenders) == 0 {
		return
	}

	var top *Participant
	for _, p := range h.Participants {
		if top == nil || p.InPot() > top.InPot() {
			top = p
		}
	}

	matched := 0
	for _, p := range h.Participants {
		if p == top {
			continue
		}
		if p.InPot() > matched {
			matched = p.InPot()
		}
	}

	excess := top.InPot() - matched
	if excess <= 0 {
		return
	}
	top.Refunded += excess
	top.Stack += excess
	if top.Bet >= excess {
		top.Bet -= excess
	} else {
		top.Bet = 0
	}
	if top.AllIn && top.Stack > 0 {
		top.AllIn = false
	}
	h.Pot -= excess
}

// CheckConservation verifies that no chips were created or destroyed:
// every participant's stack plus effective contribution equals their
// starting stack, and the pot equals the sum of effective contributions.
func (h *Hand) CheckConservation() error {
	potSum := 0
	for _, p := range h.Participants {
		if p.Stack < 0 {
			return integrityf(h.ID, "negative stack for seat %d", p.Seat)
		}
		if p.Stack+p.InPot() != p.StartingStack && h.state != HandResolved {
			return integrityf(h.ID, "seat %d stack %d + contribution %d != starting %d",
				p.Seat, p.Stack, p.InPot(), p.StartingStack)
		}
		potSum += p.InPot()
	}
	if h.state != HandResolved && potSum != h.Pot {
		return integrityf(h.ID, "pot %d != contribution sum %d", h.Pot, potSum)
	}
	return nil
}
