package engine

import "github.com/railbirdlabs/railbird/poker"

// Participant is one seat's state for a single hand. Seats are stable
// identities across hands; a Participant exists only for the hand it was
// created for and is mutated only by the action applier and settlement.
type Participant struct {
	Seat          int
	HoleCards     [2]poker.Card
	Stack         int
	Bet           int // current-round bet, reset at each new round
	Contributed   int // cumulative contribution, never decreases within a hand
	Refunded      int // excess returned from the pot (uncalled bets)
	Folded        bool
	AllIn         bool
	StartingStack int
}

// CanAct reports whether the participant may still take voluntary actions
func (p *Participant) CanAct() bool {
	return !p.Folded && !p.AllIn
}

// InPot returns the participant's effective money in the pot
func (p *Participant) InPot() int {
	return p.Contributed - p.Refunded
}

// pay moves chips from the stack into the current bet and cumulative
// contribution, capped at the remaining stack. Sets the all-in flag when
// the stack empties.
func (p *Participant) pay(amount int) int {
	if amount > p.Stack {
		amount = p.Stack
	}
	p.Stack -= amount
	p.Bet += amount
	p.Contributed += amount
	if p.Stack == 0 {
		p.AllIn = true
	}
	return amount
}
