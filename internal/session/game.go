// Package session sequences hands within a game: dealer rotation,
// elimination, betting-window closure and termination. One orchestrator
// drives one game; independent games share no mutable state.
package session

import (
	"github.com/railbirdlabs/railbird/internal/gameid"
	"github.com/railbirdlabs/railbird/internal/shuffle"
)

// GameStatus represents the session-level lifecycle
type GameStatus int

const (
	StatusWaiting GameStatus = iota
	StatusBettingOpen
	StatusBettingClosed
	StatusResolved
	StatusCancelled
)

func (s GameStatus) String() string {
	switch s {
	case StatusWaiting:
		return "waiting"
	case StatusBettingOpen:
		return "betting_open"
	case StatusBettingClosed:
		return "betting_closed"
	case StatusResolved:
		return "resolved"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status is final
func (s GameStatus) Terminal() bool {
	return s == StatusResolved || s == StatusCancelled
}

// Seat is one chair at the table; seat numbers are stable identities
// across every hand of the game.
type Seat struct {
	Number int
	Chips  int
}

// Game is a bounded sequence of hands among a fixed seat roster. All
// counters that advance hand-by-hand (hand number, dealer cursor) live
// here and are mutated only by the orchestrator.
type Game struct {
	ID                     string
	Sequence               int
	Status                 GameStatus
	HandNumber             int // number of the most recently dealt hand, 0 before the first
	MaxHands               int
	BettingClosesAfterHand int
	WinnerSeat             int
	DealerCursor           int // seat number of the last dealer, -1 before the first hand
	Seats                  []*Seat
	Commitment             shuffle.Commitment
}

// NewGame creates a game with seatCount funded seats
func NewGame(sequence, seatCount, startingChips int) *Game {
	g := &Game{
		ID:           gameid.New(),
		Sequence:     sequence,
		Status:       StatusWaiting,
		WinnerSeat:   -1,
		DealerCursor: -1,
	}
	for i := 0; i < seatCount; i++ {
		g.Seats = append(g.Seats, &Seat{Number: i, Chips: startingChips})
	}
	return g
}

// FundedSeats returns the seats still holding chips, in seat order
func (g *Game) FundedSeats() []*Seat {
	var out []*Seat
	for _, s := range g.Seats {
		if s.Chips > 0 {
			out = append(out, s)
		}
	}
	return out
}

// SeatAt returns the seat with the given number
func (g *Game) SeatAt(number int) *Seat {
	for _, s := range g.Seats {
		if s.Number == number {
			return s
		}
	}
	return nil
}

// rotateDealer advances the dealer cursor to the next funded seat in
// seat-number order, wrapping around the table.
func (g *Game) rotateDealer() *Seat {
	funded := g.FundedSeats()
	for _, s := range funded {
		if s.Number > g.DealerCursor {
			g.DealerCursor = s.Number
			return s
		}
	}
	// Wrap to the lowest funded seat.
	g.DealerCursor = funded[0].Number
	return funded[0]
}

// ShouldEnd reports whether the game must terminate: the configured hand
// budget is spent, or fewer than two seats retain chips.
func (g *Game) ShouldEnd() bool {
	return g.HandNumber >= g.MaxHands || len(g.FundedSeats()) < 2
}

// DeclareWinner picks the highest-stack seat; ties resolve to the lowest
// seat number.
func (g *Game) DeclareWinner() int {
	winner, best := -1, -1
	for _, s := range g.Seats {
		if s.Chips > best {
			winner, best = s.Number, s.Chips
		}
	}
	return winner
}

// TotalChips sums every seat's stack; constant across the whole game
func (g *Game) TotalChips() int {
	total := 0
	for _, s := range g.Seats {
		total += s.Chips
	}
	return total
}
