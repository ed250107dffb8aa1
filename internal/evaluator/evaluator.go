// Package evaluator adapts the paulhankin/poker seven-card evaluator to
// the engine's Evaluator contract.
package evaluator

import (
	"fmt"
	"sort"

	pokereval "github.com/paulhankin/poker"

	"github.com/railbirdlabs/railbird/internal/engine"
	"github.com/railbirdlabs/railbird/poker"
)

// Evaluator is a stateless engine.Evaluator backed by paulhankin/poker
type Evaluator struct{}

// New returns the evaluator
func New() *Evaluator {
	return &Evaluator{}
}

// EvaluateHand ranks the best five-card hand out of two hole cards and
// five community cards. Larger ranks beat smaller ones.
func (e *Evaluator) EvaluateHand(hole [2]poker.Card, board []poker.Card) (engine.RankedHand, error) {
	seven, err := sevenCards(hole, board)
	if err != nil {
		return engine.RankedHand{}, err
	}

	rank := pokereval.Eval7(&seven)
	desc, err := pokereval.Describe(seven[:])
	if err != nil {
		return engine.RankedHand{}, fmt.Errorf("describing hand: %w", err)
	}

	return engine.RankedHand{Description: desc, Rank: int32(rank)}, nil
}

// DetermineWinners evaluates every contender and returns all ties for the
// best hand, in ascending seat order.
func (e *Evaluator) DetermineWinners(entries []engine.ShowdownEntry, board []poker.Card) ([]engine.PotWinner, error) {
	var best int32
	var winners []engine.PotWinner

	for _, entry := range entries {
		ranked, err := e.EvaluateHand(entry.HoleCards, board)
		if err != nil {
			return nil, fmt.Errorf("evaluating seat %d: %w", entry.Seat, err)
		}
		switch {
		case len(winners) == 0 || ranked.Rank > best:
			best = ranked.Rank
			winners = []engine.PotWinner{{Seat: entry.Seat, Hand: ranked}}
		case ranked.Rank == best:
			winners = append(winners, engine.PotWinner{Seat: entry.Seat, Hand: ranked})
		}
	}

	sort.Slice(winners, func(i, j int) bool { return winners[i].Seat < winners[j].Seat })
	return winners, nil
}

func sevenCards(hole [2]poker.Card, board []poker.Card) ([7]pokereval.Card, error) {
	var seven [7]pokereval.Card
	if len(board) != 5 {
		return seven, fmt.Errorf("expected 5 community cards, got %d", len(board))
	}

	for i, c := range board {
		card, err := convert(c)
		if err != nil {
			return seven, err
		}
		seven[i] = card
	}
	for i, c := range hole {
		card, err := convert(c)
		if err != nil {
			return seven, err
		}
		seven[5+i] = card
	}
	return seven, nil
}

// convert maps a card to the evaluator's representation; the evaluator
// counts aces as rank 1.
func convert(c poker.Card) (pokereval.Card, error) {
	rank := int(c.Rank)
	if c.Rank == poker.Ace {
		rank = 1
	}
	card, err := pokereval.MakeCard(pokereval.Suit(c.Suit), pokereval.Rank(rank))
	if err != nil {
		return 0, fmt.Errorf("converting card %s: %w", c, err)
	}
	return card, nil
}
