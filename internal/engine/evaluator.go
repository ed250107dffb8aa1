package engine

import "github.com/railbirdlabs/railbird/poker"

// RankedHand is the result of evaluating a seven-card hand. Rank is
// totally ordered; a larger rank beats a smaller one.
type RankedHand struct {
	Description string
	Rank        int32
}

// ShowdownEntry is one contender presented to the winner resolver
type ShowdownEntry struct {
	Seat      int
	HoleCards [2]poker.Card
}

// PotWinner is one seat awarded (a share of) a pot
type PotWinner struct {
	Seat int
	Hand RankedHand
}

// Evaluator ranks hands at showdown. Implementations must be pure and
// deterministic; DetermineWinners returns every tie for best hand, in
// ascending seat order.
type Evaluator interface {
	EvaluateHand(hole [2]poker.Card, board []poker.Card) (RankedHand, error)
	DetermineWinners(entries []ShowdownEntry, board []poker.Card) ([]PotWinner, error)
}
