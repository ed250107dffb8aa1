// Package agent defines the external decision contract and the built-in
// decision sources used for unattended play and as fallbacks.
package agent

import (
	"context"
	"math/rand/v2"

	"github.com/railbirdlabs/railbird/internal/engine"
	"github.com/railbirdlabs/railbird/poker"
)

// Context is everything a decision source may consult for one decision
type Context struct {
	HandID        string
	Seat          int
	HoleCards     [2]poker.Card
	Board         []poker.Card
	Stack         int
	ToCall        int
	Pot           int
	Round         engine.Round
	BigBlind      int
	DealerSeat    int
	Opponents     int
	RecentActions []engine.ActionRecord
}

// DecisionSource chooses an action for a seat. Implementations may be
// slow or unreliable; the engine treats every decision as untrusted input
// and normalizes it before application.
type DecisionSource interface {
	Decide(ctx context.Context, dctx Context) (engine.Decision, error)
}

// Func adapts a plain function to a DecisionSource
type Func func(ctx context.Context, dctx Context) (engine.Decision, error)

// Decide implements DecisionSource
func (f Func) Decide(ctx context.Context, dctx Context) (engine.Decision, error) {
	return f(ctx, dctx)
}

// Caller checks when free and calls any bet
type Caller struct{}

// Decide implements DecisionSource
func (Caller) Decide(_ context.Context, dctx Context) (engine.Decision, error) {
	if dctx.ToCall == 0 {
		return engine.Decision{Kind: engine.Check, Reasoning: "nothing to call"}, nil
	}
	return engine.Decision{Kind: engine.Call, Reasoning: "calling station"}, nil
}

// Folder folds to any bet and checks when free
type Folder struct{}

// Decide implements DecisionSource
func (Folder) Decide(_ context.Context, dctx Context) (engine.Decision, error) {
	if dctx.ToCall == 0 {
		return engine.Decision{Kind: engine.Check, Reasoning: "free card"}, nil
	}
	return engine.Decision{Kind: engine.Fold, Reasoning: "folding to pressure"}, nil
}

// Raiser min-raises whenever it can afford to, otherwise calls
type Raiser struct{}

// Decide implements DecisionSource
func (Raiser) Decide(_ context.Context, dctx Context) (engine.Decision, error) {
	if dctx.Stack > dctx.ToCall+dctx.BigBlind {
		// Amount zero lets the applier floor the raise to the minimum.
		return engine.Decision{Kind: engine.Raise, Reasoning: "applying pressure"}, nil
	}
	if dctx.ToCall == 0 {
		return engine.Decision{Kind: engine.Check, Reasoning: "cannot afford a raise"}, nil
	}
	return engine.Decision{Kind: engine.Call, Reasoning: "cannot afford a raise"}, nil
}

// Random mixes checks, calls, raises and occasional folds; useful for
// soak-testing the engine with messy but plausible traffic.
type Random struct {
	Rand *rand.Rand
}

// Decide implements DecisionSource
func (r Random) Decide(_ context.Context, dctx Context) (engine.Decision, error) {
	roll := r.Rand.IntN(10)
	switch {
	case roll < 2 && dctx.ToCall > 0:
		return engine.Decision{Kind: engine.Fold, Reasoning: "random fold"}, nil
	case roll < 7:
		if dctx.ToCall == 0 {
			return engine.Decision{Kind: engine.Check, Reasoning: "random check"}, nil
		}
		return engine.Decision{Kind: engine.Call, Reasoning: "random call"}, nil
	case roll < 9:
		amount := dctx.ToCall + dctx.BigBlind*(1+r.Rand.IntN(3))
		return engine.Decision{Kind: engine.Raise, Amount: amount, Reasoning: "random raise"}, nil
	default:
		return engine.Decision{Kind: engine.AllIn, Reasoning: "random shove"}, nil
	}
}

// ByName returns a built-in decision source by its configured name
func ByName(name string, rng *rand.Rand) (DecisionSource, bool) {
	switch name {
	case "caller", "call":
		return Caller{}, true
	case "folder", "fold":
		return Folder{}, true
	case "raiser", "raise":
		return Raiser{}, true
	case "random", "rand":
		return Random{Rand: rng}, true
	default:
		return nil, false
	}
}
