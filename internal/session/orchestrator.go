package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/railbirdlabs/railbird/internal/agent"
	"github.com/railbirdlabs/railbird/internal/engine"
	"github.com/railbirdlabs/railbird/internal/feed"
	"github.com/railbirdlabs/railbird/internal/gameid"
	"github.com/railbirdlabs/railbird/internal/shuffle"
	"github.com/railbirdlabs/railbird/internal/store"
	"github.com/railbirdlabs/railbird/poker"
)

const recentActionWindow = 12

var errDecisionTimeout = errors.New("decision timed out")

// Params configures an orchestrator. Game, Store, Evaluator and Sources
// are required; everything else has a sensible default.
type Params struct {
	Game      *Game
	Store     store.Store
	Feed      feed.Publisher
	Evaluator engine.Evaluator
	Sources   map[int]agent.DecisionSource // by seat number
	Logger    *log.Logger
	Clock     quartz.Clock

	SmallBlind      int
	BigBlind        int
	BettingWindow   time.Duration // pause before the first voluntary action of each hand
	DecisionTimeout time.Duration
	DecisionRetries int
}

// Orchestrator drives one game from commitment to salt reveal. It owns
// the game's mutable state; Run is the only entry point and runs hands
// strictly one at a time.
type Orchestrator struct {
	game    *Game
	store   store.Store
	feed    feed.Publisher
	eval    engine.Evaluator
	sources map[int]agent.DecisionSource
	logger  *log.Logger
	clock   quartz.Clock

	smallBlind      int
	bigBlind        int
	bettingWindow   time.Duration
	decisionTimeout time.Duration
	decisionRetries int
}

// New creates an orchestrator for a single game
func New(p Params) *Orchestrator {
	if p.Feed == nil {
		p.Feed = feed.Nop{}
	}
	if p.Logger == nil {
		p.Logger = log.Default()
	}
	if p.Clock == nil {
		p.Clock = quartz.NewReal()
	}
	if p.DecisionTimeout == 0 {
		p.DecisionTimeout = 5 * time.Second
	}
	if p.DecisionRetries == 0 {
		p.DecisionRetries = 1
	}
	return &Orchestrator{
		game:            p.Game,
		store:           p.Store,
		feed:            p.Feed,
		eval:            p.Evaluator,
		sources:         p.Sources,
		logger:          p.Logger.WithPrefix("session").With("game", p.Game.ID),
		clock:           p.Clock,
		smallBlind:      p.SmallBlind,
		bigBlind:        p.BigBlind,
		bettingWindow:   p.BettingWindow,
		decisionTimeout: p.DecisionTimeout,
		decisionRetries: p.DecisionRetries,
	}
}

// Game returns the game this orchestrator drives
func (o *Orchestrator) Game() *Game {
	return o.game
}

// Run plays the game to completion: publish the commitment, deal hands
// until the hand budget is spent or one seat holds all the chips, then
// declare the winner and reveal the salt. Integrity failures halt the
// game immediately with the game marked cancelled.
func (o *Orchestrator) Run(ctx context.Context) error {
	commitment, err := shuffle.GenerateCommitment()
	if err != nil {
		return fmt.Errorf("generating commitment: %w", err)
	}
	o.game.Commitment = commitment
	o.game.Status = StatusBettingOpen

	if err := o.persistGame(ctx); err != nil {
		return err
	}
	o.feed.Publish(feed.Event{
		Type:       feed.EventCommitment,
		GameID:     o.game.ID,
		Commitment: commitment.Hash,
	})
	o.logger.Info("game started", "seats", len(o.game.Seats), "max_hands", o.game.MaxHands)

	for !o.game.ShouldEnd() {
		if err := ctx.Err(); err != nil {
			o.cancel(err)
			return err
		}
		if err := o.playHand(ctx); err != nil {
			o.cancel(err)
			return err
		}
	}

	return o.resolve(ctx)
}

// playHand deals one hand and drives it to resolution
func (o *Orchestrator) playHand(ctx context.Context) error {
	o.game.HandNumber++
	if o.game.Status == StatusBettingOpen && o.game.HandNumber > o.game.BettingClosesAfterHand {
		o.game.Status = StatusBettingClosed
		if err := o.persistGame(ctx); err != nil {
			return err
		}
		o.feed.Publish(feed.Event{
			Type:       feed.EventBettingClosed,
			GameID:     o.game.ID,
			HandNumber: o.game.HandNumber,
		})
		o.logger.Info("spectator betting closed", "hand", o.game.HandNumber)
	}

	dealer := o.game.rotateDealer()
	funded := o.game.FundedSeats()

	dealerIdx := 0
	stakes := make([]engine.SeatStake, 0, len(funded))
	for i, s := range funded {
		if s.Number == dealer.Number {
			dealerIdx = i
		}
		stakes = append(stakes, engine.SeatStake{Seat: s.Number, Chips: s.Chips})
	}

	hand := engine.NewHand(engine.HandConfig{
		ID:              gameid.New(),
		GameID:          o.game.ID,
		Number:          o.game.HandNumber,
		Deck:            shuffle.DeckForHand(o.game.Commitment.Salt, o.game.HandNumber),
		Seats:           stakes,
		DealerIdx:       dealerIdx,
		SmallBlind:      o.smallBlind,
		BigBlind:        o.bigBlind,
		BettingClosesAt: o.clock.Now().Add(o.bettingWindow),
	})

	if err := o.persistGame(ctx); err != nil {
		return err
	}
	if err := o.persistHand(ctx, hand); err != nil {
		return err
	}
	o.feed.Publish(feed.Event{
		Type:       feed.EventHandStarted,
		GameID:     o.game.ID,
		HandID:     hand.ID,
		HandNumber: hand.Number,
		Seat:       dealer.Number,
		Pot:        hand.Pot,
	})
	o.logger.Info("hand dealt", "hand", hand.Number, "dealer", dealer.Number, "players", len(stakes))

	if o.bettingWindow > 0 {
		if err := o.sleep(ctx, o.bettingWindow); err != nil {
			return err
		}
	}
	hand.BeginPlay()

	if err := o.driveHand(ctx, hand); err != nil {
		return err
	}

	// Carry final stacks back to the table.
	for _, p := range hand.Participants {
		o.game.SeatAt(p.Seat).Chips = p.Stack
		if p.Stack == 0 {
			o.logger.Info("seat eliminated", "hand", hand.Number, "seat", p.Seat)
		}
	}

	if err := o.persistHand(ctx, hand); err != nil {
		return err
	}
	if err := o.persistParticipants(ctx, hand); err != nil {
		return err
	}
	o.feed.Publish(feed.Event{
		Type:        feed.EventHandResolved,
		GameID:      o.game.ID,
		HandID:      hand.ID,
		HandNumber:  hand.Number,
		Board:       poker.CardStrings(hand.Board),
		Pot:         hand.Pot,
		WinnerSeat:  hand.WinnerSeat,
		WinningHand: hand.WinningHand,
	})
	o.logger.Info("hand resolved",
		"hand", hand.Number, "winner", hand.WinnerSeat, "pot", hand.Pot, "hand_rank", hand.WinningHand)

	return nil
}

// driveHand loops the betting state machine until the hand settles
func (o *Orchestrator) driveHand(ctx context.Context, hand *engine.Hand) error {
	for !hand.Resolved() {
		if err := ctx.Err(); err != nil {
			return err
		}

		if len(hand.NonFolded()) == 1 {
			return hand.Settle(o.eval)
		}

		idx, err := hand.NextToAct()
		switch {
		case err == nil:
			if err := o.applyDecision(ctx, hand, idx); err != nil {
				return err
			}
		case errors.Is(err, engine.ErrRoundClosed):
			if hand.Round == engine.River {
				hand.AdvanceRound()
				return hand.Settle(o.eval)
			}
			hand.AdvanceRound()
			o.publishRound(hand)
			if err := o.persistHand(ctx, hand); err != nil {
				return err
			}
		case errors.Is(err, engine.ErrNoneCanAct):
			hand.RunOutBoard()
			o.publishRound(hand)
			return hand.Settle(o.eval)
		default:
			return err
		}
	}
	return nil
}

// applyDecision solicits one decision, normalizes it through the engine
// and records the outcome.
func (o *Orchestrator) applyDecision(ctx context.Context, hand *engine.Hand, idx int) error {
	p := hand.Participants[idx]
	decision := o.solicitDecision(ctx, hand, p)

	rec, err := hand.Apply(p.Seat, decision)
	if err != nil {
		return err
	}

	if err := o.store.AppendAction(ctx, hand.ID, rec); err != nil {
		return fmt.Errorf("appending action: %w", err)
	}
	o.feed.Publish(feed.Event{
		Type:       feed.EventActionApplied,
		GameID:     o.game.ID,
		HandID:     hand.ID,
		HandNumber: hand.Number,
		Seat:       rec.Seat,
		Action:     rec.Kind.String(),
		Amount:     rec.Amount,
		Round:      rec.Round.String(),
		Pot:        hand.Pot,
	})
	o.logger.Debug("action applied",
		"hand", hand.Number, "seat", rec.Seat, "action", rec.Kind, "amount", rec.Amount, "pot", hand.Pot)

	return nil
}

// solicitDecision asks the seat's decision source with a timeout and a
// bounded number of retries. A source that stays unresponsive folds, or
// checks when no call is owed, so the hand always makes progress.
func (o *Orchestrator) solicitDecision(ctx context.Context, hand *engine.Hand, p *engine.Participant) engine.Decision {
	src, ok := o.sources[p.Seat]
	if !ok {
		src = agent.Folder{}
	}

	dctx := o.decisionContext(hand, p)
	for attempt := 0; attempt <= o.decisionRetries; attempt++ {
		d, err := o.decideWithTimeout(ctx, src, dctx)
		if err == nil {
			return d
		}
		o.logger.Warn("decision source failed",
			"hand", hand.Number, "seat", p.Seat, "attempt", attempt+1, "err", err)
	}

	if dctx.ToCall == 0 {
		return engine.Decision{Kind: engine.Check, Reasoning: "decision source unresponsive"}
	}
	return engine.Decision{Kind: engine.Fold, Reasoning: "decision source unresponsive"}
}

func (o *Orchestrator) decisionContext(hand *engine.Hand, p *engine.Participant) agent.Context {
	recent := hand.Log
	if len(recent) > recentActionWindow {
		recent = recent[len(recent)-recentActionWindow:]
	}
	return agent.Context{
		HandID:        hand.ID,
		Seat:          p.Seat,
		HoleCards:     p.HoleCards,
		Board:         hand.Board,
		Stack:         p.Stack,
		ToCall:        hand.TableBet() - p.Bet,
		Pot:           hand.Pot,
		Round:         hand.Round,
		BigBlind:      hand.BigBlind,
		DealerSeat:    hand.Participants[hand.DealerIdx].Seat,
		Opponents:     len(hand.NonFolded()) - 1,
		RecentActions: recent,
	}
}

type decisionResult struct {
	d   engine.Decision
	err error
}

func (o *Orchestrator) decideWithTimeout(ctx context.Context, src agent.DecisionSource, dctx agent.Context) (engine.Decision, error) {
	// Each attempt gets its own context so an abandoned attempt releases
	// its goroutine instead of lingering for the rest of the game.
	attemptCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan decisionResult, 1)
	go func() {
		d, err := src.Decide(attemptCtx, dctx)
		results <- decisionResult{d: d, err: err}
	}()

	expired := make(chan struct{})
	timer := o.clock.AfterFunc(o.decisionTimeout, func() {
		close(expired)
	})
	defer timer.Stop()

	select {
	case r := <-results:
		return r.d, r.err
	case <-expired:
		return engine.Decision{}, errDecisionTimeout
	case <-ctx.Done():
		return engine.Decision{}, ctx.Err()
	}
}

// resolve declares the winner and reveals the salt so spectators can
// verify every deck dealt during the game.
func (o *Orchestrator) resolve(ctx context.Context) error {
	o.game.WinnerSeat = o.game.DeclareWinner()
	o.game.Status = StatusResolved
	if err := o.persistGame(ctx); err != nil {
		return err
	}

	o.feed.Publish(feed.Event{
		Type:       feed.EventGameResolved,
		GameID:     o.game.ID,
		HandNumber: o.game.HandNumber,
		WinnerSeat: o.game.WinnerSeat,
	})
	o.feed.Publish(feed.Event{
		Type:       feed.EventSaltRevealed,
		GameID:     o.game.ID,
		Commitment: o.game.Commitment.Hash,
		Salt:       o.game.Commitment.Salt,
	})
	o.logger.Info("game resolved",
		"winner", o.game.WinnerSeat, "hands", o.game.HandNumber, "salt", o.game.Commitment.Salt)

	return nil
}

// cancel marks the game cancelled after a fatal error. The salt stays
// secret; a cancelled game settles no spectator bets.
func (o *Orchestrator) cancel(cause error) {
	o.game.Status = StatusCancelled
	o.logger.Error("game cancelled", "err", cause)
	// Best effort; the caller already has the original error.
	if err := o.persistGame(context.Background()); err != nil {
		o.logger.Error("persisting cancelled game", "err", err)
	}
}

func (o *Orchestrator) publishRound(hand *engine.Hand) {
	o.feed.Publish(feed.Event{
		Type:       feed.EventRoundAdvanced,
		GameID:     o.game.ID,
		HandID:     hand.ID,
		HandNumber: hand.Number,
		Round:      hand.Round.String(),
		Board:      poker.CardStrings(hand.Board),
		Pot:        hand.Pot,
	})
}

func (o *Orchestrator) sleep(ctx context.Context, d time.Duration) error {
	done := make(chan struct{})
	timer := o.clock.AfterFunc(d, func() {
		close(done)
	})
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (o *Orchestrator) persistGame(ctx context.Context) error {
	err := o.store.SaveGame(ctx, store.GameRecord{
		ID:                     o.game.ID,
		Sequence:               o.game.Sequence,
		Status:                 o.game.Status.String(),
		HandNumber:             o.game.HandNumber,
		MaxHands:               o.game.MaxHands,
		BettingClosesAfterHand: o.game.BettingClosesAfterHand,
		WinnerSeat:             o.game.WinnerSeat,
		Commitment:             o.game.Commitment.Hash,
		Salt:                   o.revealedSalt(),
	})
	if err != nil {
		return fmt.Errorf("saving game: %w", err)
	}
	return nil
}

// revealedSalt keeps the salt out of storage until the game resolves
func (o *Orchestrator) revealedSalt() string {
	if o.game.Status == StatusResolved {
		return o.game.Commitment.Salt
	}
	return ""
}

func (o *Orchestrator) persistHand(ctx context.Context, hand *engine.Hand) error {
	err := o.store.SaveHand(ctx, store.HandRecord{
		ID:          hand.ID,
		GameID:      hand.GameID,
		Number:      hand.Number,
		Status:      hand.State().String(),
		Round:       hand.Round.String(),
		Board:       poker.CardStrings(hand.Board),
		Pot:         hand.Pot,
		DealerSeat:  hand.Participants[hand.DealerIdx].Seat,
		WinnerSeat:  hand.WinnerSeat,
		WinningHand: hand.WinningHand,
	})
	if err != nil {
		return fmt.Errorf("saving hand: %w", err)
	}
	return nil
}

func (o *Orchestrator) persistParticipants(ctx context.Context, hand *engine.Hand) error {
	records := make([]store.ParticipantRecord, 0, len(hand.Participants))
	for _, p := range hand.Participants {
		records = append(records, store.ParticipantRecord{
			HandID:      hand.ID,
			Seat:        p.Seat,
			Stack:       p.Stack,
			Contributed: p.Contributed,
			Refunded:    p.Refunded,
			Folded:      p.Folded,
			AllIn:       p.AllIn,
		})
	}
	if err := o.store.SaveParticipants(ctx, hand.ID, records); err != nil {
		return fmt.Errorf("saving participants: %w", err)
	}
	return nil
}
