// Package store is the persistence boundary for games, hands,
// participants and action logs. The engine never sees SQL; it reads and
// writes flat records through the Store interface.
package store

import (
	"context"
	"errors"

	"github.com/railbirdlabs/railbird/internal/engine"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("record not found")

// GameRecord is the persisted view of a game
type GameRecord struct {
	ID                     string
	Sequence               int
	Status                 string
	HandNumber             int
	MaxHands               int
	BettingClosesAfterHand int
	WinnerSeat             int
	Commitment             string
	Salt                   string // empty until revealed
}

// HandRecord is the persisted view of a hand
type HandRecord struct {
	ID          string
	GameID      string
	Number      int
	Status      string
	Round       string
	Board       []string
	Pot         int
	DealerSeat  int
	WinnerSeat  int
	WinningHand string
}

// ParticipantRecord is one seat's archived state for a hand
type ParticipantRecord struct {
	HandID      string
	Seat        int
	Stack       int
	Contributed int
	Refunded    int
	Folded      bool
	AllIn       bool
}

// Store persists the engine's records. Implementations must be safe for
// use from multiple games at once; writes for a single hand always come
// from one goroutine.
type Store interface {
	SaveGame(ctx context.Context, g GameRecord) error
	GetGame(ctx context.Context, id string) (GameRecord, error)

	SaveHand(ctx context.Context, h HandRecord) error
	GetHand(ctx context.Context, id string) (HandRecord, error)
	ListHands(ctx context.Context, gameID string) ([]HandRecord, error)

	SaveParticipants(ctx context.Context, handID string, ps []ParticipantRecord) error
	ListParticipants(ctx context.Context, handID string) ([]ParticipantRecord, error)

	AppendAction(ctx context.Context, handID string, rec engine.ActionRecord) error
	ListActions(ctx context.Context, handID string) ([]engine.ActionRecord, error)
}
