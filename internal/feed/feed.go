// Package feed carries engine events to spectators. The engine only sees
// the Publisher interface; transports live at the edge.
package feed

import "sync"

// EventType identifies a spectator event
type EventType string

const (
	EventCommitment    EventType = "commitment_published"
	EventHandStarted   EventType = "hand_started"
	EventActionApplied EventType = "action_applied"
	EventRoundAdvanced EventType = "round_advanced"
	EventHandResolved  EventType = "hand_resolved"
	EventBettingClosed EventType = "betting_closed"
	EventGameResolved  EventType = "game_resolved"
	EventSaltRevealed  EventType = "salt_revealed"
)

// Event is one spectator-visible state change
type Event struct {
	Type        EventType `json:"type"`
	GameID      string    `json:"game_id"`
	HandID      string    `json:"hand_id,omitempty"`
	HandNumber  int       `json:"hand_number,omitempty"`
	Seat        int       `json:"seat,omitempty"`
	Action      string    `json:"action,omitempty"`
	Amount      int       `json:"amount,omitempty"`
	Round       string    `json:"round,omitempty"`
	Board       []string  `json:"board,omitempty"`
	Pot         int       `json:"pot,omitempty"`
	WinnerSeat  int       `json:"winner_seat,omitempty"`
	WinningHand string    `json:"winning_hand,omitempty"`
	Commitment  string    `json:"commitment,omitempty"`
	Salt        string    `json:"salt,omitempty"`
}

// Publisher receives events as they happen. Publish must not block the
// game loop for long; implementations drop slow consumers instead.
type Publisher interface {
	Publish(ev Event)
}

// Nop discards all events
type Nop struct{}

// Publish implements Publisher
func (Nop) Publish(Event) {}

// Multi fans events out to several publishers
type Multi []Publisher

// Publish implements Publisher
func (m Multi) Publish(ev Event) {
	for _, p := range m {
		p.Publish(ev)
	}
}

// Recorder keeps every published event; test helper
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Publish implements Publisher
func (r *Recorder) Publish(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns a snapshot of everything published so far
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
