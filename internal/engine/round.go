// Package engine implements the hand orchestration core: the betting-round
// state machine, turn-order resolution, action application with capping,
// side-pot construction and showdown settlement. The engine is logically
// single-threaded per hand; callers serialize invocations per hand.
package engine

// Round represents a betting street
type Round int

const (
	Preflop Round = iota
	Flop
	Turn
	River
	Showdown
)

func (r Round) String() string {
	switch r {
	case Preflop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	case Showdown:
		return "showdown"
	default:
		return "unknown"
	}
}

// ActionKind identifies one kind of forced or voluntary action
type ActionKind int

const (
	Blind ActionKind = iota
	Fold
	Check
	Call
	Raise
	AllIn
)

func (k ActionKind) String() string {
	switch k {
	case Blind:
		return "blind"
	case Fold:
		return "fold"
	case Check:
		return "check"
	case Call:
		return "call"
	case Raise:
		return "raise"
	case AllIn:
		return "allin"
	default:
		return "unknown"
	}
}

// Decision is the tagged action payload handed to the applier. It is
// treated as untrusted input: the applier normalizes and caps it rather
// than rejecting it, so there is always a legal next state.
type Decision struct {
	Kind      ActionKind
	Amount    int // requested total bet for Raise; ignored otherwise
	Reasoning string
}

// ActionRecord is one entry of a hand's append-only action log. Records
// are immutable once written; their total order (Seq) is the sole source
// of truth the turn resolver consults.
type ActionRecord struct {
	Seat   int
	Kind   ActionKind
	Amount int // chips actually moved by this action, not the requested amount
	Round  Round
	Seq    int
}

// aggressive reports whether the record reopens betting for seats that
// already acted this round
func (a ActionRecord) aggressive() bool {
	return a.Kind == Raise || a.Kind == AllIn
}

// HandStatus represents the hand-level lifecycle
type HandStatus int

const (
	HandBettingOpen HandStatus = iota
	HandPlaying
	HandResolved
)

func (s HandStatus) String() string {
	switch s {
	case HandBettingOpen:
		return "betting_open"
	case HandPlaying:
		return "playing"
	case HandResolved:
		return "resolved"
	default:
		return "unknown"
	}
}
