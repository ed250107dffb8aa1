package engine

import (
	"errors"
	"fmt"
)

// ErrRoundClosed is returned by the turn resolver when no seat owes an
// action and the betting round can advance.
var ErrRoundClosed = errors.New("betting round closed")

// ErrNoneCanAct is returned by the turn resolver when fewer than two
// non-folded, non-all-in seats remain and nobody owes a call. The hand
// state machine decides between fast-forward and default win.
var ErrNoneCanAct = errors.New("no participant can act")

// IntegrityError indicates a money-accounting violation: pot sum drift,
// a negative stack, a duplicate action for a settled seat, or zero
// eligible winners at showdown. It is fatal for the hand and must surface
// distinctly from normal game flow.
type IntegrityError struct {
	HandID string
	Reason string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity violation in hand %s: %s", e.HandID, e.Reason)
}

func integrityf(handID, format string, args ...any) error {
	return &IntegrityError{HandID: handID, Reason: fmt.Sprintf(format, args...)}
}

// IsIntegrityError reports whether err is (or wraps) an IntegrityError
func IsIntegrityError(err error) bool {
	var ie *IntegrityError
	return errors.As(err, &ie)
}
