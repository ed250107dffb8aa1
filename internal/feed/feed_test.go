package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderSnapshots(t *testing.T) {
	t.Parallel()

	r := &Recorder{}
	r.Publish(Event{Type: EventCommitment, GameID: "g1", Commitment: "abc"})
	r.Publish(Event{Type: EventHandStarted, GameID: "g1", HandNumber: 1})

	events := r.Events()
	require.Len(t, events, 2)
	assert.Equal(t, EventCommitment, events[0].Type)
	assert.Equal(t, EventHandStarted, events[1].Type)

	// The snapshot is detached from the recorder.
	r.Publish(Event{Type: EventHandResolved})
	assert.Len(t, events, 2)
	assert.Len(t, r.Events(), 3)
}

func TestMultiFansOut(t *testing.T) {
	t.Parallel()

	a, b := &Recorder{}, &Recorder{}
	m := Multi{a, b, Nop{}}
	m.Publish(Event{Type: EventSaltRevealed, Salt: "s"})

	require.Len(t, a.Events(), 1)
	require.Len(t, b.Events(), 1)
	assert.Equal(t, "s", a.Events()[0].Salt)
}
