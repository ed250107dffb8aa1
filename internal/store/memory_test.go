package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railbirdlabs/railbird/internal/engine"
)

func TestMemoryStoreGameRoundTrip(t *testing.T) {
	t.Parallel()

	m := NewMemoryStore()
	ctx := context.Background()

	_, err := m.GetGame(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	g := GameRecord{ID: "g1", Sequence: 1, Status: "betting_open", MaxHands: 50, WinnerSeat: -1, Commitment: "abc"}
	require.NoError(t, m.SaveGame(ctx, g))

	got, err := m.GetGame(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, g, got)

	// Saves are upserts.
	g.Status = "resolved"
	g.Salt = "s3cret"
	require.NoError(t, m.SaveGame(ctx, g))
	got, err = m.GetGame(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "resolved", got.Status)
	assert.Equal(t, "s3cret", got.Salt)
}

func TestMemoryStoreListHandsOrdered(t *testing.T) {
	t.Parallel()

	m := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, m.SaveHand(ctx, HandRecord{ID: "h3", GameID: "g1", Number: 3}))
	require.NoError(t, m.SaveHand(ctx, HandRecord{ID: "h1", GameID: "g1", Number: 1}))
	require.NoError(t, m.SaveHand(ctx, HandRecord{ID: "h2", GameID: "g1", Number: 2}))
	require.NoError(t, m.SaveHand(ctx, HandRecord{ID: "x1", GameID: "other", Number: 1}))

	hands, err := m.ListHands(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, hands, 3)
	for i, h := range hands {
		assert.Equal(t, i+1, h.Number)
	}
}

func TestMemoryStoreParticipantsCopied(t *testing.T) {
	t.Parallel()

	m := NewMemoryStore()
	ctx := context.Background()

	ps := []ParticipantRecord{{HandID: "h1", Seat: 0, Stack: 100}, {HandID: "h1", Seat: 1, Stack: 50}}
	require.NoError(t, m.SaveParticipants(ctx, "h1", ps))

	// Mutating the caller's slice must not leak into the store.
	ps[0].Stack = 999
	got, err := m.ListParticipants(ctx, "h1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 100, got[0].Stack)
}

func TestMemoryStoreActionsOrdered(t *testing.T) {
	t.Parallel()

	m := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, m.AppendAction(ctx, "h1", engine.ActionRecord{Seq: 1, Seat: 1, Kind: engine.Blind, Amount: 10}))
	require.NoError(t, m.AppendAction(ctx, "h1", engine.ActionRecord{Seq: 2, Seat: 2, Kind: engine.Blind, Amount: 20}))
	require.NoError(t, m.AppendAction(ctx, "h1", engine.ActionRecord{Seq: 3, Seat: 3, Kind: engine.Raise, Amount: 60}))

	recs, err := m.ListActions(ctx, "h1")
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, engine.Raise, recs[2].Kind)
	for i := 1; i < len(recs); i++ {
		assert.Greater(t, recs[i].Seq, recs[i-1].Seq)
	}

	recs, err = m.ListActions(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestParseRoundTrips(t *testing.T) {
	t.Parallel()

	for k := engine.Blind; k <= engine.AllIn; k++ {
		assert.Equal(t, k, parseKind(k.String()))
	}
	for r := engine.Preflop; r <= engine.Showdown; r++ {
		assert.Equal(t, r, parseRound(r.String()))
	}
}
