package store

import (
	"context"
	"sort"
	"sync"

	"github.com/railbirdlabs/railbird/internal/engine"
)

// MemoryStore keeps all records in process memory. It is the default for
// unattended operation without a database and for tests.
type MemoryStore struct {
	mu           sync.RWMutex
	games        map[string]GameRecord
	hands        map[string]HandRecord
	participants map[string][]ParticipantRecord
	actions      map[string][]engine.ActionRecord
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		games:        make(map[string]GameRecord),
		hands:        make(map[string]HandRecord),
		participants: make(map[string][]ParticipantRecord),
		actions:      make(map[string][]engine.ActionRecord),
	}
}

// SaveGame implements Store
func (m *MemoryStore) SaveGame(_ context.Context, g GameRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = g
	return nil
}

// GetGame implements Store
func (m *MemoryStore) GetGame(_ context.Context, id string) (GameRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.games[id]
	if !ok {
		return GameRecord{}, ErrNotFound
	}
	return g, nil
}

// SaveHand implements Store
func (m *MemoryStore) SaveHand(_ context.Context, h HandRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands[h.ID] = h
	return nil
}

// GetHand implements Store
func (m *MemoryStore) GetHand(_ context.Context, id string) (HandRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.hands[id]
	if !ok {
		return HandRecord{}, ErrNotFound
	}
	return h, nil
}

// ListHands implements Store; hands come back in deal order
func (m *MemoryStore) ListHands(_ context.Context, gameID string) ([]HandRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []HandRecord
	for _, h := range m.hands {
		if h.GameID == gameID {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

// SaveParticipants implements Store
func (m *MemoryStore) SaveParticipants(_ context.Context, handID string, ps []ParticipantRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]ParticipantRecord, len(ps))
	copy(cp, ps)
	m.participants[handID] = cp
	return nil
}

// ListParticipants implements Store
func (m *MemoryStore) ListParticipants(_ context.Context, handID string) ([]ParticipantRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ps := m.participants[handID]
	out := make([]ParticipantRecord, len(ps))
	copy(out, ps)
	return out, nil
}

// AppendAction implements Store
func (m *MemoryStore) AppendAction(_ context.Context, handID string, rec engine.ActionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions[handID] = append(m.actions[handID], rec)
	return nil
}

// ListActions implements Store; records come back in log order
func (m *MemoryStore) ListActions(_ context.Context, handID string) ([]engine.ActionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	recs := m.actions[handID]
	out := make([]engine.ActionRecord, len(recs))
	copy(out, recs)
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}
