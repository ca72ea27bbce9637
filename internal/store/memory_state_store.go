package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/grvbrk/ytcomments/internal/models"
)

type MemoryStateStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	states map[string][]byte
}

// NewMemoryStateStore keeps states in process memory. States untouched for
// longer than ttl are treated as absent; ttl <= 0 keeps them forever.
func NewMemoryStateStore(ttl time.Duration) *MemoryStateStore {
	return &MemoryStateStore{
		ttl:    ttl,
		now:    time.Now,
		states: make(map[string][]byte),
	}
}

func (m *MemoryStateStore) Get(ctx context.Context, sessionID string) (*models.AppState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(sessionID)
}

func (m *MemoryStateStore) Update(ctx context.Context, sessionID string, fn UpdateFunc) (*models.AppState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	state, err := m.load(sessionID)
	if err != nil {
		return nil, err
	}

	if err := fn(state); err != nil {
		return nil, err
	}
	state.UpdatedAt = m.now()

	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	m.states[sessionID] = data

	return state, nil
}

func (m *MemoryStateStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, sessionID)
	return nil
}

// Sweep drops expired states and returns how many were removed.
func (m *MemoryStateStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id := range m.states {
		state, err := m.decode(id)
		if err != nil || m.expired(state) {
			delete(m.states, id)
			removed++
		}
	}
	return removed
}

// load returns a private copy so callers never alias stored slices.
func (m *MemoryStateStore) load(sessionID string) (*models.AppState, error) {
	if _, ok := m.states[sessionID]; !ok {
		return models.NewAppState(), nil
	}

	state, err := m.decode(sessionID)
	if err != nil {
		return nil, err
	}
	if m.expired(state) {
		delete(m.states, sessionID)
		return models.NewAppState(), nil
	}
	return state, nil
}

func (m *MemoryStateStore) decode(sessionID string) (*models.AppState, error) {
	var state models.AppState
	if err := json.Unmarshal(m.states[sessionID], &state); err != nil {
		return nil, fmt.Errorf("failed to decode state: %w", err)
	}
	return &state, nil
}

func (m *MemoryStateStore) expired(state *models.AppState) bool {
	return m.ttl > 0 && m.now().Sub(state.UpdatedAt) > m.ttl
}
