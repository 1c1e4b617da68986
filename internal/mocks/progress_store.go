package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/journal-drill/internal/domain"
	"github.com/phrazzld/journal-drill/internal/store"
)

// MockProgressStore implements store.ProgressStore for testing
type MockProgressStore struct {
	// Function fields for customizable behavior
	GetFn    func(ctx context.Context, email string) (*domain.ProgressState, error)
	UpsertFn func(ctx context.Context, email string, state *domain.ProgressState) (bool, error)

	mu sync.Mutex
	// Data for default implementation
	States      map[string]domain.ProgressState
	GetError    error
	UpsertError error
	UpsertCalls int
}

// NewMockProgressStore creates a new mock store with initialized defaults
func NewMockProgressStore() *MockProgressStore {
	return &MockProgressStore{
		States: make(map[string]domain.ProgressState),
	}
}

var _ store.ProgressStore = (*MockProgressStore)(nil)

// Get implements the ProgressStore interface
func (m *MockProgressStore) Get(ctx context.Context, email string) (*domain.ProgressState, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, email)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetError != nil {
		return nil, m.GetError
	}
	state, ok := m.States[email]
	if !ok {
		return nil, store.ErrProgressNotFound
	}
	out := state.Clone()
	return &out, nil
}

// Upsert implements the ProgressStore interface. The default implementation
// overwrites unconditionally and reports applied.
func (m *MockProgressStore) Upsert(ctx context.Context, email string, state *domain.ProgressState) (bool, error) {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, email, state)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpsertCalls++
	if m.UpsertError != nil {
		return false, m.UpsertError
	}
	if m.States == nil {
		m.States = make(map[string]domain.ProgressState)
	}
	m.States[email] = state.Clone()
	return true, nil
}
