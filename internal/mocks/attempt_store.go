package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/journal-drill/internal/domain"
	"github.com/phrazzld/journal-drill/internal/store"
)

// MockAttemptStore implements store.AttemptStore for testing
type MockAttemptStore struct {
	CreateFn func(ctx context.Context, attempt *domain.AttemptRecord) error

	mu          sync.Mutex
	Attempts    []domain.AttemptRecord
	CreateError error
}

var _ store.AttemptStore = (*MockAttemptStore)(nil)

// Create implements the AttemptStore interface
func (m *MockAttemptStore) Create(ctx context.Context, attempt *domain.AttemptRecord) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, attempt)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateError != nil {
		return m.CreateError
	}
	m.Attempts = append(m.Attempts, *attempt)
	return nil
}

// Recorded returns a copy of the attempts stored so far.
func (m *MockAttemptStore) Recorded() []domain.AttemptRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.AttemptRecord, len(m.Attempts))
	copy(out, m.Attempts)
	return out
}
