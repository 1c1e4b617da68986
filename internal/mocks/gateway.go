package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/journal-drill/internal/domain"
	"github.com/phrazzld/journal-drill/internal/service/drill"
	"github.com/phrazzld/journal-drill/internal/store"
)

// SavedProgress is one SaveProgress call seen by MockGateway.
type SavedProgress struct {
	Email string
	State domain.ProgressState
}

// RecordedAttempt is one RecordAttempt call seen by MockGateway.
type RecordedAttempt struct {
	Email      string
	ScenarioID int
	Correct    bool
}

// MockGateway implements drill.Gateway for testing. Without function fields
// it serves Stored on load and records every write.
type MockGateway struct {
	LoadProgressFn  func(ctx context.Context, email string) (*domain.ProgressState, error)
	SaveProgressFn  func(ctx context.Context, email string, state domain.ProgressState) error
	RecordAttemptFn func(ctx context.Context, email string, scenarioID int, correct bool) error

	mu       sync.Mutex
	Stored   map[string]domain.ProgressState
	Saves    []SavedProgress
	Attempts []RecordedAttempt
}

var _ drill.Gateway = (*MockGateway)(nil)

// LoadProgress implements drill.Gateway.
func (m *MockGateway) LoadProgress(ctx context.Context, email string) (*domain.ProgressState, error) {
	if m.LoadProgressFn != nil {
		return m.LoadProgressFn(ctx, email)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.Stored[email]
	if !ok {
		return nil, store.ErrProgressNotFound
	}
	out := state.Clone()
	return &out, nil
}

// SaveProgress implements drill.Gateway.
func (m *MockGateway) SaveProgress(ctx context.Context, email string, state domain.ProgressState) error {
	m.mu.Lock()
	m.Saves = append(m.Saves, SavedProgress{Email: email, State: state.Clone()})
	m.mu.Unlock()

	if m.SaveProgressFn != nil {
		return m.SaveProgressFn(ctx, email, state)
	}
	return nil
}

// RecordAttempt implements drill.Gateway.
func (m *MockGateway) RecordAttempt(ctx context.Context, email string, scenarioID int, correct bool) error {
	m.mu.Lock()
	m.Attempts = append(m.Attempts, RecordedAttempt{Email: email, ScenarioID: scenarioID, Correct: correct})
	m.mu.Unlock()

	if m.RecordAttemptFn != nil {
		return m.RecordAttemptFn(ctx, email, scenarioID, correct)
	}
	return nil
}

// SaveCalls returns a copy of the recorded saves.
func (m *MockGateway) SaveCalls() []SavedProgress {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SavedProgress, len(m.Saves))
	copy(out, m.Saves)
	return out
}

// AttemptCalls returns a copy of the recorded attempts.
func (m *MockGateway) AttemptCalls() []RecordedAttempt {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RecordedAttempt, len(m.Attempts))
	copy(out, m.Attempts)
	return out
}
