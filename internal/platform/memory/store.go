// Package memory implements the store interfaces in process memory for local
// runs and tests. Nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/phrazzld/journal-drill/internal/domain"
	"github.com/phrazzld/journal-drill/internal/store"
)

// Store implements store.ProgressStore and store.AttemptStore.
type Store struct {
	mu         sync.RWMutex
	progress   map[string]domain.ProgressState
	attempts   map[string][]domain.AttemptRecord
	attemptIDs map[uuid.UUID]struct{}
	logger     *slog.Logger
}

// New creates an empty store. If logger is nil, a default logger will be used.
func New(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		progress:   make(map[string]domain.ProgressState),
		attempts:   make(map[string][]domain.AttemptRecord),
		attemptIDs: make(map[uuid.UUID]struct{}),
		logger:     logger.With(slog.String("component", "memory_store")),
	}
}

var (
	_ store.ProgressStore = (*Store)(nil)
	_ store.AttemptStore  = (*Store)(nil)
)

// Get implements store.ProgressStore.Get
func (s *Store) Get(ctx context.Context, email string) (*domain.ProgressState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.progress[email]
	if !ok {
		return nil, store.ErrProgressNotFound
	}
	out := state.Clone()
	return &out, nil
}

// Upsert implements store.ProgressStore.Upsert
func (s *Store) Upsert(ctx context.Context, email string, state *domain.ProgressState) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if email == "" {
		return false, fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrInvalidEmail)
	}
	if state == nil {
		return false, fmt.Errorf("%w: progress state is nil", store.ErrInvalidEntity)
	}
	if err := state.Validate(); err != nil {
		return false, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.progress[email]; ok && state.Version > 0 && current.Version >= state.Version {
		s.logger.Debug("stale progress write skipped", slog.Int64("version", state.Version))
		return false, nil
	}
	s.progress[email] = state.Clone()
	return true, nil
}

// Create implements store.AttemptStore.Create
func (s *Store) Create(ctx context.Context, attempt *domain.AttemptRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if attempt == nil {
		return fmt.Errorf("%w: attempt is nil", store.ErrInvalidEntity)
	}
	if err := attempt.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.attemptIDs[attempt.ID]; dup {
		return fmt.Errorf("%w: %s", store.ErrAttemptExists, attempt.ID)
	}
	s.attemptIDs[attempt.ID] = struct{}{}
	s.attempts[attempt.Email] = append(s.attempts[attempt.Email], *attempt)
	return nil
}

// Attempts returns the attempts recorded for email, oldest first.
func (s *Store) Attempts(ctx context.Context, email string) ([]domain.AttemptRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.AttemptRecord, len(s.attempts[email]))
	copy(out, s.attempts[email])
	return out, nil
}
