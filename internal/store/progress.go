package store

import (
	"context"

	"github.com/phrazzld/journal-drill/internal/domain"
)

// ProgressStore persists one ProgressState per student, keyed by email.
type ProgressStore interface {
	// Get retrieves the stored state for email.
	// Returns ErrProgressNotFound if nothing has been saved.
	Get(ctx context.Context, email string) (*domain.ProgressState, error)

	// Upsert stores state for email, replacing any previous state.
	// When state.Version is positive the write only applies if it is newer
	// than the stored version; a stale write is skipped and applied is false.
	// Version zero always overwrites.
	Upsert(ctx context.Context, email string, state *domain.ProgressState) (applied bool, err error)
}

// AttemptStore is the append-only log of verification outcomes.
type AttemptStore interface {
	// Create appends an attempt. The record is validated first and
	// ErrInvalidEntity is returned when validation fails.
	Create(ctx context.Context, attempt *domain.AttemptRecord) error
}
