package task

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/phrazzld/journal-drill/internal/domain"
	"github.com/phrazzld/journal-drill/internal/store"
)

// SaveProgressTask writes a snapshot of one student's progress.
type SaveProgressTask struct {
	id    uuid.UUID
	email string
	state domain.ProgressState
	store store.ProgressStore
}

// NewSaveProgressTask snapshots state so later transitions cannot change
// what this task writes.
func NewSaveProgressTask(s store.ProgressStore, email string, state domain.ProgressState) *SaveProgressTask {
	return &SaveProgressTask{
		id:    uuid.New(),
		email: email,
		state: state.Clone(),
		store: s,
	}
}

// ID implements Task.
func (t *SaveProgressTask) ID() uuid.UUID { return t.id }

// Type implements Task.
func (t *SaveProgressTask) Type() string { return TaskTypeSaveProgress }

// Email returns the student the task writes for.
func (t *SaveProgressTask) Email() string { return t.email }

// State returns the snapshot the task will write.
func (t *SaveProgressTask) State() domain.ProgressState { return t.state.Clone() }

// Execute implements Task. A stale write skipped by the store is not an error.
func (t *SaveProgressTask) Execute(ctx context.Context) error {
	state := t.state.Clone()
	if _, err := t.store.Upsert(ctx, t.email, &state); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// RecordAttemptTask appends one attempt to the log.
type RecordAttemptTask struct {
	id      uuid.UUID
	attempt domain.AttemptRecord
	store   store.AttemptStore
}

// NewRecordAttemptTask wraps a validated attempt record.
func NewRecordAttemptTask(s store.AttemptStore, attempt domain.AttemptRecord) *RecordAttemptTask {
	return &RecordAttemptTask{
		id:      uuid.New(),
		attempt: attempt,
		store:   s,
	}
}

// ID implements Task.
func (t *RecordAttemptTask) ID() uuid.UUID { return t.id }

// Type implements Task.
func (t *RecordAttemptTask) Type() string { return TaskTypeRecordAttempt }

// Attempt returns the record the task will append.
func (t *RecordAttemptTask) Attempt() domain.AttemptRecord { return t.attempt }

// Execute implements Task.
func (t *RecordAttemptTask) Execute(ctx context.Context) error {
	attempt := t.attempt
	if err := t.store.Create(ctx, &attempt); err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}
	return nil
}
