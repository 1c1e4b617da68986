package drill

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/journal-drill/internal/domain"
	"github.com/phrazzld/journal-drill/internal/platform/logger"
	"github.com/phrazzld/journal-drill/internal/redact"
	"github.com/phrazzld/journal-drill/internal/store"
	"github.com/phrazzld/journal-drill/internal/task"
)

// Gateway loads and saves student progress and records attempts.
type Gateway interface {
	// LoadProgress returns the stored state for email.
	// Returns store.ErrProgressNotFound when nothing has been saved.
	LoadProgress(ctx context.Context, email string) (*domain.ProgressState, error)

	// SaveProgress upserts state for email. Writes whose version is not newer
	// than the stored one are ignored; version zero always writes.
	SaveProgress(ctx context.Context, email string, state domain.ProgressState) error

	// RecordAttempt appends one verification outcome.
	RecordAttempt(ctx context.Context, email string, scenarioID int, correct bool) error
}

// StoreGateway implements Gateway synchronously on the stores.
type StoreGateway struct {
	progress store.ProgressStore
	attempts store.AttemptStore
}

// NewStoreGateway creates a synchronous gateway.
func NewStoreGateway(progress store.ProgressStore, attempts store.AttemptStore) *StoreGateway {
	if progress == nil || attempts == nil {
		panic("stores cannot be nil") // ALLOW-PANIC
	}
	return &StoreGateway{progress: progress, attempts: attempts}
}

var _ Gateway = (*StoreGateway)(nil)

// LoadProgress implements Gateway.
func (g *StoreGateway) LoadProgress(ctx context.Context, email string) (*domain.ProgressState, error) {
	return g.progress.Get(ctx, email)
}

// SaveProgress implements Gateway. A stale write is not an error.
func (g *StoreGateway) SaveProgress(ctx context.Context, email string, state domain.ProgressState) error {
	_, err := g.progress.Upsert(ctx, email, &state)
	return err
}

// RecordAttempt implements Gateway.
func (g *StoreGateway) RecordAttempt(ctx context.Context, email string, scenarioID int, correct bool) error {
	record, err := domain.NewAttemptRecord(email, scenarioID, correct)
	if err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	return g.attempts.Create(ctx, record)
}

// AsyncGateway loads synchronously but turns saves and attempts into
// background tasks. Callers never wait on the store: when the queue is full
// or closed the write is logged and dropped. There is no retry.
type AsyncGateway struct {
	progress store.ProgressStore
	attempts store.AttemptStore
	queue    task.TaskQueueWriter
	logger   *slog.Logger
}

// NewAsyncGateway creates a gateway that enqueues writes on queue.
// If logger is nil, a default logger will be used.
func NewAsyncGateway(
	progress store.ProgressStore,
	attempts store.AttemptStore,
	queue task.TaskQueueWriter,
	logger *slog.Logger,
) *AsyncGateway {
	if progress == nil || attempts == nil {
		panic("stores cannot be nil") // ALLOW-PANIC
	}
	if queue == nil {
		panic("queue cannot be nil") // ALLOW-PANIC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AsyncGateway{
		progress: progress,
		attempts: attempts,
		queue:    queue,
		logger:   logger.With(slog.String("component", "async_gateway")),
	}
}

var _ Gateway = (*AsyncGateway)(nil)

// LoadProgress implements Gateway.
func (g *AsyncGateway) LoadProgress(ctx context.Context, email string) (*domain.ProgressState, error) {
	return g.progress.Get(ctx, email)
}

// SaveProgress implements Gateway by enqueueing a SaveProgressTask.
// It always returns nil.
func (g *AsyncGateway) SaveProgress(ctx context.Context, email string, state domain.ProgressState) error {
	g.enqueue(ctx, task.NewSaveProgressTask(g.progress, email, state), email)
	return nil
}

// RecordAttempt implements Gateway by enqueueing a RecordAttemptTask.
// Invalid input is reported; queue failures are logged and dropped.
func (g *AsyncGateway) RecordAttempt(ctx context.Context, email string, scenarioID int, correct bool) error {
	record, err := domain.NewAttemptRecord(email, scenarioID, correct)
	if err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	g.enqueue(ctx, task.NewRecordAttemptTask(g.attempts, *record), email)
	return nil
}

func (g *AsyncGateway) enqueue(ctx context.Context, t task.Task, email string) {
	if err := g.queue.Enqueue(t); err != nil {
		logger.FromContextOrDefault(ctx, g.logger).Warn("persistence write dropped",
			slog.String("task_type", t.Type()),
			slog.String("email", redact.Email(email)),
			slog.String("error", err.Error()))
	}
}
