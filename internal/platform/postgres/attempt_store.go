package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/journal-drill/internal/domain"
	"github.com/phrazzld/journal-drill/internal/platform/logger"
	"github.com/phrazzld/journal-drill/internal/store"
)

// PostgresAttemptStore implements store.AttemptStore on the attempts table.
type PostgresAttemptStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAttemptStore creates an attempt store on the given connection
// or transaction. If logger is nil, a default logger will be used.
func NewPostgresAttemptStore(db store.DBTX, logger *slog.Logger) *PostgresAttemptStore {
	if db == nil {
		panic("db cannot be nil") // ALLOW-PANIC
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAttemptStore{
		db:     db,
		logger: logger.With(slog.String("component", "attempt_store")),
	}
}

// Ensure PostgresAttemptStore implements store.AttemptStore interface
var _ store.AttemptStore = (*PostgresAttemptStore)(nil)

// Create implements store.AttemptStore.Create
func (s *PostgresAttemptStore) Create(ctx context.Context, attempt *domain.AttemptRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if attempt == nil {
		return fmt.Errorf("%w: attempt is nil", store.ErrInvalidEntity)
	}
	if err := attempt.Validate(); err != nil {
		log.Warn("attempt validation failed during create", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO attempts (id, user_email, scenario_id, is_correct, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		attempt.ID,
		attempt.Email,
		attempt.ScenarioID,
		attempt.IsCorrect,
		attempt.CreatedAt,
	)
	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrDuplicate) {
			return fmt.Errorf("%w: %s", store.ErrAttemptExists, attempt.ID)
		}
		log.Error("failed to record attempt",
			slog.String("error", err.Error()),
			slog.String("attempt_id", attempt.ID.String()),
			slog.Int("scenario_id", attempt.ScenarioID))
		return store.NewStoreError("attempt", "create", "insert failed", mapped)
	}

	log.Debug("attempt recorded",
		slog.String("attempt_id", attempt.ID.String()),
		slog.Int("scenario_id", attempt.ScenarioID),
		slog.Bool("is_correct", attempt.IsCorrect))
	return nil
}
