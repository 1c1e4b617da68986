package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/journal-drill/internal/domain"
	"github.com/phrazzld/journal-drill/internal/platform/logger"
	"github.com/phrazzld/journal-drill/internal/store"
)

// PostgresProgressStore implements store.ProgressStore on the progress table.
type PostgresProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressStore creates a progress store on the given connection
// or transaction. If logger is nil, a default logger will be used.
func NewPostgresProgressStore(db store.DBTX, logger *slog.Logger) *PostgresProgressStore {
	if db == nil {
		panic("db cannot be nil") // ALLOW-PANIC
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

// Ensure PostgresProgressStore implements store.ProgressStore interface
var _ store.ProgressStore = (*PostgresProgressStore)(nil)

// Get implements store.ProgressStore.Get
func (s *PostgresProgressStore) Get(ctx context.Context, email string) (*domain.ProgressState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT completed_scenarios, current_id, version
		FROM progress
		WHERE user_email = $1
	`

	var (
		completed []byte
		state     domain.ProgressState
	)
	err := s.db.QueryRowContext(ctx, query, email).Scan(&completed, &state.CurrentScenarioID, &state.Version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("no stored progress")
			return nil, store.ErrProgressNotFound
		}
		log.Error("failed to load progress", slog.String("error", err.Error()))
		return nil, store.NewStoreError("progress", "get", "query failed", MapError(err))
	}

	state.CompletedScenarios = domain.CompletionMap{}
	if len(completed) > 0 {
		if err := json.Unmarshal(completed, &state.CompletedScenarios); err != nil {
			return nil, store.NewStoreError("progress", "get", "stored completion map is malformed",
				fmt.Errorf("%w: %v", store.ErrInvalidEntity, err))
		}
	}

	return &state, nil
}

// Upsert implements store.ProgressStore.Upsert.
// The version guard lives in the ON CONFLICT clause so that concurrent
// writers cannot interleave a read and a write.
func (s *PostgresProgressStore) Upsert(ctx context.Context, email string, state *domain.ProgressState) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := validateProgress(email, state); err != nil {
		log.Warn("progress validation failed during upsert", slog.String("error", err.Error()))
		return false, err
	}

	completed := state.CompletedScenarios
	if completed == nil {
		completed = domain.CompletionMap{}
	}
	payload, err := json.Marshal(completed)
	if err != nil {
		return false, store.NewStoreError("progress", "upsert", "failed to encode completion map", err)
	}

	query := `
		INSERT INTO progress (user_email, completed_scenarios, current_id, version, updated_at)
		VALUES ($1, $2::jsonb, $3, $4, NOW())
		ON CONFLICT (user_email) DO UPDATE
		SET completed_scenarios = EXCLUDED.completed_scenarios,
		    current_id = EXCLUDED.current_id,
		    version = EXCLUDED.version,
		    updated_at = NOW()
		WHERE EXCLUDED.version = 0 OR progress.version < EXCLUDED.version
	`
	result, err := s.db.ExecContext(ctx, query, email, string(payload), state.CurrentScenarioID, state.Version)
	if err != nil {
		log.Error("failed to upsert progress", slog.String("error", err.Error()))
		return false, store.NewStoreError("progress", "upsert", "statement failed", MapError(err))
	}

	n, err := rowsAffected(result)
	if err != nil {
		return false, store.NewStoreError("progress", "upsert", "unknown outcome", err)
	}
	if n == 0 {
		log.Debug("stale progress write skipped", slog.Int64("version", state.Version))
		return false, nil
	}

	log.Debug("progress saved",
		slog.Int("current_id", state.CurrentScenarioID),
		slog.Int64("version", state.Version))
	return true, nil
}

// validateProgress wraps domain validation failures in store.ErrInvalidEntity.
func validateProgress(email string, state *domain.ProgressState) error {
	if email == "" {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrInvalidEmail)
	}
	if state == nil {
		return fmt.Errorf("%w: progress state is nil", store.ErrInvalidEntity)
	}
	if err := state.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	return nil
}
