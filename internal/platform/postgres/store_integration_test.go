package postgres_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/journal-drill/internal/domain"
	"github.com/phrazzld/journal-drill/internal/platform/postgres"
	"github.com/phrazzld/journal-drill/internal/store"
	"github.com/phrazzld/journal-drill/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEmail() string {
	return "student-" + uuid.NewString() + "@example.com"
}

func TestPostgresProgressStoreRoundTrip(t *testing.T) {
	db := testdb.Open(t)
	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		s := postgres.NewPostgresProgressStore(tx, nil)
		email := testEmail()

		_, err := s.Get(ctx, email)
		assert.ErrorIs(t, err, store.ErrProgressNotFound)

		applied, err := s.Upsert(ctx, email, &domain.ProgressState{
			CurrentScenarioID:  2,
			CompletedScenarios: domain.CompletionMap{1: true},
			Version:            2,
		})
		require.NoError(t, err)
		assert.True(t, applied)

		got, err := s.Get(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, 2, got.CurrentScenarioID)
		assert.Equal(t, domain.CompletionMap{1: true}, got.CompletedScenarios)
		assert.Equal(t, int64(2), got.Version)
	})
}

func TestPostgresProgressStoreVersionGuard(t *testing.T) {
	db := testdb.Open(t)
	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		s := postgres.NewPostgresProgressStore(tx, nil)
		email := testEmail()

		newer := &domain.ProgressState{CurrentScenarioID: 3, CompletedScenarios: domain.CompletionMap{1: true, 2: true}, Version: 5}
		stale := &domain.ProgressState{CurrentScenarioID: 2, CompletedScenarios: domain.CompletionMap{1: true}, Version: 4}

		applied, err := s.Upsert(ctx, email, newer)
		require.NoError(t, err)
		require.True(t, applied)

		applied, err = s.Upsert(ctx, email, stale)
		require.NoError(t, err)
		assert.False(t, applied, "older version must be ignored")

		applied, err = s.Upsert(ctx, email, newer)
		require.NoError(t, err)
		assert.False(t, applied, "same version must be ignored")

		got, err := s.Get(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, 3, got.CurrentScenarioID)

		legacy := &domain.ProgressState{CurrentScenarioID: 1, CompletedScenarios: domain.CompletionMap{}}
		applied, err = s.Upsert(ctx, email, legacy)
		require.NoError(t, err)
		assert.True(t, applied, "version zero writes unconditionally")

		got, err = s.Get(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, 1, got.CurrentScenarioID)
		assert.Empty(t, got.CompletedScenarios)
	})
}

func TestPostgresAttemptStoreCreate(t *testing.T) {
	db := testdb.Open(t)
	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		s := postgres.NewPostgresAttemptStore(tx, nil)

		record, err := domain.NewAttemptRecord(testEmail(), 3, true)
		require.NoError(t, err)

		require.NoError(t, s.Create(ctx, record))

		var count int
		err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM attempts WHERE id = $1`, record.ID).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		err = s.Create(ctx, record)
		assert.ErrorIs(t, err, store.ErrAttemptExists)
	})
}
