package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/journal-drill/internal/domain"
	"github.com/phrazzld/journal-drill/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockResult implements sql.Result for testing
type MockResult struct {
	rowsAffected int64
	err          error
}

func (m MockResult) LastInsertId() (int64, error) { return 0, m.err }
func (m MockResult) RowsAffected() (int64, error) { return m.rowsAffected, m.err }

// execOnlyDB implements store.DBTX for statements that only use ExecContext.
type execOnlyDB struct {
	result sql.Result
	err    error
	calls  int
	args   []any
}

func (d *execOnlyDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	d.calls++
	d.args = args
	return d.result, d.err
}

func (d *execOnlyDB) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	return nil, errors.New("not supported")
}

func (d *execOnlyDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return nil, errors.New("not supported")
}

func (d *execOnlyDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return nil
}

func TestProgressUpsertOutcome(t *testing.T) {
	t.Parallel()

	state := &domain.ProgressState{
		CurrentScenarioID:  2,
		CompletedScenarios: domain.CompletionMap{1: true},
		Version:            3,
	}

	tests := []struct {
		name        string
		db          *execOnlyDB
		wantApplied bool
		wantErr     error
	}{
		{name: "row written", db: &execOnlyDB{result: MockResult{rowsAffected: 1}}, wantApplied: true},
		{name: "stale write skipped", db: &execOnlyDB{result: MockResult{rowsAffected: 0}}, wantApplied: false},
		{name: "connection lost", db: &execOnlyDB{err: sql.ErrConnDone}, wantErr: store.ErrUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s := NewPostgresProgressStore(tc.db, nil)

			applied, err := s.Upsert(context.Background(), "student@example.com", state)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantApplied, applied)
			require.Len(t, tc.db.args, 4)
			assert.Equal(t, "student@example.com", tc.db.args[0])
			assert.JSONEq(t, `{"1":true}`, tc.db.args[1].(string))
			assert.Equal(t, 2, tc.db.args[2])
			assert.Equal(t, int64(3), tc.db.args[3])
		})
	}
}

func TestProgressUpsertRejectsInvalidState(t *testing.T) {
	t.Parallel()

	db := &execOnlyDB{result: MockResult{rowsAffected: 1}}
	s := NewPostgresProgressStore(db, nil)

	_, err := s.Upsert(context.Background(), "", &domain.ProgressState{CurrentScenarioID: 1})
	assert.ErrorIs(t, err, store.ErrInvalidEntity)

	_, err = s.Upsert(context.Background(), "student@example.com", nil)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)

	_, err = s.Upsert(context.Background(), "student@example.com", &domain.ProgressState{CurrentScenarioID: -3})
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	assert.Equal(t, 0, db.calls, "invalid state must not reach the database")
}

func TestAttemptCreateRejectsInvalidRecord(t *testing.T) {
	t.Parallel()

	db := &execOnlyDB{result: MockResult{rowsAffected: 1}}
	s := NewPostgresAttemptStore(db, nil)

	err := s.Create(context.Background(), nil)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)

	err = s.Create(context.Background(), &domain.AttemptRecord{})
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.Equal(t, 0, db.calls)

	record, err := domain.NewAttemptRecord("student@example.com", 1, true)
	require.NoError(t, err)
	require.NoError(t, s.Create(context.Background(), record))
	assert.Equal(t, 1, db.calls)
}

func TestAttemptCreateMapsDuplicate(t *testing.T) {
	t.Parallel()

	db := &execOnlyDB{err: &pgconn.PgError{Code: uniqueViolationCode}}
	s := NewPostgresAttemptStore(db, nil)

	record, err := domain.NewAttemptRecord("student@example.com", 1, false)
	require.NoError(t, err)

	err = s.Create(context.Background(), record)
	assert.ErrorIs(t, err, store.ErrAttemptExists)
}

func TestMigrateRejectsUnknownCommand(t *testing.T) {
	t.Parallel()

	err := Migrate(context.Background(), nil, "create", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported migration command")
}

func TestEmbeddedMigrations(t *testing.T) {
	t.Parallel()

	entries, err := migrationFS.ReadDir(migrationsDir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "00001_create_progress.sql", entries[0].Name())
	assert.Equal(t, "00002_create_attempts.sql", entries[1].Name())
}
