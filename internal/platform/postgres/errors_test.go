package postgres_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/journal-drill/internal/platform/postgres"
	"github.com/phrazzld/journal-drill/internal/store"
	"github.com/stretchr/testify/assert"
)

// Mock PgError creation helper
func newPgError(code string) *pgconn.PgError {
	return &pgconn.PgError{
		Code:           code,
		Message:        "error message",
		SchemaName:     "public",
		TableName:      "progress",
		ColumnName:     "current_id",
		ConstraintName: "progress_current_id_check",
	}
}

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{name: "no rows", err: sql.ErrNoRows, expected: store.ErrNotFound},
		{name: "unique violation", err: newPgError("23505"), expected: store.ErrDuplicate},
		{name: "check violation", err: newPgError("23514"), expected: store.ErrInvalidEntity},
		{name: "not null violation", err: newPgError("23502"), expected: store.ErrInvalidEntity},
		{name: "bad json", err: newPgError("22P02"), expected: store.ErrInvalidEntity},
		{name: "wrapped unique violation", err: fmt.Errorf("exec: %w", newPgError("23505")), expected: store.ErrDuplicate},
		{name: "connection closed", err: sql.ErrConnDone, expected: store.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mapped := postgres.MapError(tt.err)
			assert.ErrorIs(t, mapped, tt.expected)
		})
	}

	assert.Nil(t, postgres.MapError(nil))

	plain := errors.New("something else")
	assert.Equal(t, plain, postgres.MapError(plain))

	unmapped := newPgError("42601")
	assert.Equal(t, error(unmapped), postgres.MapError(unmapped))
}

func TestViolationHelpers(t *testing.T) {
	t.Parallel()

	assert.True(t, postgres.IsUniqueViolation(newPgError("23505")))
	assert.False(t, postgres.IsUniqueViolation(newPgError("23514")))
	assert.False(t, postgres.IsUniqueViolation(nil))

	assert.True(t, postgres.IsCheckConstraintViolation(newPgError("23514")))
	assert.False(t, postgres.IsCheckConstraintViolation(errors.New("generic error")))

	assert.True(t, postgres.IsNotFoundError(sql.ErrNoRows))
	assert.True(t, postgres.IsNotFoundError(store.ErrProgressNotFound))
	assert.False(t, postgres.IsNotFoundError(errors.New("generic error")))
}
