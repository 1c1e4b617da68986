package testdb

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/journal-drill/internal/platform/postgres"
	"github.com/phrazzld/journal-drill/internal/redact"
)

// EnvDatabaseURL names the variable holding the test database URL.
const EnvDatabaseURL = "DATABASE_URL"

// TestTimeout bounds connection and migration setup.
const TestTimeout = 10 * time.Second

// URL returns the configured test database URL, or "" when unset.
func URL() string {
	return strings.TrimSpace(os.Getenv(EnvDatabaseURL))
}

// Open connects to the test database and applies the migrations. The test is
// skipped when no database is configured and fails if one is configured but
// unreachable. The connection is closed when the test ends.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := URL()
	if dbURL == "" {
		t.Skipf("%s not set, skipping Postgres integration test", EnvDatabaseURL)
	}

	db, err := sql.Open("pgx", dbURL)
	require.NoError(t, err, "failed to open %s", redact.String(dbURL))
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("database connection failed: %s", redact.Error(err))
	}
	require.NoError(t, postgres.Migrate(ctx, db, "up", nil), "failed to apply migrations")
	return db
}

// WithTx runs fn inside a transaction that is rolled back afterwards.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err, "failed to begin transaction")

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			// ALLOW-PANIC
			panic(r)
		}
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("warning: failed to rollback transaction: %v", err)
		}
	}()

	fn(t, tx)
}
