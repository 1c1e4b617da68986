// Package testdb provides utilities for Postgres integration tests.
//
// Tests call Open to get a migrated database. Open skips the test when
// DATABASE_URL is unset, so the integration suite only runs where a database
// is available:
//
//	db := testdb.Open(t)
//	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//		s := postgres.NewPostgresProgressStore(tx, nil)
//		// ...
//	})
//
// WithTx always rolls back, so tests leave no rows behind and can run in
// parallel.
package testdb
