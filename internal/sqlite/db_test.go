package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// TestMigrations verifies that migrations run successfully
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	tables := []string{
		"runs",
		"run_outputs",
		"run_records",
	}

	for _, table := range tables {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}
}

// TestMigrationsIdempotent verifies a second run is a no-op
func TestMigrationsIdempotent(t *testing.T) {
	db := NewTestDB(t)
	require.NoError(t, db.RunMigrations())
}

// TestForeignKeys verifies that foreign key constraints are enabled
func TestForeignKeys(t *testing.T) {
	db := NewTestDB(t)

	var enabled int
	err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled)
	require.NoError(t, err)
	require.Equal(t, 1, enabled, "foreign keys not enabled")
}

// TestRunsTable verifies the status constraint
func TestRunsTable(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx,
		`INSERT INTO runs (id, generator, seed, options, status) VALUES (?, ?, ?, ?, ?)`,
		"r1", "mixed", 1, "{}", "completed")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		`INSERT INTO runs (id, generator, seed, options, status) VALUES (?, ?, ?, ?, ?)`,
		"r2", "mixed", 1, "{}", "bogus")
	require.Error(t, err, "should fail with invalid status")

	_, err = db.ExecContext(ctx,
		`INSERT INTO run_outputs (run_id, name, position, row_count, anomalies, sequences) VALUES (?, ?, ?, ?, ?, ?)`,
		"missing", "a.csv", 0, 1, 0, 1)
	require.Error(t, err, "should fail with invalid run_id")
}
