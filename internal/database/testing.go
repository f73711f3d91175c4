package database

import (
	"context"
	"os"
	"testing"
	"time"
)

// TestDatabaseURLEnv names the variable holding a PostgreSQL URL for integration tests
const TestDatabaseURLEnv = "GRIDIRON_EDGE_TEST_DATABASE_URL"

// SetupTestSQLite returns a migrated in-memory SQLite database closed at test cleanup
func SetupTestSQLite(t *testing.T) *SQLiteDB {
	t.Helper()

	db, err := NewSQLiteDB(MemoryPath)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("warning: failed to close test database: %v", err)
		}
	})
	return db
}

// SetupTestDB connects to the PostgreSQL database named by TestDatabaseURLEnv,
// skipping the test when it is unset
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv(TestDatabaseURLEnv)
	if dsn == "" {
		t.Skipf("%s not set; skipping PostgreSQL integration test", TestDatabaseURLEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDBFromDSN(ctx, dsn, 2)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}

	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		t.Fatalf("failed to migrate test database: %v", err)
	}

	if _, err := db.GetPool().Exec(ctx, "TRUNCATE team_ratings, rating_snapshots, recommendations"); err != nil {
		_ = db.Close()
		t.Fatalf("failed to reset test database: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}
