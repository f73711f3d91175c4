package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/gridiron-edge/internal/config"
)

func TestNewSQLiteDBRequiresPath(t *testing.T) {
	_, err := NewSQLiteDB("")
	assert.Error(t, err)
}

func TestInitializeSQLiteCreatesTables(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(dir, "nested", "edge.db")}

	db, err := InitializeSQLite(context.Background(), cfg)
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"rating_snapshots", "team_ratings", "recommendations"} {
		var name string
		err := db.Conn().QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
}

func TestMigrateIsRepeatable(t *testing.T) {
	db := SetupTestSQLite(t)
	assert.NoError(t, db.Migrate(context.Background()))
}

func TestSQLiteWithTransactionRollsBack(t *testing.T) {
	db := SetupTestSQLite(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := db.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, execErr := tx.Exec(`INSERT INTO rating_snapshots (id, base_rating, k_factor, matches_processed, team_count, created_at)
			VALUES ('a', 1500, 20, 0, 0, CURRENT_TIMESTAMP)`)
		require.NoError(t, execErr)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, db.Conn().QueryRow(`SELECT COUNT(*) FROM rating_snapshots`).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestSQLiteWithTransactionCommits(t *testing.T) {
	db := SetupTestSQLite(t)
	ctx := context.Background()

	err := db.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, execErr := tx.Exec(`INSERT INTO rating_snapshots (id, base_rating, k_factor, matches_processed, team_count, created_at)
			VALUES ('a', 1500, 20, 0, 0, CURRENT_TIMESTAMP)`)
		return execErr
	})
	require.NoError(t, err)

	var count int
	require.NoError(t, db.Conn().QueryRow(`SELECT COUNT(*) FROM rating_snapshots`).Scan(&count))
	assert.Equal(t, 1, count)
}
