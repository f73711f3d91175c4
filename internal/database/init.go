package database

import (
	"context"
	"fmt"

	"github.com/yourusername/gridiron-edge/internal/config"
)

// Initialize creates a PostgreSQL connection pool and applies the schema
func Initialize(ctx context.Context, cfg *config.DatabaseConfig) (*DB, error) {
	db, err := NewDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// InitializeSQLite opens the SQLite database at cfg.Path and applies the schema
func InitializeSQLite(ctx context.Context, cfg *config.DatabaseConfig) (*SQLiteDB, error) {
	db, err := NewSQLiteDB(cfg.Path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
