package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Rating         RatingRepository
	Recommendation RecommendationRepository

	ping  func(context.Context) error
	close func() error
}

// NewRepositories creates the PostgreSQL repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Rating:         NewPostgresRatingRepository(db),
		Recommendation: NewPostgresRecommendationRepository(db),
		ping:           db.HealthCheck,
		close:          db.Close,
	}, nil
}

// NewSQLiteRepositories creates the SQLite repository implementations
func NewSQLiteRepositories(db *database.SQLiteDB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Rating:         NewSQLiteRatingRepository(db),
		Recommendation: NewSQLiteRecommendationRepository(db),
		ping:           db.Ping,
		close:          db.Close,
	}, nil
}

// Open connects to the configured driver, applies the schema and returns its repositories
func Open(ctx context.Context, cfg *config.DatabaseConfig) (*Repositories, error) {
	switch cfg.Driver {
	case "postgres":
		db, err := database.Initialize(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewRepositories(db)
	case "sqlite", "":
		db, err := database.InitializeSQLite(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewSQLiteRepositories(db)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Ping checks connectivity of the underlying database
func (r *Repositories) Ping(ctx context.Context) error {
	if r.ping == nil {
		return nil
	}
	return r.ping(ctx)
}

// Close releases the underlying database
func (r *Repositories) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}
