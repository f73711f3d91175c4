package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yourusername/gridiron-edge/internal/database"
	"github.com/yourusername/gridiron-edge/internal/models"
)

const pgUniqueViolation = "23505"

// PostgresRecommendationRepository implements RecommendationRepository for PostgreSQL
type PostgresRecommendationRepository struct {
	db *database.DB
}

// NewPostgresRecommendationRepository creates a new recommendation repository
func NewPostgresRecommendationRepository(db *database.DB) RecommendationRepository {
	return &PostgresRecommendationRepository{db: db}
}

const pgInsertRecommendation = `
	INSERT INTO recommendations (` + recommendationColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
`

// Create inserts a new recommendation
func (r *PostgresRecommendationRepository) Create(ctx context.Context, rec *models.Recommendation) error {
	if err := prepareRecommendation(rec); err != nil {
		return err
	}

	_, err := r.db.GetPool().Exec(ctx, pgInsertRecommendation, recommendationArgs(rec)...)
	if err != nil {
		return mapPostgresError(fmt.Errorf("failed to create recommendation: %w", err))
	}
	return nil
}

// InsertBatch inserts all recommendations of a cycle in one round trip
func (r *PostgresRecommendationRepository) InsertBatch(ctx context.Context, recs []*models.Recommendation) error {
	if len(recs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, rec := range recs {
		if err := prepareRecommendation(rec); err != nil {
			return err
		}
		batch.Queue(pgInsertRecommendation, recommendationArgs(rec)...)
	}

	results := r.db.GetPool().SendBatch(ctx, batch)
	defer results.Close()

	for range recs {
		if _, err := results.Exec(); err != nil {
			return mapPostgresError(fmt.Errorf("failed to batch insert recommendations: %w", err))
		}
	}
	return nil
}

// GetByID retrieves a recommendation by ID
func (r *PostgresRecommendationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Recommendation, error) {
	row := r.db.GetPool().QueryRow(ctx, `SELECT `+recommendationColumns+` FROM recommendations WHERE id = $1`, id)

	rec, err := scanRecommendation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recommendation: %w", err)
	}
	return rec, nil
}

// GetByCycleID retrieves the recommendations issued in one evaluation cycle
func (r *PostgresRecommendationRepository) GetByCycleID(ctx context.Context, cycleID uuid.UUID) ([]*models.Recommendation, error) {
	rows, err := r.db.GetPool().Query(ctx, `
		SELECT `+recommendationColumns+`
		FROM recommendations
		WHERE cycle_id = $1
		ORDER BY commence_time ASC, matchup ASC
	`, cycleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations by cycle: %w", err)
	}
	return collectPostgres(rows)
}

// GetRecent retrieves the most recent recommendations
func (r *PostgresRecommendationRepository) GetRecent(ctx context.Context, limit int) ([]*models.Recommendation, error) {
	rows, err := r.db.GetPool().Query(ctx, `
		SELECT `+recommendationColumns+`
		FROM recommendations
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent recommendations: %w", err)
	}
	return collectPostgres(rows)
}

func collectPostgres(rows pgx.Rows) ([]*models.Recommendation, error) {
	defer rows.Close()

	var recs []*models.Recommendation
	for rows.Next() {
		rec, err := scanRecommendation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func mapPostgresError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", models.ErrDuplicateKey, pgErr.ConstraintName)
	}
	return err
}
