package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/gridiron-edge/internal/database"
	"github.com/yourusername/gridiron-edge/internal/models"
)

// PostgresRatingRepository implements RatingRepository for PostgreSQL
type PostgresRatingRepository struct {
	db *database.DB
}

// NewPostgresRatingRepository creates a new rating repository
func NewPostgresRatingRepository(db *database.DB) RatingRepository {
	return &PostgresRatingRepository{db: db}
}

// SaveSnapshot inserts the snapshot header and its team ratings in one transaction
func (r *PostgresRatingRepository) SaveSnapshot(ctx context.Context, meta *models.RatingSnapshotMeta, entries []models.RatingEntry) error {
	prepareSnapshot(meta, entries)

	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO rating_snapshots (`+snapshotColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, meta.ID, meta.BaseRating, meta.KFactor, meta.MatchesProcessed, meta.TeamCount, meta.CreatedAt.UTC())
		if err != nil {
			return mapPostgresError(fmt.Errorf("failed to insert rating snapshot: %w", err))
		}

		if len(entries) == 0 {
			return nil
		}

		rows := make([][]interface{}, len(entries))
		for i, e := range entries {
			rows[i] = []interface{}{e.SnapshotID, e.Team, e.Rating, e.CreatedAt.UTC()}
		}

		count, err := tx.CopyFrom(ctx, pgx.Identifier{"team_ratings"},
			[]string{"snapshot_id", "team", "rating", "created_at"}, pgx.CopyFromRows(rows))
		if err != nil {
			return fmt.Errorf("failed to copy team ratings: %w", err)
		}
		if count != int64(len(entries)) {
			return fmt.Errorf("inserted %d rows, expected %d", count, len(entries))
		}
		return nil
	})
}

// GetSnapshot retrieves a snapshot and its ratings, highest first
func (r *PostgresRatingRepository) GetSnapshot(ctx context.Context, id uuid.UUID) (*models.RatingSnapshotMeta, []models.RatingEntry, error) {
	row := r.db.GetPool().QueryRow(ctx, `SELECT `+snapshotColumns+` FROM rating_snapshots WHERE id = $1`, id)
	return r.loadSnapshot(ctx, row)
}

// GetLatestSnapshot retrieves the most recently created snapshot
func (r *PostgresRatingRepository) GetLatestSnapshot(ctx context.Context) (*models.RatingSnapshotMeta, []models.RatingEntry, error) {
	row := r.db.GetPool().QueryRow(ctx, `
		SELECT `+snapshotColumns+`
		FROM rating_snapshots
		ORDER BY created_at DESC
		LIMIT 1
	`)
	return r.loadSnapshot(ctx, row)
}

// ListSnapshots retrieves snapshot headers, newest first
func (r *PostgresRatingRepository) ListSnapshots(ctx context.Context, limit int) ([]*models.RatingSnapshotMeta, error) {
	rows, err := r.db.GetPool().Query(ctx, `
		SELECT `+snapshotColumns+`
		FROM rating_snapshots
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query rating snapshots: %w", err)
	}
	defer rows.Close()

	var metas []*models.RatingSnapshotMeta
	for rows.Next() {
		meta, err := scanSnapshotMeta(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rating snapshot: %w", err)
		}
		metas = append(metas, meta)
	}

	return metas, rows.Err()
}

func (r *PostgresRatingRepository) loadSnapshot(ctx context.Context, row pgx.Row) (*models.RatingSnapshotMeta, []models.RatingEntry, error) {
	meta, err := scanSnapshotMeta(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, models.ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get rating snapshot: %w", err)
	}

	rows, err := r.db.GetPool().Query(ctx, `
		SELECT snapshot_id, team, rating, created_at
		FROM team_ratings
		WHERE snapshot_id = $1
		ORDER BY rating DESC, team ASC
	`, meta.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query team ratings: %w", err)
	}
	defer rows.Close()

	var entries []models.RatingEntry
	for rows.Next() {
		var e models.RatingEntry
		if err := rows.Scan(&e.SnapshotID, &e.Team, &e.Rating, &e.CreatedAt); err != nil {
			return nil, nil, fmt.Errorf("failed to scan team rating: %w", err)
		}
		entries = append(entries, e)
	}

	return meta, entries, rows.Err()
}
