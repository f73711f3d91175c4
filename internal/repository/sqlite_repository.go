package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/yourusername/gridiron-edge/internal/database"
	"github.com/yourusername/gridiron-edge/internal/models"
)

// SQLiteRatingRepository implements RatingRepository for SQLite
type SQLiteRatingRepository struct {
	db *database.SQLiteDB
}

// NewSQLiteRatingRepository creates a new rating repository
func NewSQLiteRatingRepository(db *database.SQLiteDB) RatingRepository {
	return &SQLiteRatingRepository{db: db}
}

// SaveSnapshot inserts the snapshot header and its team ratings in one transaction
func (r *SQLiteRatingRepository) SaveSnapshot(ctx context.Context, meta *models.RatingSnapshotMeta, entries []models.RatingEntry) error {
	prepareSnapshot(meta, entries)

	return r.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO rating_snapshots (`+snapshotColumns+`)
			VALUES (?, ?, ?, ?, ?, ?)
		`, meta.ID, meta.BaseRating, meta.KFactor, meta.MatchesProcessed, meta.TeamCount, meta.CreatedAt.UTC())
		if err != nil {
			return mapSQLiteError(fmt.Errorf("inserting rating snapshot: %w", err))
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO team_ratings (snapshot_id, team, rating, created_at)
			VALUES (?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing team rating insert: %w", err)
		}
		defer stmt.Close()

		for _, e := range entries {
			if _, err := stmt.ExecContext(ctx, e.SnapshotID, e.Team, e.Rating, e.CreatedAt.UTC()); err != nil {
				return mapSQLiteError(fmt.Errorf("inserting team rating %s: %w", e.Team, err))
			}
		}
		return nil
	})
}

// GetSnapshot retrieves a snapshot and its ratings, highest first
func (r *SQLiteRatingRepository) GetSnapshot(ctx context.Context, id uuid.UUID) (*models.RatingSnapshotMeta, []models.RatingEntry, error) {
	row := r.db.Conn().QueryRowContext(ctx, `SELECT `+snapshotColumns+` FROM rating_snapshots WHERE id = ?`, id)
	return r.loadSnapshot(ctx, row)
}

// GetLatestSnapshot retrieves the most recently created snapshot
func (r *SQLiteRatingRepository) GetLatestSnapshot(ctx context.Context) (*models.RatingSnapshotMeta, []models.RatingEntry, error) {
	row := r.db.Conn().QueryRowContext(ctx, `
		SELECT `+snapshotColumns+`
		FROM rating_snapshots
		ORDER BY created_at DESC
		LIMIT 1
	`)
	return r.loadSnapshot(ctx, row)
}

// ListSnapshots retrieves snapshot headers, newest first
func (r *SQLiteRatingRepository) ListSnapshots(ctx context.Context, limit int) ([]*models.RatingSnapshotMeta, error) {
	rows, err := r.db.Conn().QueryContext(ctx, `
		SELECT `+snapshotColumns+`
		FROM rating_snapshots
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying rating snapshots: %w", err)
	}
	defer rows.Close()

	var metas []*models.RatingSnapshotMeta
	for rows.Next() {
		meta, err := scanSnapshotMeta(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning rating snapshot: %w", err)
		}
		metas = append(metas, meta)
	}
	return metas, rows.Err()
}

func (r *SQLiteRatingRepository) loadSnapshot(ctx context.Context, row *sql.Row) (*models.RatingSnapshotMeta, []models.RatingEntry, error) {
	meta, err := scanSnapshotMeta(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, models.ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("scanning rating snapshot: %w", err)
	}

	rows, err := r.db.Conn().QueryContext(ctx, `
		SELECT snapshot_id, team, rating, created_at
		FROM team_ratings
		WHERE snapshot_id = ?
		ORDER BY rating DESC, team ASC
	`, meta.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("querying team ratings: %w", err)
	}
	defer rows.Close()

	var entries []models.RatingEntry
	for rows.Next() {
		var e models.RatingEntry
		if err := rows.Scan(&e.SnapshotID, &e.Team, &e.Rating, &e.CreatedAt); err != nil {
			return nil, nil, fmt.Errorf("scanning team rating: %w", err)
		}
		entries = append(entries, e)
	}
	return meta, entries, rows.Err()
}

// SQLiteRecommendationRepository implements RecommendationRepository for SQLite
type SQLiteRecommendationRepository struct {
	db *database.SQLiteDB
}

// NewSQLiteRecommendationRepository creates a new recommendation repository
func NewSQLiteRecommendationRepository(db *database.SQLiteDB) RecommendationRepository {
	return &SQLiteRecommendationRepository{db: db}
}

const sqliteInsertRecommendation = `
	INSERT INTO recommendations (` + recommendationColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// Create inserts a new recommendation
func (r *SQLiteRecommendationRepository) Create(ctx context.Context, rec *models.Recommendation) error {
	if err := prepareRecommendation(rec); err != nil {
		return err
	}

	if _, err := r.db.Conn().ExecContext(ctx, sqliteInsertRecommendation, recommendationArgs(rec)...); err != nil {
		return mapSQLiteError(fmt.Errorf("inserting recommendation: %w", err))
	}
	return nil
}

// InsertBatch inserts all recommendations of a cycle in one transaction
func (r *SQLiteRecommendationRepository) InsertBatch(ctx context.Context, recs []*models.Recommendation) error {
	if len(recs) == 0 {
		return nil
	}

	return r.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, sqliteInsertRecommendation)
		if err != nil {
			return fmt.Errorf("preparing recommendation insert: %w", err)
		}
		defer stmt.Close()

		for _, rec := range recs {
			if err := prepareRecommendation(rec); err != nil {
				return err
			}
			if _, err := stmt.ExecContext(ctx, recommendationArgs(rec)...); err != nil {
				return mapSQLiteError(fmt.Errorf("inserting recommendation %s: %w", rec.Matchup, err))
			}
		}
		return nil
	})
}

// GetByID retrieves a recommendation by ID
func (r *SQLiteRecommendationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Recommendation, error) {
	row := r.db.Conn().QueryRowContext(ctx, `SELECT `+recommendationColumns+` FROM recommendations WHERE id = ?`, id)

	rec, err := scanRecommendation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning recommendation: %w", err)
	}
	return rec, nil
}

// GetByCycleID retrieves the recommendations issued in one evaluation cycle
func (r *SQLiteRecommendationRepository) GetByCycleID(ctx context.Context, cycleID uuid.UUID) ([]*models.Recommendation, error) {
	rows, err := r.db.Conn().QueryContext(ctx, `
		SELECT `+recommendationColumns+`
		FROM recommendations
		WHERE cycle_id = ?
		ORDER BY commence_time ASC, matchup ASC
	`, cycleID)
	if err != nil {
		return nil, fmt.Errorf("querying recommendations by cycle: %w", err)
	}
	return collectSQLite(rows)
}

// GetRecent retrieves the most recent recommendations
func (r *SQLiteRecommendationRepository) GetRecent(ctx context.Context, limit int) ([]*models.Recommendation, error) {
	rows, err := r.db.Conn().QueryContext(ctx, `
		SELECT `+recommendationColumns+`
		FROM recommendations
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent recommendations: %w", err)
	}
	return collectSQLite(rows)
}

func collectSQLite(rows *sql.Rows) ([]*models.Recommendation, error) {
	defer rows.Close()

	var recs []*models.Recommendation
	for rows.Next() {
		rec, err := scanRecommendation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning recommendation row: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func mapSQLiteError(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintPrimaryKey, sqlite3.ErrConstraintUnique:
			return fmt.Errorf("%w: %v", models.ErrDuplicateKey, sqliteErr)
		}
	}
	return err
}
