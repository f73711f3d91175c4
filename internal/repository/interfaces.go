package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/gridiron-edge/internal/models"
)

// RatingRepository persists rating snapshots produced by history replays
type RatingRepository interface {
	SaveSnapshot(ctx context.Context, meta *models.RatingSnapshotMeta, entries []models.RatingEntry) error
	GetSnapshot(ctx context.Context, id uuid.UUID) (*models.RatingSnapshotMeta, []models.RatingEntry, error)
	GetLatestSnapshot(ctx context.Context) (*models.RatingSnapshotMeta, []models.RatingEntry, error)
	ListSnapshots(ctx context.Context, limit int) ([]*models.RatingSnapshotMeta, error)
}

// RecommendationRepository persists issued recommendations
type RecommendationRepository interface {
	Create(ctx context.Context, rec *models.Recommendation) error
	InsertBatch(ctx context.Context, recs []*models.Recommendation) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Recommendation, error)
	GetByCycleID(ctx context.Context, cycleID uuid.UUID) ([]*models.Recommendation, error)
	GetRecent(ctx context.Context, limit int) ([]*models.Recommendation, error)
}

// rowScanner is satisfied by pgx rows and database/sql rows
type rowScanner interface {
	Scan(dest ...any) error
}

const recommendationColumns = `id, cycle_id, event_id, matchup, home_team, away_team, commence_time,
	bet_type, candidate, selection, opponent, american_odds, edge, edge_pct, model_probability,
	kelly_fraction, stake, predicted_margin, implied_probability, market_total, model_total, created_at`

const snapshotColumns = `id, base_rating, k_factor, matches_processed, team_count, created_at`

func recommendationArgs(rec *models.Recommendation) []any {
	return []any{
		rec.ID, rec.CycleID, rec.EventID, rec.Matchup, rec.HomeTeam, rec.AwayTeam, rec.CommenceTime.UTC(),
		string(rec.BetType), string(rec.Candidate), rec.Selection, rec.Opponent, rec.AmericanOdds,
		rec.Edge, rec.EdgePct, rec.ModelProbability, rec.KellyFraction, rec.StakeAmount().InexactFloat64(),
		rec.PredictedMargin, rec.ImpliedProbability, rec.MarketTotal, rec.ModelTotal, rec.CreatedAt.UTC(),
	}
}

func scanRecommendation(row rowScanner) (*models.Recommendation, error) {
	rec := &models.Recommendation{}
	var betType, candidate string
	err := row.Scan(
		&rec.ID, &rec.CycleID, &rec.EventID, &rec.Matchup, &rec.HomeTeam, &rec.AwayTeam, &rec.CommenceTime,
		&betType, &candidate, &rec.Selection, &rec.Opponent, &rec.AmericanOdds,
		&rec.Edge, &rec.EdgePct, &rec.ModelProbability, &rec.KellyFraction, &rec.Stake,
		&rec.PredictedMargin, &rec.ImpliedProbability, &rec.MarketTotal, &rec.ModelTotal, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.BetType = models.BetType(betType)
	rec.Candidate = models.Candidate(candidate)
	return rec, nil
}

func scanSnapshotMeta(row rowScanner) (*models.RatingSnapshotMeta, error) {
	meta := &models.RatingSnapshotMeta{}
	err := row.Scan(&meta.ID, &meta.BaseRating, &meta.KFactor, &meta.MatchesProcessed, &meta.TeamCount, &meta.CreatedAt)
	if err != nil {
		return nil, err
	}
	return meta, nil
}

func prepareRecommendation(rec *models.Recommendation) error {
	if rec.Matchup == "" {
		return models.ErrTeamRequired
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	return nil
}

func prepareSnapshot(meta *models.RatingSnapshotMeta, entries []models.RatingEntry) {
	if meta.ID == uuid.Nil {
		meta.ID = uuid.New()
	}
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = time.Now().UTC()
	}
	meta.TeamCount = len(entries)
	for i := range entries {
		entries[i].SnapshotID = meta.ID
		if entries[i].CreatedAt.IsZero() {
			entries[i].CreatedAt = meta.CreatedAt
		}
	}
}
