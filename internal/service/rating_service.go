// Package service orchestrates rating replays and evaluation cycles.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/gridiron-edge/internal/datasource"
	"github.com/yourusername/gridiron-edge/internal/elo"
	"github.com/yourusername/gridiron-edge/internal/logger"
	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/repository"
	"github.com/yourusername/gridiron-edge/internal/strategy"
)

// RatingState is a finalized rating snapshot with the totals model built from the same history
type RatingState struct {
	SnapshotID uuid.UUID
	Ratings    elo.Snapshot
	Totals     *strategy.TotalsModel
	Matches    int
	BuiltAt    time.Time
}

// RatingService replays match history into ratings and keeps the latest state
type RatingService struct {
	history  datasource.HistorySource
	repo     repository.RatingRepository
	eloCfg   elo.Config
	lookback int
	logger   *logger.RatingLogger

	mu      sync.RWMutex
	current *RatingState
}

// NewRatingService creates a rating service. repo may be nil to skip persistence.
func NewRatingService(
	history datasource.HistorySource,
	repo repository.RatingRepository,
	eloCfg elo.Config,
	lookback int,
	ratingLogger *logger.RatingLogger,
) *RatingService {
	return &RatingService{
		history:  history,
		repo:     repo,
		eloCfg:   eloCfg,
		lookback: lookback,
		logger:   ratingLogger,
	}
}

// Refresh reloads the history, replays it and swaps in the new state
func (s *RatingService) Refresh(ctx context.Context) (*RatingState, error) {
	history, err := s.history.LoadHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load match history: %w", err)
	}
	s.logger.LogHistoryLoaded("csv", len(history), models.AllDated(history))

	state := s.Build(history)

	if s.repo != nil {
		if err := s.persist(ctx, state); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	s.current = state
	s.mu.Unlock()

	return state, nil
}

// Build replays history without touching the stored state
func (s *RatingService) Build(history []models.MatchRecord) *RatingState {
	start := time.Now()
	snapshot := elo.BuildRatings(history, s.eloCfg)
	elapsed := time.Since(start)

	state := &RatingState{
		SnapshotID: uuid.New(),
		Ratings:    snapshot,
		Totals:     strategy.NewTotalsModel(history, s.lookback),
		Matches:    len(history),
		BuiltAt:    time.Now().UTC(),
	}

	s.logger.LogReplayCompleted(len(history), snapshot.Len(), s.eloCfg.BaseRating, s.eloCfg.KFactor,
		float64(elapsed.Microseconds())/1000)
	metrics.RecordRatingReplay(len(history), snapshot.Len(), elapsed.Seconds())

	ranked := snapshot.Ranked()
	for _, tr := range ranked {
		metrics.UpdateTeamRating(tr.Team, tr.Rating)
	}
	if len(ranked) > 0 {
		s.logger.LogTopRating(ranked[0].Team, ranked[0].Rating)
	}

	return state
}

// Current returns the latest state, or nil before the first refresh
func (s *RatingService) Current() *RatingState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Ready reports whether ratings have been built
func (s *RatingService) Ready() bool {
	return s.Current() != nil
}

func (s *RatingService) persist(ctx context.Context, state *RatingState) error {
	ranked := state.Ratings.Ranked()
	entries := make([]models.RatingEntry, len(ranked))
	for i, tr := range ranked {
		entries[i] = models.RatingEntry{Team: tr.Team, Rating: tr.Rating, CreatedAt: state.BuiltAt}
	}

	meta := &models.RatingSnapshotMeta{
		ID:               state.SnapshotID,
		BaseRating:       state.Ratings.BaseRating(),
		KFactor:          s.eloCfg.KFactor,
		MatchesProcessed: state.Matches,
		CreatedAt:        state.BuiltAt,
	}
	if err := s.repo.SaveSnapshot(ctx, meta, entries); err != nil {
		return fmt.Errorf("failed to persist rating snapshot: %w", err)
	}

	s.logger.LogSnapshotPersisted(meta.ID.String(), meta.TeamCount)
	return nil
}
