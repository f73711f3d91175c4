package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gridiron-edge/internal/elo"
	"github.com/yourusername/gridiron-edge/internal/logger"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/strategy"
)

type fakeHistory struct {
	records []models.MatchRecord
	err     error
}

func (f *fakeHistory) LoadHistory(context.Context) ([]models.MatchRecord, error) {
	return f.records, f.err
}

type fakeQuotes struct {
	quotes []models.MarketQuote
	err    error
}

func (f *fakeQuotes) FetchQuotes(context.Context) ([]models.MarketQuote, error) {
	return f.quotes, f.err
}

func (f *fakeQuotes) Name() string { return "fake" }

type fakeRatingRepo struct {
	meta    *models.RatingSnapshotMeta
	entries []models.RatingEntry
	err     error
}

func (f *fakeRatingRepo) SaveSnapshot(_ context.Context, meta *models.RatingSnapshotMeta, entries []models.RatingEntry) error {
	if f.err != nil {
		return f.err
	}
	meta.TeamCount = len(entries)
	f.meta = meta
	f.entries = entries
	return nil
}

func (f *fakeRatingRepo) GetSnapshot(context.Context, uuid.UUID) (*models.RatingSnapshotMeta, []models.RatingEntry, error) {
	return f.meta, f.entries, nil
}

func (f *fakeRatingRepo) GetLatestSnapshot(context.Context) (*models.RatingSnapshotMeta, []models.RatingEntry, error) {
	return f.meta, f.entries, nil
}

func (f *fakeRatingRepo) ListSnapshots(context.Context, int) ([]*models.RatingSnapshotMeta, error) {
	return []*models.RatingSnapshotMeta{f.meta}, nil
}

type fakeRecRepo struct {
	mu    sync.Mutex
	saved []*models.Recommendation
}

func (f *fakeRecRepo) Create(_ context.Context, rec *models.Recommendation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, rec)
	return nil
}

func (f *fakeRecRepo) InsertBatch(ctx context.Context, recs []*models.Recommendation) error {
	for _, rec := range recs {
		_ = f.Create(ctx, rec)
	}
	return nil
}

func (f *fakeRecRepo) GetByID(context.Context, uuid.UUID) (*models.Recommendation, error) {
	return nil, models.ErrNotFound
}

func (f *fakeRecRepo) GetByCycleID(context.Context, uuid.UUID) ([]*models.Recommendation, error) {
	return f.saved, nil
}

func (f *fakeRecRepo) GetRecent(context.Context, int) ([]*models.Recommendation, error) {
	return f.saved, nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []*models.Recommendation
	err  error
}

func (f *fakeNotifier) Notify(_ context.Context, rec *models.Recommendation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, rec)
	return f.err
}

func (f *fakeNotifier) Channel() string { return "fake" }

// failingStrategy errors for one matchup and defers to the real strategy otherwise
type failingStrategy struct {
	strategy.Strategy
	failOn string
}

func (f failingStrategy) Evaluate(ctx context.Context, sc strategy.Context) (*models.Recommendation, error) {
	if sc.Quote.Matchup() == f.failOn {
		return nil, errors.New("boom")
	}
	return f.Strategy.Evaluate(ctx, sc)
}

func intPtr(v int) *int { return &v }

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func oneGameHistory() []models.MatchRecord {
	return []models.MatchRecord{{HomeTeam: "Chiefs", AwayTeam: "Bills", HomeScore: 27, AwayScore: 20}}
}

func testStrategy() *strategy.EloValueStrategy {
	return strategy.NewEloValueStrategy(strategy.BaseStrategy{
		Bankroll:        1000,
		FractionalKelly: 0.25,
		SpreadStdev:     340,
		TotalsStdev:     10,
		DefaultPrice:    -110,
	})
}

func newRatingService(history *fakeHistory, repo *fakeRatingRepo) *RatingService {
	svc := NewRatingService(history, nil, elo.DefaultConfig(), 8, logger.NewRatingLogger(quietLogger()))
	if repo != nil {
		svc.repo = repo
	}
	return svc
}

func newEvaluationService(quotes *fakeQuotes, strat strategy.Strategy, concurrency int) *EvaluationService {
	base := quietLogger()
	ratings := newRatingService(&fakeHistory{records: oneGameHistory()}, nil)
	return NewEvaluationService(ratings, quotes, strat,
		logger.NewRecommendationLogger(base), logger.NewAuditLogger(base),
		EvaluationOptions{MinEdgePercent: 5, Concurrency: concurrency, Bankroll: 1000})
}

func cycleQuotes() []models.MarketQuote {
	return []models.MarketQuote{
		{EventID: "1", HomeTeam: "Chiefs", AwayTeam: "Bills", MoneylineHome: intPtr(150), MoneylineAway: intPtr(-200)},
		{EventID: "2", HomeTeam: "Rams", AwayTeam: "49ers"},
		{EventID: "3", HomeTeam: "Patriots", AwayTeam: "Jets", MoneylineHome: intPtr(-110), MoneylineAway: intPtr(-110)},
	}
}

func TestRatingServiceRefresh(t *testing.T) {
	repo := &fakeRatingRepo{}
	svc := newRatingService(&fakeHistory{records: oneGameHistory()}, repo)

	assert.False(t, svc.Ready())

	state, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	assert.True(t, svc.Ready())
	assert.Same(t, state, svc.Current())
	assert.Equal(t, 1, state.Matches)
	assert.InDelta(t, 1510, state.Ratings.Rating("Chiefs"), 1e-9)
	assert.InDelta(t, 1490, state.Ratings.Rating("Bills"), 1e-9)

	require.NotNil(t, repo.meta)
	assert.Equal(t, state.SnapshotID, repo.meta.ID)
	assert.Equal(t, 2, repo.meta.TeamCount)
	require.Len(t, repo.entries, 2)
	assert.Equal(t, "Chiefs", repo.entries[0].Team)
}

func TestRatingServiceRefreshErrors(t *testing.T) {
	tests := []struct {
		name    string
		history *fakeHistory
		repo    *fakeRatingRepo
	}{
		{"history error", &fakeHistory{err: errors.New("missing file")}, nil},
		{"persist error", &fakeHistory{records: oneGameHistory()}, &fakeRatingRepo{err: errors.New("db down")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newRatingService(tt.history, tt.repo)
			_, err := svc.Refresh(context.Background())
			assert.Error(t, err)
			assert.Nil(t, svc.Current())
		})
	}
}

func TestRunCycle(t *testing.T) {
	recRepo := &fakeRecRepo{}
	notifier := &fakeNotifier{}
	logPath := filepath.Join(t.TempDir(), "bets_log.csv")

	svc := newEvaluationService(&fakeQuotes{quotes: cycleQuotes()}, testStrategy(), 2).
		WithRepository(recRepo).
		WithNotifier(notifier).
		WithBetsLog(NewBetsLog(logPath))

	result, err := svc.RunCycle(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Selected, 2)
	assert.Equal(t, "Bills @ Chiefs", result.Selected[0].Matchup)
	assert.Equal(t, "Jets @ Patriots", result.Selected[1].Matchup)

	require.Len(t, result.Issued, 1)
	issued := result.Issued[0]
	assert.Equal(t, models.CandidateMLHome, issued.Candidate)
	assert.Equal(t, result.CycleID, issued.CycleID)
	assert.InDelta(t, 12.875, issued.EdgePct, 0.01)
	assert.Greater(t, issued.Stake, 0.0)

	assert.Equal(t, 3, result.Stats.Quotes)
	assert.Equal(t, 3, result.Stats.Evaluated)
	assert.Equal(t, 1, result.Stats.NoCandidates)
	assert.Equal(t, 1, result.Stats.Issued)
	assert.Equal(t, 1, result.Stats.Suppressed)
	assert.Equal(t, 0, result.Stats.Errors)

	assert.Len(t, recRepo.saved, 1)
	assert.Len(t, notifier.sent, 1)

	rows := readCSV(t, logPath)
	require.Len(t, rows, 2)
	assert.Equal(t, BetsLogHeader, rows[0])
	assert.Equal(t, "Bills @ Chiefs", rows[1][2])
	assert.Equal(t, "150", rows[1][7])
}

func TestRunCycleBuildsRatingsOnce(t *testing.T) {
	svc := newEvaluationService(&fakeQuotes{quotes: cycleQuotes()}, testStrategy(), 1)

	_, err := svc.RunCycle(context.Background())
	require.NoError(t, err)
	first := svc.ratings.Current()

	_, err = svc.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, svc.ratings.Current())
}

func TestRunCycleQuoteFetchError(t *testing.T) {
	svc := newEvaluationService(&fakeQuotes{err: errors.New("feed down")}, testStrategy(), 1)

	_, err := svc.RunCycle(context.Background())
	assert.ErrorContains(t, err, "feed down")
}

func TestRunCycleNotifierFailureDoesNotFailCycle(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New("telegram down")}
	svc := newEvaluationService(&fakeQuotes{quotes: cycleQuotes()}, testStrategy(), 1).WithNotifier(notifier)

	result, err := svc.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Len(t, result.Issued, 1)
	assert.Len(t, notifier.sent, 1)
}

func TestEvaluateQuotesKeepsQuoteOrder(t *testing.T) {
	svc := newEvaluationService(&fakeQuotes{}, testStrategy(), 3)
	state := svc.ratings.Build(oneGameHistory())

	var quotes []models.MarketQuote
	for i := 0; i < 12; i++ {
		quotes = append(quotes, models.MarketQuote{
			HomeTeam:      fmt.Sprintf("Home%02d", i),
			AwayTeam:      fmt.Sprintf("Away%02d", i),
			MoneylineHome: intPtr(100 + i),
		})
	}

	result, err := svc.EvaluateQuotes(context.Background(), uuid.New(), quotes, state)
	require.NoError(t, err)
	require.Len(t, result.Selected, len(quotes))
	for i, rec := range result.Selected {
		assert.Equal(t, quotes[i].Matchup(), rec.Matchup)
	}
}

func TestEvaluateQuotesSkipsFailingQuote(t *testing.T) {
	strat := failingStrategy{Strategy: testStrategy(), failOn: "Bills @ Chiefs"}
	svc := newEvaluationService(&fakeQuotes{}, strat, 2)
	state := svc.ratings.Build(oneGameHistory())

	result, err := svc.EvaluateQuotes(context.Background(), uuid.New(), cycleQuotes(), state)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.Errors)
	assert.Equal(t, 2, result.Stats.Evaluated)
	require.Len(t, result.Selected, 1)
	assert.Equal(t, "Jets @ Patriots", result.Selected[0].Matchup)
	assert.Empty(t, result.Issued)
}

func TestEvaluateQuotesRequiresState(t *testing.T) {
	svc := newEvaluationService(&fakeQuotes{}, testStrategy(), 1)
	_, err := svc.EvaluateQuotes(context.Background(), uuid.New(), cycleQuotes(), nil)
	assert.Error(t, err)
}

func TestEvaluateQuotesCancelled(t *testing.T) {
	svc := newEvaluationService(&fakeQuotes{}, testStrategy(), 1)
	state := svc.ratings.Build(oneGameHistory())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.EvaluateQuotes(ctx, uuid.New(), cycleQuotes(), state)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBetsLogWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "bets.csv")
	betsLog := NewBetsLog(path)

	total := 47.5
	rec := &models.Recommendation{
		CycleID:    uuid.New(),
		Matchup:    "Jets @ Patriots",
		BetType:    models.BetTypeTotals,
		Selection:  "Over 44.5",
		EdgePct:    8.123,
		Stake:      12.345,
		ModelTotal: &total,
		CreatedAt:  time.Date(2024, 9, 8, 12, 0, 0, 0, time.UTC),
	}

	require.NoError(t, betsLog.Append([]*models.Recommendation{rec}))
	require.NoError(t, betsLog.Append([]*models.Recommendation{rec, rec}))
	require.NoError(t, betsLog.Append(nil))

	rows := readCSV(t, path)
	require.Len(t, rows, 4)
	assert.Equal(t, BetsLogHeader, rows[0])
	assert.Equal(t, "2024-09-08T12:00:00Z", rows[1][0])
	assert.Equal(t, "", rows[1][3])
	assert.Equal(t, "", rows[1][7])
	assert.Equal(t, "8.12", rows[1][8])
	assert.Equal(t, "12.35", rows[1][9])
	assert.Equal(t, "", rows[1][10])
	assert.Equal(t, "47.5", rows[1][11])
}

func TestSortByEdge(t *testing.T) {
	recs := []*models.Recommendation{
		{Matchup: "a", EdgePct: 1},
		{Matchup: "b", EdgePct: 9},
		{Matchup: "c", EdgePct: 9},
		{Matchup: "d", EdgePct: 4},
	}

	sorted := SortByEdge(recs)

	var order []string
	for _, r := range sorted {
		order = append(order, r.Matchup)
	}
	assert.Equal(t, []string{"b", "c", "d", "a"}, order)
	assert.Equal(t, "a", recs[0].Matchup)
}

func TestCycleStatsString(t *testing.T) {
	stats := NewCycleStats(4)
	stats.RecordEvaluated()
	stats.RecordEvaluated()
	stats.RecordIssued()
	stats.Finish()

	assert.Contains(t, stats.String(), "Quotes=4, Evaluated=2, Issued=1 (50.0%)")
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}
