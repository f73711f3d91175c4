package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/gridiron-edge/internal/datasource"
	"github.com/yourusername/gridiron-edge/internal/logger"
	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/notify"
	"github.com/yourusername/gridiron-edge/internal/repository"
	"github.com/yourusername/gridiron-edge/internal/strategy"
)

const defaultConcurrency = 4

// EvaluationOptions controls how selected candidates are filtered and delivered
type EvaluationOptions struct {
	MinEdgePercent float64
	Concurrency    int
	Bankroll       float64
}

// CycleResult is the outcome of one evaluation cycle
type CycleResult struct {
	CycleID uuid.UUID
	// Selected holds the best candidate of every quote that had one, in quote order
	Selected []*models.Recommendation
	// Issued is the subset of Selected meeting the edge threshold
	Issued []*models.Recommendation
	Stats  *CycleStats
}

// EvaluationService runs evaluation cycles: quotes in, recommendations out
type EvaluationService struct {
	ratings   *RatingService
	quotes    datasource.QuoteSource
	strategy  strategy.Strategy
	recRepo   repository.RecommendationRepository
	notifier  notify.Notifier
	betsLog   *BetsLog
	recLogger *logger.RecommendationLogger
	audit     *logger.AuditLogger
	opts      EvaluationOptions
	now       func() time.Time
}

// NewEvaluationService creates an evaluation service
func NewEvaluationService(
	ratings *RatingService,
	quotes datasource.QuoteSource,
	strat strategy.Strategy,
	recLogger *logger.RecommendationLogger,
	audit *logger.AuditLogger,
	opts EvaluationOptions,
) *EvaluationService {
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	return &EvaluationService{
		ratings:   ratings,
		quotes:    quotes,
		strategy:  strat,
		recLogger: recLogger,
		audit:     audit,
		opts:      opts,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithRepository persists issued recommendations
func (s *EvaluationService) WithRepository(repo repository.RecommendationRepository) *EvaluationService {
	s.recRepo = repo
	return s
}

// WithNotifier delivers issued recommendations
func (s *EvaluationService) WithNotifier(n notify.Notifier) *EvaluationService {
	s.notifier = n
	return s
}

// WithBetsLog appends issued recommendations to a CSV file
func (s *EvaluationService) WithBetsLog(l *BetsLog) *EvaluationService {
	s.betsLog = l
	return s
}

// RunCycle fetches quotes and evaluates them against the current ratings,
// building ratings first if none exist yet
func (s *EvaluationService) RunCycle(ctx context.Context) (*CycleResult, error) {
	start := time.Now()
	result, err := s.runCycle(ctx)
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	metrics.RecordEvaluationCycle(outcome, time.Since(start).Seconds(), float64(time.Now().Unix()))
	return result, err
}

func (s *EvaluationService) runCycle(ctx context.Context) (*CycleResult, error) {
	state := s.ratings.Current()
	if state == nil {
		var err error
		if state, err = s.ratings.Refresh(ctx); err != nil {
			return nil, err
		}
	}

	quotes, err := s.quotes.FetchQuotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quotes from %s: %w", s.quotes.Name(), err)
	}

	cycleID := uuid.New()
	result, err := s.EvaluateQuotes(ctx, cycleID, quotes, state)
	if err != nil {
		return nil, err
	}

	s.deliver(ctx, result.Issued)

	result.Stats.Finish()
	s.recLogger.LogCycleSummary(cycleID.String(), result.Stats.Quotes, result.Stats.Evaluated,
		result.Stats.Issued, result.Stats.Suppressed, float64(result.Stats.Duration.Microseconds())/1000)
	metrics.UpdateBankroll(s.opts.Bankroll)

	return result, nil
}

// EvaluateQuotes evaluates quotes concurrently against a finalized rating state.
// Results keep quote order. A quote that fails evaluation is logged and skipped.
func (s *EvaluationService) EvaluateQuotes(ctx context.Context, cycleID uuid.UUID, quotes []models.MarketQuote, state *RatingState) (*CycleResult, error) {
	if state == nil {
		return nil, fmt.Errorf("ratings have not been built")
	}

	stats := NewCycleStats(len(quotes))
	selected := make([]*models.Recommendation, len(quotes))
	now := s.now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)

	for i := range quotes {
		i := i
		g.Go(func() error {
			quote := &quotes[i]
			rec, err := s.strategy.Evaluate(gctx, strategy.Context{
				Quote:       quote,
				Ratings:     state.Ratings,
				Totals:      state.Totals,
				CycleID:     cycleID,
				CurrentTime: now,
			})
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				stats.RecordError()
				s.recLogger.LogQuoteError(cycleID.String(), quote.Matchup(), err)
				return nil
			}

			stats.RecordEvaluated()
			metrics.RecordQuoteEvaluated()
			if rec == nil {
				stats.RecordNoCandidates()
				s.recLogger.LogNoCandidates(cycleID.String(), quote.Matchup())
				return nil
			}
			selected[i] = rec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("evaluation cycle cancelled: %w", err)
	}

	result := &CycleResult{CycleID: cycleID, Stats: stats}
	for _, rec := range selected {
		if rec == nil {
			continue
		}
		result.Selected = append(result.Selected, rec)

		if rec.MeetsThreshold(s.opts.MinEdgePercent) {
			stats.RecordIssued()
			result.Issued = append(result.Issued, rec)
			s.recLogger.LogRecommendation(rec)
			metrics.RecordRecommendation(string(rec.BetType), "issued", rec.EdgePct, rec.StakeAmount().InexactFloat64())
			continue
		}
		stats.RecordSuppressed()
		s.recLogger.LogSuppressed(rec, s.opts.MinEdgePercent)
		metrics.RecordRecommendation(string(rec.BetType), "suppressed", rec.EdgePct, 0)
	}

	return result, nil
}

func (s *EvaluationService) deliver(ctx context.Context, issued []*models.Recommendation) {
	if len(issued) == 0 {
		return
	}

	if s.recRepo != nil {
		if err := s.recRepo.InsertBatch(ctx, issued); err != nil {
			s.recLogger.WithError(err).Error("Failed to persist recommendations")
		}
	}

	if s.betsLog != nil {
		err := s.betsLog.Append(issued)
		for _, rec := range issued {
			s.audit.LogDelivery(rec.ID.String(), "bets_log", rec.StakeAmount().InexactFloat64(), s.now(), err)
		}
		metrics.RecordDelivery("bets_log", err)
	}

	if s.notifier == nil {
		return
	}
	for _, rec := range issued {
		err := s.notifier.Notify(ctx, rec)
		s.audit.LogDelivery(rec.ID.String(), s.notifier.Channel(), rec.StakeAmount().InexactFloat64(), s.now(), err)
		metrics.RecordDelivery(s.notifier.Channel(), err)
	}
}

// SortByEdge orders recommendations by edge percentage, largest first
func SortByEdge(recs []*models.Recommendation) []*models.Recommendation {
	sorted := append([]*models.Recommendation(nil), recs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EdgePct > sorted[j].EdgePct
	})
	return sorted
}
