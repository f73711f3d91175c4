package strategy

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/elo"
	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/odds"
)

// EloValueStrategy prices every available market for a game against Elo
// ratings and recommends the side with the largest edge.
// It never filters on edge size; thresholds belong to whoever presents the result.
type EloValueStrategy struct {
	BaseStrategy
	NameValue string
	logger    logrus.FieldLogger
}

// NewEloValueStrategy creates the strategy with the given staking parameters
func NewEloValueStrategy(base BaseStrategy) *EloValueStrategy {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	return &EloValueStrategy{
		BaseStrategy: base,
		NameValue:    "elo_value",
		logger:       quiet,
	}
}

// WithLogger sets where skipped candidates are reported
func (s *EloValueStrategy) WithLogger(logger logrus.FieldLogger) *EloValueStrategy {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Name returns strategy name
func (s *EloValueStrategy) Name() string {
	return s.NameValue
}

// GetParameters returns the staking parameters
func (s *EloValueStrategy) GetParameters() map[string]interface{} {
	return map[string]interface{}{
		"bankroll":         s.Bankroll,
		"fractional_kelly": s.FractionalKelly,
		"spread_stdev":     s.spreadStdev(),
		"totals_stdev":     s.totalsStdev(),
		"default_price":    s.priceOrDefault(nil),
	}
}

// Evaluate returns the best candidate for the quote, or nil when no market
// has the data needed to price it.
func (s *EloValueStrategy) Evaluate(ctx context.Context, strategyCtx Context) (*models.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strategyCtx.Quote == nil {
		return nil, fmt.Errorf("quote is required")
	}
	if strategyCtx.Ratings == nil {
		return nil, fmt.Errorf("ratings are required")
	}

	evals, skipped := s.Candidates(strategyCtx)
	for _, sk := range skipped {
		s.logger.WithFields(logrus.Fields{
			"matchup":   strategyCtx.Quote.Matchup(),
			"candidate": sk.Candidate,
			"error":     sk.Err,
		}).Warn("Candidate skipped")
		metrics.RecordCandidateSkipped(string(sk.Candidate))
	}

	best, ok := SelectBest(evals)
	if !ok {
		return nil, nil
	}
	return s.buildRecommendation(strategyCtx, best), nil
}

// Candidates prices every market present on the quote in enumeration order.
// Markets with invalid prices are returned as skipped rather than failing the game.
func (s *EloValueStrategy) Candidates(strategyCtx Context) ([]Evaluation, []SkippedCandidate) {
	q := strategyCtx.Quote
	ratingHome := strategyCtx.Ratings.Rating(q.HomeTeam)
	ratingAway := strategyCtx.Ratings.Rating(q.AwayTeam)

	var evals []Evaluation
	var skipped []SkippedCandidate
	add := func(c models.Candidate, e Evaluation, err error) {
		if err != nil {
			skipped = append(skipped, SkippedCandidate{Candidate: c, Err: err})
			return
		}
		e.Candidate = c
		evals = append(evals, e)
	}

	pHome := ClampProbability(elo.ExpectedScore(ratingHome, ratingAway))
	pAway := ClampProbability(elo.ExpectedScore(ratingAway, ratingHome))

	if q.MoneylineHome != nil {
		e, err := s.moneyline(*q.MoneylineHome, pHome, q.HomeTeam, q.AwayTeam)
		add(models.CandidateMLHome, e, err)
	}
	if q.MoneylineAway != nil {
		e, err := s.moneyline(*q.MoneylineAway, pAway, q.AwayTeam, q.HomeTeam)
		add(models.CandidateMLAway, e, err)
	}

	margin := RatingMargin(ratingHome, ratingAway)
	if q.SpreadHome != nil {
		edge := SpreadEdge(margin, *q.SpreadHome)
		e, err := s.pointsSide(edge, s.spreadStdev(), q.SpreadHomePrice)
		e.Selection = fmt.Sprintf("%s %+.1f", q.HomeTeam, *q.SpreadHome)
		e.Opponent = q.AwayTeam
		add(models.CandidateSpreadHome, e, err)
	}
	if q.SpreadAway != nil {
		edge := SpreadEdge(-margin, *q.SpreadAway)
		e, err := s.pointsSide(edge, s.spreadStdev(), q.SpreadAwayPrice)
		e.Selection = fmt.Sprintf("%s %+.1f", q.AwayTeam, *q.SpreadAway)
		e.Opponent = q.HomeTeam
		add(models.CandidateSpreadAway, e, err)
	}

	if q.TotalPoints != nil && strategyCtx.Totals != nil {
		if modelTotal, ok := strategyCtx.Totals.ExpectedTotal(q.HomeTeam, q.AwayTeam); ok {
			line := *q.TotalPoints

			e, err := s.pointsSide(modelTotal-line, s.totalsStdev(), q.OverPrice)
			e.Selection = fmt.Sprintf("Over %.1f", line)
			e.Opponent = q.Matchup()
			add(models.CandidateOver, e, err)

			e, err = s.pointsSide(line-modelTotal, s.totalsStdev(), q.UnderPrice)
			e.Selection = fmt.Sprintf("Under %.1f", line)
			e.Opponent = q.Matchup()
			add(models.CandidateUnder, e, err)
		}
	}

	return evals, skipped
}

func (s *EloValueStrategy) moneyline(price int, p float64, selection, opponent string) (Evaluation, error) {
	edge, err := MoneylineEdge(p, price)
	if err != nil {
		return Evaluation{}, err
	}
	implied, _ := odds.ImpliedProbability(price)
	kelly, stake, err := s.ApplyKelly(price, p)
	if err != nil {
		return Evaluation{}, err
	}
	return Evaluation{
		Selection:   selection,
		Opponent:    opponent,
		Edge:        edge,
		Price:       price,
		Probability: p,
		Implied:     implied,
		Kelly:       kelly,
		Stake:       stake,
	}, nil
}

func (s *EloValueStrategy) pointsSide(edge, stdev float64, quoted *int) (Evaluation, error) {
	price := s.priceOrDefault(quoted)
	p := CoverProbability(edge, stdev)
	implied, err := odds.ImpliedProbability(price)
	if err != nil {
		return Evaluation{}, err
	}
	kelly, stake, err := s.ApplyKelly(price, p)
	if err != nil {
		return Evaluation{}, err
	}
	return Evaluation{
		Edge:        edge,
		Price:       price,
		Probability: p,
		Implied:     implied,
		Kelly:       kelly,
		Stake:       stake,
	}, nil
}

func (s *EloValueStrategy) buildRecommendation(strategyCtx Context, best Evaluation) *models.Recommendation {
	q := strategyCtx.Quote
	ratingHome := strategyCtx.Ratings.Rating(q.HomeTeam)
	ratingAway := strategyCtx.Ratings.Rating(q.AwayTeam)

	betType := best.Candidate.BetType()
	margin := PredictedMargin(ratingHome, ratingAway)
	if betType == models.BetTypeSpread {
		margin = RatingMargin(ratingHome, ratingAway)
	}

	createdAt := strategyCtx.CurrentTime
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	price := best.Price
	implied := best.Implied
	rec := &models.Recommendation{
		ID:                 uuid.New(),
		CycleID:            strategyCtx.CycleID,
		EventID:            q.EventID,
		Matchup:            q.Matchup(),
		HomeTeam:           q.HomeTeam,
		AwayTeam:           q.AwayTeam,
		CommenceTime:       q.CommenceTime,
		BetType:            betType,
		Candidate:          best.Candidate,
		Selection:          best.Selection,
		Opponent:           best.Opponent,
		AmericanOdds:       &price,
		Edge:               best.Edge,
		EdgePct:            best.Edge * 100,
		ModelProbability:   best.Probability,
		ImpliedProbability: &implied,
		KellyFraction:      best.Kelly,
		Stake:              best.Stake,
		PredictedMargin:    margin,
		CreatedAt:          createdAt,
	}

	if betType == models.BetTypeTotals && strategyCtx.Totals != nil {
		line := *q.TotalPoints
		rec.MarketTotal = &line
		if modelTotal, ok := strategyCtx.Totals.ExpectedTotal(q.HomeTeam, q.AwayTeam); ok {
			rec.ModelTotal = &modelTotal
		}
	}
	return rec
}
