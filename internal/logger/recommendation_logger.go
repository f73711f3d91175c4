package logger

import (
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/models"
)

// RecommendationLogger provides dedicated logging for evaluation cycles.
type RecommendationLogger struct {
	*logrus.Entry
}

// NewRecommendationLogger creates a new recommendation logger.
func NewRecommendationLogger(baseLogger *logrus.Logger) *RecommendationLogger {
	return &RecommendationLogger{
		Entry: baseLogger.WithField("component", "recommendations"),
	}
}

func recommendationFields(rec *models.Recommendation) logrus.Fields {
	fields := logrus.Fields{
		"cycle_id":         rec.CycleID.String(),
		"recommendation":   rec.ID.String(),
		"matchup":          rec.Matchup,
		"bet_type":         string(rec.BetType),
		"candidate":        string(rec.Candidate),
		"selection":        rec.Selection,
		"edge_pct":         rec.EdgePct,
		"stake":            rec.StakeAmount().InexactFloat64(),
		"kelly_fraction":   rec.KellyFraction,
		"predicted_margin": rec.PredictedMargin,
	}
	if rec.AmericanOdds != nil {
		fields["odds"] = *rec.AmericanOdds
	}
	return fields
}

// LogRecommendation logs a recommendation that passed the edge threshold.
func (rl *RecommendationLogger) LogRecommendation(rec *models.Recommendation) {
	rl.WithFields(recommendationFields(rec)).Info("Recommendation issued")
}

// LogSuppressed logs a recommendation held back by the edge threshold.
func (rl *RecommendationLogger) LogSuppressed(rec *models.Recommendation, minEdgePercent float64) {
	fields := recommendationFields(rec)
	fields["min_edge_pct"] = minEdgePercent
	rl.WithFields(fields).Debug("Recommendation below edge threshold")
}

// LogNoCandidates logs a game with no priceable market.
func (rl *RecommendationLogger) LogNoCandidates(cycleID, matchup string) {
	rl.WithFields(logrus.Fields{
		"cycle_id": cycleID,
		"matchup":  matchup,
	}).Debug("No market data to evaluate")
}

// LogQuoteError logs a game that failed evaluation.
func (rl *RecommendationLogger) LogQuoteError(cycleID, matchup string, err error) {
	rl.WithFields(logrus.Fields{
		"cycle_id": cycleID,
		"matchup":  matchup,
		"error":    err.Error(),
	}).Warn("Quote evaluation failed")
}

// LogCycleSummary logs the outcome of one evaluation cycle.
func (rl *RecommendationLogger) LogCycleSummary(cycleID string, quotes, evaluated, issued, suppressed int, durationMs float64) {
	rl.WithFields(logrus.Fields{
		"cycle_id":          cycleID,
		"quotes":            quotes,
		"evaluated":         evaluated,
		"issued":            issued,
		"suppressed":        suppressed,
		"cycle_duration_ms": durationMs,
	}).Info("Evaluation cycle completed")
}
