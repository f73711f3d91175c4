// Package metrics provides centralized Prometheus metrics registry for the edge engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gridiron_edge"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	EvaluationCyclesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "evaluation_cycles_total",
		Help:      "Total number of evaluation cycles by outcome",
	}, []string{"outcome"})
	QuotesEvaluatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "quotes_evaluated_total",
		Help:      "Total number of market quotes evaluated",
	})
	CandidatesSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "candidates_skipped_total",
		Help:      "Total number of market candidates skipped for unusable data",
	}, []string{"candidate"})
	CircuitBreakerTripsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "circuit_breaker_trips_total",
		Help:      "Total number of circuit breaker trips",
	})
)

// Gauge metrics
var (
	RatedTeams = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "rated_teams",
		Help:      "Number of teams in the current rating snapshot",
	})
	MatchesReplayed = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "matches_replayed",
		Help:      "Number of historical matches in the current rating snapshot",
	})
	CurrentBankroll = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "current_bankroll",
		Help:      "Bankroll used for stake sizing",
	})
	TeamRating = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "team_rating",
		Help:      "Current Elo rating per team",
	}, []string{"team"})
	LastCycleTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_cycle_timestamp_seconds",
		Help:      "Unix time of the last completed evaluation cycle",
	})
)

// Histogram metrics
var (
	EvaluationCycleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "evaluation_cycle_duration_seconds",
		Help:      "Duration of evaluation cycles in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	RatingReplayDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rating_replay_duration_seconds",
		Help:      "Duration of rating replays in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(EvaluationCyclesTotal)
		registry.MustRegister(QuotesEvaluatedTotal)
		registry.MustRegister(CandidatesSkippedTotal)
		registry.MustRegister(CircuitBreakerTripsTotal)

		registry.MustRegister(RatedTeams)
		registry.MustRegister(MatchesReplayed)
		registry.MustRegister(CurrentBankroll)
		registry.MustRegister(TeamRating)
		registry.MustRegister(LastCycleTimestamp)

		registry.MustRegister(EvaluationCycleDuration)
		registry.MustRegister(RatingReplayDuration)

		// Recommendation metrics
		registry.MustRegister(RecommendationsTotal)
		registry.MustRegister(RecommendationEdgePercent)
		registry.MustRegister(RecommendedStake)

		// Data source metrics
		registry.MustRegister(OddsRequestsTotal)
		registry.MustRegister(OddsRequestDuration)
		registry.MustRegister(QuoteCacheHitRatio)
		registry.MustRegister(DeliveriesTotal)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordEvaluationCycle records a finished evaluation cycle.
func RecordEvaluationCycle(outcome string, durationSeconds float64, finishedUnix float64) {
	EvaluationCyclesTotal.WithLabelValues(outcome).Inc()
	EvaluationCycleDuration.Observe(durationSeconds)
	if outcome == "success" {
		LastCycleTimestamp.Set(finishedUnix)
	}
}

// RecordQuoteEvaluated records one evaluated quote.
func RecordQuoteEvaluated() {
	QuotesEvaluatedTotal.Inc()
}

// RecordCandidateSkipped records a candidate dropped for unusable data.
func RecordCandidateSkipped(candidate string) {
	CandidatesSkippedTotal.WithLabelValues(candidate).Inc()
}

// RecordCircuitBreakerTrip records a circuit breaker trip event.
func RecordCircuitBreakerTrip() {
	CircuitBreakerTripsTotal.Inc()
}

// RecordRatingReplay records a rating replay and the resulting snapshot size.
func RecordRatingReplay(matches, teams int, durationSeconds float64) {
	MatchesReplayed.Set(float64(matches))
	RatedTeams.Set(float64(teams))
	RatingReplayDuration.Observe(durationSeconds)
}

// UpdateTeamRating sets a team's rating gauge.
func UpdateTeamRating(team string, rating float64) {
	TeamRating.WithLabelValues(team).Set(rating)
}

// UpdateBankroll updates the current bankroll gauge.
func UpdateBankroll(amount float64) {
	CurrentBankroll.Set(amount)
}
