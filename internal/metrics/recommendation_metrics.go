package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recommendation counter vectors
var (
	RecommendationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recommendations_total",
		Help:      "Total number of recommendations by bet type and outcome",
	}, []string{"bet_type", "outcome"})
)

// Recommendation histogram vectors
var (
	RecommendationEdgePercent = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "recommendation_edge_percent",
		Help:      "Edge percentage of selected candidates",
		Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100, 1000},
	}, []string{"bet_type"})

	RecommendedStake = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "recommended_stake",
		Help:      "Stake of issued recommendations in currency units",
		Buckets:   []float64{0, 5, 10, 25, 50, 100, 250, 500},
	}, []string{"bet_type"})
)

// RecordRecommendation records a selected candidate. Outcome is issued or suppressed.
func RecordRecommendation(betType, outcome string, edgePercent, stake float64) {
	RecommendationsTotal.WithLabelValues(betType, outcome).Inc()
	RecommendationEdgePercent.WithLabelValues(betType).Observe(edgePercent)
	if outcome == "issued" {
		RecommendedStake.WithLabelValues(betType).Observe(stake)
	}
}
