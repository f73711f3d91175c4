package metrics

import "github.com/prometheus/client_golang/prometheus"

// Odds feed and delivery metrics
var (
	OddsRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "odds_requests_total",
		Help:      "Total number of odds feed fetches by result code",
	}, []string{"source", "code"})

	OddsRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "odds_request_duration_seconds",
		Help:      "Duration of odds feed fetches in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source"})

	QuoteCacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "quote_cache_hit_ratio",
		Help:      "Hit ratio of the quote cache",
	})

	DeliveriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deliveries_total",
		Help:      "Total number of recommendation deliveries by channel and outcome",
	}, []string{"channel", "outcome"})
)

// RecordOddsRequest records an odds feed fetch.
func RecordOddsRequest(source, code string, durationSeconds float64) {
	OddsRequestsTotal.WithLabelValues(source, code).Inc()
	OddsRequestDuration.WithLabelValues(source).Observe(durationSeconds)
}

// UpdateQuoteCacheHitRatio sets the quote cache hit ratio.
func UpdateQuoteCacheHitRatio(ratio float64) {
	QuoteCacheHitRatio.Set(ratio)
}

// RecordDelivery records a recommendation delivery attempt.
func RecordDelivery(channel string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	DeliveriesTotal.WithLabelValues(channel, outcome).Inc()
}
