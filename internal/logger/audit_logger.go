package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogDelivery logs a recommendation handed to an output channel.
func (al *AuditLogger) LogDelivery(recommendationID, channel string, stake float64, timestamp time.Time, err error) {
	entry := al.WithFields(logrus.Fields{
		"recommendation_id": recommendationID,
		"channel":           channel,
		"stake":             stake,
		"timestamp":         timestamp.Unix(),
	})
	if err != nil {
		entry.WithField("error", err.Error()).Warn("Recommendation delivery failed")
		return
	}
	entry.Info("Recommendation delivered")
}

// LogStakingParameters logs the staking parameters a process started with.
func (al *AuditLogger) LogStakingParameters(bankroll, fractionalKelly, minEdgePercent float64) {
	al.WithFields(logrus.Fields{
		"bankroll":         bankroll,
		"fractional_kelly": fractionalKelly,
		"min_edge_pct":     minEdgePercent,
	}).Info("Staking parameters loaded")
}

// LogCircuitBreakerEvent logs circuit breaker events.
func (al *AuditLogger) LogCircuitBreakerEvent(eventType, reason, actionTaken string) {
	al.WithFields(logrus.Fields{
		"event_type":   eventType,
		"reason":       reason,
		"action_taken": actionTaken,
	}).Warn("Circuit breaker event recorded")
}
