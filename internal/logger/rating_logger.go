package logger

import (
	"github.com/sirupsen/logrus"
)

// RatingLogger provides dedicated logging for rating replays.
type RatingLogger struct {
	*logrus.Entry
}

// NewRatingLogger creates a new rating logger.
func NewRatingLogger(baseLogger *logrus.Logger) *RatingLogger {
	return &RatingLogger{
		Entry: baseLogger.WithField("component", "ratings"),
	}
}

// LogHistoryLoaded logs a history load.
func (rl *RatingLogger) LogHistoryLoaded(source string, records int, sortedByDate bool) {
	rl.WithFields(logrus.Fields{
		"source":         source,
		"records":        records,
		"sorted_by_date": sortedByDate,
	}).Info("Match history loaded")
}

// LogReplayCompleted logs a finished replay.
func (rl *RatingLogger) LogReplayCompleted(matches, teams int, baseRating, kFactor, durationMs float64) {
	rl.WithFields(logrus.Fields{
		"matches":            matches,
		"teams":              teams,
		"base_rating":        baseRating,
		"k_factor":           kFactor,
		"replay_duration_ms": durationMs,
	}).Info("Rating replay completed")
}

// LogTopRating logs the highest rated team.
func (rl *RatingLogger) LogTopRating(team string, rating float64) {
	rl.WithFields(logrus.Fields{
		"team":   team,
		"rating": rating,
	}).Debug("Top rated team")
}

// LogSnapshotPersisted logs a snapshot written to storage.
func (rl *RatingLogger) LogSnapshotPersisted(snapshotID string, teams int) {
	rl.WithFields(logrus.Fields{
		"snapshot_id": snapshotID,
		"teams":       teams,
	}).Info("Rating snapshot persisted")
}
