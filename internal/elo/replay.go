package elo

import "github.com/yourusername/gridiron-edge/internal/models"

// Config controls a history replay
type Config struct {
	BaseRating float64
	KFactor    float64
	Trace      bool
}

// DefaultConfig returns the standard base rating and K-factor
func DefaultConfig() Config {
	return Config{
		BaseRating: DefaultBaseRating,
		KFactor:    DefaultKFactor,
	}
}

// TracePoint records the ratings around one processed game
type TracePoint struct {
	Index      int     `json:"index"`
	Home       string  `json:"home"`
	Away       string  `json:"away"`
	HomeBefore float64 `json:"home_before"`
	AwayBefore float64 `json:"away_before"`
	HomeAfter  float64 `json:"home_after"`
	AwayAfter  float64 `json:"away_after"`
}

// Replayer folds an ordered match history into ratings
type Replayer struct {
	cfg Config
}

// NewReplayer creates a replayer
func NewReplayer(cfg Config) *Replayer {
	return &Replayer{cfg: cfg}
}

// Replay processes history in the given order from a fresh store. It does not
// sort; callers that have dated records sort them first with
// models.SortByDate. The trace is nil unless Config.Trace is set.
func (r *Replayer) Replay(history []models.MatchRecord) (Snapshot, []TracePoint) {
	store := NewStore(r.cfg.BaseRating)

	var trace []TracePoint
	if r.cfg.Trace {
		trace = make([]TracePoint, 0, len(history))
	}

	for i := range history {
		m := &history[i]
		homeBefore := store.Rating(m.HomeTeam)
		awayBefore := store.Rating(m.AwayTeam)

		homeAfter, awayAfter := store.ApplyResult(m.HomeTeam, m.AwayTeam, m.HomeScore, m.AwayScore, r.cfg.KFactor)

		if r.cfg.Trace {
			trace = append(trace, TracePoint{
				Index:      i,
				Home:       m.HomeTeam,
				Away:       m.AwayTeam,
				HomeBefore: homeBefore,
				AwayBefore: awayBefore,
				HomeAfter:  homeAfter,
				AwayAfter:  awayAfter,
			})
		}
	}

	return store.Snapshot(), trace
}

// BuildRatings replays history and returns only the final ratings
func BuildRatings(history []models.MatchRecord, cfg Config) Snapshot {
	cfg.Trace = false
	snap, _ := NewReplayer(cfg).Replay(history)
	return snap
}
