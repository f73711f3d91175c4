package elo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gridiron-edge/internal/models"
)

func TestExpectedScore(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		want float64
	}{
		{"equal ratings", 1500, 1500, 0.5},
		{"equal high ratings", 2100, 2100, 0.5},
		{"400 point favourite", 1900, 1500, 10.0 / 11.0},
		{"400 point underdog", 1500, 1900, 1.0 / 11.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ExpectedScore(tt.a, tt.b), 1e-12)
		})
	}
}

func TestExpectedScoreIsSymmetric(t *testing.T) {
	pairs := [][2]float64{
		{1500, 1500},
		{1000, 2200},
		{1623.4, 1377.9},
		{1499.999, 1500.001},
		{2200, 1000},
	}

	for _, p := range pairs {
		sum := ExpectedScore(p[0], p[1]) + ExpectedScore(p[1], p[0])
		assert.InDelta(t, 1.0, sum, 1e-9, "pair %v", p)
	}
}

func TestActualScore(t *testing.T) {
	assert.Equal(t, 1.0, ActualScore(31, 24))
	assert.Equal(t, 0.0, ActualScore(10, 17))
	assert.Equal(t, 0.5, ActualScore(20, 20))
	assert.Equal(t, 0.5, ActualScore(20.5, 20.5))
}

func TestRatingDoesNotMutateStore(t *testing.T) {
	s := NewStore(1500)

	assert.Equal(t, 1500.0, s.Rating("Unknown"))
	assert.False(t, s.Has("Unknown"))
	assert.Equal(t, 0, s.Len())
}

func TestApplyResultUsesPreUpdateRatings(t *testing.T) {
	s := NewStore(1500)
	s.Set("A", 1600)
	s.Set("B", 1400)

	expectedA := ExpectedScore(1600, 1400)
	expectedB := ExpectedScore(1400, 1600)

	newA, newB := s.ApplyResult("A", "B", 10, 20, 20)

	assert.InDelta(t, 1600+20*(0-expectedA), newA, 1e-9)
	assert.InDelta(t, 1400+20*(1-expectedB), newB, 1e-9)
	assert.Equal(t, newA, s.Rating("A"))
	assert.Equal(t, newB, s.Rating("B"))
}

func TestApplyResultConservesPoints(t *testing.T) {
	s := NewStore(1500)
	s.Set("A", 1580)

	newA, newB := s.ApplyResult("A", "B", 3, 27, 32)

	assert.InDelta(t, 1580+1500, newA+newB, 1e-9)
}

func TestApplyResultTieMovesTowardEachOther(t *testing.T) {
	s := NewStore(1500)
	s.Set("A", 1600)

	newA, newB := s.ApplyResult("A", "B", 17, 17, 20)

	assert.Less(t, newA, 1600.0)
	assert.Greater(t, newB, 1500.0)
}

func TestBuildRatingsSingleGame(t *testing.T) {
	history := []models.MatchRecord{
		{HomeTeam: "A", AwayTeam: "B", HomeScore: 31, AwayScore: 24},
	}

	snap := BuildRatings(history, Config{BaseRating: 1500, KFactor: 20})

	assert.Equal(t, 1510.0, snap.Rating("A"))
	assert.Equal(t, 1490.0, snap.Rating("B"))
	assert.Equal(t, 2, snap.Len())
	assert.Equal(t, []string{"A", "B"}, snap.Teams())
}

func sampleHistory() []models.MatchRecord {
	return []models.MatchRecord{
		{HomeTeam: "Chiefs", AwayTeam: "Ravens", HomeScore: 27, AwayScore: 20},
		{HomeTeam: "Bills", AwayTeam: "Jets", HomeScore: 22, AwayScore: 16},
		{HomeTeam: "Ravens", AwayTeam: "Bills", HomeScore: 35, AwayScore: 10},
		{HomeTeam: "Jets", AwayTeam: "Chiefs", HomeScore: 17, AwayScore: 17},
		{HomeTeam: "Chiefs", AwayTeam: "Bills", HomeScore: 24, AwayScore: 30},
		{HomeTeam: "Ravens", AwayTeam: "Jets", HomeScore: 14, AwayScore: 21},
	}
}

func TestBuildRatingsIsIdempotent(t *testing.T) {
	cfg := DefaultConfig()

	first := BuildRatings(sampleHistory(), cfg)
	second := BuildRatings(sampleHistory(), cfg)

	require.Equal(t, first.Teams(), second.Teams())
	for _, team := range first.Teams() {
		assert.Equal(t, math.Float64bits(first.Rating(team)), math.Float64bits(second.Rating(team)), team)
	}
}

func TestBuildRatingsMonotonicInResult(t *testing.T) {
	cfg := DefaultConfig()
	base := sampleHistory()

	// Chiefs lose game 5 in the base history; reverse it.
	flipped := sampleHistory()
	flipped[4].HomeScore, flipped[4].AwayScore = flipped[4].AwayScore, flipped[4].HomeScore

	before := BuildRatings(base, cfg)
	after := BuildRatings(flipped, cfg)

	assert.Greater(t, after.Rating("Chiefs"), before.Rating("Chiefs"))
	assert.Less(t, after.Rating("Bills"), before.Rating("Bills"))
}

func TestBuildRatingsDoesNotSort(t *testing.T) {
	history := sampleHistory()
	reversed := make([]models.MatchRecord, len(history))
	for i := range history {
		reversed[len(history)-1-i] = history[i]
	}

	forward := BuildRatings(history, DefaultConfig())
	backward := BuildRatings(reversed, DefaultConfig())

	assert.NotEqual(t, forward.Rating("Chiefs"), backward.Rating("Chiefs"))
}

func TestReplayTrace(t *testing.T) {
	r := NewReplayer(Config{BaseRating: 1500, KFactor: 20, Trace: true})

	snap, trace := r.Replay([]models.MatchRecord{
		{HomeTeam: "A", AwayTeam: "B", HomeScore: 31, AwayScore: 24},
		{HomeTeam: "B", AwayTeam: "A", HomeScore: 14, AwayScore: 14},
	})

	require.Len(t, trace, 2)
	assert.Equal(t, TracePoint{Index: 0, Home: "A", Away: "B", HomeBefore: 1500, AwayBefore: 1500, HomeAfter: 1510, AwayAfter: 1490}, trace[0])
	assert.Equal(t, 1490.0, trace[1].HomeBefore)
	assert.Equal(t, 1510.0, trace[1].AwayBefore)
	assert.Equal(t, snap.Rating("A"), trace[1].AwayAfter)
	assert.Equal(t, snap.Rating("B"), trace[1].HomeAfter)
}

func TestReplayWithoutTrace(t *testing.T) {
	_, trace := NewReplayer(DefaultConfig()).Replay(sampleHistory())
	assert.Nil(t, trace)
}

func TestSnapshotIsIndependentOfStore(t *testing.T) {
	s := NewStore(1500)
	s.ApplyResult("A", "B", 1, 0, 20)
	snap := s.Snapshot()

	s.ApplyResult("A", "B", 1, 0, 20)

	assert.Equal(t, 1510.0, snap.Rating("A"))
	assert.Equal(t, 1500.0, snap.Rating("C"))
	assert.False(t, snap.Has("C"))
}

func TestSnapshotRanked(t *testing.T) {
	snap := NewSnapshot(1500, map[string]float64{"B": 1490, "A": 1510, "C": 1510})

	ranked := snap.Ranked()

	require.Len(t, ranked, 3)
	assert.Equal(t, "A", ranked[0].Team)
	assert.Equal(t, "C", ranked[1].Team)
	assert.Equal(t, "B", ranked[2].Team)
}
