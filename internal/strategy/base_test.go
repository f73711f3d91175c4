package strategy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gridiron-edge/internal/odds"
)

func TestClampProbability(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, MinProbability},
		{-1, MinProbability},
		{1, MaxProbability},
		{2, MaxProbability},
		{0.42, 0.42},
		{math.NaN(), MinProbability},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampProbability(tt.in))
	}
}

func TestPredictedMargin(t *testing.T) {
	assert.InDelta(t, 0.0, PredictedMargin(1500, 1500), 1e-12)
	assert.Greater(t, PredictedMargin(1600, 1500), 0.0)
	assert.InDelta(t, -PredictedMargin(1600, 1500), PredictedMargin(1500, 1600), 1e-9)

	extreme := PredictedMargin(9000, 0)
	assert.False(t, math.IsInf(extreme, 0))
	assert.InDelta(t, 2*math.Log(MaxProbability/(1-MaxProbability)), extreme, 1e-9)
}

func TestRatingMargin(t *testing.T) {
	assert.Equal(t, 50.0, RatingMargin(1550, 1500))
	assert.Equal(t, -50.0, RatingMargin(1500, 1550))
}

func TestMoneylineEdge(t *testing.T) {
	edge, err := MoneylineEdge(0.65, -150)
	require.NoError(t, err)
	assert.InDelta(t, 0.05, edge, 1e-9)

	_, err = MoneylineEdge(0.65, 0)
	assert.ErrorIs(t, err, odds.ErrInvalidOdds)
}

func TestSpreadEdge(t *testing.T) {
	assert.Equal(t, 53.5, SpreadEdge(50, -3.5))
	assert.Equal(t, -53.5, SpreadEdge(-50, 3.5))
}

func TestKellyFraction(t *testing.T) {
	decimalOdds := 100.0/150.0 + 1

	// (0.6667*0.65 - 0.35) / 0.6667
	assert.InDelta(t, 0.125, KellyFraction(decimalOdds, 0.65), 1e-9)
	assert.InDelta(t, 0.0, KellyFraction(decimalOdds, 0.6), 1e-12)
	assert.Equal(t, 0.0, KellyFraction(decimalOdds, 0.55))
	assert.Equal(t, 0.0, KellyFraction(1.0, 0.9))
	assert.Equal(t, 0.0, KellyFraction(0.5, 0.9))
	assert.InDelta(t, 0.5, KellyFraction(2.0, 0.75), 1e-12)
}

func TestKellyFractionNeverNegative(t *testing.T) {
	for _, american := range []int{-1000, -300, -150, -110, 100, 120, 250, 900} {
		d, err := odds.AmericanToDecimal(american)
		require.NoError(t, err)
		implied, err := odds.ImpliedProbability(american)
		require.NoError(t, err)

		for i := 0; i < 20; i++ {
			p := float64(i) / 20
			k := KellyFraction(d, p)
			assert.GreaterOrEqual(t, k, 0.0)
			assert.Less(t, k, 1.0)
			if p < implied-1e-9 {
				assert.Equal(t, 0.0, k, "odds %d p %.2f", american, p)
			}
		}
	}
}

func TestStake(t *testing.T) {
	assert.InDelta(t, 118.75, Stake(1000, 0.25, 0.475), 1e-9)
	assert.InDelta(t, 31.25, Stake(1000, 0.25, KellyFraction(100.0/150.0+1, 0.65)), 1e-6)
	assert.Equal(t, 0.0, Stake(1000, 0.25, -0.2))
	assert.Equal(t, 0.0, Stake(1000, 0.25, 0))
}

func TestCoverProbability(t *testing.T) {
	assert.Equal(t, 0.5, CoverProbability(0, 10))
	assert.InDelta(t, 0.975, NormalCDF(1.96), 1e-3)
	assert.InDelta(t, 0.8413, CoverProbability(10, 10), 1e-4)
	assert.InDelta(t, 0.1587, CoverProbability(-10, 10), 1e-4)
	assert.Equal(t, 1.0, CoverProbability(3, 0))
	assert.Equal(t, 0.0, CoverProbability(-3, 0))
}

func TestApplyKelly(t *testing.T) {
	b := BaseStrategy{Bankroll: 1000, FractionalKelly: 0.25}

	kelly, stake, err := b.ApplyKelly(-150, 0.65)
	require.NoError(t, err)
	assert.InDelta(t, 0.125, kelly, 1e-9)
	assert.InDelta(t, 31.25, stake, 1e-6)

	_, _, err = b.ApplyKelly(-99, 0.65)
	assert.ErrorIs(t, err, odds.ErrInvalidOdds)
}

func TestSelectBestKeepsFirstOnTie(t *testing.T) {
	best, ok := SelectBest([]Evaluation{
		{Candidate: "ML Home", Edge: 0.02},
		{Candidate: "ML Away", Edge: 0.04},
		{Candidate: "Spread Home", Edge: 0.04},
		{Candidate: "Over", Edge: 0.01},
	})
	require.True(t, ok)
	assert.Equal(t, "ML Away", string(best.Candidate))

	_, ok = SelectBest(nil)
	assert.False(t, ok)
}
