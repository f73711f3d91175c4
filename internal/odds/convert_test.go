package odds

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmericanToDecimal(t *testing.T) {
	tests := []struct {
		name     string
		american int
		expected float64
	}{
		{"Favorite -150", -150, 1.6667},
		{"Underdog +130", 130, 2.30},
		{"Even +100", 100, 2.0},
		{"Even -100", -100, 2.0},
		{"Standard -110", -110, 1.9091},
		{"Longshot +1000", 1000, 11.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decimal, err := AmericanToDecimal(tt.american)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, decimal, 0.0001)
		})
	}
}

func TestAmericanToDecimalRejectsInvalidOdds(t *testing.T) {
	for _, american := range []int{0, 1, -1, 99, -99, 50} {
		_, err := AmericanToDecimal(american)
		require.Error(t, err, "odds %d", american)

		var invalid *InvalidOddsError
		assert.True(t, errors.As(err, &invalid))
		assert.ErrorIs(t, err, ErrInvalidOdds)
	}
}

func TestImpliedProbability(t *testing.T) {
	tests := []struct {
		name     string
		american int
		expected float64
	}{
		{"Favorite -150", -150, 0.6},
		{"Underdog +150", 150, 0.4},
		{"Heavy favorite -300", -300, 0.75},
		{"Big underdog +300", 300, 0.25},
		{"Standard -110", -110, 0.5238},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ImpliedProbability(tt.american)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, p, 0.0001)
		})
	}
}

func TestImpliedProbabilityStrictlyInsideUnitInterval(t *testing.T) {
	for american := 100; american <= 100000; american += 37 {
		for _, sign := range []int{1, -1} {
			p, err := ImpliedProbability(sign * american)
			require.NoError(t, err)
			assert.Greater(t, p, 0.0)
			assert.Less(t, p, 1.0)
		}
	}
}

func TestImpliedProbabilityDecreasesWithDecimalOdds(t *testing.T) {
	prices := []int{-1000, -400, -150, -110, 100, 130, 250, 900}
	previous := 1.0
	for _, american := range prices {
		p, err := ImpliedProbability(american)
		require.NoError(t, err)
		assert.Less(t, p, previous, "price %d", american)
		previous = p
	}
}

func TestDecimalToImpliedProbability(t *testing.T) {
	p, err := DecimalToImpliedProbability(2.5)
	require.NoError(t, err)
	assert.InDelta(t, 0.4, p, 1e-12)

	_, err = DecimalToImpliedProbability(1.0)
	assert.ErrorIs(t, err, ErrInvalidOdds)
}

func TestDecimalToAmerican(t *testing.T) {
	american, err := DecimalToAmerican(2.5)
	require.NoError(t, err)
	assert.Equal(t, 150, american)

	american, err = DecimalToAmerican(1.0 + 100.0/150.0)
	require.NoError(t, err)
	assert.Equal(t, -150, american)

	_, err = DecimalToAmerican(0.9)
	assert.Error(t, err)
}
