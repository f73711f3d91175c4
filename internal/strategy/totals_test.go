package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gridiron-edge/internal/models"
)

func TestTotalsModelExpectedTotal(t *testing.T) {
	history := []models.MatchRecord{
		{HomeTeam: "A", AwayTeam: "B", HomeScore: 30, AwayScore: 20},
		{HomeTeam: "B", AwayTeam: "A", HomeScore: 10, AwayScore: 24},
	}
	m := NewTotalsModel(history, 8)

	aPF, aPA, ok := m.Averages("A")
	require.True(t, ok)
	assert.Equal(t, 27.0, aPF)
	assert.Equal(t, 15.0, aPA)

	// A: PF 27 PA 15, B: PF 15 PA 27
	total, ok := m.ExpectedTotal("A", "B")
	require.True(t, ok)
	assert.Equal(t, (27.0+27.0)/2+(15.0+15.0)/2, total)

	_, ok = m.ExpectedTotal("A", "Unknown")
	assert.False(t, ok)
}

func TestTotalsModelLookbackWindow(t *testing.T) {
	history := []models.MatchRecord{
		{HomeTeam: "A", AwayTeam: "B", HomeScore: 100, AwayScore: 0},
		{HomeTeam: "A", AwayTeam: "B", HomeScore: 20, AwayScore: 10},
		{HomeTeam: "A", AwayTeam: "B", HomeScore: 30, AwayScore: 10},
	}
	m := NewTotalsModel(history, 2)

	pf, pa, ok := m.Averages("A")
	require.True(t, ok)
	assert.Equal(t, 25.0, pf)
	assert.Equal(t, 10.0, pa)
}

func TestTotalsModelDefaultLookback(t *testing.T) {
	m := NewTotalsModel(nil, 0)
	assert.Equal(t, DefaultLookbackGames, m.lookback)
}
