package odds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveVig(t *testing.T) {
	a, b := RemoveVig(0.5238, 0.5238)
	assert.InDelta(t, 0.5, a, 1e-9)
	assert.InDelta(t, 0.5, b, 1e-9)

	a, b = RemoveVig(0, 0.5)
	assert.Zero(t, a)
	assert.Zero(t, b)
}

func TestRemoveVigFromAmerican(t *testing.T) {
	home, away, err := RemoveVigFromAmerican(-150, 130)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, home+away, 1e-12)
	assert.Greater(t, home, away)

	_, _, err = RemoveVigFromAmerican(0, 130)
	assert.ErrorIs(t, err, ErrInvalidOdds)
}

func TestOverround(t *testing.T) {
	p, err := ImpliedProbability(-110)
	require.NoError(t, err)
	assert.InDelta(t, 0.0476, Overround(p, p), 0.0001)
}
