package datasource

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gridiron-edge/internal/models"
)

type fakeQuoteSource struct {
	calls  int
	quotes []models.MarketQuote
	err    error
}

func (f *fakeQuoteSource) FetchQuotes(ctx context.Context) ([]models.MarketQuote, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.quotes, nil
}

func (f *fakeQuoteSource) Name() string { return "fake" }

func TestCachedQuoteSourceServesFromCache(t *testing.T) {
	src := &fakeQuoteSource{quotes: []models.MarketQuote{{HomeTeam: "A", AwayTeam: "B"}}}
	cached := NewCachedQuoteSource(src, time.Minute)

	first, err := cached.FetchQuotes(context.Background())
	require.NoError(t, err)
	second, err := cached.FetchQuotes(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, src.calls)

	hits, misses, ratio := cached.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
	assert.Equal(t, 0.5, ratio)
	assert.Equal(t, "fake", cached.Name())
}

func TestCachedQuoteSourceInvalidate(t *testing.T) {
	src := &fakeQuoteSource{quotes: []models.MarketQuote{{HomeTeam: "A", AwayTeam: "B"}}}
	cached := NewCachedQuoteSource(src, time.Minute)

	_, _ = cached.FetchQuotes(context.Background())
	cached.Invalidate()
	_, _ = cached.FetchQuotes(context.Background())

	assert.Equal(t, 2, src.calls)
}

func TestCachedQuoteSourceDoesNotCacheErrors(t *testing.T) {
	src := &fakeQuoteSource{err: errors.New("boom")}
	cached := NewCachedQuoteSource(src, time.Minute)

	_, err := cached.FetchQuotes(context.Background())
	assert.Error(t, err)
	_, err = cached.FetchQuotes(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 2, src.calls)
}
