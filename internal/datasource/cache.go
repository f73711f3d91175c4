package datasource

import (
	"context"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/models"
)

// CachedQuoteSource serves quotes from memory until they expire
type CachedQuoteSource struct {
	source QuoteSource
	cache  *cache.Cache
	ttl    time.Duration

	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewCachedQuoteSource wraps source with a TTL cache
func NewCachedQuoteSource(source QuoteSource, ttl time.Duration) *CachedQuoteSource {
	return &CachedQuoteSource{
		source: source,
		cache:  cache.New(ttl, ttl*2),
		ttl:    ttl,
	}
}

func (c *CachedQuoteSource) key() string {
	return "quotes:" + c.source.Name()
}

// Name returns the wrapped source name
func (c *CachedQuoteSource) Name() string {
	return c.source.Name()
}

// FetchQuotes returns cached quotes or fetches and caches a fresh set.
// Callers receive a copy of the slice.
func (c *CachedQuoteSource) FetchQuotes(ctx context.Context) ([]models.MarketQuote, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cached, found := c.cache.Get(c.key()); found {
		if quotes, ok := cached.([]models.MarketQuote); ok {
			c.hitCount++
			c.publishRatio()
			return append([]models.MarketQuote(nil), quotes...), nil
		}
	}
	c.missCount++
	c.publishRatio()

	quotes, err := c.source.FetchQuotes(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.Set(c.key(), quotes, c.ttl)
	return append([]models.MarketQuote(nil), quotes...), nil
}

// Invalidate drops any cached quotes
func (c *CachedQuoteSource) Invalidate() {
	c.cache.Flush()
}

// Stats returns cache statistics
func (c *CachedQuoteSource) Stats() (hits, misses uint64, ratio float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	hits = c.hitCount
	misses = c.missCount
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// publishRatio must be called with mu held
func (c *CachedQuoteSource) publishRatio() {
	total := c.hitCount + c.missCount
	if total == 0 {
		return
	}
	metrics.UpdateQuoteCacheHitRatio(float64(c.hitCount) / float64(total))
}
