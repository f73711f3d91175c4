package datasource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/gridiron-edge/internal/metrics"
)

// HTTPClientConfig holds configuration for HTTP clients
type HTTPClientConfig struct {
	Timeout             time.Duration
	MaxRetries          int
	RetryWaitMin        time.Duration
	RetryWaitMax        time.Duration
	RateLimit           float64       // requests per second
	CircuitBreakerMax   int           // max consecutive failures before circuit break
	CircuitBreakerReset time.Duration // how long an open breaker waits before letting one trial request through
}

// DefaultHTTPClientConfig returns recommended defaults
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:             15 * time.Second,
		MaxRetries:          3,
		RetryWaitMin:        100 * time.Millisecond,
		RetryWaitMax:        5 * time.Second,
		RateLimit:           1.0,
		CircuitBreakerMax:   5,
		CircuitBreakerReset: time.Minute,
	}
}

// RateLimitedHTTPClient wraps retryablehttp.Client with rate limiting and circuit breaker
type RateLimitedHTTPClient struct {
	client              *retryablehttp.Client
	limiter             *rate.Limiter
	circuitBreakerMax   int
	circuitBreakerReset time.Duration

	mu                sync.Mutex
	consecutiveErrors int
	isOpen            bool
	openedAt          time.Time
	trialInFlight     bool
	lastError         error

	now    func() time.Time
	logger logrus.FieldLogger
}

// NewRateLimitedHTTPClient creates a new rate-limited HTTP client
func NewRateLimitedHTTPClient(cfg HTTPClientConfig, logger logrus.FieldLogger) *RateLimitedHTTPClient {
	if logger == nil {
		quiet := logrus.New()
		quiet.SetOutput(io.Discard)
		logger = quiet
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.CheckRetry = customRetryPolicy()
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	// Don't log verbose retry info
	retryClient.Logger = nil

	limit := rate.Limit(cfg.RateLimit)
	if cfg.RateLimit <= 0 {
		limit = rate.Inf
	}

	breakerMax := cfg.CircuitBreakerMax
	if breakerMax <= 0 {
		breakerMax = 5
	}
	breakerReset := cfg.CircuitBreakerReset
	if breakerReset <= 0 {
		breakerReset = time.Minute
	}

	return &RateLimitedHTTPClient{
		client:              retryClient,
		limiter:             rate.NewLimiter(limit, 1),
		circuitBreakerMax:   breakerMax,
		circuitBreakerReset: breakerReset,
		now:                 time.Now,
		logger:              logger,
	}
}

// Do executes an HTTP request with rate limiting and circuit breaker
func (c *RateLimitedHTTPClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	trial, err := c.admit()
	if err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		c.abandonTrial(trial)
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	retryReq, err := retryablehttp.FromRequest(req.WithContext(ctx))
	if err != nil {
		c.abandonTrial(trial)
		return nil, fmt.Errorf("failed to wrap request: %w", err)
	}

	resp, err := c.client.Do(retryReq)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.recordFailure(err)
		return nil, err
	}
	if resp.StatusCode >= 500 {
		c.recordFailure(fmt.Errorf("status %d", resp.StatusCode))
		return resp, nil
	}

	if c.isOpen {
		c.logger.Info("Circuit breaker closed after successful trial request")
	}
	c.consecutiveErrors = 0
	c.isOpen = false
	c.trialInFlight = false
	return resp, nil
}

// admit rejects requests while the breaker is open. Once the reset timeout
// has passed a single trial request is admitted; trial reports whether this is it.
func (c *RateLimitedHTTPClient) admit() (trial bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isOpen {
		return false, nil
	}
	if c.trialInFlight || c.now().Sub(c.openedAt) < c.circuitBreakerReset {
		return false, fmt.Errorf("%w: %v", ErrCircuitOpen, c.lastError)
	}
	c.trialInFlight = true
	c.logger.Info("Circuit breaker half-open, sending trial request")
	return true, nil
}

// abandonTrial releases the trial slot when the request never reached the server
func (c *RateLimitedHTTPClient) abandonTrial(trial bool) {
	if !trial {
		return
	}
	c.mu.Lock()
	c.trialInFlight = false
	c.mu.Unlock()
}

// recordFailure must be called with mu held
func (c *RateLimitedHTTPClient) recordFailure(err error) {
	c.consecutiveErrors++
	c.lastError = err
	if c.trialInFlight {
		c.trialInFlight = false
		c.openedAt = c.now()
		c.logger.WithField("error", err).Warn("Circuit breaker trial request failed, reopening")
		return
	}
	if c.consecutiveErrors >= c.circuitBreakerMax && !c.isOpen {
		c.isOpen = true
		c.openedAt = c.now()
		c.logger.WithFields(logrus.Fields{
			"consecutive_errors": c.consecutiveErrors,
			"error":              err,
		}).Error("Circuit breaker opened")
		metrics.RecordCircuitBreakerTrip()
	}
}

// IsOpen reports whether the circuit breaker is rejecting requests
func (c *RateLimitedHTTPClient) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isOpen
}

// Reset closes the circuit breaker
func (c *RateLimitedHTTPClient) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.consecutiveErrors = 0
	c.isOpen = false
	c.trialInFlight = false
	c.lastError = nil
}

// Get executes a GET request
func (c *RateLimitedHTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}

// Close closes any resources held by the client
func (c *RateLimitedHTTPClient) Close() error {
	c.client.HTTPClient.CloseIdleConnections()
	return nil
}

// customRetryPolicy defines which HTTP responses should trigger a retry
func customRetryPolicy() retryablehttp.CheckRetry {
	return func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if err != nil {
			// Retry on network errors
			return true, err
		}

		switch resp.StatusCode {
		case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true, nil
		}

		// Don't retry on client errors (4xx) except 429
		return false, nil
	}
}
