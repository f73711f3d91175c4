package datasource

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/config"
)

// Factory creates data sources from configuration
type Factory struct {
	logger logrus.FieldLogger
	config *config.Config
}

// NewFactory creates a new data source factory
func NewFactory(cfg *config.Config, logger logrus.FieldLogger) *Factory {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Factory{
		logger: logger,
		config: cfg,
	}
}

// HTTPClientConfig derives HTTP client settings from the odds feed section
func (f *Factory) HTTPClientConfig() HTTPClientConfig {
	httpCfg := DefaultHTTPClientConfig()
	api := f.config.OddsAPI
	if api.TimeoutSeconds > 0 {
		httpCfg.Timeout = time.Duration(api.TimeoutSeconds) * time.Second
	}
	httpCfg.MaxRetries = api.RetryAttempts
	httpCfg.RateLimit = api.RateLimit
	return httpCfg
}

// NewQuoteSource builds the odds feed client, wrapped in a cache when a TTL is configured
func (f *Factory) NewQuoteSource() (QuoteSource, error) {
	if f.config == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	api := f.config.OddsAPI
	if api.APIKey == "" {
		return nil, fmt.Errorf("odds API key is required")
	}

	httpClient := NewRateLimitedHTTPClient(f.HTTPClientConfig(), f.logger.WithField("component", "http"))
	client := NewOddsAPIClient(httpClient, OddsAPIOptions{
		BaseURL:   api.BaseURL,
		APIKey:    api.APIKey,
		Sport:     api.Sport,
		Regions:   api.Regions,
		Markets:   api.Markets,
		Bookmaker: api.Bookmaker,
	}, f.logger)

	if api.CacheTTLSeconds <= 0 {
		return client, nil
	}
	return NewCachedQuoteSource(client, time.Duration(api.CacheTTLSeconds)*time.Second), nil
}

// NewHistorySource builds the history loader
func (f *Factory) NewHistorySource() (HistorySource, error) {
	if f.config == nil || f.config.History.Path == "" {
		return nil, fmt.Errorf("history path is required")
	}
	return NewHistoryCSV(f.config.History.Path), nil
}
