package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/models"
)

const (
	oddsAPISourceName     = "the_odds_api"
	DefaultOddsAPIBaseURL = "https://api.the-odds-api.com/v4"
	DefaultSport          = "americanfootball_nfl"
	DefaultRegions        = "us"
	DefaultMarkets        = "h2h,spreads,totals"

	marketH2H     = "h2h"
	marketSpreads = "spreads"
	marketTotals  = "totals"
)

// MarketFallbacks is tried in order when the combined market request is rejected
var MarketFallbacks = []string{
	"h2h,spreads,totals",
	"h2h,spreads",
	"h2h,totals",
	"h2h",
	"spreads",
	"totals",
}

// OddsAPIOptions configures the odds feed client
type OddsAPIOptions struct {
	BaseURL   string
	APIKey    string
	Sport     string
	Regions   string
	Markets   string
	Bookmaker string
}

// OddsAPIClient implements QuoteSource for The Odds API v4
type OddsAPIClient struct {
	httpClient *RateLimitedHTTPClient
	opts       OddsAPIOptions
	logger     logrus.FieldLogger
}

type oddsAPIEvent struct {
	ID           string             `json:"id"`
	SportKey     string             `json:"sport_key"`
	CommenceTime time.Time          `json:"commence_time"`
	HomeTeam     string             `json:"home_team"`
	AwayTeam     string             `json:"away_team"`
	Bookmakers   []oddsAPIBookmaker `json:"bookmakers"`
}

type oddsAPIBookmaker struct {
	Key     string          `json:"key"`
	Title   string          `json:"title"`
	Markets []oddsAPIMarket `json:"markets"`
}

type oddsAPIMarket struct {
	Key      string           `json:"key"`
	Outcomes []oddsAPIOutcome `json:"outcomes"`
}

type oddsAPIOutcome struct {
	Name  string   `json:"name"`
	Price float64  `json:"price"`
	Point *float64 `json:"point"`
}

// NewOddsAPIClient creates a new odds feed client
func NewOddsAPIClient(httpClient *RateLimitedHTTPClient, opts OddsAPIOptions, logger logrus.FieldLogger) *OddsAPIClient {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultOddsAPIBaseURL
	}
	if opts.Sport == "" {
		opts.Sport = DefaultSport
	}
	if opts.Regions == "" {
		opts.Regions = DefaultRegions
	}
	if opts.Markets == "" {
		opts.Markets = DefaultMarkets
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &OddsAPIClient{
		httpClient: httpClient,
		opts:       opts,
		logger:     logger.WithField("source", oddsAPISourceName),
	}
}

// Name returns the data source name
func (c *OddsAPIClient) Name() string {
	return oddsAPISourceName
}

// marketSequence is the configured market set followed by the fallbacks that
// only ask for markets already configured
func (c *OddsAPIClient) marketSequence() []string {
	configured := marketSet(c.opts.Markets)
	seq := []string{c.opts.Markets}
	for _, m := range MarketFallbacks {
		fallback := marketSet(m)
		if len(fallback) == len(configured) || !isSubset(fallback, configured) {
			continue
		}
		seq = append(seq, m)
	}
	return seq
}

func marketSet(markets string) map[string]bool {
	set := make(map[string]bool)
	for _, m := range strings.Split(markets, ",") {
		if m = strings.TrimSpace(m); m != "" {
			set[m] = true
		}
	}
	return set
}

func isSubset(sub, of map[string]bool) bool {
	for m := range sub {
		if !of[m] {
			return false
		}
	}
	return true
}

// FetchQuotes retrieves upcoming games, narrowing the market set when the
// feed rejects the request
func (c *OddsAPIClient) FetchQuotes(ctx context.Context) ([]models.MarketQuote, error) {
	var lastErr error
	for i, markets := range c.marketSequence() {
		start := time.Now()
		events, err := c.fetchEvents(ctx, markets)
		code := "ok"
		if err != nil {
			code = ErrorCode(err)
		}
		metrics.RecordOddsRequest(c.Name(), code, time.Since(start).Seconds())
		if err == nil {
			if i > 0 {
				c.logger.WithField("markets", markets).Info("Using fallback market set")
			}
			return c.flatten(events), nil
		}
		lastErr = err
		if ErrorCode(err) != ErrCodeUnprocessable {
			return nil, err
		}
		c.logger.WithFields(logrus.Fields{
			"markets": markets,
			"error":   err,
		}).Warn("Market request rejected, trying smaller set")
	}
	return nil, lastErr
}

func (c *OddsAPIClient) eventsURL(markets string) string {
	params := url.Values{}
	params.Set("apiKey", c.opts.APIKey)
	params.Set("regions", c.opts.Regions)
	params.Set("markets", markets)
	params.Set("oddsFormat", "american")
	params.Set("dateFormat", "iso")
	if c.opts.Bookmaker != "" {
		params.Set("bookmakers", c.opts.Bookmaker)
	}
	return fmt.Sprintf("%s/sports/%s/odds?%s", strings.TrimRight(c.opts.BaseURL, "/"), url.PathEscape(c.opts.Sport), params.Encode())
}

func (c *OddsAPIClient) fetchEvents(ctx context.Context, markets string) ([]oddsAPIEvent, error) {
	resp, err := c.httpClient.Get(ctx, c.eventsURL(markets))
	if err != nil {
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeNetworkError, "failed to fetch odds", err)
	}
	defer resp.Body.Close()

	if remaining := resp.Header.Get("x-requests-remaining"); remaining != "" {
		c.logger.WithField("requests_remaining", remaining).Debug("Odds API quota")
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeAuthenticationFailed, "invalid API key", ErrAuthenticationFailed)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", ErrRateLimitExceeded)
	case resp.StatusCode == http.StatusNotFound:
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeNotFound, "unknown sport "+c.opts.Sport, ErrNotFound)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeUnprocessable, fmt.Sprintf("status %d for markets %s: %s", resp.StatusCode, markets, strings.TrimSpace(string(body))), nil)
	case resp.StatusCode != http.StatusOK:
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeServerError, fmt.Sprintf("unexpected status %d", resp.StatusCode), ErrServerError)
	}

	var events []oddsAPIEvent
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeInvalidData, "failed to parse response", err)
	}
	return events, nil
}

func (c *OddsAPIClient) flatten(events []oddsAPIEvent) []models.MarketQuote {
	quotes := make([]models.MarketQuote, 0, len(events))
	for i := range events {
		ev := &events[i]
		if ev.HomeTeam == "" || ev.AwayTeam == "" {
			c.logger.WithField("event_id", ev.ID).Warn("Skipping event without teams")
			continue
		}
		quotes = append(quotes, c.convertEvent(ev))
	}
	return quotes
}

func (c *OddsAPIClient) pickBookmaker(ev *oddsAPIEvent) *oddsAPIBookmaker {
	if len(ev.Bookmakers) == 0 {
		return nil
	}
	if c.opts.Bookmaker != "" {
		for i := range ev.Bookmakers {
			if ev.Bookmakers[i].Key == c.opts.Bookmaker {
				return &ev.Bookmakers[i]
			}
		}
	}
	return &ev.Bookmakers[0]
}

// convertEvent flattens one event into a quote. Markets with fewer than two
// outcomes are left empty.
func (c *OddsAPIClient) convertEvent(ev *oddsAPIEvent) models.MarketQuote {
	quote := models.MarketQuote{
		EventID:      ev.ID,
		HomeTeam:     ev.HomeTeam,
		AwayTeam:     ev.AwayTeam,
		CommenceTime: ev.CommenceTime,
	}

	book := c.pickBookmaker(ev)
	if book == nil {
		return quote
	}
	quote.Bookmaker = book.Key

	for _, m := range book.Markets {
		if len(m.Outcomes) < 2 {
			continue
		}
		switch m.Key {
		case marketH2H:
			home, away := sideOutcomes(m.Outcomes, ev.HomeTeam, ev.AwayTeam)
			quote.MoneylineHome = priceOf(home)
			quote.MoneylineAway = priceOf(away)
		case marketSpreads:
			home, away := sideOutcomes(m.Outcomes, ev.HomeTeam, ev.AwayTeam)
			quote.SpreadHome = home.Point
			quote.SpreadAway = away.Point
			if home.Point != nil {
				quote.SpreadHomePrice = priceOf(home)
			}
			if away.Point != nil {
				quote.SpreadAwayPrice = priceOf(away)
			}
		case marketTotals:
			over, under := totalOutcomes(m.Outcomes)
			if over.Point != nil {
				quote.TotalPoints = over.Point
			} else {
				quote.TotalPoints = under.Point
			}
			if quote.TotalPoints != nil {
				quote.OverPrice = priceOf(over)
				quote.UnderPrice = priceOf(under)
			}
		}
	}
	return quote
}

// sideOutcomes matches outcomes to home and away by name, falling back to
// feed order (first home, second away)
func sideOutcomes(outcomes []oddsAPIOutcome, home, away string) (oddsAPIOutcome, oddsAPIOutcome) {
	homeIdx, awayIdx := -1, -1
	for i, o := range outcomes {
		switch o.Name {
		case home:
			homeIdx = i
		case away:
			awayIdx = i
		}
	}
	if homeIdx >= 0 && awayIdx >= 0 {
		return outcomes[homeIdx], outcomes[awayIdx]
	}
	return outcomes[0], outcomes[1]
}

func totalOutcomes(outcomes []oddsAPIOutcome) (oddsAPIOutcome, oddsAPIOutcome) {
	overIdx, underIdx := 0, 1
	for i, o := range outcomes {
		switch strings.ToLower(o.Name) {
		case "over":
			overIdx = i
		case "under":
			underIdx = i
		}
	}
	return outcomes[overIdx], outcomes[underIdx]
}

func priceOf(o oddsAPIOutcome) *int {
	if o.Price == 0 || math.IsNaN(o.Price) {
		return nil
	}
	p := int(math.Round(o.Price))
	return &p
}
