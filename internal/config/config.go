// Package config provides configuration management for the gridiron-edge application.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Elo      EloConfig      `mapstructure:"elo" validate:"required"`
	Staking  StakingConfig  `mapstructure:"staking" validate:"required"`
	Totals   TotalsConfig   `mapstructure:"totals"`
	History  HistoryConfig  `mapstructure:"history" validate:"required"`
	OddsAPI  OddsAPIConfig  `mapstructure:"odds_api" validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Output   OutputConfig   `mapstructure:"output"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Schedule ScheduleConfig `mapstructure:"schedule" validate:"required"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// EloConfig represents rating model parameters
type EloConfig struct {
	BaseRating float64 `mapstructure:"base_rating" validate:"required,gt=0"`
	KFactor    float64 `mapstructure:"k_factor" validate:"required,gt=0"`
}

// StakingConfig represents bankroll and stake sizing parameters.
// MinEdgePercent is compared with edge*100 in each market's unit: win
// probability for moneylines, rating points for spreads, points for totals.
type StakingConfig struct {
	Bankroll        float64 `mapstructure:"bankroll" validate:"required,gt=0"`
	FractionalKelly float64 `mapstructure:"fractional_kelly" validate:"gte=0,lte=1"`
	MinEdgePercent  float64 `mapstructure:"min_edge_percent" validate:"gte=0"`
	SpreadStdev     float64 `mapstructure:"spread_stdev" validate:"required,gt=0"`
	TotalsStdev     float64 `mapstructure:"totals_stdev" validate:"required,gt=0"`
	DefaultPrice    int     `mapstructure:"default_price" validate:"required,americanodds"`
}

// TotalsConfig represents the totals model window
type TotalsConfig struct {
	LookbackGames int `mapstructure:"lookback_games" validate:"omitempty,gt=0"`
}

// HistoryConfig points at the completed-games file
type HistoryConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// OddsAPIConfig represents the odds feed configuration
type OddsAPIConfig struct {
	BaseURL         string  `mapstructure:"base_url" validate:"required,url"`
	APIKey          string  `mapstructure:"api_key"`
	Sport           string  `mapstructure:"sport" validate:"required"`
	Regions         string  `mapstructure:"regions" validate:"required"`
	Markets         string  `mapstructure:"markets" validate:"required,markets"`
	Bookmaker       string  `mapstructure:"bookmaker"`
	TimeoutSeconds  int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RetryAttempts   int     `mapstructure:"retry_attempts" validate:"gte=0"`
	RateLimit       float64 `mapstructure:"rate_limit" validate:"gte=0"`
	CacheTTLSeconds int     `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Driver         string `mapstructure:"driver" validate:"omitempty,dbdriver"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	Path           string `mapstructure:"path"`
	MaxConnections int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
}

// OutputConfig represents recommendation sinks
type OutputConfig struct {
	BetsLogPath string `mapstructure:"bets_log_path"`
}

// TelegramConfig represents Telegram delivery configuration
type TelegramConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Token   string `mapstructure:"token"`
	ChatID  int64  `mapstructure:"chat_id"`
}

// ScheduleConfig represents evaluation scheduling
type ScheduleConfig struct {
	EvaluationCron string `mapstructure:"evaluation_cron" validate:"required"`
	Concurrency    int    `mapstructure:"concurrency" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Path    string `mapstructure:"path"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// OddsAPITimeout returns the per-request timeout
func (c *Config) OddsAPITimeout() time.Duration {
	return time.Duration(c.OddsAPI.TimeoutSeconds) * time.Second
}

// QuoteCacheTTL returns how long fetched quotes are reused
func (c *Config) QuoteCacheTTL() time.Duration {
	return time.Duration(c.OddsAPI.CacheTTLSeconds) * time.Second
}
