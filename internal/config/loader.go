package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix is prepended to every environment override
	EnvPrefix         = "GRIDIRON_EDGE"
	defaultConfigPath = "config/config.yaml"
)

// LoadDotEnv loads variables from .env files into the process environment.
// Variables that are already set win. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	// Set environment variable prefix
	v.SetEnvPrefix(EnvPrefix)

	// Enable automatic binding of environment variables
	v.AutomaticEnv()

	// Replace dots with underscores in environment variable names
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "gridiron-edge")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("elo.base_rating", 1500.0)
	v.SetDefault("elo.k_factor", 20.0)

	v.SetDefault("staking.bankroll", 1000.0)
	v.SetDefault("staking.fractional_kelly", 0.25)
	v.SetDefault("staking.min_edge_percent", 1.0)
	v.SetDefault("staking.spread_stdev", 340.0)
	v.SetDefault("staking.totals_stdev", 10.0)
	v.SetDefault("staking.default_price", -110)

	v.SetDefault("totals.lookback_games", 8)
	v.SetDefault("history.path", "data/history.csv")

	v.SetDefault("odds_api.base_url", "https://api.the-odds-api.com/v4")
	v.SetDefault("odds_api.api_key", "")
	v.SetDefault("odds_api.sport", "americanfootball_nfl")
	v.SetDefault("odds_api.regions", "us")
	v.SetDefault("odds_api.markets", "h2h,spreads,totals")
	v.SetDefault("odds_api.timeout_seconds", 15)
	v.SetDefault("odds_api.retry_attempts", 3)
	v.SetDefault("odds_api.rate_limit", 1.0)
	v.SetDefault("odds_api.cache_ttl_seconds", 60)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "data/gridiron_edge.db")
	v.SetDefault("database.password", "")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)

	v.SetDefault("output.bets_log_path", "")

	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.chat_id", 0)

	v.SetDefault("schedule.evaluation_cron", "0 */30 * * * *")
	v.SetDefault("schedule.concurrency", 4)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")
}

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME}).
// An unset variable expands to nothing: unquoted it becomes a null value and
// the key keeps its default, quoted ("${VAR}") it is an empty string.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	// Read the configuration file
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	setDefaults(v)

	// Expand environment variables in the configuration (${VAR} syntax)
	expanded := os.ExpandEnv(string(data))
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration, falling back to defaults and
// environment variables when the file does not exist
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// ConfigPathFromEnv returns GRIDIRON_EDGE_CONFIG_PATH or the fallback
func ConfigPathFromEnv(fallback string) string {
	if p := os.Getenv(EnvPrefix + "_CONFIG_PATH"); p != "" {
		return p
	}
	return fallback
}
