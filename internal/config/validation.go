package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	// Register custom validation functions
	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("markets", validateMarkets)
	_ = v.RegisterValidation("dbdriver", validateDBDriver)
	_ = v.RegisterValidation("americanodds", validateAmericanOdds)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	// Additional cross-field validations
	if err := validateCrossField(cfg); err != nil {
		return err
	}

	return nil
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

var validMarkets = map[string]bool{
	"h2h":     true,
	"spreads": true,
	"totals":  true,
}

// validateMarkets validates a comma-separated odds feed market list
func validateMarkets(fl validator.FieldLevel) bool {
	raw := strings.TrimSpace(fl.Field().String())
	if raw == "" {
		return false
	}

	seen := make(map[string]bool)
	for _, market := range strings.Split(raw, ",") {
		market = strings.TrimSpace(market)
		if !validMarkets[market] || seen[market] {
			return false
		}
		seen[market] = true
	}
	return true
}

// validateDBDriver validates the persistence driver
func validateDBDriver(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "postgres", "sqlite":
		return true
	default:
		return false
	}
}

// validateAmericanOdds rejects prices with magnitude below 100
func validateAmericanOdds(fl validator.FieldLevel) bool {
	price := fl.Field().Int()
	return price >= 100 || price <= -100
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(cfg.Schedule.EvaluationCron); err != nil {
		return fmt.Errorf("invalid schedule evaluation_cron %q: %w", cfg.Schedule.EvaluationCron, err)
	}

	if cfg.Database.Enabled {
		switch cfg.Database.Driver {
		case "postgres":
			if cfg.Database.Host == "" || cfg.Database.Name == "" || cfg.Database.User == "" {
				return fmt.Errorf("postgres database requires host, name and user")
			}
			if cfg.Database.Port == 0 {
				return fmt.Errorf("postgres database requires a port")
			}
		case "sqlite":
			if cfg.Database.Path == "" {
				return fmt.Errorf("sqlite database requires a path")
			}
		default:
			return fmt.Errorf("database driver must be postgres or sqlite when database is enabled")
		}
	}

	if cfg.Telegram.Enabled {
		if cfg.Telegram.Token == "" {
			return fmt.Errorf("telegram token is required when telegram is enabled")
		}
		if cfg.Telegram.ChatID == 0 {
			return fmt.Errorf("telegram chat_id is required when telegram is enabled")
		}
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.Port == 0 || cfg.Metrics.Path == "" {
			return fmt.Errorf("metrics port and path are required when metrics are enabled")
		}
		if !strings.HasPrefix(cfg.Metrics.Path, "/") {
			return fmt.Errorf("metrics path must start with '/'")
		}
	}

	// Validate production environment requirements
	if cfg.IsProduction() {
		if cfg.OddsAPI.APIKey == "" {
			return fmt.Errorf("production environment requires an odds API key")
		}
		if cfg.Database.Enabled && cfg.Database.Driver == "postgres" && cfg.Database.SSLMode == "disable" {
			return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
		}
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "url":
			errMsg += fmt.Sprintf("- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "markets":
			errMsg += fmt.Sprintf("- Field '%s' must be a comma-separated list of h2h, spreads, totals, got '%v'\n", field, value)
		case "dbdriver":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: postgres, sqlite\n", field)
		case "americanodds":
			errMsg += fmt.Sprintf("- Field '%s' must be American odds with magnitude of at least 100, got '%v'\n", field, value)
		case "oneof":
			errMsg += fmt.Sprintf("- Field '%s' has invalid value '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}

// ValidateEnvironment validates environment-specific requirements
func ValidateEnvironment(cfg *Config) error {
	if cfg.IsProduction() {
		if isTestCredential(cfg.OddsAPI.APIKey) {
			return fmt.Errorf("production environment should not use a placeholder odds API key")
		}
	}
	return nil
}

// isTestCredential checks if a credential looks like a test credential
func isTestCredential(credential string) bool {
	testPatterns := []string{
		"test", "demo", "example", "placeholder", "YOUR_",
	}

	for _, pattern := range testPatterns {
		if match, _ := regexp.MatchString("(?i)"+pattern, credential); match {
			return true
		}
	}

	return false
}
