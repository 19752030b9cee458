package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ArthurBash/telegramBot/pkg/apperr"
)

// Config holds all runtime configuration, sourced from environment
// variables (a .env file is loaded by main for local development).
type Config struct {
	Port        string
	Environment string
	LogLevel    string

	// Telegram
	TelegramBotToken string
	TelegramAPIURL   string
	PollTimeout      time.Duration
	PollRetryDelay   time.Duration

	// Database
	DatabaseURL string
	RedisURL    string

	// Categorization
	SimilarityThreshold float64
	DefaultCategory     string
	CategoryCacheTTL    time.Duration

	// Admin API
	AdminJWTSecret string
}

// Load reads configuration from the environment and validates it.
// A malformed similarity threshold or missing required settings fail
// fast here: a silently defaulted threshold would change categorization
// behavior for every future call.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8000"),
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "INFO"),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramAPIURL:   getEnv("TELEGRAM_API_URL", "https://api.telegram.org"),
		PollTimeout:      time.Duration(getEnvInt("TELEGRAM_POLL_TIMEOUT_SEC", 30)) * time.Second,
		PollRetryDelay:   time.Duration(getEnvInt("TELEGRAM_POLL_RETRY_DELAY_SEC", 5)) * time.Second,

		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),

		SimilarityThreshold: getEnvFloat("SIMILARITY_THRESHOLD", 0.7),
		DefaultCategory:     getEnv("DEFAULT_CATEGORY", "sin_categoria"),
		CategoryCacheTTL:    time.Duration(getEnvInt("CATEGORY_CACHE_TTL_SEC", 60)) * time.Second,

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.SimilarityThreshold < 0.0 || c.SimilarityThreshold > 1.0 {
		return apperr.ConfigError(fmt.Sprintf("SIMILARITY_THRESHOLD must be in [0.0, 1.0], got %v", c.SimilarityThreshold))
	}
	if c.DefaultCategory == "" {
		return apperr.ConfigError("DEFAULT_CATEGORY must not be empty")
	}
	if c.TelegramBotToken == "" {
		return apperr.ConfigError("TELEGRAM_BOT_TOKEN is required")
	}
	if c.DatabaseURL == "" {
		return apperr.ConfigError("DATABASE_URL is required")
	}
	switch c.LogLevel {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR", "FATAL",
		"debug", "info", "warn", "warning", "error", "fatal":
	default:
		return apperr.ConfigError(fmt.Sprintf("invalid LOG_LEVEL: %s", c.LogLevel))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
