// Package config loads process configuration from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/leofalp/mealscan/core/extract"
	slogobs "github.com/leofalp/mealscan/providers/observability/slog"
)

// DefaultModelTimeout bounds a single model call.
const DefaultModelTimeout = 60 * time.Second

// ErrMissingAPIKey is returned by Load when GEMINI_API_KEY is unset.
var ErrMissingAPIKey = errors.New("config: GEMINI_API_KEY is not set")

// Config is the resolved process configuration.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string

	// DatabaseURL enables persistence when set.
	DatabaseURL string

	ParseRetries int
	RegenRetries int
	Backoff      time.Duration
	ModelTimeout time.Duration

	LogLevel slog.Level
}

// Load reads envFiles (".env" when none are given) into the environment
// without overriding variables that are already set, then resolves Config.
// Missing env files are ignored.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", file, err)
		}
	}

	return FromEnv()
}

// FromEnv resolves Config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		APIKey:       strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		BaseURL:      os.Getenv("GEMINI_API_BASE_URL"),
		Model:        os.Getenv("GEMINI_MODEL"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		ParseRetries: extract.DefaultMaxParseRetries,
		RegenRetries: extract.DefaultMaxRegenRetries,
		Backoff:      extract.DefaultBackoff,
		ModelTimeout: DefaultModelTimeout,
		LogLevel:     slog.LevelInfo,
	}

	var errs []error
	if cfg.APIKey == "" {
		errs = append(errs, ErrMissingAPIKey)
	}

	errs = appendErr(errs, positiveInt("MEALSCAN_PARSE_RETRIES", &cfg.ParseRetries))
	errs = appendErr(errs, positiveInt("MEALSCAN_REGEN_RETRIES", &cfg.RegenRetries))
	errs = appendErr(errs, duration("MEALSCAN_BACKOFF", &cfg.Backoff))
	errs = appendErr(errs, duration("MEALSCAN_MODEL_TIMEOUT", &cfg.ModelTimeout))

	level := os.Getenv("MEALSCAN_LOG_LEVEL")
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	if level != "" {
		parsed, err := slogobs.ParseLogLevel(level)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %w", err))
		}
		cfg.LogLevel = parsed
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func appendErr(errs []error, err error) []error {
	if err != nil {
		return append(errs, err)
	}
	return errs
}

func positiveInt(key string, dst *int) error {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fmt.Errorf("config: %s must be a positive integer, got %q", key, raw)
	}
	*dst = n
	return nil
}

func duration(key string, dst *time.Duration) error {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return fmt.Errorf("config: %s must be a non-negative duration, got %q", key, raw)
	}
	*dst = d
	return nil
}
