// Package config loads process settings from the environment, after merging
// a .env file when one exists.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// ErrMissingDatabaseURL is returned by Load when DATABASE_URL is unset.
var ErrMissingDatabaseURL = errors.New("config: DATABASE_URL is required")

// Config holds every setting the server and the migration tool read.
type Config struct {
	DatabaseURL string
	HTTPAddr    string

	LogLevel  zerolog.Level
	LogFormat string // "json" or "console"

	DBMaxOpenConns    int
	DBSlowQuery       time.Duration
	DBLogArgs         bool
	DBConnectAttempts int

	// RateLimit is requests per second allowed per client IP; 0 disables
	// the limiter.
	RateLimit float64
	RateBurst int

	ShutdownTimeout time.Duration
}

// Load reads .env (ok if missing) and then the process environment.
// Variables already set in the environment win over .env entries.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("config: .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		HTTPAddr:    getenv("HTTP_ADDR", "127.0.0.1:8080"),
		LogFormat:   strings.ToLower(getenv("LOG_FORMAT", "json")),
	}
	if cfg.DatabaseURL == "" {
		return Config{}, ErrMissingDatabaseURL
	}

	var errs []error
	var err error

	if cfg.LogLevel, err = zerolog.ParseLevel(strings.ToLower(getenv("LOG_LEVEL", "info"))); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT: want json or console, got %q", cfg.LogFormat))
	}
	if cfg.DBMaxOpenConns, err = intEnv("DB_MAX_OPEN_CONNS", 10); err != nil {
		errs = append(errs, err)
	}
	if cfg.DBSlowQuery, err = durationEnv("DB_SLOW_QUERY", 200*time.Millisecond); err != nil {
		errs = append(errs, err)
	}
	if cfg.DBLogArgs, err = boolEnv("DB_LOG_ARGS", false); err != nil {
		errs = append(errs, err)
	}
	if cfg.DBConnectAttempts, err = intEnv("DB_CONNECT_ATTEMPTS", 3); err != nil {
		errs = append(errs, err)
	}
	if cfg.RateLimit, err = floatEnv("RATE_LIMIT", 0); err != nil {
		errs = append(errs, err)
	}
	if cfg.RateBurst, err = intEnv("RATE_BURST", 20); err != nil {
		errs = append(errs, err)
	}
	if cfg.ShutdownTimeout, err = durationEnv("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// NewLogger builds the process logger. Output goes to w, or stdout when w
// is nil.
func NewLogger(cfg Config, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}
	if cfg.LogFormat == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(cfg.LogLevel).With().Timestamp().Logger()
}

// ─────────────────────────────────────────────────────────────────────────────
// Environment helpers
// ─────────────────────────────────────────────────────────────────────────────

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func intEnv(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s: want a non-negative integer, got %q", k, v)
	}
	return n, nil
}

func floatEnv(k string, def float64) (float64, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("%s: want a non-negative number, got %q", k, v)
	}
	return f, nil
}

func durationEnv(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%s: want a duration like 250ms, got %q", k, v)
	}
	return d, nil
}

func boolEnv(k string, def bool) (bool, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: want true or false, got %q", k, v)
	}
	return b, nil
}
