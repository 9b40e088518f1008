// Package config reads the tracker's settings from the environment, with an
// optional .env file in the working directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"library-lending/library"

	"github.com/joho/godotenv"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config holds everything the CLI needs to open a library.
type Config struct {
	File      string
	Backend   string
	LoanDays  int
	LogLevel  slog.Level
	LogFormat string
}

// Load reads .env (if present) into the process environment and then
// builds a Config from LIBRARY_* variables, falling back to defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an arbitrary variable source.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, fallback string) string {
		v, ok := lookup(key)
		return withDefault(v, ok, fallback)
	}

	cfg := &Config{
		File:      get("LIBRARY_FILE", ""),
		Backend:   strings.ToLower(get("LIBRARY_BACKEND", BackendJSON)),
		LogFormat: strings.ToLower(get("LIBRARY_LOG_FORMAT", "text")),
	}

	days, err := strconv.Atoi(get("LIBRARY_LOAN_DAYS", "14"))
	if err != nil || days <= 0 {
		return nil, fmt.Errorf("LIBRARY_LOAN_DAYS must be a positive integer, got %q", get("LIBRARY_LOAN_DAYS", ""))
	}
	cfg.LoanDays = days

	if err := cfg.LogLevel.UnmarshalText([]byte(get("LIBRARY_LOG_LEVEL", "warn"))); err != nil {
		return nil, fmt.Errorf("LIBRARY_LOG_LEVEL: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields flags may have overridden.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendJSON, BackendSQLite)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", c.LogFormat)
	}
	if c.LoanDays <= 0 {
		return fmt.Errorf("loan days must be positive, got %d", c.LoanDays)
	}
	return nil
}

// StorePath is File, or the backend's default file name when File is empty.
func (c *Config) StorePath() string {
	if strings.TrimSpace(c.File) != "" {
		return c.File
	}
	if c.Backend == BackendSQLite {
		return "library.db"
	}
	return "library.json"
}

// OpenStore opens the backend the config selects at StorePath.
func (c *Config) OpenStore() (library.Store, error) {
	switch c.Backend {
	case BackendSQLite:
		return library.NewSQLiteStore(c.StorePath())
	case BackendJSON:
		return library.NewJSONStore(c.StorePath()), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", c.Backend)
	}
}

// NewLogger builds the slog logger described by the config, writing to stderr.
func (c *Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func withDefault(value string, ok bool, fallback string) string {
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}
