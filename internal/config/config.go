// Package config loads the immutable run configuration from the
// environment. Configuration errors are the only failure class fatal
// to a whole run.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the validated, effectively immutable run configuration.
type Config struct {
	InboxDir     string
	ProcessedDir string
	LedgerPath   string
	PollInterval time.Duration
	LogLevel     string
}

// Load reads configuration from a .env file (when present) and the
// process environment, then validates required settings.
func Load() (*Config, error) {
	_ = godotenv.Load() // optional; env vars win

	cfg := &Config{
		InboxDir:     os.Getenv("CREDREADER_INBOX_DIR"),
		ProcessedDir: getEnv("CREDREADER_PROCESSED_DIR", ""),
		LedgerPath:   os.Getenv("CREDREADER_LEDGER_PATH"),
		PollInterval: time.Duration(getEnvAsInt("CREDREADER_POLL_INTERVAL_MINUTES", 15)) * time.Minute,
		LogLevel:     getEnv("CREDREADER_LOG_LEVEL", "info"),
	}

	if cfg.ProcessedDir == "" && cfg.InboxDir != "" {
		cfg.ProcessedDir = cfg.InboxDir + "/processed"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the required settings.
func (c *Config) Validate() error {
	var missing []string
	if c.InboxDir == "" {
		missing = append(missing, "CREDREADER_INBOX_DIR")
	}
	if c.LedgerPath == "" {
		missing = append(missing, "CREDREADER_LEDGER_PATH")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missing)
	}

	if _, err := os.Stat(c.InboxDir); err != nil {
		return fmt.Errorf("inbox directory %q: %w", c.InboxDir, err)
	}
	if c.PollInterval <= 0 {
		return errors.New("poll interval must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
