// Package binance provides a client for the Binance spot market REST API.
package binance

import (
	"os"
	"strconv"
	"time"
)

const (
	defaultBaseURL       = "https://api.binance.com/api/v3"
	defaultTimeout       = 10 * time.Second
	defaultMaxRetries    = 5
	defaultRetryInterval = time.Second
)

// Config holds configuration for the Binance API client.
type Config struct {
	BaseURL       string        // Base URL for the API (e.g., "https://api.binance.com/api/v3")
	Timeout       time.Duration // HTTP request timeout
	MaxRetries    int           // Retries allowed after an HTTP 429 before giving up
	RetryInterval time.Duration // First backoff wait after an HTTP 429; doubles on each retry
}

// LoadConfig loads Binance configuration from environment variables.
// Unset or malformed values fall back to defaults.
func LoadConfig() Config {
	cfg := Config{
		BaseURL:       defaultBaseURL,
		Timeout:       defaultTimeout,
		MaxRetries:    defaultMaxRetries,
		RetryInterval: defaultRetryInterval,
	}
	if v := os.Getenv("BINANCE_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if d, err := time.ParseDuration(os.Getenv("BINANCE_TIMEOUT")); err == nil && d > 0 {
		cfg.Timeout = d
	}
	if n, err := strconv.Atoi(os.Getenv("BINANCE_MAX_RETRIES")); err == nil && n >= 0 {
		cfg.MaxRetries = n
	}
	if d, err := time.ParseDuration(os.Getenv("BINANCE_RETRY_INTERVAL")); err == nil && d > 0 {
		cfg.RetryInterval = d
	}
	return cfg
}
