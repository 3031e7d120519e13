// Package config provides configuration loading and validation for the service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment names recognized in APP_ENV.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// AppConfig holds the service configuration read from environment variables.
type AppConfig struct {
	Env         string
	DatabaseURL string

	// CronSecret is the bearer token the scheduled trigger must present on
	// the job endpoints. Not required in development.
	CronSecret string

	// FetchInterval is the minimum gap between two runs of the same fetch
	// job. Runs inside the window are recorded as skipped.
	FetchInterval time.Duration

	PriceAPIURL string
	PriceAPIKey string
	Benchmarks  []string

	NewsAPIURL string
	NewsAPIKey string
	NewsLimit  int

	// RelevanceThreshold is the minimum keyword relevance score an article
	// needs to be persisted.
	RelevanceThreshold float64
}

// NewAppConfig creates the service configuration from environment variables.
// DATABASE_URL is always required; CRON_SECRET is required outside development.
func NewAppConfig() (*AppConfig, error) {
	cfg := &AppConfig{
		Env:         getEnv("APP_ENV", EnvProduction),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		CronSecret:  os.Getenv("CRON_SECRET"),
		PriceAPIURL: getEnv("PRICE_API_URL", "https://api.oilpriceapi.com/v1/prices/latest"),
		PriceAPIKey: os.Getenv("PRICE_API_KEY"),
		NewsAPIURL:  getEnv("NEWS_API_URL", "https://newsdata.io/api/1/latest"),
		NewsAPIKey:  os.Getenv("NEWS_API_KEY"),
	}

	intervalHours, err := getEnvInt("FETCH_INTERVAL_HOURS", 13)
	if err != nil {
		return nil, err
	}
	cfg.FetchInterval = time.Duration(intervalHours) * time.Hour

	cfg.NewsLimit, err = getEnvInt("NEWS_FETCH_LIMIT", 25)
	if err != nil {
		return nil, err
	}

	cfg.RelevanceThreshold, err = getEnvFloat("NEWS_RELEVANCE_THRESHOLD", 0.3)
	if err != nil {
		return nil, err
	}

	benchmarks := getEnv("PRICE_BENCHMARKS", "BRENT_CRUDE_USD,WTI_USD")
	for _, b := range strings.Split(benchmarks, ",") {
		if b = strings.TrimSpace(b); b != "" {
			cfg.Benchmarks = append(cfg.Benchmarks, b)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// normalize validates the configuration.
func (c *AppConfig) normalize() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required but not set")
	}
	if c.CronSecret == "" && !c.IsDevelopment() {
		return fmt.Errorf("CRON_SECRET is required outside development")
	}
	if c.FetchInterval < time.Minute {
		return fmt.Errorf("FETCH_INTERVAL_HOURS too small: %s", c.FetchInterval)
	}
	if c.RelevanceThreshold < 0 || c.RelevanceThreshold > 1 {
		return fmt.Errorf("NEWS_RELEVANCE_THRESHOLD out of range: %f", c.RelevanceThreshold)
	}
	if len(c.Benchmarks) == 0 {
		return fmt.Errorf("PRICE_BENCHMARKS cannot be empty")
	}
	return nil
}

// IsDevelopment reports whether the service runs in permissive development mode.
func (c *AppConfig) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return f, nil
}
