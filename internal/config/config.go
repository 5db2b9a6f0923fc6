package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"
)

// ErrInvalidConfig is returned by Validate for unusable settings.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string

	// Logging
	LogLevel  string // debug, info, warn, error
	LogFormat string // text or json
	LogFile   string // optional second sink, appended to

	// Rate limiting
	RequestLimit           int
	RateLimitResetInterval time.Duration
	RateLimitRedisURL      string // empty keeps limiter state in process memory

	// Engine
	QueryLogBackend     string // memory or badger
	AnalysisWorkers     int
	StatsReportInterval time.Duration // 0 disables the reporter

	// Features
	MetricsEnabled bool

	// ConfigFile is the optional YAML overlay path.
	ConfigFile string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	addr := getEnv("SERVER_ADDR", ":3000")
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	return &Config{
		Env:                    getEnv("ENV", "development"),
		ServerAddr:             addr,
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		LogFormat:              getEnv("LOG_FORMAT", "text"),
		LogFile:                getEnv("LOG_FILE", ""),
		RequestLimit:           getEnvInt("REQUEST_LIMIT", 10),
		RateLimitResetInterval: time.Duration(getEnvInt("RATE_LIMIT_RESET_INTERVAL", 60000)) * time.Millisecond,
		RateLimitRedisURL:      getEnv("RATE_LIMIT_REDIS_URL", ""),
		QueryLogBackend:        getEnv("QUERY_LOG_BACKEND", "memory"),
		AnalysisWorkers:        getEnvInt("ANALYSIS_WORKERS", runtime.NumCPU()),
		StatsReportInterval:    getEnvDuration("STATS_REPORT_INTERVAL", 5*time.Minute),
		MetricsEnabled:         getEnv("METRICS_ENABLED", "true") != "false",
		ConfigFile:             getEnv("CONFIG_FILE", "config.yaml"),
	}
}

// Validate reports the first setting the server cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.RequestLimit <= 0:
		return fmt.Errorf("%w: REQUEST_LIMIT must be positive, got %d", ErrInvalidConfig, c.RequestLimit)
	case c.RateLimitResetInterval <= 0:
		return fmt.Errorf("%w: RATE_LIMIT_RESET_INTERVAL must be positive", ErrInvalidConfig)
	case c.AnalysisWorkers <= 0:
		return fmt.Errorf("%w: ANALYSIS_WORKERS must be positive, got %d", ErrInvalidConfig, c.AnalysisWorkers)
	case c.StatsReportInterval < 0:
		return fmt.Errorf("%w: STATS_REPORT_INTERVAL must not be negative", ErrInvalidConfig)
	case c.QueryLogBackend != "memory" && c.QueryLogBackend != "badger":
		return fmt.Errorf("%w: unknown QUERY_LOG_BACKEND %q", ErrInvalidConfig, c.QueryLogBackend)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvInt falls back on unparsable values so Validate sees the default.
func getEnvInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	if raw == "0" {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}
