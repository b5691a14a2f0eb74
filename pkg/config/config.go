package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// All environment variables are read here and nowhere else.
type Config struct {
	Env string // development, staging, production

	// Data layout
	Data DataConfig

	// Upstream CSV source
	Upstream UpstreamConfig

	// Optional prediction tracking database
	Database DatabaseConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DataConfig holds the on-disk data layout.
type DataConfig struct {
	RawDir       string // <raw>/<season>/<week>/<POS>.csv
	ProcessedDir string // engineered datasets
	ModelsDir    string // persisted model artifacts
	ResultsDir   string // reports and prediction exports
}

// UpstreamConfig holds the remote weekly-stats source configuration.
type UpstreamConfig struct {
	BaseURL        string
	ProjectionsURL string // HTML projections table fallback
	RatePerSecond  float64
	Timeout        time.Duration
}

// DatabaseConfig holds PostgreSQL configuration for the prediction tracker.
// The tracker is optional: an empty URL disables it.
type DatabaseConfig struct {
	URL string

	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Enabled reports whether a tracking database is configured.
func (d DatabaseConfig) Enabled() bool { return d.URL != "" }

// Load reads configuration from environment variables.
// This is the only function that calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Env: getEnv("ENV", "development"),

		Data: DataConfig{
			RawDir:       getEnv("DATA_RAW_DIR", "data/raw"),
			ProcessedDir: getEnv("DATA_PROCESSED_DIR", "data/processed"),
			ModelsDir:    getEnv("MODELS_DIR", "models"),
			ResultsDir:   getEnv("RESULTS_DIR", "results"),
		},

		Upstream: UpstreamConfig{
			BaseURL:        getEnv("UPSTREAM_BASE_URL", "https://raw.githubusercontent.com/hvpkod/NFL-Data/main/NFL-data-Players"),
			ProjectionsURL: getEnv("UPSTREAM_PROJECTIONS_URL", ""),
			RatePerSecond:  getEnvAsFloat("UPSTREAM_RATE_PER_SECOND", 2.0),
			Timeout:        getEnvAsDuration("UPSTREAM_TIMEOUT", "30s"),
		},

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Upstream.RatePerSecond <= 0 {
		return fmt.Errorf("UPSTREAM_RATE_PER_SECOND must be positive")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations.
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
