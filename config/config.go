package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	HTTP          HTTPConfig          `yaml:"http"`
	Scoring       ScoringConfig       `yaml:"scoring"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	URL string `yaml:"url"`
}

// HTTPConfig holds the read API configuration.
type HTTPConfig struct {
	Address string `yaml:"address"`
	// RateLimit is requests per second allowed per client IP; zero disables limiting.
	RateLimit float64 `yaml:"rate_limit"`
	Burst     int     `yaml:"burst"`
}

// ScoringConfig holds standings computation settings.
type ScoringConfig struct {
	PointTableFile string `yaml:"point_table_file"`
	// RecomputeDebounce collapses recompute triggers for a division arriving within the window.
	RecomputeDebounce time.Duration `yaml:"recompute_debounce"`
	RecomputeWorkers  int           `yaml:"recompute_workers"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"` // json|text
	ServiceName string `yaml:"service_name"`
	Environment string `yaml:"environment"`
}

const (
	defaultHTTPAddress       = ":8080"
	defaultRecomputeDebounce = 2 * time.Second
	defaultRecomputeWorkers  = 4
	defaultServiceName       = "teamcup"
)

// LoadConfig loads the configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	// Try reading configuration from the file first
	data, err := os.ReadFile(filename)
	if err != nil {
		// If the file is not found, try loading from environment variables
		return loadConfigFromEnv()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// loadConfigFromEnv loads the configuration from environment variables.
func loadConfigFromEnv() (*Config, error) {
	var cfg Config
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}

	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}
	if cfg.NATS.URL == "" {
		return nil, fmt.Errorf("NATS_URL environment variable not set")
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid HTTP_RATE_LIMIT value: %w", err)
		}
		cfg.HTTP.RateLimit = f
	}
	if v := os.Getenv("HTTP_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid HTTP_BURST value: %w", err)
		}
		cfg.HTTP.Burst = n
	}
	if v := os.Getenv("POINT_TABLE_FILE"); v != "" {
		cfg.Scoring.PointTableFile = v
	}
	if v := os.Getenv("RECOMPUTE_DEBOUNCE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid RECOMPUTE_DEBOUNCE value: %w", err)
		}
		cfg.Scoring.RecomputeDebounce = d
	}
	if v := os.Getenv("RECOMPUTE_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RECOMPUTE_WORKERS value: %w", err)
		}
		cfg.Scoring.RecomputeWorkers = n
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = defaultHTTPAddress
	}
	if c.HTTP.RateLimit > 0 && c.HTTP.Burst <= 0 {
		c.HTTP.Burst = int(c.HTTP.RateLimit) + 1
	}
	if c.Scoring.RecomputeDebounce <= 0 {
		c.Scoring.RecomputeDebounce = defaultRecomputeDebounce
	}
	if c.Scoring.RecomputeWorkers <= 0 {
		c.Scoring.RecomputeWorkers = defaultRecomputeWorkers
	}
	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = defaultServiceName
	}
	if c.Observability.LogLevel == "" {
		c.Observability.LogLevel = "info"
	}
}
