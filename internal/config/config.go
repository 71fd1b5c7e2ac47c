package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all configuration for the sea state report service
type Config struct {
	// Server configuration
	Port      string `env:"PORT,default=8981"`
	StaticDir string `env:"STATIC_DIR,default=./public"`

	// Data sources
	RowSourceURL string        `env:"ROW_SOURCE_URL,default=http://localhost:8981/data.csv"`
	MapSourceURL string        `env:"MAP_SOURCE_URL,default=http://localhost:8981/data.json"`
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT,default=30s"`

	// GCP configuration (optional for local testing)
	GCSBucket string `env:"GCS_BUCKET"`

	// Local testing configuration
	LocalReportsDir string `env:"LOCAL_REPORTS_DIR,default=./reports"`
	MockupMode      bool   `env:"MOCKUP_MODE,default=false"`

	// Service configuration
	Environment string `env:"ENVIRONMENT,default=development"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	LogFormat   string `env:"LOG_FORMAT,default=auto"`
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if cfg.FetchTimeout <= 0 {
		return nil, fmt.Errorf("FETCH_TIMEOUT must be positive, got %s", cfg.FetchTimeout)
	}
	return &cfg, nil
}

// IsLocal reports whether reports are kept on the local filesystem.
func (c *Config) IsLocal() bool {
	return c.Environment == "local" || c.GCSBucket == ""
}
