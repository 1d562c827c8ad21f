// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration loaded from PRBRIDGE_*
// environment variables, with a .env file honored when present.
type Config struct {
	// GitHubToken authenticates API calls. When unset, GITHUB_TOKEN and then
	// GH_TOKEN are consulted. Optional: public repositories work without a
	// token at reduced rate limits.
	GitHubToken string `env:"PRBRIDGE_GITHUB_TOKEN"`
	// APIBaseURL targets a GitHub Enterprise REST endpoint; empty means
	// api.github.com.
	APIBaseURL string `env:"PRBRIDGE_API_URL"`
	// HTTPTimeout bounds each API request.
	HTTPTimeout time.Duration `env:"PRBRIDGE_HTTP_TIMEOUT" envDefault:"30s"`
	// OutputDir receives exports when --output is not given; empty means the
	// current directory.
	OutputDir string `env:"PRBRIDGE_OUTPUT_DIR"`
	// LogLevel is the log level used when --log-level is not given.
	LogLevel string `env:"PRBRIDGE_LOG_LEVEL" envDefault:"info"`
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first and never overrides variables already set.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if cfg.GitHubToken == "" {
		cfg.GitHubToken = firstEnv("GITHUB_TOKEN", "GH_TOKEN")
	}

	return cfg, nil
}

// firstEnv returns the first non-empty value among the named variables.
func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}
