// Package config reads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Decision DecisionConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds database connection settings. URL empty means the
// audit ledger runs in memory.
type DatabaseConfig struct {
	URL string
}

// DecisionConfig holds decision pipeline settings and file paths. Empty
// paths fall back to the built-in rule set and relevance table.
type DecisionConfig struct {
	RuleFile      string
	RelevanceFile string
	TopK          int
	Pass1Workers  int
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envOrDefault("PORT", "8080"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Decision: DecisionConfig{
			RuleFile:      os.Getenv("RULE_FILE"),
			RelevanceFile: os.Getenv("RELEVANCE_FILE"),
		},
	}

	var err error
	if cfg.Decision.TopK, err = envIntOrDefault("TOP_K", 3); err != nil {
		return nil, err
	}
	if cfg.Decision.Pass1Workers, err = envIntOrDefault("PASS1_WORKERS", 8); err != nil {
		return nil, err
	}
	if cfg.Decision.TopK < 1 {
		return nil, fmt.Errorf("TOP_K must be at least 1, got %d", cfg.Decision.TopK)
	}
	if cfg.Decision.Pass1Workers < 1 {
		return nil, fmt.Errorf("PASS1_WORKERS must be at least 1, got %d", cfg.Decision.Pass1Workers)
	}
	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}
