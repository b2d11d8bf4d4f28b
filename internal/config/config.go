package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Config holds all runtime configuration, loaded from the environment.
type Config struct {
	Port        string
	Environment string
	Debug       bool

	DatabaseURL string
	TablePrefix string

	JWKSURL     string
	CORSOrigins []string
}

// Load reads configuration from environment variables and validates the
// required ones.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		Debug:       getEnv("DEBUG", "false") == "true",
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWKSURL:     os.Getenv("JWKS_URL"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
	}
	cfg.TablePrefix = getTablePrefix(cfg.Environment)

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.JWKSURL == "" {
		return nil, errors.New("JWKS_URL is required")
	}

	switch cfg.Environment {
	case "development", "test", "production":
	default:
		return nil, fmt.Errorf("invalid ENVIRONMENT %q", cfg.Environment)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getTablePrefix maps an environment to the table prefix so several
// environments can share one database.
func getTablePrefix(environment string) string {
	switch environment {
	case "production":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
