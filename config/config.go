// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port          string
	DBPath        string
	ModelProvider string // "openai" or "anthropic"
	ModelName     string // empty picks the provider default
	MaxRounds     int
	CallTimeout   time.Duration
	LogFormat     string // "json" or "text"
	LogLevel      string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DBPath:        getEnv("DB_PATH", "./data/careermesh.db"),
		ModelProvider: getEnv("MODEL_PROVIDER", "openai"),
		ModelName:     getEnv("MODEL_NAME", ""),
		MaxRounds:     getEnvInt("MAX_ROUNDS", 6),
		CallTimeout:   getEnvDuration("CALL_TIMEOUT", 60*time.Second),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.ModelProvider != "openai" && c.ModelProvider != "anthropic" {
		return fmt.Errorf("MODEL_PROVIDER must be openai or anthropic, got %q", c.ModelProvider)
	}
	if c.MaxRounds <= 0 {
		return fmt.Errorf("MAX_ROUNDS must be > 0")
	}
	if c.CallTimeout <= 0 {
		return fmt.Errorf("CALL_TIMEOUT must be > 0")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
