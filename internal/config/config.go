// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port       string
	DBPath     string
	APIBaseURL string        // classroom backend base URL; empty = derive from host
	APIPort    string        // default backend port when deriving from host
	APITimeout time.Duration // ceiling for AI-backed endpoints
	SessionTTL time.Duration
	Env        string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:       getEnv("PORT", "8080"),
		DBPath:     getEnv("DB_PATH", "./data/classboard.db"),
		APIBaseURL: getEnv("CLASSROOM_API_URL", ""),
		APIPort:    getEnv("CLASSROOM_API_PORT", "8000"),
		APITimeout: getEnvDuration("CLASSROOM_API_TIMEOUT", 60*time.Second),
		SessionTTL: getEnvDuration("SESSION_TTL", 30*24*time.Hour),
		Env:        getEnv("APP_ENV", "development"),
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
	if c.APITimeout <= 0 {
		return fmt.Errorf("CLASSROOM_API_TIMEOUT must be > 0")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env != "production"
}

// ResolveAPIBase returns the backend base URL for a given request host.
// An explicit CLASSROOM_API_URL wins; otherwise the backend is assumed to
// run next to the client on its default port.
func (c *Config) ResolveAPIBase(requestHost string) string {
	if c.APIBaseURL != "" {
		return strings.TrimRight(c.APIBaseURL, "/")
	}
	host := requestHost
	if i := strings.LastIndex(host, ":"); i >= 0 {
		host = host[:i]
	}
	if host == "" {
		host = "localhost"
	}
	return "http://" + host + ":" + c.APIPort
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	value = strings.TrimSpace(value)
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	// Bare numbers are treated as seconds.
	if n, err := strconv.Atoi(value); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return fallback
}
