package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want %q", cfg.Port, "8080")
	}
	if cfg.APIPort != "8000" {
		t.Errorf("APIPort = %q, want %q", cfg.APIPort, "8000")
	}
	if cfg.APITimeout != 60*time.Second {
		t.Errorf("APITimeout = %v, want %v", cfg.APITimeout, 60*time.Second)
	}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false, want true by default")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CLASSROOM_API_URL", "http://backend.internal:8000/")
	t.Setenv("CLASSROOM_API_TIMEOUT", "30s")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want %q", cfg.Port, "9090")
	}
	if cfg.APITimeout != 30*time.Second {
		t.Errorf("APITimeout = %v, want %v", cfg.APITimeout, 30*time.Second)
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true, want false in production")
	}
}

func TestGetEnvDurationBareSeconds(t *testing.T) {
	t.Setenv("SESSION_TTL", "3600")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("SessionTTL = %v, want %v", cfg.SessionTTL, time.Hour)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"empty port", func(c *Config) { c.Port = "" }, true},
		{"empty db path", func(c *Config) { c.DBPath = "" }, true},
		{"zero timeout", func(c *Config) { c.APITimeout = 0 }, true},
		{"zero ttl", func(c *Config) { c.SessionTTL = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Port:       "8080",
				DBPath:     "./data/test.db",
				APITimeout: time.Minute,
				SessionTTL: time.Hour,
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestResolveAPIBase(t *testing.T) {
	tests := []struct {
		name        string
		explicitURL string
		requestHost string
		want        string
	}{
		{"explicit url wins", "http://api.example.com", "localhost:8080", "http://api.example.com"},
		{"explicit url trailing slash", "http://api.example.com/", "localhost:8080", "http://api.example.com"},
		{"derive from host", "", "classroom.school.edu:8080", "http://classroom.school.edu:8000"},
		{"host without port", "", "classroom.school.edu", "http://classroom.school.edu:8000"},
		{"empty host", "", "", "http://localhost:8000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{APIBaseURL: tt.explicitURL, APIPort: "8000"}
			if got := cfg.ResolveAPIBase(tt.requestHost); got != tt.want {
				t.Errorf("ResolveAPIBase(%q) = %q, want %q", tt.requestHost, got, tt.want)
			}
		})
	}
}
