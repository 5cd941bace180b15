package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	// Set some test environment variables
	if err := os.Setenv("SERVER_PORT", "9090"); err != nil {
		t.Fatalf("Failed to set SERVER_PORT: %v", err)
	}
	if err := os.Setenv("POSTGRES_HOST", "testhost"); err != nil {
		t.Fatalf("Failed to set POSTGRES_HOST: %v", err)
	}
	if err := os.Setenv("CACHE_TTL", "45s"); err != nil {
		t.Fatalf("Failed to set CACHE_TTL: %v", err)
	}
	defer func() {
		_ = os.Unsetenv("SERVER_PORT")
		_ = os.Unsetenv("POSTGRES_HOST")
		_ = os.Unsetenv("CACHE_TTL")
	}()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Server.Port = %v, want %v", cfg.Server.Port, "9090")
	}

	if cfg.Postgres.Host != "testhost" {
		t.Errorf("Postgres.Host = %v, want %v", cfg.Postgres.Host, "testhost")
	}

	if cfg.Cache.TTL != 45*time.Second {
		t.Errorf("Cache.TTL = %v, want %v", cfg.Cache.TTL, 45*time.Second)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.RateLimit.RequestsPerSecond != 50 {
		t.Errorf("RateLimit.RequestsPerSecond = %v, want 50", cfg.RateLimit.RequestsPerSecond)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %v, want info", cfg.Logging.Level)
	}
}

func TestPostgresURL(t *testing.T) {
	cfg := &PostgresConfig{
		Host:     "db",
		Port:     "5432",
		Database: "portfolio_tracker",
		User:     "tracker",
		Password: "secret",
	}

	want := "postgres://tracker:secret@db:5432/portfolio_tracker?sslmode=disable"
	if got := cfg.URL(); got != want {
		t.Errorf("URL() = %v, want %v", got, want)
	}
}

func TestGetEnvAsInt(t *testing.T) {
	if err := os.Setenv("TEST_INT", "not-a-number"); err != nil {
		t.Fatalf("Failed to set TEST_INT: %v", err)
	}
	defer func() { _ = os.Unsetenv("TEST_INT") }()

	if got := getEnvAsInt("TEST_INT", 7); got != 7 {
		t.Errorf("getEnvAsInt with invalid value = %v, want default 7", got)
	}
	if got := getEnvAsInt("TEST_INT_MISSING", 9); got != 9 {
		t.Errorf("getEnvAsInt with missing key = %v, want default 9", got)
	}
}
