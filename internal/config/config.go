// Package config provides configuration management for the portfolio tracker.
// It loads configuration from environment variables and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string
	Port string
}

// PostgresConfig holds Postgres configuration
type PostgresConfig struct {
	Host           string
	Port           string
	Database       string
	User           string
	Password       string
	MaxConnections int
}

// URL builds a postgres:// connection URL, used by the migrations CLI.
func (c *PostgresConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.Database,
	)
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// CacheConfig holds the TTL for cached aggregation responses
type CacheConfig struct {
	TTL time.Duration
}

// RateLimitConfig holds per-client request rate limiting configuration
type RateLimitConfig struct {
	RequestsPerSecond int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// LoadConfig loads configuration from a .env file and environment variables
func LoadConfig() (*Config, error) {
	// .env file is optional - environment variables can be set directly
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	config := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Postgres: PostgresConfig{
			Host:           getEnv("POSTGRES_HOST", "localhost"),
			Port:           getEnv("POSTGRES_PORT", "5432"),
			Database:       getEnv("POSTGRES_DB", "portfolio_tracker"),
			User:           getEnv("POSTGRES_USER", "tracker"),
			Password:       getEnv("POSTGRES_PASSWORD", ""),
			MaxConnections: getEnvAsInt("POSTGRES_MAX_CONNECTIONS", 20),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Cache: CacheConfig{
			TTL: getEnvAsDuration("CACHE_TTL", 30*time.Second),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvAsInt("RATE_LIMIT_RPS", 50),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	return config, nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration gets an environment variable as a duration with a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
