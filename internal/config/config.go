package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	Database DatabaseConfig
	Log      LogConfig
	Insights InsightsConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver       string
	SQLitePath   string
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level       string
	Environment string
}

// InsightsConfig holds insight generation configuration
type InsightsConfig struct {
	// Enabled gates whether a model runtime is wired at all. When false the
	// orchestrator reports the feature as not enabled.
	Enabled bool
	// MaxToolRoundTrips bounds tool-call exchanges within one model session.
	MaxToolRoundTrips int
}

// DSN returns the postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode)
}

// Load builds the configuration from environment variables with defaults
// suitable for local development.
func Load() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:       getEnv("NOTED_DB_DRIVER", DriverSQLite),
			SQLitePath:   getEnv("NOTED_DB_PATH", "noted.db"),
			Host:         getEnv("NOTED_DB_HOST", "localhost"),
			Port:         getEnvInt("NOTED_DB_PORT", 5432),
			User:         getEnv("NOTED_DB_USER", "noted"),
			Password:     getEnv("NOTED_DB_PASSWORD", ""),
			Database:     getEnv("NOTED_DB_NAME", "noted"),
			SSLMode:      getEnv("NOTED_DB_SSLMODE", "disable"),
			MaxOpenConns: getEnvInt("NOTED_DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvInt("NOTED_DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getEnvDuration("NOTED_DB_MAX_LIFETIME", 30*time.Minute),
		},
		Log: LogConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Insights: InsightsConfig{
			Enabled:           getEnvBool("NOTED_INSIGHTS_ENABLED", true),
			MaxToolRoundTrips: getEnvInt("NOTED_INSIGHTS_MAX_TOOL_ROUND_TRIPS", 4),
		},
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
