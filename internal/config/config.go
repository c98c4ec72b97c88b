// Package config provides application configuration loading from environment
// variables and .env files. It uses viper for flexible configuration
// management with sensible defaults.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration loaded from environment
// variables or a .env file. Priority: environment variables > .env file >
// defaults.
type Config struct {
	AppEnv          string        // Application environment (dev, staging, prod)
	HTTPAddr        string        // HTTP server bind address (e.g., ":8080")
	MetricsAddr     string        // Metrics/pprof server bind address
	StoreType       string        // Quiz storage backend (postgres or memory)
	DatabaseDSN     string        // PostgreSQL connection string
	SessionStore    string        // Session backend (redis or memory)
	RedisAddr       string        // Redis address for the session backend
	SessionTTL      time.Duration // Idle lifetime of a session record
	AdminAPIKey     string        // Admin API key for write operations
	RateLimitPerIP  int           // Rate limit for public requests per IP
	RateLimitAdmin  int           // Rate limit for admin operations per key
	EventsURL       string        // Analytics collector endpoint; empty logs events instead
	VisitorSalt     string        // Salt for visitor id anonymization in events
	SeedFile        string        // YAML quiz definition loaded at startup; empty disables seeding
	SeedWatch       bool          // Reload the seed file on change
	ShutdownTimeout time.Duration // Grace period for in-flight requests on shutdown
}

// Load reads configuration from environment variables and a .env file (if
// present). Environment variables take precedence over .env file values.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env") // optional; ignored if absent
	_ = v.ReadInConfig()
	v.AutomaticEnv()

	setDefaults(v)

	return &Config{
		AppEnv:          v.GetString("APP_ENV"),
		HTTPAddr:        v.GetString("HTTP_ADDR"),
		MetricsAddr:     v.GetString("METRICS_ADDR"),
		StoreType:       v.GetString("STORE_TYPE"),
		DatabaseDSN:     v.GetString("DB_DSN"),
		SessionStore:    v.GetString("SESSION_STORE"),
		RedisAddr:       v.GetString("REDIS_ADDR"),
		SessionTTL:      v.GetDuration("SESSION_TTL"),
		AdminAPIKey:     v.GetString("ADMIN_API_KEY"),
		RateLimitPerIP:  v.GetInt("RATE_LIMIT_PER_IP"),
		RateLimitAdmin:  v.GetInt("RATE_LIMIT_ADMIN_PER_KEY"),
		EventsURL:       v.GetString("EVENTS_URL"),
		VisitorSalt:     v.GetString("VISITOR_SALT"),
		SeedFile:        v.GetString("SEED_FILE"),
		SeedWatch:       v.GetBool("SEED_WATCH"),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("METRICS_ADDR", ":9090")
	v.SetDefault("STORE_TYPE", "memory")
	v.SetDefault("DB_DSN", "")
	v.SetDefault("SESSION_STORE", "memory")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("ADMIN_API_KEY", "admin-123") // Change in production!
	v.SetDefault("RATE_LIMIT_PER_IP", 100)
	v.SetDefault("RATE_LIMIT_ADMIN_PER_KEY", 60)
	v.SetDefault("EVENTS_URL", "")
	v.SetDefault("VISITOR_SALT", "quizflow")
	v.SetDefault("SEED_FILE", "")
	v.SetDefault("SEED_WATCH", false)
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
}

// ValidationError describes a single invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation failed [%s]: %s", e.Field, e.Message)
}

// Validate checks that the configuration is suitable to start with. Intended
// to be called at startup to fail fast on misconfiguration.
func (c *Config) Validate() error {
	if c.StoreType != "memory" && c.StoreType != "postgres" {
		return ValidationError{
			Field:   "STORE_TYPE",
			Message: fmt.Sprintf("must be 'memory' or 'postgres', got '%s'", c.StoreType),
		}
	}
	if c.StoreType == "postgres" && c.DatabaseDSN == "" {
		return ValidationError{
			Field:   "DB_DSN",
			Message: "database DSN is required when STORE_TYPE=postgres",
		}
	}
	if c.SessionStore != "memory" && c.SessionStore != "redis" {
		return ValidationError{
			Field:   "SESSION_STORE",
			Message: fmt.Sprintf("must be 'memory' or 'redis', got '%s'", c.SessionStore),
		}
	}
	if c.SessionStore == "redis" && c.RedisAddr == "" {
		return ValidationError{
			Field:   "REDIS_ADDR",
			Message: "redis address is required when SESSION_STORE=redis",
		}
	}
	if c.HTTPAddr == "" {
		return ValidationError{
			Field:   "HTTP_ADDR",
			Message: "HTTP server address cannot be empty",
		}
	}
	if c.MetricsAddr == "" {
		return ValidationError{
			Field:   "METRICS_ADDR",
			Message: "metrics server address cannot be empty",
		}
	}
	if c.SessionTTL <= 0 {
		return ValidationError{
			Field:   "SESSION_TTL",
			Message: "session TTL must be positive",
		}
	}

	if c.AppEnv == "prod" || c.AppEnv == "production" {
		if c.AdminAPIKey == "admin-123" {
			return ValidationError{
				Field:   "ADMIN_API_KEY",
				Message: "default admin API key 'admin-123' is not allowed in production",
			}
		}
	}

	return nil
}
