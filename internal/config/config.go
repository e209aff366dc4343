// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store backends accepted in STORE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port string `env:"PORT" envDefault:"8080"`

	// LogLevel controls the minimum log level.
	// Valid values: debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// StoreBackend selects the Entity Store: memory or postgres.
	StoreBackend string `env:"STORE_BACKEND" envDefault:"memory"`

	// DatabaseURL is the Postgres connection string. Required for the
	// postgres backend.
	DatabaseURL string `env:"DATABASE_URL"`

	// SessionSecret is the HMAC key session tokens are signed with. Required.
	SessionSecret string `env:"SESSION_SECRET"`

	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"720h"`

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"http://localhost:8081" envSeparator:","`

	MaxBodyBytes int64 `env:"MAX_BODY_BYTES" envDefault:"65536"`

	// RateLimitPerMinute is each user's budget for mutating requests.
	RateLimitPerMinute int `env:"RATE_LIMIT_PER_MINUTE" envDefault:"60"`

	// SeedDemoData pre-populates the memory backend with demo users and trips.
	SeedDemoData bool `env:"SEED_DEMO_DATA" envDefault:"false"`

	// MigrateOnStart applies pending migrations at boot (postgres backend).
	MigrateOnStart bool `env:"MIGRATE_ON_START" envDefault:"true"`

	// OTLPEndpoint is where traces are exported. Empty disables tracing.
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Load reads configuration from the process environment and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	return Parse(nil)
}

// Parse is Load over an explicit environment. A nil map means the process
// environment.
func Parse(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("config.Parse: %w", err)
	}
	cfg.CORSOrigins = trimAll(cfg.CORSOrigins)
	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))

	var missing []string
	if cfg.SessionSecret == "" {
		missing = append(missing, "SESSION_SECRET")
	}

	switch cfg.StoreBackend {
	case BackendMemory:
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	default:
		return Config{}, fmt.Errorf("config.Parse: unknown STORE_BACKEND %q (want %s or %s)",
			cfg.StoreBackend, BackendMemory, BackendPostgres)
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	switch {
	case cfg.SessionTTL <= 0:
		return Config{}, fmt.Errorf("config.Parse: SESSION_TTL must be positive")
	case cfg.MaxBodyBytes <= 0:
		return Config{}, fmt.Errorf("config.Parse: MAX_BODY_BYTES must be positive")
	case cfg.RateLimitPerMinute <= 0:
		return Config{}, fmt.Errorf("config.Parse: RATE_LIMIT_PER_MINUTE must be positive")
	}

	return cfg, nil
}

// trimAll trims each entry and drops empty ones.
func trimAll(in []string) []string {
	var out []string
	for _, part := range in {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
