// Package config loads service configuration from environment variables,
// with optional .env file support for local development.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the admin dashboard.
type Config struct {
	Service   ServiceConfig
	Backend   BackendConfig
	Session   SessionConfig
	Logging   LoggingConfig
	Tracing   TracingConfig
	Profiling ProfilingConfig
}

// ServiceConfig identifies this service and its listen address.
type ServiceConfig struct {
	Name    string
	Version string
	Env     string
	Port    string

	// ShutdownTimeoutSeconds bounds graceful HTTP shutdown.
	ShutdownTimeoutSeconds int
	// ReadinessDrainDelaySeconds is how long /ready fails before shutdown begins.
	ReadinessDrainDelaySeconds int
}

// BackendConfig describes the remote SKU/barcode API this dashboard fronts.
type BackendConfig struct {
	// BaseURL is the backend API root, including the /api base path.
	BaseURL string
	// TimeoutSeconds bounds every outbound request.
	TimeoutSeconds int
}

// SessionConfig controls the authenticated session cookie.
type SessionConfig struct {
	// Secret signs the session cookie. Must be set outside local dev.
	Secret string
	// CookieName is the well-known key the credential record lives under.
	CookieName string
	// Secure marks the cookie HTTPS-only.
	Secure bool
}

// LoggingConfig controls zerolog output.
type LoggingConfig struct {
	Level string
}

// TracingConfig controls the OTLP trace exporter.
type TracingConfig struct {
	Enabled    bool
	Endpoint   string
	SampleRate float64
}

// ProfilingConfig controls Pyroscope continuous profiling.
type ProfilingConfig struct {
	Enabled  bool
	Endpoint string
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first when present (local development convenience).
func Load() *Config {
	// Ignore missing .env; real deployments set the environment directly.
	_ = godotenv.Load()

	return &Config{
		Service: ServiceConfig{
			Name:                       getEnv("SERVICE_NAME", "sku-admin"),
			Version:                    getEnv("SERVICE_VERSION", "dev"),
			Env:                        getEnv("ENV", "development"),
			Port:                       getEnv("PORT", "8080"),
			ShutdownTimeoutSeconds:     getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 10),
			ReadinessDrainDelaySeconds: getEnvInt("READINESS_DRAIN_DELAY_SECONDS", 0),
		},
		Backend: BackendConfig{
			BaseURL:        getEnv("BACKEND_BASE_URL", "http://localhost:8000/api"),
			TimeoutSeconds: getEnvInt("BACKEND_TIMEOUT_SECONDS", 10),
		},
		Session: SessionConfig{
			Secret:     getEnv("SESSION_SECRET", ""),
			CookieName: getEnv("SESSION_COOKIE_NAME", "sku_admin_session"),
			Secure:     getEnvBool("SESSION_COOKIE_SECURE", false),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Tracing: TracingConfig{
			Enabled:    getEnvBool("TRACING_ENABLED", false),
			Endpoint:   getEnv("TRACING_ENDPOINT", "localhost:4318"),
			SampleRate: getEnvFloat("TRACING_SAMPLE_RATE", 1.0),
		},
		Profiling: ProfilingConfig{
			Enabled:  getEnvBool("PROFILING_ENABLED", false),
			Endpoint: getEnv("PROFILING_ENDPOINT", "http://localhost:4040"),
		},
	}
}

// Validate checks invariants that would otherwise fail at an awkward moment
// deep inside a request.
func (c *Config) Validate() error {
	if _, err := url.ParseRequestURI(c.Backend.BaseURL); err != nil {
		return fmt.Errorf("BACKEND_BASE_URL %q is not a valid URL: %w", c.Backend.BaseURL, err)
	}
	if c.Backend.TimeoutSeconds <= 0 {
		return fmt.Errorf("BACKEND_TIMEOUT_SECONDS must be positive, got %d", c.Backend.TimeoutSeconds)
	}
	if c.Session.Secret == "" && c.Service.Env != "development" {
		return fmt.Errorf("SESSION_SECRET is required when ENV=%q", c.Service.Env)
	}
	if c.Session.CookieName == "" {
		return fmt.Errorf("SESSION_COOKIE_NAME must not be empty")
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("TRACING_SAMPLE_RATE must be within [0,1], got %v", c.Tracing.SampleRate)
	}
	return nil
}

// GetBackendTimeout returns the outbound request timeout as a duration.
func (c *Config) GetBackendTimeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

// GetShutdownTimeoutDuration returns the graceful shutdown bound.
func (c *Config) GetShutdownTimeoutDuration() time.Duration {
	return time.Duration(c.Service.ShutdownTimeoutSeconds) * time.Second
}

// GetReadinessDrainDelayDuration returns the readiness drain delay.
func (c *Config) GetReadinessDrainDelayDuration() time.Duration {
	return time.Duration(c.Service.ReadinessDrainDelaySeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
