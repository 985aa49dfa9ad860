// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration.
// All fields are populated from environment variables. The struct is
// built once in main and passed into constructors; nothing reads the
// environment after startup.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Cache / streams (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Trading platform upstream
	PlatformBaseURL string        `env:"PLATFORM_BASE_URL,required"`
	PlatformAPIKey  string        `env:"PLATFORM_API_KEY,required"`
	PlatformTimeout time.Duration `env:"PLATFORM_TIMEOUT" envDefault:"10s"`

	// Where the front-end is sent after a successful registration
	// (the login form).
	SignupRedirectURL string `env:"SIGNUP_REDIRECT_URL" envDefault:"http://localhost:3000/login"`

	// Auto-login redirect template. The auth token, email, and
	// language tag are inserted positionally (three %s verbs).
	LoginRedirectFormat string `env:"LOGIN_REDIRECT_FORMAT" envDefault:"http://localhost:3000/auto-login?token=%s&email=%s&lang=%s"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Per-IP rate limiting for the auth endpoints
	RateLimitEnabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitRPS     int  `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst   int  `env:"RATE_LIMIT_BURST" envDefault:"10"`

	// Audit event pipeline
	AuditEnabled bool `env:"AUDIT_ENABLED" envDefault:"true"`

	// CORS configuration
	// Comma-separated list of allowed origins (e.g., "https://example.com,https://app.example.com")
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`

	// Request body size limit in bytes (default 64KB; the bodies here
	// are small JSON documents)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"65536"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Validate rejects configuration that would only fail at request time.
func (c *Config) Validate() error {
	if strings.Count(c.LoginRedirectFormat, "%s") != 3 {
		return fmt.Errorf("LOGIN_REDIRECT_FORMAT must contain exactly three %%s placeholders (token, email, lang)")
	}
	if c.PlatformTimeout <= 0 {
		return fmt.Errorf("PLATFORM_TIMEOUT must be positive")
	}
	return nil
}

// Load parses environment variables and returns a Config.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
