// Package config provides application configuration management.
// Configuration is loaded from an optional .env file and environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppHost string `env:"APP_HOST" envDefault:"0.0.0.0"`
	AppPort int    `env:"APP_PORT" envDefault:"8500"`

	// Store. The URL scheme selects the backend (mongodb:// or postgres://).
	DatabaseURL  string `env:"DATABASE_URL" envDefault:"mongodb://localhost:27019"`
	DatabaseName string `env:"DATABASE_NAME" envDefault:"shortener_db"`

	// Tokens
	JWTSecret   string        `env:"JWT_SECRET,required"`
	TokenExpiry time.Duration `env:"TOKEN_EXPIRY" envDefault:"30m"`

	// PasswordHash selects the algorithm for new hashes: bcrypt or argon2id.
	PasswordHash string `env:"PASSWORD_HASH" envDefault:"bcrypt"`

	// Comma-separated list of frontend origins allowed by CORS.
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3100"`

	// Base URL for short links (e.g., https://snip.example)
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8500"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`

	// MaxURLsPerRequest caps one POST /v1/shortener/ batch.
	MaxURLsPerRequest int `env:"MAX_URLS_PER_REQUEST" envDefault:"100"`
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.AppHost, strconv.Itoa(c.AppPort))
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// FrontendOrigins parses the comma-separated FRONTEND_URL into a slice.
func (c *Config) FrontendOrigins() []string {
	if c.FrontendURL == "" {
		return nil
	}

	origins := strings.Split(c.FrontendURL, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Validate checks values env tags cannot express.
func (c *Config) Validate() error {
	if c.AppPort < 1 || c.AppPort > 65535 {
		return fmt.Errorf("APP_PORT out of range: %d", c.AppPort)
	}
	if c.TokenExpiry <= 0 {
		return fmt.Errorf("TOKEN_EXPIRY must be positive, got %s", c.TokenExpiry)
	}
	if c.MaxURLsPerRequest < 1 {
		return fmt.Errorf("MAX_URLS_PER_REQUEST must be at least 1, got %d", c.MaxURLsPerRequest)
	}
	switch c.PasswordHash {
	case "bcrypt", "argon2id":
	default:
		return fmt.Errorf("PASSWORD_HASH must be bcrypt or argon2id, got %q", c.PasswordHash)
	}
	return nil
}

// Load reads files (default ".env") into the environment without overriding
// variables already set, then parses and validates the environment.
// Missing files are ignored.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
