// Package config provides centralized configuration management for the
// reference browser. It loads configuration from environment variables with
// sensible defaults and validates all settings on startup to fail fast on
// misconfiguration.
package config

import "time"

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	AI         AIConfig
	Rate       RateLimitConfig
	Security   SecurityConfig
	Logging    LoggingConfig
	Regulatory RegulatoryConfig
	UI         UIConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 90s,
	// longer than AI_TIMEOUT so assistant answers are not cut off)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"90s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 75s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"75s"`
}

// DatabaseConfig holds database connection settings. Without a URL the
// regulatory config and consultation journal are kept in memory.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (optional)
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 10)
	MaxConns int `env:"DB_MAX_CONNS" default:"10"`

	// MinConns is the minimum number of connections to keep open (default: 1)
	MinConns int `env:"DB_MIN_CONNS" default:"1"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// Enabled reports whether a database is configured.
func (c *DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

// AIConfig holds hosted model settings.
type AIConfig struct {
	// APIKey enables the assistant when set
	APIKey string `env:"GEMINI_API_KEY" envAlt:"API_KEY"`

	// Model is the Gemini model name (default: gemini-2.5-flash)
	Model string `env:"AI_MODEL" default:"gemini-2.5-flash"`

	// Endpoint is the API base URL
	Endpoint string `env:"AI_ENDPOINT" default:"https://generativelanguage.googleapis.com"`

	// Timeout bounds one assistant request (default: 60s)
	Timeout time.Duration `env:"AI_TIMEOUT" default:"60s"`

	// Grounding enables web search grounding (default: true)
	Grounding bool `env:"AI_GROUNDING" default:"true"`
}

// Enabled reports whether an API key is configured.
func (c *AIConfig) Enabled() bool {
	return c.APIKey != ""
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// AILimit is requests per minute for assistant endpoints (default: 10)
	AILimit int `env:"RATE_LIMIT_AI" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey protects the admin endpoints with an API key (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted admin API keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// RegulatoryConfig holds the initial governance settings.
type RegulatoryConfig struct {
	// Edition names the regulations edition of the catalog
	Edition string `env:"REGULATORY_EDITION" default:"67th Edition 2026"`

	// EffectiveDate is the edition's effective date, YYYY-MM-DD (default: 2026-01-01)
	EffectiveDate string `env:"REGULATORY_EFFECTIVE_DATE" default:"2026-01-01"`

	// SyncInterval is how often the catalog validation job runs (default: 24h)
	SyncInterval time.Duration `env:"REGULATORY_SYNC_INTERVAL" default:"24h"`
}

// Effective parses EffectiveDate. Validate guarantees it parses.
func (c *RegulatoryConfig) Effective() time.Time {
	t, _ := time.Parse(dateLayout, c.EffectiveDate)
	return t
}

const dateLayout = "2006-01-02"

// UIConfig holds defaults for the windowed table views.
type UIConfig struct {
	// ViewportHeight is the default viewport height in pixels (default: 600)
	ViewportHeight int `env:"UI_VIEWPORT_HEIGHT" default:"600"`

	// Overscan is the number of extra rows rendered past each edge (default: 10)
	Overscan int `env:"UI_OVERSCAN" default:"10"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	if c.Host == "" {
		return ":" + itoa(c.Port)
	}
	return c.Host + ":" + itoa(c.Port)
}

// itoa converts an int to string without importing strconv in this file.
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var b [20]byte
	n := len(b)
	neg := i < 0
	if neg {
		i = -i
	}
	for i > 0 {
		n--
		b[n] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		n--
		b[n] = '-'
	}
	return string(b[n:])
}
