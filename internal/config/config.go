// Package config loads errgrid's settings from environment variables,
// applying defaults and validating everything up front so that a bad
// deployment fails at startup rather than on the first request.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Export    ExportConfig
	Reports   ReportConfig
	Rate      RateLimitConfig
	Security  SecurityConfig
	Logging   LoggingConfig
	Retention RetentionConfig
	Highlight HighlightConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`
	Port int    `env:"SERVER_PORT" default:"8080"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown, including in-flight exports.
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the per-request middleware deadline.
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// DatabaseConfig holds report store settings. An empty URL selects the
// in-memory store.
type DatabaseConfig struct {
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	MaxConns        int           `env:"DB_MAX_CONNS" default:"10"`
	MinConns        int           `env:"DB_MIN_CONNS" default:"1"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
	ConnectTimeout  time.Duration `env:"DB_CONNECT_TIMEOUT" default:"10s"`
}

// ExportConfig controls styled workbook exports.
type ExportConfig struct {
	// MaxConcurrent caps parallel exports; each holds a whole workbook in memory.
	MaxConcurrent int           `env:"EXPORT_MAX_CONCURRENT" default:"4"`
	MaxWaitTime   time.Duration `env:"EXPORT_MAX_WAIT_TIME" default:"10s"`
	Timeout       time.Duration `env:"EXPORT_TIMEOUT" default:"2m"`
	SheetName     string        `env:"EXPORT_SHEET_NAME" default:"Samples"`
}

// ReportConfig bounds submitted reports.
type ReportConfig struct {
	MaxBodyBytes int64 `env:"REPORT_MAX_BODY_BYTES" default:"33554432"`
	MaxRows      int   `env:"REPORT_MAX_ROWS" default:"100000"`
	MaxErrors    int   `env:"REPORT_MAX_ERRORS" default:"200000"`
}

// RateLimitConfig holds per-IP rate limits.
type RateLimitConfig struct {
	Enabled           bool `env:"RATE_LIMIT_ENABLED" default:"true"`
	RequestsPerMinute int  `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// ExportLimit applies to the export endpoint only.
	ExportLimit int `env:"RATE_LIMIT_EXPORT" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies lists proxy CIDRs whose forwarding headers are honored.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey guards /api with the X-API-Key header.
	RequireAPIKey bool     `env:"REQUIRE_API_KEY" default:"false"`
	APIKeys       []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" default:"info"`
	Format string `env:"LOG_FORMAT" default:"text"`
}

// RetentionConfig controls purging of old reports.
type RetentionConfig struct {
	// Days is how long reports are kept; 0 keeps them forever.
	Days          int           `env:"REPORT_RETENTION_DAYS" default:"30"`
	CheckInterval time.Duration `env:"REPORT_RETENTION_CHECK_INTERVAL" default:"1h"`
}

// HighlightConfig holds styling settings.
type HighlightConfig struct {
	// PaletteFile is an optional YAML file overriding highlight colours.
	PaletteFile string `env:"HIGHLIGHT_PALETTE_FILE"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Persistent reports whether reports are stored in PostgreSQL.
func (c *DatabaseConfig) Persistent() bool {
	return c.URL != ""
}
