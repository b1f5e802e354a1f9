// Package api provides the HTTP server infrastructure for the weather
// station's observe/forecast REST API.
package api

import (
	"fmt"
	"time"

	"github.com/clearsky/wxcore/internal/conf"
	"github.com/clearsky/wxcore/internal/logger"
)

// GetLogger returns the api package logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("api")
}

// Default constants for the HTTP server.
const (
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 10 * time.Second

	// DefaultLogPath is the default path for the server log file.
	DefaultLogPath = "logs/server.log"
)

// Config holds the HTTP server configuration.
// It consolidates settings from various sources into a single structure
// for easy server initialization.
type Config struct {
	// Server binding
	Host string // Host to bind to (empty for all interfaces)
	Port string // Port to listen on

	// TLS configuration
	TLSEnabled  bool   // Enable TLS
	AutoTLS     bool   // Use Let's Encrypt automatic TLS
	TLSCertFile string // Path to TLS certificate file (manual TLS)
	TLSKeyFile  string // Path to TLS key file (manual TLS)

	// Security settings
	RedirectToHTTPS bool     // Redirect HTTP to HTTPS
	AllowedOrigins  []string // CORS allowed origins

	// Timeouts
	ReadTimeout     time.Duration // Maximum duration for reading request
	WriteTimeout    time.Duration // Maximum duration for writing response
	IdleTimeout     time.Duration // Maximum time to wait for next request
	ShutdownTimeout time.Duration // Maximum time to wait for graceful shutdown

	// Limits
	BodyLimit string // Maximum request body size (e.g., "1M", "10M")

	// Logging
	Debug    bool            // Enable debug mode
	LogLevel logger.LogLevel // Logging level

	// Development mode
	DevMode bool // Enable development mode features
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Host:            "",
		Port:            "8080",
		TLSEnabled:      false,
		AutoTLS:         false,
		RedirectToHTTPS: false,
		AllowedOrigins:  []string{"*"},
		ReadTimeout:     DefaultReadTimeout,
		WriteTimeout:    DefaultWriteTimeout,
		IdleTimeout:     DefaultIdleTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
		BodyLimit:       "10M",
		Debug:           false,
		LogLevel:        logger.LogLevelInfo,
		DevMode:         false,
	}
}

// ConfigFromSettings creates a Config from the application settings.
// This bridges the existing conf.Settings structure to the new server config.
func ConfigFromSettings(settings *conf.Settings) *Config {
	cfg := DefaultConfig()

	// Server binding - use port only, bind to all interfaces
	cfg.Port = settings.HTTP.Port
	cfg.Host = "" // Bind to all interfaces (0.0.0.0)

	// TLS settings
	cfg.AutoTLS = settings.HTTP.AutoTLS
	cfg.TLSCertFile = settings.HTTP.TLSCertFile
	cfg.TLSKeyFile = settings.HTTP.TLSKeyFile
	cfg.TLSEnabled = settings.HTTP.AutoTLS || (settings.HTTP.TLSCertFile != "" && settings.HTTP.TLSKeyFile != "")
	cfg.RedirectToHTTPS = settings.HTTP.RedirectToHTTPS

	if len(settings.HTTP.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = settings.HTTP.AllowedOrigins
	}

	// Debug mode
	cfg.Debug = settings.Debug
	if cfg.Debug {
		cfg.LogLevel = logger.LogLevelDebug
	}

	return cfg
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}

	// Validate TLS configuration
	if c.TLSEnabled && !c.AutoTLS {
		if c.TLSCertFile == "" || c.TLSKeyFile == "" {
			return fmt.Errorf("TLS enabled but certificate or key file not specified")
		}
	}

	// Validate timeouts
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive")
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be positive")
	}

	return nil
}

// Address returns the full address string for the server to listen on.
func (c *Config) Address() string {
	if c.Host == "" {
		return ":" + c.Port
	}
	return c.Host + ":" + c.Port
}

// String returns a human-readable representation of the config.
func (c *Config) String() string {
	tlsStatus := "disabled"
	if c.AutoTLS {
		tlsStatus = "auto (Let's Encrypt)"
	} else if c.TLSEnabled {
		tlsStatus = "manual"
	}

	return fmt.Sprintf("Server Config: address=%s, tls=%s, debug=%v",
		c.Address(), tlsStatus, c.Debug)
}
