// Package config provides configuration management for the property sync service.
// It handles loading configuration from environment variables with sensible
// defaults and validates the configuration so the service starts safely.
//
// Environment Variables:
//
// Application Settings:
//   - PORT: Server port (default: 8080)
//   - LOG_LEVEL: Logging level (default: info)
//   - LOG_FILE: Log file path (default: stdout)
//   - TLS_CERT: TLS certificate file (optional)
//   - TLS_KEY: TLS key file (optional)
//
// SureMDM Provider:
//   - SUREMDM_API_URL: Base URL of the SureMDM API (required)
//   - SUREMDM_API_USERNAME: Basic auth username (required)
//   - SUREMDM_API_PASSWORD: Basic auth password (required)
//   - SUREMDM_API_KEY: Value for the ApiKey header (required)
//   - SUREMDM_HTTP_TIMEOUT: Outbound request timeout (default: 30s)
//
// Property Dataset:
//   - PROPERTIES_FILE: Path to the custom properties CSV
//     (default: ./customproperties.csv)
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values for the property sync service.
// Load it with Load() and validate with Validate() before use.
type Config struct {
	// Application settings
	Port     string // Server port number
	LogLevel string // Logging level (debug, info, warn, error)
	TLSCert  string // TLS certificate file path, empty for plain HTTP
	TLSKey   string // TLS key file path

	// SureMDM provider settings
	SureMDMAPIURL   string        // Base URL of the SureMDM API
	SureMDMUsername string        // Basic auth username
	SureMDMPassword string        // Basic auth password
	SureMDMAPIKey   string        // Value for the ApiKey header
	HTTPTimeout     time.Duration // Outbound request timeout

	// Property dataset settings
	PropertiesFile string // Path to the custom properties CSV
}

// Load creates a new Config with values from environment variables,
// falling back to defaults where a variable is unset. Load does not
// validate; call Validate() on the result.
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		TLSCert:  getEnv("TLS_CERT", ""),
		TLSKey:   getEnv("TLS_KEY", ""),

		SureMDMAPIURL:   getEnv("SUREMDM_API_URL", ""),
		SureMDMUsername: getEnv("SUREMDM_API_USERNAME", ""),
		SureMDMPassword: getEnv("SUREMDM_API_PASSWORD", ""),
		SureMDMAPIKey:   getEnv("SUREMDM_API_KEY", ""),
		HTTPTimeout:     getDurationEnv("SUREMDM_HTTP_TIMEOUT", 30*time.Second),

		PropertiesFile: getEnv("PROPERTIES_FILE", "./customproperties.csv"),
	}
}

// getEnv retrieves an environment variable value or returns a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv retrieves a duration environment variable or returns a default
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Validate ensures all required fields are present and values are usable.
// Call after Load() and before starting the service.
func (c *Config) Validate() error {
	if c.SureMDMAPIURL == "" {
		return fmt.Errorf("SUREMDM_API_URL environment variable is required")
	}
	if parsed, err := url.Parse(c.SureMDMAPIURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("SUREMDM_API_URL must be an absolute URL, got %q", c.SureMDMAPIURL)
	}
	if c.SureMDMUsername == "" {
		return fmt.Errorf("SUREMDM_API_USERNAME environment variable is required")
	}
	if c.SureMDMPassword == "" {
		return fmt.Errorf("SUREMDM_API_PASSWORD environment variable is required")
	}
	if c.SureMDMAPIKey == "" {
		return fmt.Errorf("SUREMDM_API_KEY environment variable is required")
	}

	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a number between 1 and 65535, got %q", c.Port)
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("SUREMDM_HTTP_TIMEOUT must be positive, got %v", c.HTTPTimeout)
	}

	if c.PropertiesFile == "" {
		return fmt.Errorf("PROPERTIES_FILE must not be empty")
	}

	// TLS requires both halves
	if (c.TLSCert == "") != (c.TLSKey == "") {
		return fmt.Errorf("TLS_CERT and TLS_KEY must both be set or both be empty")
	}

	return nil
}
