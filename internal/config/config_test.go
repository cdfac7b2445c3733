package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("SUREMDM_API_URL", "https://suremdm.42gears.com/api")
	t.Setenv("SUREMDM_API_USERNAME", "admin")
	t.Setenv("SUREMDM_API_PASSWORD", "secret")
	t.Setenv("SUREMDM_API_KEY", "key-123")

	// Shield the defaults from the ambient environment.
	t.Setenv("PORT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("PROPERTIES_FILE", "")
	t.Setenv("SUREMDM_HTTP_TIMEOUT", "")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "./customproperties.csv", cfg.PropertiesFile)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("PROPERTIES_FILE", "/data/props.csv")
	t.Setenv("SUREMDM_HTTP_TIMEOUT", "5s")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "/data/props.csv", cfg.PropertiesFile)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
}

func TestLoad_InvalidTimeoutFallsBack(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SUREMDM_HTTP_TIMEOUT", "not-a-duration")

	cfg := Load()

	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:            "8080",
			SureMDMAPIURL:   "https://suremdm.42gears.com/api",
			SureMDMUsername: "admin",
			SureMDMPassword: "secret",
			SureMDMAPIKey:   "key-123",
			HTTPTimeout:     30 * time.Second,
			PropertiesFile:  "./customproperties.csv",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid config", func(c *Config) {}, ""},
		{"missing api url", func(c *Config) { c.SureMDMAPIURL = "" }, "SUREMDM_API_URL"},
		{"relative api url", func(c *Config) { c.SureMDMAPIURL = "suremdm/api" }, "absolute URL"},
		{"missing username", func(c *Config) { c.SureMDMUsername = "" }, "SUREMDM_API_USERNAME"},
		{"missing password", func(c *Config) { c.SureMDMPassword = "" }, "SUREMDM_API_PASSWORD"},
		{"missing api key", func(c *Config) { c.SureMDMAPIKey = "" }, "SUREMDM_API_KEY"},
		{"bad port", func(c *Config) { c.Port = "http" }, "PORT"},
		{"port out of range", func(c *Config) { c.Port = "70000" }, "PORT"},
		{"zero timeout", func(c *Config) { c.HTTPTimeout = 0 }, "SUREMDM_HTTP_TIMEOUT"},
		{"empty properties file", func(c *Config) { c.PropertiesFile = "" }, "PROPERTIES_FILE"},
		{"cert without key", func(c *Config) { c.TLSCert = "cert.pem" }, "TLS_CERT and TLS_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
