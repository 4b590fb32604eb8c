package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a YAML file at the specified path, applies
// defaults and environment variable overrides, and validates the result.
//
// Environment variables follow the naming convention RELAY_SECTION_FIELD
// (e.g. RELAY_SERVER_LISTEN_ADDRESS). A handful of legacy names the
// dashboard deployments already set are also honored; see applyEnvOverrides.
// Environment variables always take precedence over file values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	return finish(&cfg)
}

// LoadOrDefault behaves like Load but a missing file is not an error: the
// relay starts from defaults plus environment variables. Any other read or
// parse failure is still fatal.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return finish(&Config{})
	}
	cfg, err := Load(path)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return finish(&Config{})
	}
	return cfg, err
}

// finish applies defaults and env overrides, then validates.
func finish(cfg *Config) (*Config, error) {
	ApplyDefaults(cfg)
	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration.
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	if val := os.Getenv("RELAY_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("RELAY_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("RELAY_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if val := os.Getenv("RELAY_SERVER_SHUTDOWN_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ShutdownTimeout = d
		}
	}

	// Environment override
	if val := os.Getenv("RELAY_ENVIRONMENT"); val != "" {
		cfg.Environment = val
	}

	// Service overrides
	if val := os.Getenv("RELAY_STRIPE_SECRET_KEY"); val != "" {
		cfg.Services.Stripe.SecretKey = val
	}
	if val := os.Getenv("RELAY_STRIPE_BASE_URL"); val != "" {
		cfg.Services.Stripe.BaseURL = val
	}
	if val := os.Getenv("RELAY_QBO_CLIENT_ID"); val != "" {
		cfg.Services.QBO.ClientID = val
	}
	if val := os.Getenv("RELAY_QBO_CLIENT_SECRET"); val != "" {
		cfg.Services.QBO.ClientSecret = val
	}
	if val := os.Getenv("RELAY_BACKEND_BASE_URL"); val != "" {
		cfg.Services.Backend.BaseURL = val
	}

	// Telemetry overrides
	if val := os.Getenv("RELAY_LOG_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("RELAY_LOG_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}

	// Audit overrides
	if val := os.Getenv("RELAY_AUDIT_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Audit.Enabled = b
		}
	}
	if val := os.Getenv("RELAY_AUDIT_SQLITE_PATH"); val != "" {
		cfg.Audit.SQLitePath = val
	}

	applyLegacyEnvOverrides(cfg)
}

// applyLegacyEnvOverrides honors the variable names the original dashboard
// deployments set, so existing environments keep working unchanged.
func applyLegacyEnvOverrides(cfg *Config) {
	if val := os.Getenv("STRIPE_SECRET_KEY"); val != "" && cfg.Services.Stripe.SecretKey == "" {
		cfg.Services.Stripe.SecretKey = val
	}
	if val := os.Getenv("QBO_CLIENT_ID"); val != "" && cfg.Services.QBO.ClientID == "" {
		cfg.Services.QBO.ClientID = val
	}
	if val := os.Getenv("QBO_CLIENT_SECRET"); val != "" && cfg.Services.QBO.ClientSecret == "" {
		cfg.Services.QBO.ClientSecret = val
	}
	if val := os.Getenv("PROXY_PORT"); val != "" && os.Getenv("RELAY_SERVER_LISTEN_ADDRESS") == "" {
		if _, err := strconv.Atoi(val); err == nil {
			cfg.Server.ListenAddress = "0.0.0.0:" + val
		}
	}
}
