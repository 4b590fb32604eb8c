package config

import (
	"time"

	"cnstrct-hq/relay/pkg/route"
)

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576  // 1MB
	DefaultMaxBodyBytes    = 10485760 // 10MB

	// CORS defaults
	DefaultCORSEnabled = true
	DefaultCORSMaxAge  = 3600

	// Environment default
	DefaultEnvironment = string(route.EnvSandbox)

	// Service defaults
	DefaultStripeAPIVersion = route.DefaultStripeAPIVersion
	DefaultStripeTimeout    = 20 * time.Second
	DefaultQBOTimeout       = 30 * time.Second
	DefaultBackendTimeout   = 10 * time.Second

	// Telemetry defaults
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "json"
	DefaultLogOutput      = "stdout"
	DefaultMetricsEnabled = true
	DefaultMetricsPath    = "/metrics"

	// Audit defaults
	DefaultAuditSQLitePath    = "data/audit.db"
	DefaultAuditRetentionDays = 90
	DefaultAuditPruneSchedule = "0 3 * * *"
	DefaultAuditBufferSize    = 1000
)

// Default CORS lists. Slices cannot be constants.
var (
	DefaultCORSAllowedOrigins = []string{"*"}
	DefaultCORSAllowedMethods = []string{"GET", "POST", "OPTIONS"}
	DefaultCORSAllowedHeaders = []string{"Authorization", "Content-Type", "X-Request-ID"}
)

// ApplyDefaults fills unset configuration fields with default values.
// Explicitly set fields are never overwritten.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}

	applyCORSDefaults(&cfg.Server.CORS)

	if cfg.Environment == "" {
		cfg.Environment = DefaultEnvironment
	}

	if cfg.Services.Stripe.APIVersion == "" {
		cfg.Services.Stripe.APIVersion = DefaultStripeAPIVersion
	}
	if cfg.Services.Stripe.Timeout == 0 {
		cfg.Services.Stripe.Timeout = DefaultStripeTimeout
	}
	if cfg.Services.QBO.Timeout == 0 {
		cfg.Services.QBO.Timeout = DefaultQBOTimeout
	}
	if cfg.Services.Backend.Timeout == 0 {
		cfg.Services.Backend.Timeout = DefaultBackendTimeout
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
	if cfg.Telemetry.Logging.Output == "" {
		cfg.Telemetry.Logging.Output = DefaultLogOutput
	}
	if cfg.Telemetry.Metrics.Enabled == nil {
		enabled := DefaultMetricsEnabled
		cfg.Telemetry.Metrics.Enabled = &enabled
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}

	if cfg.Audit.SQLitePath == "" {
		cfg.Audit.SQLitePath = DefaultAuditSQLitePath
	}
	if cfg.Audit.RetentionDays == 0 {
		cfg.Audit.RetentionDays = DefaultAuditRetentionDays
	}
	if cfg.Audit.PruneSchedule == "" {
		cfg.Audit.PruneSchedule = DefaultAuditPruneSchedule
	}
	if cfg.Audit.BufferSize == 0 {
		cfg.Audit.BufferSize = DefaultAuditBufferSize
	}
}

// applyCORSDefaults fills the CORS section. Enabled is a pointer so an
// operator's explicit false is distinguishable from an absent section.
func applyCORSDefaults(c *CORSConfig) {
	if c.Enabled == nil {
		enabled := DefaultCORSEnabled
		c.Enabled = &enabled
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = append([]string(nil), DefaultCORSAllowedOrigins...)
	}
	if len(c.AllowedMethods) == 0 {
		c.AllowedMethods = append([]string(nil), DefaultCORSAllowedMethods...)
	}
	if len(c.AllowedHeaders) == 0 {
		c.AllowedHeaders = append([]string(nil), DefaultCORSAllowedHeaders...)
	}
	if c.MaxAge == 0 {
		c.MaxAge = DefaultCORSMaxAge
	}
}
