package config

import "time"

// Config is the root configuration structure for the relay. It contains the
// HTTP server settings, the upstream service credentials and endpoints, and
// the telemetry and audit sections.
type Config struct {
	// Server contains HTTP server configuration including listen address,
	// timeouts, and CORS settings.
	Server ServerConfig `yaml:"server"`

	// Environment selects the upstream environment for services that have
	// separate sandbox and production hosts (QuickBooks). One of "sandbox"
	// or "production".
	// Default: "sandbox"
	Environment string `yaml:"environment"`

	// Services contains per-upstream configuration.
	Services ServicesConfig `yaml:"services"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Audit contains the proxied-call audit log configuration.
	Audit AuditConfig `yaml:"audit"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:8080", "0.0.0.0:8080").
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. It must exceed the slowest upstream timeout or long calls
	// get cut off mid-reply.
	// Default: 60s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next
	// request when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful
	// shutdown before in-flight requests are abandoned.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits the request header size.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// MaxBodyBytes limits the request body size.
	// Default: 10485760 (10MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// CORS contains Cross-Origin Resource Sharing configuration. The relay
	// exists to put a CORS-clean surface in front of third-party APIs, so
	// CORS is on by default.
	CORS CORSConfig `yaml:"cors"`
}

// CORSConfig contains CORS configuration.
type CORSConfig struct {
	// Enabled controls whether CORS headers are emitted. A pointer so an
	// explicit false survives defaulting; nil means unset.
	// Default: true
	Enabled *bool `yaml:"enabled"`

	// AllowedOrigins is a list of allowed origins. Use ["*"] to allow all
	// origins.
	// Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods is a list of allowed HTTP methods.
	// Default: ["GET", "POST", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders is a list of allowed request headers.
	// Default: ["Authorization", "Content-Type", "X-Request-ID"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// MaxAge is how long, in seconds, browsers may cache the preflight
	// response.
	// Default: 3600
	MaxAge int `yaml:"max_age"`
}

// IsEnabled reports whether CORS is on, treating unset as enabled.
func (c *CORSConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// ServicesConfig contains configuration for all upstream services.
type ServicesConfig struct {
	// Stripe configures the Stripe adapter.
	Stripe StripeConfig `yaml:"stripe"`

	// QBO configures the QuickBooks Online adapter.
	QBO QBOConfig `yaml:"qbo"`

	// Backend configures the hosted backend adapter.
	Backend BackendConfig `yaml:"backend"`
}

// StripeConfig contains Stripe adapter configuration.
type StripeConfig struct {
	// SecretKey is the server-side fallback key used when a request does
	// not carry its own. Optional; without it every request must bring a
	// key.
	SecretKey string `yaml:"secret_key"`

	// APIVersion is pinned on every call via the Stripe-Version header.
	// Default: "2023-10-16"
	APIVersion string `yaml:"api_version"`

	// BaseURL overrides the Stripe API base URL. Tests point this at a
	// local server.
	BaseURL string `yaml:"base_url"`

	// Timeout is the per-call ceiling.
	// Default: 20s
	Timeout time.Duration `yaml:"timeout"`

	// MaxRetries re-attempts network-level failures only.
	// Default: 0
	MaxRetries int `yaml:"max_retries"`
}

// QBOConfig contains QuickBooks Online adapter configuration.
type QBOConfig struct {
	// ClientID and ClientSecret are the QuickBooks app credentials used
	// for OAuth token operations when the request carries none.
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`

	// SandboxBaseURL and ProductionBaseURL override the company data
	// hosts. Which one is used follows the top-level Environment.
	SandboxBaseURL    string `yaml:"sandbox_base_url"`
	ProductionBaseURL string `yaml:"production_base_url"`

	// OAuthURL overrides the token endpoint. Unlike the data hosts it does
	// not vary by environment.
	OAuthURL string `yaml:"oauth_url"`

	// Timeout is the per-call ceiling.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`

	// MaxRetries re-attempts network-level failures only.
	// Default: 0
	MaxRetries int `yaml:"max_retries"`
}

// BackendConfig contains hosted backend adapter configuration.
type BackendConfig struct {
	// BaseURL is the backend platform's API root. Required if the
	// /proxy/backend route is to work.
	BaseURL string `yaml:"base_url"`

	// Timeout is the per-call ceiling.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`

	// MaxRetries re-attempts network-level failures only.
	// Default: 0
	MaxRetries int `yaml:"max_retries"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging configures structured logging.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures the Prometheus endpoint.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is one of "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`

	// Output is one of "stdout" or "stderr".
	// Default: "stdout"
	Output string `yaml:"output"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether /metrics is served. A pointer so an
	// explicit false survives defaulting; nil means unset.
	// Default: true
	Enabled *bool `yaml:"enabled"`

	// Path is the scrape endpoint path.
	// Default: "/metrics"
	Path string `yaml:"path"`
}

// IsEnabled reports whether the metrics endpoint is on, treating unset as
// enabled.
func (c *MetricsConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// AuditConfig contains proxied-call audit log configuration.
type AuditConfig struct {
	// Enabled controls whether proxied calls are recorded.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// SQLitePath is the audit database file. ":memory:" is accepted for
	// tests.
	// Default: "data/audit.db"
	SQLitePath string `yaml:"sqlite_path"`

	// RetentionDays is how long records are kept before the pruner deletes
	// them. Zero disables pruning.
	// Default: 90
	RetentionDays int `yaml:"retention_days"`

	// PruneSchedule is a standard cron expression for the retention job.
	// Default: "0 3 * * *" (daily at 03:00)
	PruneSchedule string `yaml:"prune_schedule"`

	// BufferSize is the async recorder's queue length. Records are dropped
	// when the queue is full rather than blocking request handling.
	// Default: 1000
	BufferSize int `yaml:"buffer_size"`
}
