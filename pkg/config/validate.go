package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"

	"cnstrct-hq/relay/pkg/route"
)

// FieldError represents a validation error for a specific configuration
// field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g.,
	// "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a
// configuration. All field errors are collected and reported together.
type ValidationError struct {
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any rules fail. It returns nil if the configuration is valid.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateEnvironment(cfg.Environment)...)
	errs = append(errs, validateServices(&cfg.Services)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)
	errs = append(errs, validateAudit(&cfg.Audit)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateServer(c *ServerConfig) []FieldError {
	var errs []FieldError

	if c.ListenAddress == "" {
		errs = append(errs, FieldError{"server.listen_address", "must not be empty"})
	} else if _, _, err := net.SplitHostPort(c.ListenAddress); err != nil {
		errs = append(errs, FieldError{"server.listen_address", fmt.Sprintf("invalid host:port: %v", err)})
	}
	if c.ReadTimeout < 0 {
		errs = append(errs, FieldError{"server.read_timeout", "must not be negative"})
	}
	if c.WriteTimeout < 0 {
		errs = append(errs, FieldError{"server.write_timeout", "must not be negative"})
	}
	if c.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{"server.shutdown_timeout", "must not be negative"})
	}
	if c.MaxBodyBytes < 0 {
		errs = append(errs, FieldError{"server.max_body_bytes", "must not be negative"})
	}

	if c.CORS.IsEnabled() && len(c.CORS.AllowedOrigins) == 0 {
		errs = append(errs, FieldError{"server.cors.allowed_origins", "must not be empty when CORS is enabled"})
	}

	return errs
}

func validateEnvironment(env string) []FieldError {
	switch route.Environment(env) {
	case route.EnvSandbox, route.EnvProduction:
		return nil
	default:
		return []FieldError{{"environment", fmt.Sprintf("must be %q or %q, got %q",
			route.EnvSandbox, route.EnvProduction, env)}}
	}
}

func validateServices(c *ServicesConfig) []FieldError {
	var errs []FieldError

	errs = append(errs, validateOptionalURL("services.stripe.base_url", c.Stripe.BaseURL)...)
	if c.Stripe.Timeout < 0 {
		errs = append(errs, FieldError{"services.stripe.timeout", "must not be negative"})
	}
	if c.Stripe.MaxRetries < 0 {
		errs = append(errs, FieldError{"services.stripe.max_retries", "must not be negative"})
	}

	errs = append(errs, validateOptionalURL("services.qbo.sandbox_base_url", c.QBO.SandboxBaseURL)...)
	errs = append(errs, validateOptionalURL("services.qbo.production_base_url", c.QBO.ProductionBaseURL)...)
	errs = append(errs, validateOptionalURL("services.qbo.oauth_url", c.QBO.OAuthURL)...)
	if c.QBO.Timeout < 0 {
		errs = append(errs, FieldError{"services.qbo.timeout", "must not be negative"})
	}
	// An app needs both halves of the credential pair or neither.
	if (c.QBO.ClientID == "") != (c.QBO.ClientSecret == "") {
		errs = append(errs, FieldError{"services.qbo.client_id", "client_id and client_secret must be set together"})
	}

	errs = append(errs, validateOptionalURL("services.backend.base_url", c.Backend.BaseURL)...)
	if c.Backend.Timeout < 0 {
		errs = append(errs, FieldError{"services.backend.timeout", "must not be negative"})
	}

	return errs
}

func validateTelemetry(c *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{"telemetry.logging.level",
			fmt.Sprintf("must be one of debug, info, warn, error; got %q", c.Logging.Level)})
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{"telemetry.logging.format",
			fmt.Sprintf("must be json or text, got %q", c.Logging.Format)})
	}
	switch c.Logging.Output {
	case "stdout", "stderr":
	default:
		errs = append(errs, FieldError{"telemetry.logging.output",
			fmt.Sprintf("must be stdout or stderr, got %q", c.Logging.Output)})
	}

	if c.Metrics.IsEnabled() && !strings.HasPrefix(c.Metrics.Path, "/") {
		errs = append(errs, FieldError{"telemetry.metrics.path", "must start with /"})
	}

	return errs
}

func validateAudit(c *AuditConfig) []FieldError {
	if !c.Enabled {
		return nil
	}

	var errs []FieldError
	if c.SQLitePath == "" {
		errs = append(errs, FieldError{"audit.sqlite_path", "must not be empty when audit is enabled"})
	}
	if c.RetentionDays < 0 {
		errs = append(errs, FieldError{"audit.retention_days", "must not be negative"})
	}
	if c.BufferSize <= 0 {
		errs = append(errs, FieldError{"audit.buffer_size", "must be positive"})
	}
	if c.PruneSchedule != "" {
		if _, err := cron.ParseStandard(c.PruneSchedule); err != nil {
			errs = append(errs, FieldError{"audit.prune_schedule", fmt.Sprintf("invalid cron expression: %v", err)})
		}
	}
	return errs
}

// validateOptionalURL accepts an empty value (the default applies) but
// rejects a set value that is not an absolute http(s) URL.
func validateOptionalURL(field, value string) []FieldError {
	if value == "" {
		return nil
	}
	u, err := url.Parse(value)
	if err != nil {
		return []FieldError{{field, fmt.Sprintf("invalid URL: %v", err)}}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return []FieldError{{field, fmt.Sprintf("URL scheme must be http or https, got %q", u.Scheme)}}
	}
	if u.Host == "" {
		return []FieldError{{field, "URL must include a host"}}
	}
	return nil
}
