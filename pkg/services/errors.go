package services

import (
	"encoding/json"
	"fmt"
)

// ErrorKind classifies a normalized upstream failure.
type ErrorKind string

const (
	// KindAuthentication means the upstream rejected the credential.
	KindAuthentication ErrorKind = "AuthenticationError"

	// KindConnection means the upstream was unreachable or reported a
	// connection failure of its own.
	KindConnection ErrorKind = "ConnectionError"

	// KindUpstream means the upstream was reachable but rejected the
	// operation.
	KindUpstream ErrorKind = "UpstreamError"
)

// UpstreamError is a structured non-2xx response from an upstream service,
// already classified for the boundary layer.
type UpstreamError struct {
	// Service names the upstream ("stripe", "qbo", "backend").
	Service string

	// Kind is the normalized classification.
	Kind ErrorKind

	// StatusCode is the HTTP status to surface to the caller. For
	// KindUpstream it mirrors the upstream status.
	StatusCode int

	// Type is the upstream's own error type string, if present.
	Type string

	// Message is the human-readable summary.
	Message string

	// ConfigHelp is an operator hint for configuration-related failures.
	ConfigHelp string

	// Details is the upstream error payload, verbatim.
	Details json.RawMessage
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s %s (status %d): %s", e.Service, e.Kind, e.StatusCode, e.Message)
}

// TransportError means no upstream response was received: timeout, DNS
// failure, or connection refused. There is no upstream status to mirror.
type TransportError struct {
	// Service names the upstream that was being called.
	Service string

	// Cause is the underlying transport error.
	Cause error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s transport failure: %v", e.Service, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// ValidationError is a request problem an adapter detects before any wire
// call, such as a credential that is absent both per-request and in
// configuration.
type ValidationError struct {
	// Field is the JSON name of the offending field.
	Field string

	// Message describes what is required.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field %q: %s", e.Field, e.Message)
}
