package types

import "encoding/json"

// Error kind constants. Kind is the machine-checkable classification callers
// branch on; it is stable across services even when the upstream's own type
// strings differ.
const (
	// KindValidation marks missing or malformed request fields (HTTP 400).
	KindValidation = "ValidationError"

	// KindAuthentication marks bad or missing credentials (HTTP 401).
	KindAuthentication = "AuthenticationError"

	// KindConnection marks an unreachable or timed-out upstream
	// (HTTP 503 when the upstream reported it, 500 when no response
	// was received at all).
	KindConnection = "ConnectionError"

	// KindUpstream marks an upstream that was reachable but rejected the
	// operation; the HTTP status mirrors the upstream's.
	KindUpstream = "UpstreamError"
)

// ErrorResponse is the normalized error envelope returned on every failed
// proxy call.
type ErrorResponse struct {
	// Status is the HTTP status code to respond with. Not serialized;
	// it drives the response writer.
	Status int `json:"-"`

	// Error is the human-readable summary.
	Error string `json:"error"`

	// Kind is one of the Kind* constants.
	Kind string `json:"errorKind"`

	// Type is the upstream's own error type string when one was present
	// (e.g. "StripeAuthenticationError").
	Type string `json:"type,omitempty"`

	// Message carries additional human-readable detail, such as a
	// transport error message.
	Message string `json:"message,omitempty"`

	// Param names the request field a validation error refers to.
	Param string `json:"param,omitempty"`

	// Service names the upstream service involved.
	Service string `json:"service,omitempty"`

	// ConfigHelp gives operators a hint when the failure points at relay
	// configuration (for example a bad Stripe secret key).
	ConfigHelp string `json:"configHelp,omitempty"`

	// Details carries the upstream error payload verbatim for
	// caller-side diagnostics.
	Details json.RawMessage `json:"details,omitempty"`
}

// NewValidationError builds a 400 envelope for a caller-fixable request
// problem. No wire call was attempted.
func NewValidationError(message, param string) *ErrorResponse {
	return &ErrorResponse{
		Status: 400,
		Error:  message,
		Kind:   KindValidation,
		Param:  param,
	}
}

// NewAuthenticationError builds a 401 envelope for rejected credentials.
func NewAuthenticationError(message, upstreamType, service, configHelp string, details json.RawMessage) *ErrorResponse {
	return &ErrorResponse{
		Status:     401,
		Error:      message,
		Kind:       KindAuthentication,
		Type:       upstreamType,
		Service:    service,
		ConfigHelp: configHelp,
		Details:    details,
	}
}

// NewConnectionError builds the envelope for an unreachable upstream.
// status is 503 when the upstream itself reported a connection failure and
// 500 when no response was received.
func NewConnectionError(status int, message, detail, service string) *ErrorResponse {
	return &ErrorResponse{
		Status:  status,
		Error:   message,
		Kind:    KindConnection,
		Message: detail,
		Service: service,
	}
}

// NewUpstreamError builds an envelope mirroring the upstream's status, with
// the original payload carried verbatim in Details.
func NewUpstreamError(status int, message, upstreamType, service string, details json.RawMessage) *ErrorResponse {
	return &ErrorResponse{
		Status:  status,
		Error:   message,
		Kind:    KindUpstream,
		Type:    upstreamType,
		Service: service,
		Details: details,
	}
}

// NewServerError builds a generic 500 envelope for unexpected internal
// failures. Internal detail is never exposed to callers.
func NewServerError(message string) *ErrorResponse {
	return &ErrorResponse{
		Status:  500,
		Error:   "Internal server error",
		Kind:    KindConnection,
		Message: message,
	}
}
