package audit

import "time"

// Call is one proxied-call audit record. It holds routing metadata and the
// outcome only; request and response bodies carry credentials and are
// deliberately absent.
type Call struct {
	// ID is the record's unique identifier.
	ID string

	// RequestID correlates the record with relay logs.
	RequestID string

	// Service names the upstream ("stripe", "qbo", "backend").
	Service string

	// Endpoint is the abstract resource path the caller asked for.
	Endpoint string

	// Method is the canonical HTTP verb.
	Method string

	// Status is the HTTP status returned to the caller.
	Status int

	// ErrorKind is the normalized error classification, empty on success.
	ErrorKind string

	// Latency is the end-to-end handling time.
	Latency time.Duration

	// CreatedAt is when the call completed.
	CreatedAt time.Time
}
