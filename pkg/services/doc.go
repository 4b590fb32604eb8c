// Package services contains the upstream service adapters and the shared
// HTTP forwarder they are built on.
//
// Each adapter (stripe, qbo, backend) resolves an abstract operation through
// the routing table, serializes the payload with pkg/encode, executes the
// wire call through HTTPClient, and normalizes the outcome into either a
// Result (2xx, body passed through unmodified) or a typed error:
//
//   - *UpstreamError: the upstream responded with a non-2xx status. Carries
//     the normalized kind, the status to surface, and the original error
//     payload verbatim.
//   - *TransportError: no response was received (timeout, DNS failure,
//     connection refused).
//   - *ValidationError: a credential or field problem detected before any
//     network activity.
//
// Adapters never retry on upstream status codes. The only retry knob is the
// forwarder's transport-level retry count, which re-attempts network-level
// failures and nothing else; it defaults to zero.
package services
