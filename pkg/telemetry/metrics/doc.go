// Package metrics exposes the relay's Prometheus metrics.
//
// Everything hangs off a Collector owning a private registry, so tests can
// build isolated collectors without tripping duplicate-registration panics
// on the global default registry.
//
// Metric families:
//   - relay_requests_total{service,method,status}
//   - relay_request_duration_seconds{service}
//   - relay_upstream_errors_total{service,kind}
package metrics
