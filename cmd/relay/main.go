// Relay is a consolidated integration proxy for the CNSTRCT dashboard.
//
// It puts a single CORS-clean HTTP surface in front of the third-party APIs
// the dashboard talks to, providing:
//   - Stripe API forwarding with bracket-notation form encoding
//   - QuickBooks Online OAuth token operations and company data calls
//   - Hosted backend passthrough with bearer authentication
//   - Normalized error envelopes across all three upstreams
//   - Optional call audit log and Prometheus metrics
//
// Usage:
//
//	# Start the relay with default configuration
//	relay run
//
//	# Start with a custom configuration file
//	relay run --config /etc/relay/config.yaml
//
//	# Validate a configuration file without starting
//	relay validate --config /etc/relay/config.yaml
//
//	# Show version information
//	relay version
package main

func main() {
	Execute()
}
