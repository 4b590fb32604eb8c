// Package logging builds the relay's slog logger and redacts credentials
// from log output.
//
// Every proxied request carries at least one secret: a Stripe key, a
// QuickBooks token, or a backend session token. The redacting handler sits
// between the relay's log calls and the output writer so a key that slips
// into an attribute value never reaches disk.
package logging
