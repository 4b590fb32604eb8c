// Package handlers contains the HTTP handlers for the relay's proxied
// routes and its health endpoints.
//
// Handlers depend on small interfaces over the service adapters so tests
// can substitute fakes, and they follow a fixed shape: method check, parse,
// validate, forward, write. Validation failures return 400 before any
// upstream traffic; a handler that has written a 400 has provably not
// touched the network.
package handlers
