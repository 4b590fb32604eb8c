// Package server assembles the relay's HTTP surface and manages its
// lifecycle.
//
// It ties the route handlers, the middleware chain, and the observability
// components together, and owns startup, graceful shutdown, and OS signal
// handling.
//
// # Basic Usage
//
//	cfg, err := config.LoadOrDefault(path)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	manager := servicefactory.NewManager(cfg, logger)
//	defer manager.Close()
//
//	srv := server.New(server.Options{
//	    Config:   cfg,
//	    Logger:   logger,
//	    Services: manager,
//	})
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Routes
//
//   - POST /proxy/stripe - forwards a Stripe API call
//   - POST /proxy/qbo/token - QuickBooks OAuth code exchange
//   - POST /proxy/qbo/refresh - QuickBooks OAuth token refresh
//   - POST /proxy/qbo/data-operation - QuickBooks company data call
//   - POST /proxy/backend - hosted backend passthrough
//   - GET /health - liveness probe
//   - GET /ready - readiness probe (per-service reachability)
//   - GET /health/services - detailed per-service health
//   - GET /metrics - Prometheus scrape endpoint (when enabled)
//
// # Middleware Chain
//
// Requests pass through the following middleware (outermost to innermost):
//  1. Recovery: turns panics into JSON 500 responses
//  2. RequestID: attaches X-Request-ID for tracing
//  3. Logging: logs request/response metadata (never bodies)
//  4. CORS: answers preflights and emits CORS headers
//  5. Timeout: attaches the per-request deadline to the context
//
// # Graceful Shutdown
//
// Start blocks until the context is cancelled or Shutdown is called, then
// stops accepting connections and waits up to the configured shutdown
// timeout for in-flight requests to finish.
//
// TLS is not configured here; the relay is deployed behind a platform load
// balancer that terminates TLS.
package server
