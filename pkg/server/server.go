package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"cnstrct-hq/relay/pkg/audit"
	"cnstrct-hq/relay/pkg/config"
	"cnstrct-hq/relay/pkg/proxy/handlers"
	"cnstrct-hq/relay/pkg/proxy/middleware"
	"cnstrct-hq/relay/pkg/servicefactory"
	"cnstrct-hq/relay/pkg/telemetry/metrics"
)

// Options carries the server's dependencies. Config, Logger, and Services
// are required; Metrics and Audit are optional sinks.
type Options struct {
	Config   *config.Config
	Logger   *slog.Logger
	Services *servicefactory.Manager
	Metrics  *metrics.Collector
	Audit    *audit.Recorder
	Version  string
}

// Server is the relay's HTTP server.
type Server struct {
	config       *config.Config
	logger       *slog.Logger
	services     *servicefactory.Manager
	metrics      *metrics.Collector
	audit        *audit.Recorder
	version      string
	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// New creates a new relay server.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	version := opts.Version
	if version == "" {
		version = "dev"
	}
	return &Server{
		config:       opts.Config,
		logger:       logger,
		services:     opts.Services,
		metrics:      opts.Metrics,
		audit:        opts.Audit,
		version:      version,
		shutdownChan: make(chan struct{}),
	}
}

// Start starts the HTTP server and blocks until the context is cancelled,
// Shutdown is called, or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	handler := s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:           s.config.Server.ListenAddress,
		Handler:        handler,
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		IdleTimeout:    s.config.Server.IdleTimeout,
		MaxHeaderBytes: s.config.Server.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting relay server",
			"address", s.config.Server.ListenAddress,
			"environment", s.config.Environment,
			"version", s.version,
		)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		s.logger.Info("shutdown requested", "reason", ctx.Err())
		return s.Shutdown(context.Background())

	case <-s.shutdownChan:
		s.logger.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server, waiting up to the configured
// shutdown timeout for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		close(s.shutdownChan)

		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		s.logger.Info("initiating graceful shutdown",
			"timeout", s.config.Server.ShutdownTimeout.String(),
		)

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("relay server stopped")
	})

	return shutdownErr
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the configured HTTP handler. Tests exercise the full
// middleware chain through this without binding a port.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// setupRoutes configures HTTP routes and the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	observer := newCallObserver(s.metrics, s.audit)

	stripeHandler := handlers.NewStripeHandler(s.services.Stripe(), observer, s.logger)
	qboHandler := handlers.NewQBOHandler(s.services.QBO(), observer, s.logger)
	backendHandler := handlers.NewBackendHandler(s.services.Backend(), observer, s.logger)
	healthHandler := handlers.NewHealthHandler(s.version)
	readyHandler := handlers.NewReadyHandler(s.services)
	serviceHealthHandler := handlers.NewServiceHealthHandler(s.services)

	mux.Handle("/proxy/stripe", stripeHandler)
	mux.HandleFunc("/proxy/qbo/token", qboHandler.Token)
	mux.HandleFunc("/proxy/qbo/refresh", qboHandler.Refresh)
	mux.HandleFunc("/proxy/qbo/data-operation", qboHandler.DataOperation)
	mux.Handle("/proxy/backend", backendHandler)
	mux.Handle("/health", healthHandler)
	mux.Handle("/ready", readyHandler)
	mux.Handle("/health/services", serviceHealthHandler)

	if s.metrics != nil && s.config.Telemetry.Metrics.IsEnabled() {
		mux.Handle(s.config.Telemetry.Metrics.Path, s.metrics.Handler())
	}

	var handler http.Handler = mux

	// Innermost first; recovery ends up outermost.
	handler = middleware.BodyLimit(s.config.Server.MaxBodyBytes)(handler)
	handler = middleware.Timeout(s.config.Server.WriteTimeout)(handler)
	handler = middleware.CORS(s.corsConfig())(handler)
	handler = middleware.Logging(s.logger)(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(s.logger)(handler)

	return handler
}

// corsConfig converts config.CORSConfig to middleware.CORSConfig.
func (s *Server) corsConfig() *middleware.CORSConfig {
	return &middleware.CORSConfig{
		Enabled:        s.config.Server.CORS.IsEnabled(),
		AllowedOrigins: s.config.Server.CORS.AllowedOrigins,
		AllowedMethods: s.config.Server.CORS.AllowedMethods,
		AllowedHeaders: s.config.Server.CORS.AllowedHeaders,
		MaxAge:         s.config.Server.CORS.MaxAge,
	}
}
