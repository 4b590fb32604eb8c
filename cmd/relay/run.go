package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"cnstrct-hq/relay/pkg/audit"
	"cnstrct-hq/relay/pkg/config"
	"cnstrct-hq/relay/pkg/server"
	"cnstrct-hq/relay/pkg/servicefactory"
	"cnstrct-hq/relay/pkg/telemetry/logging"
	"cnstrct-hq/relay/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the relay server",
	Long: `Start the relay server with the specified configuration.

The server listens on the configured address and forwards dashboard requests
to Stripe, QuickBooks Online, and the hosted backend, normalizing every
error into a uniform envelope.

Examples:
  # Start with defaults plus environment variables
  relay run

  # Start with a config file
  relay run --config /etc/relay/config.yaml

  # Override the listen address
  relay run --listen 0.0.0.0:8080

  # Validate config without starting the server
  relay run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger, err := logging.New(cfg.Telemetry.Logging, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	slog.SetDefault(logger)

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	printBanner(cfg)

	// Create the service adapters
	slog.Info("initializing service adapters")
	manager := servicefactory.NewManager(cfg, logger)
	defer manager.Close()

	fmt.Println("✓ Service adapters initialized (stripe, qbo, backend)")

	// Initialize metrics (if enabled)
	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.IsEnabled() {
		collector = metrics.NewCollector()
	}

	// Initialize the call audit log (if enabled)
	var recorder *audit.Recorder
	if cfg.Audit.Enabled {
		slog.Info("initializing audit log", "path", cfg.Audit.SQLitePath)

		store, err := audit.OpenStore(cfg.Audit.SQLitePath, logger)
		if err != nil {
			return fmt.Errorf("failed to open audit store: %w", err)
		}
		defer store.Close()

		recorder = audit.NewRecorder(store, cfg.Audit.BufferSize, logger)
		defer recorder.Close()

		if cfg.Audit.PruneSchedule != "" && cfg.Audit.RetentionDays > 0 {
			pruner := audit.NewPruner(store, cfg.Audit.RetentionDays, cfg.Audit.PruneSchedule, logger)
			if err := pruner.Start(context.Background()); err != nil {
				slog.Warn("failed to start audit retention scheduler", "error", err)
			} else {
				defer pruner.Stop()
			}
		}

		fmt.Println("✓ Audit log initialized")
	}

	srv := server.New(server.Options{
		Config:   cfg,
		Logger:   logger,
		Services: manager,
		Metrics:  collector,
		Audit:    recorder,
		Version:  Version,
	})

	// Stop on SIGINT/SIGTERM; Start drains in-flight requests before
	// returning.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Hot-reload credentials when the config file changes. Routing and
	// transports stay fixed for the life of the process.
	if cfgFile != "" {
		watcher := config.NewWatcher(cfgFile, logger)
		go func() {
			if err := watcher.Watch(ctx, manager.Reload); err != nil {
				slog.Warn("config watcher stopped", "error", err)
			}
		}()
	}

	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("✓ Health endpoint: http://%s/health\n", cfg.Server.ListenAddress)
	if cfg.Telemetry.Metrics.IsEnabled() {
		fmt.Printf("✓ Metrics endpoint: http://%s%s\n", cfg.Server.ListenAddress, cfg.Telemetry.Metrics.Path)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	fmt.Println("✓ Server stopped")
	return nil
}

func printBanner(cfg *config.Config) {
	fmt.Printf("CNSTRCT Relay v%s\n", Version)
	if cfgFile != "" {
		fmt.Printf("Loading configuration from: %s\n", cfgFile)
	} else {
		fmt.Println("No config file specified; using defaults and environment variables")
	}
	fmt.Println("✓ Configuration loaded")

	slog.Debug("environment selected", "environment", cfg.Environment)
	if cfg.Services.Stripe.SecretKey == "" {
		slog.Debug("no default stripe key; every request must carry its own")
	}
	if cfg.Services.QBO.ClientID == "" {
		slog.Debug("no default qbo app credentials; every token operation must carry its own")
	}
	if cfg.Audit.Enabled {
		slog.Debug("audit enabled", "path", cfg.Audit.SQLitePath, "retention_days", cfg.Audit.RetentionDays)
	}
}
