package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"cnstrct-hq/relay/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Load and validate a relay configuration file without starting the server.

Checks the listen address, environment selection, upstream URLs, credential
pairing, telemetry settings, and the audit retention schedule. Environment
variable overrides are applied before validation, the same way "relay run"
applies them.

Examples:
  # Validate the default config lookup
  relay validate

  # Validate a specific file
  relay validate --config /etc/relay/config.yaml`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		var valErr config.ValidationError
		if errors.As(err, &valErr) {
			fmt.Println("✗ Configuration invalid:")
			for _, fieldErr := range valErr.Errors {
				fmt.Printf("  - %s: %s\n", fieldErr.Field, fieldErr.Message)
			}
			return fmt.Errorf("%d validation error(s)", len(valErr.Errors))
		}
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println("✓ Configuration valid")
	fmt.Printf("  listen address: %s\n", cfg.Server.ListenAddress)
	fmt.Printf("  environment: %s\n", cfg.Environment)
	fmt.Printf("  stripe default key: %s\n", configured(cfg.Services.Stripe.SecretKey != ""))
	fmt.Printf("  qbo app credentials: %s\n", configured(cfg.Services.QBO.ClientID != ""))
	fmt.Printf("  backend base url: %s\n", configured(cfg.Services.Backend.BaseURL != ""))
	fmt.Printf("  audit log: %s\n", enabled(cfg.Audit.Enabled))
	fmt.Printf("  metrics: %s\n", enabled(cfg.Telemetry.Metrics.IsEnabled()))
	return nil
}

func configured(set bool) string {
	if set {
		return "configured"
	}
	return "not configured"
}

func enabled(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}
