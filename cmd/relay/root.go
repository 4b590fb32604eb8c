package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "relay",
	Short: "CNSTRCT relay - consolidated integration proxy",
	Long: `Relay is the CNSTRCT platform's consolidated integration proxy.

It fronts the third-party APIs the dashboard calls from the browser,
providing:
  - Stripe API forwarding (payments, Connect accounts)
  - QuickBooks Online OAuth and company data operations
  - Hosted backend passthrough
  - A uniform, CORS-clean error surface across all of them

The dashboard talks to the relay; the relay talks to everything else.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (optional; defaults apply without one)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
