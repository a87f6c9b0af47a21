// Package cli wires the cobra command tree of the reflectd daemon.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "reflectd",
	Short: "reflectd - reflective fee-on-transfer token daemon",
	Long: `reflectd runs the accounting core of a reflective fee-on-transfer token:
the tax engine, the pair-aware transfer ledger, and the treasury planner
that recycles collected taxes into liquidity, reflection swaps and burns.

It serves a JSON-RPC API and an optional websocket transfer-event feed.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "conf", "", "configuration file path")
}
