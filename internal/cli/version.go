package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags.
var Version = "0.1.0-dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the reflectd version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("reflectd %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
