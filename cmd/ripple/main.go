package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ripple",
		Short: "Observable model toolkit",
		Long: `Ripple wraps plain map models in a transparent interception layer:
every read, write, and delete is mirrored to the underlying data while
change notifications and derived-value invalidation pulses flow to
subscribers.

The CLI hosts the live inspector: a development server that streams a
watched model's changes over WebSocket and serves its snapshot and
dependency graph as JSON.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
