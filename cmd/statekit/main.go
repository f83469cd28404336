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
		Use:   "statekit",
		Short: "Reactive state utilities demo server",
		Long: `Statekit is a library of reactive state primitives for Go:
observable atoms, one-shot disposers, and latest-wins load controllers.

This CLI runs a demo server that publishes live atoms over WebSocket
and exposes Prometheus metrics for the load machinery.`,
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

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("statekit %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
