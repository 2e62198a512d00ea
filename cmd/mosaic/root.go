package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mosaic",
	Short: "Mosaic is a pane tiling workspace for terminal tools",
	Long: `Mosaic splits a workspace into panes, each hosting one tool, and keeps the
layout, focus and per-pane state in a single immutable snapshot.

Run it interactively (tui), replay scripted layouts (replay), or serve workspaces
to remote clients over HTTP (serve) and to agents over MCP (mcp).`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (default: ./mosaic.yaml or ~/.config/mosaic/mosaic.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Override the configured log level (debug, info, warn, error)")
}
