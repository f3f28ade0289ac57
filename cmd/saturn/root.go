package main

import (
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/saturn/pkg/cli"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "saturn",
	Short: "Saturn - sliding-window call rate limiter",
	Long: `Saturn is a sliding-window call rate limiter with a decision journal.

It admits or rejects calls against per-resource rules (at most N calls in
any trailing window), records every decision for later inspection, and
exposes Prometheus metrics for the admission path.

The saturn command provides operational tooling around the library:
  - Config validation with per-field error reporting
  - An in-process load driver for sizing rate limit rules
  - Decision journal queries for admission forensics

For more information, visit: https://github.com/mercator-hq/saturn`,
	Version: Version,
}

// Execute runs the root command. Exit codes come from the error type:
// config errors exit 3, command errors carry their own code, anything
// else exits 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(cli.HandleError(err))
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.CompletionOptions.DisableDefaultCmd = false
}
