// Package main is the sitecheck command line entry point.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "sitecheck",
	Short: "Batch HTTP uptime checker",
	Long: `sitecheck probes a list of HTTP(S) endpoints once and reports the outcome.

Targets come from a YAML sites file with per-target acceptance policies
(expected status, body keyword) and batch-wide defaults. A run prints a
summary, can write a JSON report, and can post the result to a Slack webhook.

Exit codes:
  0 - every target is ok or skipped
  1 - configuration or usage error
  2 - at least one target failed`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sitecheck %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errTargetsFailed) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
