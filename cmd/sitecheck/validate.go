package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akkishost/sitecheck/internal/config"
)

// validateCmd checks a sites file without probing anything.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a sites file",
	Long: `Validate a sites file without running any checks.

Parses the YAML, expands environment variables, and validates every entry.
Useful in CI before deploying a config change.

Exit codes:
  0 - config is valid
  1 - config is invalid (details printed to stderr)`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to the sites file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	disabled := 0
	for _, s := range cfg.Sites {
		if s.Disabled {
			disabled++
		}
	}

	fmt.Println("Config is valid!")
	fmt.Printf("  Sites:     %d (%d disabled)\n", len(cfg.Sites), disabled)
	fmt.Printf("  OK ranges: %v\n", cfg.ProbeDefaults().Ranges)
	if cfg.Webhook() != "" {
		fmt.Println("  Notifier:  slack webhook configured")
	}
	return nil
}
