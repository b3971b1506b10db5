package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"aromatiq-hq/neroli/pkg/cli"
	"aromatiq-hq/neroli/pkg/config"
	"aromatiq-hq/neroli/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "aromatiq",
	Short: "Aromatiq Neroli - perfume formulation decision support",
	Long: `Aromatiq Neroli is a decision-support backend for perfume formulation.

It validates candidate formulas against IFRA-style regulatory tables,
retrieves physiological adaptation rules for skin profiles, simulates
EEG and skin-pH readings, and profiles formulas against the ingredient
catalog:
  - Compliance validation with restriction, phototoxicity, and
    allergen checks
  - Dual-mode rule retrieval (vector similarity with keyword fallback)
  - Persistent audit trail for every recorded validation
  - Hot reload of regulatory and rule tables`,
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
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "neroli.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// loadConfig resolves the effective configuration. A missing file at
// the default path falls back to built-in defaults so commands work
// out of the box; an explicitly passed --config must exist.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	explicit := cmd.Root().PersistentFlags().Changed("config")
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) && !explicit {
		return config.DefaultConfig(), nil
	}

	if err := config.Initialize(cfgFile); err != nil {
		return nil, cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	return config.MustGetConfig(), nil
}

// newLogger builds the process logger from configuration. --verbose
// forces debug level. Logs go to stderr so command output on stdout
// stays machine-parseable.
func newLogger(cfg *config.Config) (*slog.Logger, error) {
	level := cfg.Telemetry.Logging.Level
	if verbose {
		level = "debug"
	}

	logger, err := logging.New(logging.Config{
		Level:  level,
		Format: cfg.Telemetry.Logging.Format,
		Writer: os.Stderr,
	})
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}

	slog.SetDefault(logger)
	return logger, nil
}
