// Package commands contains the helpmatch CLI entrypoints.
package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/helpmatch/helpmatch/pkg/config"
	"github.com/helpmatch/helpmatch/pkg/observability"
)

var verbose bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "helpmatch",
	Short: "HelpMatch - community task matching service",
	Long: `HelpMatch connects community members who need a hand with
volunteers nearby. It ranks open tasks for each volunteer by skill
similarity, distance, priority, urgency and deadline, and manages the
invite and assignment lifecycle.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads configuration and builds the process logger.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := observability.LoggerFromEnv()
	if verbose {
		logCfg := observability.DefaultLogConfig()
		logCfg.Level = observability.LogLevelDebug
		logger = observability.NewLogger(logCfg)
	}
	slog.SetDefault(logger)

	return cfg, logger, nil
}
