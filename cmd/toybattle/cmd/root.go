package cmd

import (
	"log/slog"
	"os"

	"github.com/nfrund/toybattle/internal/logging"
	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "toybattle",
	Short: "Toy Battle command line tools",
	Long: `toybattle runs headless matches and inspects the data the match server uses.

Available commands:
  simulate     Play whole bot-vs-bot matches and report the results
  templates    Validate and list the unit, bonus and skill catalog
  topics       List the event topics the server publishes
  version      Print the version

Use "toybattle [command] --help" for more information about a command.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		slog.SetDefault(logging.NewWithWriter(os.Stderr, "text", logLevel))
	},
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
}
