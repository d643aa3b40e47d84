package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "forecaster",
		Short: "AI market forecaster - daily per-symbol range predictions",
		Long: `forecaster fetches daily price history and recent news for each
configured symbol, asks Gemini for tomorrow's price range, grades
yesterday's prediction against today's close, and writes a live JSON
snapshot plus an append-only CSV history ledger.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(configPath)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the YAML configuration file")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Run one forecast cycle and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(configPath)
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "schedule",
		Short: "Run forecast cycles on the configured cron schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScheduled(configPath)
		},
	})

	return rootCmd
}
