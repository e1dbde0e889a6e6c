/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/krushiiq/apiserver/config"
	"github.com/krushiiq/apiserver/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose bool

	cfg    config.Config
	logger *zap.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "krushiiq",
	Short: "krushiiq agricultural advisory API",
	Long: `krushiiq serves crop, yield, pesticide, weather and market advisories
to farmers over a JSON HTTP API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.LoadConfig()

		var err error
		logger, err = logging.New(cfg.LogLevel, verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
