/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/krushiiq/apiserver/internal/server"
	"github.com/spf13/cobra"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Starts the krushiiq API server",
	Long: `Starts the krushiiq API server. Usage:

	krushiiq server
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := server.New(cmd.Context(), cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		if err := srv.Run(cmd.Context()); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
