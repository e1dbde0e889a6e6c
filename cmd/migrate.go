/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/krushiiq/apiserver/internal/db"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateSteps int

// migrateCmd represents the migrate command.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations for the PostgreSQL backend",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all up migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := db.MigrateUp(cfg); err != nil {
			return err
		}
		logger.Info("migrations applied", zap.String("database", cfg.Database.DBName))
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert the most recent migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := db.MigrateDown(cfg, migrateSteps); err != nil {
			return err
		}
		logger.Info("migrations reverted", zap.Int("steps", migrateSteps))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)

	migrateDownCmd.Flags().IntVar(&migrateSteps, "steps", 1, "number of migrations to revert")
}
