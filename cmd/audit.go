/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/krushiiq/apiserver/internal/mq"
	"github.com/krushiiq/apiserver/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the advisory audit event stream",
}

var auditTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Log advisory records as they are published",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		bus, err := mq.Open(ctx, cfg.Events)
		if err != nil {
			return err
		}
		if bus == nil {
			return errors.New("EVENTS_BACKEND is none; nothing to tail")
		}
		defer bus.Close()

		logger.Info("tailing advisory records",
			zap.String("backend", cfg.Events.Backend),
			zap.String("channel", cfg.Events.Channel))

		err = mq.NewRecordPublisher(bus, cfg.Events.Channel).Tail(ctx, func(record types.AdvisoryRecord, msg mq.Message) {
			logger.Info("advisory record",
				zap.String("message_id", msg.ID),
				zap.String("record_id", record.ID),
				zap.String("type", string(record.Kind)),
				zap.String("source", string(record.Source)),
				zap.Time("created_at", record.CreatedAt),
				zap.Any("input", record.Input),
				zap.Any("output", record.Output))
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditTailCmd)
}
