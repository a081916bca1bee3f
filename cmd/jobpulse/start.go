package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobpulse/internal/scheduler"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the refresh daemon",
	Long:  "Refresh immediately, then every schedule.refresh_interval; blocks until SIGINT/SIGTERM.",
	RunE:  runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	cfg := mustLoadConfig(logger)

	logger.Info("config loaded",
		"interval", cfg.Schedule.RefreshInterval.String(),
		"terms", len(cfg.Adzuna.SearchTerms),
		"dataset", cfg.Dataset.Path,
		"history", cfg.History.Enabled,
		"notifier", cfg.Notification.Type,
	)

	p, cleanup, err := buildPipeline(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := scheduler.NewScheduler(p, cfg.Schedule.RefreshInterval, logger)
	if err := sched.Run(ctx); err != nil {
		return fmt.Errorf("scheduler error: %w", err)
	}

	logger.Info("goodbye")
	return nil
}
