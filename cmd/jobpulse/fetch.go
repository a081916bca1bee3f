package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Run one full refresh of the dataset",
	Long:  "Fetch from Adzuna, normalize, deduplicate and atomically replace the CSV snapshot, then record, notify and publish.",
	RunE:  runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	cfg := mustLoadConfig(logger)

	p, cleanup, err := buildPipeline(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	run, err := p.Run(ctx)
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}
	logger.Info("refresh complete",
		"run_id", run.RunID,
		"unique", run.Unique,
		"dataset", run.DatasetPath,
		"duration", run.Duration().String(),
	)
	return nil
}
