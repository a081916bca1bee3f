package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobpulse/internal/analytics"
	"github.com/amishk599/jobpulse/internal/dataset"
	"github.com/amishk599/jobpulse/internal/normalize"
	"github.com/amishk599/jobpulse/internal/notifier"
	"github.com/amishk599/jobpulse/internal/pipeline"
	"github.com/amishk599/jobpulse/internal/report"
	"github.com/amishk599/jobpulse/internal/store"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Fetch once, print a summary, write nothing",
	Long:  "Dry run: fetches, normalizes and deduplicates, then prints the market briefing. The dataset and run history are not touched.",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	cfg := mustLoadConfig(logger)

	logger.Info("check mode: nothing will be written")

	fetcher := setupSearchClient(cfg, newHTTPClient(cfg), logger)
	p := pipeline.New(
		fetcher,
		normalize.New(cfg.Dataset.DescriptionLimit, logger),
		dataset.NewCSVWriter(cfg.Dataset.Path),
		store.NewNopStore(),
		notifier.NewLogNotifier(logger),
		nil,
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	jobs, run, err := p.Collect(ctx)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	if err := report.New(cfg.Report.TopN).Text(os.Stdout, analytics.Summarize(jobs)); err != nil {
		return err
	}
	fmt.Printf("\nfetched %d, normalized %d, dropped %d, unique %d\n", run.Fetched, run.Normalized, run.Dropped, run.Unique)
	logger.Info("check complete")
	return nil
}
