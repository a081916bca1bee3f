package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobpulse/internal/analytics"
	"github.com/amishk599/jobpulse/internal/dataset"
	"github.com/amishk599/jobpulse/internal/report"
)

var (
	reportJSON bool
	reportOut  string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the market briefing for the current snapshot",
	Long:  "Aggregates the dataset and prints the text context export, or JSON with --json.",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "emit JSON instead of text")
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "write to this file instead of stdout")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	cfg := mustLoadConfig(logger)

	jobs, err := dataset.Load(cfg.Dataset.Path)
	if err != nil {
		return err
	}
	summary := analytics.Summarize(jobs)

	var w io.Writer = os.Stdout
	if reportOut != "" {
		f, err := os.Create(reportOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", reportOut, err)
		}
		defer f.Close()
		w = f
	}

	exporter := report.New(cfg.Report.TopN)
	if reportJSON {
		return exporter.JSON(w, summary)
	}
	return exporter.Text(w, summary)
}
