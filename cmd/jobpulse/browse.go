package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobpulse/internal/browse"
	"github.com/amishk599/jobpulse/internal/dataset"
	"github.com/amishk599/jobpulse/internal/model"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the dataset interactively (TUI)",
	Long:  "Shows the category picker, then the split list/detail view. Press c to cycle categories.",
	RunE:  runBrowseCmd,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowseCmd(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	cfg := mustLoadConfig(logger)

	jobs, err := browse.RunLoader(cfg.Dataset.Path, func(context.Context) ([]model.Job, error) {
		return dataset.Load(cfg.Dataset.Path)
	})
	if err != nil {
		return fmt.Errorf("loading jobs: %w", err)
	}
	if len(jobs) == 0 {
		fmt.Println("The dataset is empty. Run `jobpulse fetch` first.")
		return nil
	}

	for {
		choice, err := browse.RunCategoryPicker(jobs)
		if err != nil {
			return fmt.Errorf("picker: %w", err)
		}
		if choice == browse.PickQuit {
			return nil
		}

		wantQuit, err := browse.RunBrowseTUI(jobs, choice)
		if err != nil {
			return fmt.Errorf("tui: %w", err)
		}
		if wantQuit {
			return nil
		}
		// else: loop → back to picker
	}
}
