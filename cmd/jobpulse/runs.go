package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobpulse/internal/store"
)

var (
	runsLimit     int
	runsOlderThan time.Duration
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded refresh runs",
	Long:  "Prints the most recent runs from the history database, newest first.",
	RunE:  runRuns,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one recorded run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var runsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete run history older than --older-than",
	RunE:  runRunsPrune,
}

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "number of runs to show")
	runsPruneCmd.Flags().DurationVar(&runsOlderThan, "older-than", 90*24*time.Hour, "remove runs that started before now minus this duration")
	runsCmd.AddCommand(runsShowCmd, runsPruneCmd)
	rootCmd.AddCommand(runsCmd)
}

// openHistory opens the SQLite history, or returns nil when history is off.
func openHistory() (*store.SQLiteStore, error) {
	logger := setupLogger(debug)
	cfg := mustLoadConfig(logger)
	if !cfg.History.Enabled {
		fmt.Println("Run history is disabled (history.enabled: false).")
		return nil, nil
	}
	return store.NewSQLiteStore(cfg.History.DBPath)
}

func runRuns(cmd *cobra.Command, args []string) error {
	st, err := openHistory()
	if err != nil || st == nil {
		return err
	}
	defer st.Close()

	runs, err := st.RecentRuns(runsLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	fmt.Printf("%-36s  %-20s %8s %8s %7s %7s %9s\n", "Run ID", "Started (UTC)", "Fetched", "Normal.", "Dropped", "Unique", "Duration")
	fmt.Println(strings.Repeat("─", 104))
	for _, r := range runs {
		fmt.Printf("%-36s  %-20s %8d %8d %7d %7d %9s\n",
			r.RunID,
			r.StartedAt.UTC().Format("2006-01-02 15:04:05"),
			r.Fetched, r.Normalized, r.Dropped, r.Unique,
			r.Duration().Round(time.Second),
		)
	}
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	st, err := openHistory()
	if err != nil || st == nil {
		return err
	}
	defer st.Close()

	r, err := st.Run(args[0])
	if errors.Is(err, store.ErrRunNotFound) {
		fmt.Printf("No run with id %s\n", args[0])
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("Run:        %s\n", r.RunID)
	fmt.Printf("Started:    %s\n", r.StartedAt.UTC().Format(time.RFC3339))
	fmt.Printf("Finished:   %s\n", r.FinishedAt.UTC().Format(time.RFC3339))
	fmt.Printf("Duration:   %s\n", r.Duration().Round(time.Millisecond))
	fmt.Printf("Fetched:    %d\n", r.Fetched)
	fmt.Printf("Normalized: %d (dropped %d)\n", r.Normalized, r.Dropped)
	fmt.Printf("Unique:     %d\n", r.Unique)
	fmt.Printf("Dataset:    %s\n", r.DatasetPath)
	return nil
}

func runRunsPrune(cmd *cobra.Command, args []string) error {
	st, err := openHistory()
	if err != nil || st == nil {
		return err
	}
	defer st.Close()

	n, err := st.Prune(runsOlderThan)
	if err != nil {
		return err
	}
	fmt.Printf("Removed %d runs older than %s\n", n, runsOlderThan)
	return nil
}
