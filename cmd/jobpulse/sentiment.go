package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobpulse/internal/analytics"
	"github.com/amishk599/jobpulse/internal/dataset"
)

var sentimentLimit int

var sentimentCmd = &cobra.Command{
	Use:   "sentiment",
	Short: "Rank companies by job-description sentiment",
	Long:  "Scores every description by keyword and prints the per-company ranking (companies with at least two postings).",
	RunE:  runSentiment,
}

func init() {
	sentimentCmd.Flags().IntVarP(&sentimentLimit, "limit", "n", 15, "number of companies to show")
	rootCmd.AddCommand(sentimentCmd)
}

func runSentiment(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	cfg := mustLoadConfig(logger)

	jobs, err := dataset.Load(cfg.Dataset.Path)
	if err != nil {
		return err
	}
	ranked := analytics.ByCompany(jobs)
	if len(ranked) == 0 {
		fmt.Println("No company has enough postings to rank.")
		return nil
	}

	fmt.Printf("%-30s %5s %9s %9s %9s %10s %10s\n", "Company", "Jobs", "Positive", "Negative", "Engage", "Sentiment", "Avg Salary")
	fmt.Println(strings.Repeat("─", 90))
	for i, c := range ranked {
		if i == sentimentLimit {
			break
		}
		salary := "n/a"
		if c.AvgSalary != nil {
			salary = fmt.Sprintf("£%.0f", *c.AvgSalary)
		}
		fmt.Printf("%-30.30s %5d %9.2f %9.2f %9.2f %10.3f %10s\n",
			c.Company, c.Jobs, c.AvgPositive, c.AvgNegative, c.AvgEngagement, c.Overall, salary)
	}
	fmt.Printf("\n%d companies ranked from %d jobs\n", len(ranked), len(jobs))
	return nil
}
