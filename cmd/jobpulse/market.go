package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobpulse/internal/adapter"
	"github.com/amishk599/jobpulse/internal/retry"
)

var (
	marketWhat     string
	marketLocation string
	marketCategory string
	marketMonths   int
)

var marketCmd = &cobra.Command{
	Use:   "market",
	Short: "Query the Adzuna market endpoints",
}

var marketHistogramCmd = &cobra.Command{
	Use:   "histogram",
	Short: "Upstream salary histogram for --what",
	RunE: withMarket(func(ctx context.Context, m *adapter.MarketClient) error {
		buckets, err := m.SalaryHistogram(ctx, marketWhat, marketLocation)
		if err != nil {
			return err
		}
		fmt.Printf("%-12s %s\n", "Salary", "Jobs")
		fmt.Println(strings.Repeat("─", 24))
		for _, b := range buckets {
			fmt.Printf("£%-11d %d\n", b.Salary, b.Count)
		}
		return nil
	}),
}

var marketCompaniesCmd = &cobra.Command{
	Use:   "companies",
	Short: "Upstream top employers for --what",
	RunE: withMarket(func(ctx context.Context, m *adapter.MarketClient) error {
		companies, err := m.TopCompanies(ctx, marketWhat, marketLocation)
		if err != nil {
			return err
		}
		fmt.Printf("%-35s %6s %12s\n", "Company", "Jobs", "Avg Salary")
		fmt.Println(strings.Repeat("─", 55))
		for _, c := range companies {
			fmt.Printf("%-35.35s %6d %12s\n", c.Name, c.Count, fmt.Sprintf("£%.0f", c.AverageSalary))
		}
		return nil
	}),
}

var marketCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Category tags known to Adzuna",
	RunE: withMarket(func(ctx context.Context, m *adapter.MarketClient) error {
		categories, err := m.Categories(ctx)
		if err != nil {
			return err
		}
		for _, c := range categories {
			fmt.Printf("%-30s %s\n", c.Tag, c.Label)
		}
		return nil
	}),
}

var marketGeodataCmd = &cobra.Command{
	Use:   "geodata",
	Short: "Posting counts per region below --location",
	RunE: withMarket(func(ctx context.Context, m *adapter.MarketClient) error {
		regions, err := m.Geodata(ctx, regionOrUK(), marketCategory)
		if err != nil {
			return err
		}
		fmt.Printf("%-35s %8s\n", "Region", "Jobs")
		fmt.Println(strings.Repeat("─", 44))
		for _, r := range regions {
			fmt.Printf("%-35.35s %8d\n", r.Region, r.Count)
		}
		return nil
	}),
}

var marketHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Average advertised salary per month",
	RunE: withMarket(func(ctx context.Context, m *adapter.MarketClient) error {
		trend, err := m.History(ctx, marketMonths, regionOrUK(), marketCategory)
		if err != nil {
			return err
		}
		fmt.Printf("%-10s %12s\n", "Month", "Avg Salary")
		fmt.Println(strings.Repeat("─", 23))
		for _, p := range trend {
			fmt.Printf("%-10s %12s\n", p.Month, fmt.Sprintf("£%.0f", p.Average))
		}
		return nil
	}),
}

// regionOrUK is --location, defaulting to the whole country for the
// regional endpoints.
func regionOrUK() string {
	if marketLocation == "" {
		return "UK"
	}
	return marketLocation
}

func init() {
	marketCmd.PersistentFlags().StringVar(&marketWhat, "what", "machine learning", "search phrase for histogram and companies")
	marketCmd.PersistentFlags().StringVar(&marketLocation, "location", "", "upstream location0 filter, e.g. UK or London (geodata and history default to UK)")
	marketGeodataCmd.Flags().StringVar(&marketCategory, "category", "", "upstream category tag, e.g. it-jobs")
	marketHistoryCmd.Flags().StringVar(&marketCategory, "category", "", "upstream category tag, e.g. it-jobs")
	marketHistoryCmd.Flags().IntVar(&marketMonths, "months", 12, "number of months of history")
	marketCmd.AddCommand(marketHistogramCmd, marketCompaniesCmd, marketCategoriesCmd, marketGeodataCmd, marketHistoryCmd)
	rootCmd.AddCommand(marketCmd)
}

// withMarket builds the market client and runs fn under a signal-aware context.
func withMarket(fn func(ctx context.Context, m *adapter.MarketClient) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		logger := setupLogger(debug)
		cfg := mustLoadConfig(logger)

		search := setupSearchClient(cfg, newHTTPClient(cfg), logger)
		market := adapter.NewMarketClient(search, retry.NewRetrier(2, 2*time.Second, logger))

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return fn(ctx, market)
	}
}
