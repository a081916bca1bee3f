package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobpulse/internal/analytics"
	"github.com/amishk599/jobpulse/internal/assistant"
	"github.com/amishk599/jobpulse/internal/config"
	"github.com/amishk599/jobpulse/internal/dataset"
	"github.com/amishk599/jobpulse/internal/report"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the assistant about the current market",
	Long:  "Sends the question, with the snapshot's market briefing as context, to the configured OpenAI-compatible model.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func setupAssistant(cfg *config.Config) assistant.Asker {
	if !cfg.Assistant.Enabled {
		return assistant.NewDisabled()
	}
	provider := assistant.NewOpenAIProvider(
		cfg.Assistant.BaseURL,
		cfg.Assistant.APIKey,
		cfg.Assistant.Model,
		&http.Client{Timeout: cfg.Assistant.Timeout},
	)
	return assistant.NewLLMAssistant(provider, assistant.AskTemplate, setupLogger(debug))
}

func runAsk(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	cfg := mustLoadConfig(logger)

	asker := setupAssistant(cfg)
	if _, ok := asker.(*assistant.Disabled); ok {
		fmt.Println(assistant.ErrDisabled)
		return nil
	}

	jobs, err := dataset.Load(cfg.Dataset.Path)
	if err != nil {
		return err
	}
	briefing, err := report.New(cfg.Report.TopN).String(analytics.Summarize(jobs))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	answer, err := asker.Ask(ctx, briefing, strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("assistant: %w", err)
	}
	fmt.Println(answer)
	return nil
}
