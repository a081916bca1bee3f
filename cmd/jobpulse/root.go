package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobpulse/internal/adapter"
	"github.com/amishk599/jobpulse/internal/config"
	"github.com/amishk599/jobpulse/internal/dataset"
	"github.com/amishk599/jobpulse/internal/model"
	"github.com/amishk599/jobpulse/internal/normalize"
	"github.com/amishk599/jobpulse/internal/notifier"
	"github.com/amishk599/jobpulse/internal/pipeline"
	"github.com/amishk599/jobpulse/internal/publish"
	"github.com/amishk599/jobpulse/internal/ratelimit"
	"github.com/amishk599/jobpulse/internal/store"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobpulse",
	Short: "Live UK AI job market dataset",
	Long:  "jobpulse fetches UK AI/ML postings from Adzuna, normalizes and deduplicates them, and maintains a CSV snapshot for dashboards and analysis.",
	// Bare `jobpulse` runs one refresh, so cron entries can invoke the binary directly.
	RunE:         runFetch,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBPULSE_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig loads .env, resolves the config path and parses it.
// Priority: explicit path arg > JOBPULSE_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	if path == "" {
		if env := os.Getenv("JOBPULSE_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

// mustLoadConfig is loadConfig for command entry points: a bad config is fatal.
func mustLoadConfig(logger *slog.Logger) *config.Config {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	return cfg
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func newHTTPClient(cfg *config.Config) *http.Client {
	return &http.Client{Timeout: cfg.Adzuna.Timeout + 5*time.Second}
}

// setupSearchClient builds the Adzuna client. Missing credentials are fatal.
func setupSearchClient(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) *adapter.AdzunaClient {
	if err := cfg.RequireCredentials(); err != nil {
		logger.Error("adzuna credentials missing", "error", err, "hint", "set ADZUNA_APP_ID and ADZUNA_APP_KEY")
		os.Exit(1)
	}

	limiter := ratelimit.NewLimiter(cfg.Adzuna.RequestDelay)
	client, err := adapter.NewAdzunaClient(
		adapter.Credentials{AppID: cfg.Adzuna.AppID, AppKey: cfg.Adzuna.AppKey},
		cfg.Adzuna.BaseURL,
		cfg.Adzuna.Country,
		adapter.SearchOptions{
			Terms:          cfg.Adzuna.SearchTerms,
			Where:          cfg.Adzuna.Where,
			ResultsPerPage: cfg.Adzuna.ResultsPerPage,
			MaxPages:       cfg.Adzuna.MaxPages,
			MaxResults:     cfg.Adzuna.MaxResults,
			MaxDaysOld:     cfg.Adzuna.MaxDaysOld,
			Timeout:        cfg.Adzuna.Timeout,
		},
		httpClient,
		limiter,
		logger,
	)
	if err != nil {
		logger.Error("failed to create adzuna client", "error", err)
		os.Exit(1)
	}
	logger.Info("adzuna client configured",
		"terms", len(cfg.Adzuna.SearchTerms),
		"max_pages", cfg.Adzuna.MaxPages,
		"max_results", cfg.Adzuna.MaxResults,
		"request_delay", limiter.MinDelay().String(),
	)
	return client
}

// setupStore opens the run history, or a no-op store when history is disabled.
func setupStore(cfg *config.Config, logger *slog.Logger) (model.RunStore, func(), error) {
	if !cfg.History.Enabled {
		logger.Info("run history disabled")
		return store.NewNopStore(), func() {}, nil
	}
	sqlStore, err := store.NewSQLiteStore(cfg.History.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open run history: %w", err)
	}
	return sqlStore, func() { sqlStore.Close() }, nil
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) (model.Notifier, func(), error) {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger), func() {}, nil
	case "nats":
		n, err := notifier.NewNATSNotifier(cfg.Notification.NATSURL, cfg.Notification.NATSSubject, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using nats notifier", "subject", cfg.Notification.NATSSubject)
		return n, func() { n.Close() }, nil
	default:
		return notifier.NewLogNotifier(logger), func() {}, nil
	}
}

// setupPublisher returns nil when publishing is disabled.
func setupPublisher(cfg *config.Config, logger *slog.Logger) (pipeline.Publisher, error) {
	s := cfg.Publish.SFTP
	if !s.Enabled {
		return nil, nil
	}
	p, err := publish.NewSFTPPublisher(publish.Config{
		Host:                  s.Host,
		Port:                  s.Port,
		User:                  s.User,
		Password:              s.Password,
		RemoteDir:             s.RemoteDir,
		KnownHostsFile:        s.KnownHostsFile,
		InsecureIgnoreHostKey: s.InsecureIgnoreHostKey,
	}, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("publishing snapshots over sftp", "host", s.Host, "remote_dir", s.RemoteDir)
	return p, nil
}

// buildPipeline wires every collaborator of a full refresh. The returned
// cleanup closes the history store and notifier connections.
func buildPipeline(cfg *config.Config, logger *slog.Logger) (*pipeline.Pipeline, func(), error) {
	httpClient := newHTTPClient(cfg)
	fetcher := setupSearchClient(cfg, httpClient, logger)

	runStore, closeStore, err := setupStore(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	n, closeNotifier, err := setupNotifier(cfg, httpClient, logger)
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	pub, err := setupPublisher(cfg, logger)
	if err != nil {
		closeNotifier()
		closeStore()
		return nil, nil, err
	}

	p := pipeline.New(
		fetcher,
		normalize.New(cfg.Dataset.DescriptionLimit, logger),
		dataset.NewCSVWriter(cfg.Dataset.Path),
		runStore,
		n,
		pub,
		logger,
	)
	cleanup := func() {
		closeNotifier()
		closeStore()
	}
	return p, cleanup, nil
}
