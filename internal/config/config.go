package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/amishk599/jobpulse/internal/model"
)

// Config is the root configuration for jobpulse.
type Config struct {
	Adzuna       AdzunaConfig
	Dataset      DatasetConfig
	History      HistoryConfig
	Schedule     ScheduleConfig
	Server       ServerConfig
	Notification NotificationConfig
	Publish      PublishConfig
	Assistant    AssistantConfig
	Report       ReportConfig
}

// AdzunaConfig controls the upstream search client.
type AdzunaConfig struct {
	AppID          string
	AppKey         string
	BaseURL        string // defaults to https://api.adzuna.com/v1/api/jobs
	Country        string // path segment, e.g. "gb"
	Where          string // free-text geography filter
	SearchTerms    []string
	ResultsPerPage int
	MaxPages       int // pages per search term
	MaxResults     int // global result budget across all terms
	MaxDaysOld     int
	RequestDelay   time.Duration // fixed gap between consecutive requests
	Timeout        time.Duration // per-request timeout
}

// DatasetConfig describes the canonical CSV snapshot.
type DatasetConfig struct {
	Path             string
	DescriptionLimit int
}

// HistoryConfig controls the append-only run history.
type HistoryConfig struct {
	Enabled bool
	DBPath  string
}

// ScheduleConfig controls the refresh daemon.
type ScheduleConfig struct {
	RefreshInterval time.Duration
}

// ServerConfig controls the read-only dashboard server.
type ServerConfig struct {
	Addr      string
	StaticDir string
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type        string `yaml:"type"`        // "log", "slack" or "nats"
	WebhookURL  string `yaml:"webhook_url"` // required if type is "slack"
	NATSURL     string `yaml:"nats_url"`
	NATSSubject string `yaml:"nats_subject"`
}

// PublishConfig controls optional snapshot publishing.
type PublishConfig struct {
	SFTP SFTPConfig `yaml:"sftp"`
}

// SFTPConfig describes the SFTP upload target.
type SFTPConfig struct {
	Enabled               bool   `yaml:"enabled"`
	Host                  string `yaml:"host"`
	Port                  int    `yaml:"port"`
	User                  string `yaml:"user"`
	Password              string `yaml:"password"`
	RemoteDir             string `yaml:"remote_dir"`
	KnownHostsFile        string `yaml:"known_hosts_file"`
	InsecureIgnoreHostKey bool   `yaml:"insecure_ignore_host_key"`
}

// AssistantConfig controls the optional LLM assistant.
type AssistantConfig struct {
	Enabled bool
	BaseURL string // defaults to https://api.openai.com/v1
	Model   string
	APIKey  string // expanded from env var by Load
	Timeout time.Duration
}

// ReportConfig tunes the context export.
type ReportConfig struct {
	TopN int
}

const (
	defaultAdzunaBaseURL  = "https://api.adzuna.com/v1/api/jobs"
	defaultOpenAIBaseURL  = "https://api.openai.com/v1"
	defaultDatasetPath    = "live_uk_ai_jobs.csv"
	defaultHistoryDB      = "jobpulse.db"
	defaultServerAddr     = ":8888"
	defaultNATSSubject    = "jobpulse.runs"
	defaultResultsPerPage = 50
	defaultMaxPages       = 5
	defaultMaxResults     = 500
	defaultMaxDaysOld     = 30
	defaultDescLimit      = 500
	defaultTopN           = 10
)

// DefaultSearchTerms are the AI/ML queries issued when none are configured.
var DefaultSearchTerms = []string{
	"artificial intelligence",
	"machine learning",
	"data scientist",
	"ML engineer",
	"AI engineer",
	"deep learning",
	"NLP engineer",
	"computer vision",
}

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	Adzuna       rawAdzunaConfig    `yaml:"adzuna"`
	Dataset      rawDatasetConfig   `yaml:"dataset"`
	History      rawHistoryConfig   `yaml:"history"`
	Schedule     rawScheduleConfig  `yaml:"schedule"`
	Server       rawServerConfig    `yaml:"server"`
	Notification NotificationConfig `yaml:"notification"`
	Publish      PublishConfig      `yaml:"publish"`
	Assistant    rawAssistantConfig `yaml:"assistant"`
	Report       rawReportConfig    `yaml:"report"`
}

type rawAdzunaConfig struct {
	AppID          string   `yaml:"app_id"`
	AppKey         string   `yaml:"app_key"`
	BaseURL        string   `yaml:"base_url"`
	Country        string   `yaml:"country"`
	Where          string   `yaml:"where"`
	SearchTerms    []string `yaml:"search_terms"`
	ResultsPerPage int      `yaml:"results_per_page"`
	MaxPages       int      `yaml:"max_pages"`
	MaxResults     int      `yaml:"max_results"`
	MaxDaysOld     int      `yaml:"max_days_old"`
	RequestDelay   string   `yaml:"request_delay"`
	Timeout        string   `yaml:"timeout"`
}

type rawDatasetConfig struct {
	Path             string `yaml:"path"`
	DescriptionLimit int    `yaml:"description_limit"`
}

type rawHistoryConfig struct {
	Enabled *bool  `yaml:"enabled"`
	DBPath  string `yaml:"db_path"`
}

type rawScheduleConfig struct {
	RefreshInterval string `yaml:"refresh_interval"`
}

type rawServerConfig struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir"`
}

type rawAssistantConfig struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	APIKey  string `yaml:"api_key"`
	Timeout string `yaml:"timeout"`
}

type rawReportConfig struct {
	TopN int `yaml:"top_n"`
}

// LoadDotEnv loads KEY=value pairs from path into the process environment.
// A missing file is not an error; variables already set are not overridden.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse expands environment variables in data, decodes it and applies defaults.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	requestDelay := 500 * time.Millisecond
	if raw.Adzuna.RequestDelay != "" {
		d, err := time.ParseDuration(raw.Adzuna.RequestDelay)
		if err != nil {
			return nil, fmt.Errorf("parse adzuna.request_delay %q: %w", raw.Adzuna.RequestDelay, err)
		}
		requestDelay = d
	}

	timeout := 10 * time.Second
	if raw.Adzuna.Timeout != "" {
		d, err := time.ParseDuration(raw.Adzuna.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse adzuna.timeout %q: %w", raw.Adzuna.Timeout, err)
		}
		timeout = d
	}

	refresh := 6 * time.Hour
	if raw.Schedule.RefreshInterval != "" {
		d, err := time.ParseDuration(raw.Schedule.RefreshInterval)
		if err != nil {
			return nil, fmt.Errorf("parse schedule.refresh_interval %q: %w", raw.Schedule.RefreshInterval, err)
		}
		refresh = d
	}

	assistantTimeout := 30 * time.Second
	if raw.Assistant.Timeout != "" {
		d, err := time.ParseDuration(raw.Assistant.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse assistant.timeout %q: %w", raw.Assistant.Timeout, err)
		}
		assistantTimeout = d
	}

	historyEnabled := true
	if raw.History.Enabled != nil {
		historyEnabled = *raw.History.Enabled
	}

	notification := raw.Notification
	if notification.Type == "" {
		notification.Type = "log"
	}
	if notification.NATSSubject == "" {
		notification.NATSSubject = defaultNATSSubject
	}

	publish := raw.Publish
	if publish.SFTP.Port == 0 {
		publish.SFTP.Port = 22
	}
	if publish.SFTP.RemoteDir == "" {
		publish.SFTP.RemoteDir = "/"
	}

	cfg := &Config{
		Adzuna: AdzunaConfig{
			AppID:          strings.TrimSpace(raw.Adzuna.AppID),
			AppKey:         strings.TrimSpace(raw.Adzuna.AppKey),
			BaseURL:        strings.TrimRight(orDefault(raw.Adzuna.BaseURL, defaultAdzunaBaseURL), "/"),
			Country:        orDefault(raw.Adzuna.Country, "gb"),
			Where:          orDefault(raw.Adzuna.Where, "uk"),
			SearchTerms:    raw.Adzuna.SearchTerms,
			ResultsPerPage: orDefaultInt(raw.Adzuna.ResultsPerPage, defaultResultsPerPage),
			MaxPages:       orDefaultInt(raw.Adzuna.MaxPages, defaultMaxPages),
			MaxResults:     orDefaultInt(raw.Adzuna.MaxResults, defaultMaxResults),
			MaxDaysOld:     orDefaultInt(raw.Adzuna.MaxDaysOld, defaultMaxDaysOld),
			RequestDelay:   requestDelay,
			Timeout:        timeout,
		},
		Dataset: DatasetConfig{
			Path:             orDefault(raw.Dataset.Path, defaultDatasetPath),
			DescriptionLimit: orDefaultInt(raw.Dataset.DescriptionLimit, defaultDescLimit),
		},
		History: HistoryConfig{
			Enabled: historyEnabled,
			DBPath:  orDefault(raw.History.DBPath, defaultHistoryDB),
		},
		Schedule: ScheduleConfig{
			RefreshInterval: refresh,
		},
		Server: ServerConfig{
			Addr:      orDefault(raw.Server.Addr, defaultServerAddr),
			StaticDir: raw.Server.StaticDir,
		},
		Notification: notification,
		Publish:      publish,
		Assistant: AssistantConfig{
			Enabled: raw.Assistant.Enabled,
			BaseURL: orDefault(raw.Assistant.BaseURL, defaultOpenAIBaseURL),
			Model:   raw.Assistant.Model,
			APIKey:  raw.Assistant.APIKey,
			Timeout: assistantTimeout,
		},
		Report: ReportConfig{
			TopN: orDefaultInt(raw.Report.TopN, defaultTopN),
		},
	}
	if len(cfg.Adzuna.SearchTerms) == 0 {
		cfg.Adzuna.SearchTerms = append([]string(nil), DefaultSearchTerms...)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// RequireCredentials reports ErrMissingCredentials when the Adzuna app id or
// key is empty. Only commands that talk to the API call it.
func (c *Config) RequireCredentials() error {
	if c.Adzuna.AppID == "" || c.Adzuna.AppKey == "" {
		return model.ErrMissingCredentials
	}
	return nil
}

func validate(cfg *Config) error {
	a := cfg.Adzuna
	if a.ResultsPerPage < 1 || a.ResultsPerPage > 50 {
		return fmt.Errorf("adzuna.results_per_page must be between 1 and 50, got %d", a.ResultsPerPage)
	}
	if a.MaxPages < 1 {
		return fmt.Errorf("adzuna.max_pages must be positive, got %d", a.MaxPages)
	}
	if a.MaxResults < 1 {
		return fmt.Errorf("adzuna.max_results must be positive, got %d", a.MaxResults)
	}
	if a.MaxDaysOld < 1 {
		return fmt.Errorf("adzuna.max_days_old must be positive, got %d", a.MaxDaysOld)
	}
	if a.RequestDelay < 0 {
		return fmt.Errorf("adzuna.request_delay must not be negative, got %v", a.RequestDelay)
	}
	if a.Timeout <= 0 {
		return fmt.Errorf("adzuna.timeout must be positive, got %v", a.Timeout)
	}
	if cfg.Schedule.RefreshInterval <= 0 {
		return fmt.Errorf("schedule.refresh_interval must be positive, got %v", cfg.Schedule.RefreshInterval)
	}
	if cfg.Dataset.DescriptionLimit < 1 {
		return fmt.Errorf("dataset.description_limit must be positive, got %d", cfg.Dataset.DescriptionLimit)
	}

	switch cfg.Notification.Type {
	case "log":
	case "slack":
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, "https://hooks.slack.com/") {
			return fmt.Errorf("notification.webhook_url must start with https://hooks.slack.com/")
		}
	case "nats":
		if cfg.Notification.NATSURL == "" {
			return fmt.Errorf("notification.nats_url is required when type is \"nats\"")
		}
	default:
		return fmt.Errorf("notification.type must be log, slack or nats, got %q", cfg.Notification.Type)
	}

	if s := cfg.Publish.SFTP; s.Enabled {
		if s.Host == "" || s.User == "" || s.Password == "" {
			return fmt.Errorf("publish.sftp requires host, user and password when enabled")
		}
		if s.KnownHostsFile == "" && !s.InsecureIgnoreHostKey {
			return fmt.Errorf("publish.sftp requires known_hosts_file unless insecure_ignore_host_key is set")
		}
	}

	if cfg.Assistant.Enabled {
		if cfg.Assistant.APIKey == "" {
			return fmt.Errorf("assistant.api_key is required when assistant.enabled is true")
		}
		if cfg.Assistant.Model == "" {
			return fmt.Errorf("assistant.model is required when assistant.enabled is true")
		}
	}

	return nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func orDefaultInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
