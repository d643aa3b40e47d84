package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Symbols       []string `yaml:"symbols"`
	DataSource    string   `yaml:"data_source"`
	LookbackDays  int      `yaml:"lookback_days"`
	PromptBars    int      `yaml:"prompt_bars"`
	PacingSeconds int      `yaml:"pacing_seconds"`
	SnapshotFile  string   `yaml:"snapshot_file"`
	HistoryFile   string   `yaml:"history_file"`
	News          struct {
		Provider string `yaml:"provider"`
		Language string `yaml:"language"`
		PageSize int    `yaml:"page_size"`
	} `yaml:"news"`
	Forecast struct {
		Model             string `yaml:"model"`
		TimeoutSeconds    int    `yaml:"timeout_seconds"`
		MaxAttempts       int    `yaml:"max_attempts"`
		RetryDelaySeconds int    `yaml:"retry_delay_seconds"`
	} `yaml:"forecast"`
	Kite struct {
		Exchange string         `yaml:"exchange"`
		Tokens   map[string]int `yaml:"tokens"`
	} `yaml:"kite"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
}

func (c *Config) Validate() error {
	if len(c.Symbols) == 0 {
		return errors.New("symbols cannot be empty")
	}
	if c.DataSource != "YAHOO" && c.DataSource != "KITE" {
		return fmt.Errorf("invalid data_source '%s': must be 'YAHOO' or 'KITE'", c.DataSource)
	}
	if c.DataSource == "KITE" && len(c.Kite.Tokens) == 0 {
		return errors.New("kite.tokens must map every symbol when data_source is 'KITE'")
	}
	switch c.News.Provider {
	case "newsapi", "scrape", "none":
	default:
		return fmt.Errorf("invalid news.provider '%s': must be 'newsapi', 'scrape', or 'none'", c.News.Provider)
	}
	if c.LookbackDays < 2 {
		return fmt.Errorf("lookback_days must be at least 2, got %d", c.LookbackDays)
	}
	if c.Forecast.MaxAttempts < 1 {
		return fmt.Errorf("forecast.max_attempts must be positive, got %d", c.Forecast.MaxAttempts)
	}
	if c.PacingSeconds < 0 {
		return fmt.Errorf("pacing_seconds cannot be negative, got %d", c.PacingSeconds)
	}
	return nil
}

// Load reads the YAML config, applies defaults and environment overrides,
// and validates the result.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.DataSource == "" {
		c.DataSource = "YAHOO"
	}
	if c.LookbackDays == 0 {
		c.LookbackDays = 60
	}
	if c.PromptBars == 0 {
		c.PromptBars = 30
	}
	if c.PacingSeconds == 0 {
		c.PacingSeconds = 5
	}
	if c.SnapshotFile == "" {
		c.SnapshotFile = "predictions.json"
	}
	if c.HistoryFile == "" {
		c.HistoryFile = "history.csv"
	}
	if c.News.Provider == "" {
		c.News.Provider = "newsapi"
	}
	if c.News.Language == "" {
		c.News.Language = "en"
	}
	if c.News.PageSize == 0 {
		c.News.PageSize = 10
	}
	if c.Forecast.Model == "" {
		c.Forecast.Model = "gemini-1.5-flash-latest"
	}
	if c.Forecast.TimeoutSeconds == 0 {
		c.Forecast.TimeoutSeconds = 45
	}
	if c.Forecast.MaxAttempts == 0 {
		c.Forecast.MaxAttempts = 3
	}
	if c.Forecast.RetryDelaySeconds == 0 {
		c.Forecast.RetryDelaySeconds = 2
	}
	if c.Kite.Exchange == "" {
		c.Kite.Exchange = "NSE"
	}

	// Environment overrides for the output sinks (useful under CI).
	if v := os.Getenv("SNAPSHOT_FILE"); v != "" {
		c.SnapshotFile = v
	}
	if v := os.Getenv("HISTORY_FILE"); v != "" {
		c.HistoryFile = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}
