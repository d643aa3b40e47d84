package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "symbols:\n  - AAPL\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DataSource != "YAHOO" {
		t.Errorf("default data_source: got %q", cfg.DataSource)
	}
	if cfg.LookbackDays != 60 || cfg.PromptBars != 30 || cfg.PacingSeconds != 5 {
		t.Errorf("default windows: %d/%d/%d", cfg.LookbackDays, cfg.PromptBars, cfg.PacingSeconds)
	}
	if cfg.SnapshotFile != "predictions.json" || cfg.HistoryFile != "history.csv" {
		t.Errorf("default sinks: %q/%q", cfg.SnapshotFile, cfg.HistoryFile)
	}
	if cfg.Forecast.Model != "gemini-1.5-flash-latest" {
		t.Errorf("default model: %q", cfg.Forecast.Model)
	}
	if cfg.Forecast.MaxAttempts != 3 || cfg.Forecast.RetryDelaySeconds != 2 {
		t.Errorf("default retry policy: %d/%d", cfg.Forecast.MaxAttempts, cfg.Forecast.RetryDelaySeconds)
	}
}

func TestLoadEnvOverridesSinks(t *testing.T) {
	t.Setenv("SNAPSHOT_FILE", "/tmp/other.json")
	t.Setenv("HISTORY_FILE", "/tmp/other.csv")

	cfg, err := Load(writeConfig(t, "symbols:\n  - AAPL\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SnapshotFile != "/tmp/other.json" || cfg.HistoryFile != "/tmp/other.csv" {
		t.Errorf("env overrides not applied: %q/%q", cfg.SnapshotFile, cfg.HistoryFile)
	}
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"no symbols", "symbols: []\n"},
		{"bad data source", "symbols: [AAPL]\ndata_source: NASDAQ\n"},
		{"kite without tokens", "symbols: [AAPL]\ndata_source: KITE\n"},
		{"bad news provider", "symbols: [AAPL]\nnews:\n  provider: rss\n"},
		{"short lookback", "symbols: [AAPL]\nlookback_days: 1\n"},
		{"negative pacing", "symbols: [AAPL]\npacing_seconds: -1\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.body)); err == nil {
				t.Errorf("expected validation error for %s", tc.name)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
