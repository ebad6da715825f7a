package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DataSource.BaseURL != "https://api.binance.com" {
		t.Errorf("unexpected base url: %s", cfg.DataSource.BaseURL)
	}
	if cfg.PollInterval() != 10*time.Second {
		t.Errorf("unexpected poll interval: %v", cfg.PollInterval())
	}
	if cfg.FoldInterval() != time.Minute {
		t.Errorf("unexpected fold interval: %v", cfg.FoldInterval())
	}
	if cfg.Transactions.Dir != "transactions" || cfg.Transactions.File != "results.csv" {
		t.Errorf("unexpected transactions output: %s/%s", cfg.Transactions.Dir, cfg.Transactions.File)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
data_source:
  base_url: https://testnet.example.com
schedule:
  poll_interval_seconds: 5
  fold_interval_seconds: 30
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("POLL_INTERVAL_SECONDS", "7")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DataSource.BaseURL != "https://testnet.example.com" {
		t.Errorf("file value not applied: %s", cfg.DataSource.BaseURL)
	}
	if cfg.Schedule.PollIntervalSeconds != 7 {
		t.Errorf("env override not applied: %d", cfg.Schedule.PollIntervalSeconds)
	}
	if cfg.Schedule.FoldIntervalSeconds != 30 {
		t.Errorf("file value not applied: %d", cfg.Schedule.FoldIntervalSeconds)
	}
}

func TestValidate_Rejections(t *testing.T) {
	cfg := &Config{}
	cfg.DataSource.BaseURL = "https://api.binance.com"
	cfg.Schedule.PollIntervalSeconds = 10
	cfg.Schedule.FoldIntervalSeconds = 5
	if err := cfg.Validate(); err == nil {
		t.Error("fold interval below poll interval must be rejected")
	}

	cfg.Schedule.PollIntervalSeconds = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero poll interval must be rejected")
	}
}
