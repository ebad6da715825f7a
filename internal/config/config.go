package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		BaseURL      string `yaml:"base_url"`
		SeedInterval string `yaml:"seed_interval"`
	} `yaml:"data_source"`
	Schedule struct {
		PollIntervalSeconds int    `yaml:"poll_interval_seconds"`
		FoldIntervalSeconds int    `yaml:"fold_interval_seconds"`
		SnapshotCron        string `yaml:"snapshot_cron"`
	} `yaml:"schedule"`
	Transactions struct {
		Dir  string `yaml:"dir"`
		File string `yaml:"file"`
	} `yaml:"transactions"`
	Bootstrap struct {
		Dir string `yaml:"dir"` // optional per-symbol seed CSVs, empty = live seeding
	} `yaml:"bootstrap"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("BINANCE_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("POLL_INTERVAL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Schedule.PollIntervalSeconds = n
		}
	}
	if v := os.Getenv("SNAPSHOT_CRON"); v != "" {
		cfg.Schedule.SnapshotCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("BOOTSTRAP_DIR"); v != "" {
		cfg.Bootstrap.Dir = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.DataSource.BaseURL == "" {
		cfg.DataSource.BaseURL = "https://api.binance.com"
	}
	if cfg.DataSource.SeedInterval == "" {
		cfg.DataSource.SeedInterval = "1m"
	}
	if cfg.Schedule.PollIntervalSeconds == 0 {
		cfg.Schedule.PollIntervalSeconds = 10
	}
	if cfg.Schedule.FoldIntervalSeconds == 0 {
		cfg.Schedule.FoldIntervalSeconds = 60
	}
	if cfg.Schedule.SnapshotCron == "" {
		cfg.Schedule.SnapshotCron = "0 0 * * * *"
	}
	if cfg.Transactions.Dir == "" {
		cfg.Transactions.Dir = "transactions"
	}
	if cfg.Transactions.File == "" {
		cfg.Transactions.File = "results.csv"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/tothemoon.db"
	}

	return cfg, nil
}

// PollInterval returns the poll cadence as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Schedule.PollIntervalSeconds) * time.Second
}

// FoldInterval returns how often a computed row is folded into the dataset.
func (c *Config) FoldInterval() time.Duration {
	return time.Duration(c.Schedule.FoldIntervalSeconds) * time.Second
}

// Validate checks that all required fields are consistent.
func (c *Config) Validate() error {
	if c.DataSource.BaseURL == "" {
		return fmt.Errorf("data_source.base_url is required")
	}
	if c.Schedule.PollIntervalSeconds <= 0 {
		return fmt.Errorf("schedule.poll_interval_seconds must be positive")
	}
	if c.Schedule.FoldIntervalSeconds < c.Schedule.PollIntervalSeconds {
		return fmt.Errorf("schedule.fold_interval_seconds must be >= poll interval")
	}
	return nil
}
