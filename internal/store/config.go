package store

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// ReportTimezone names the wall-clock reference the broker report was
	// exported in. Timestamps are parsed in this zone as-is; no conversion
	// is applied.
	ReportTimezone string `yaml:"report_timezone"`

	Account struct {
		InitialBalance float64 `yaml:"initial_balance"`
	} `yaml:"account"`

	Risk struct {
		TargetProfit        float64 `yaml:"target_profit"`
		MaxDrawdownPct      float64 `yaml:"max_drawdown_pct"`
		MaxDailyDrawdownPct float64 `yaml:"max_daily_drawdown_pct"`
	} `yaml:"risk"`

	Database struct {
		DSN       string `yaml:"dsn"`
		BatchSize int    `yaml:"batch_size"`
	} `yaml:"database"`

	Fetch struct {
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		UserAgent      string `yaml:"user_agent"`
	} `yaml:"fetch"`
}

func (c *Config) Validate() error {
	if c.Account.InitialBalance < 0 {
		return fmt.Errorf("account.initial_balance must be >= 0, got %.2f", c.Account.InitialBalance)
	}
	if c.Risk.MaxDrawdownPct < 0 || c.Risk.MaxDrawdownPct > 100 {
		return fmt.Errorf("risk.max_drawdown_pct must be between 0-100, got %.2f", c.Risk.MaxDrawdownPct)
	}
	if c.Risk.MaxDailyDrawdownPct < 0 || c.Risk.MaxDailyDrawdownPct > 100 {
		return fmt.Errorf("risk.max_daily_drawdown_pct must be between 0-100, got %.2f", c.Risk.MaxDailyDrawdownPct)
	}
	if _, err := time.LoadLocation(c.ReportTimezone); err != nil {
		return fmt.Errorf("invalid report_timezone '%s': %w", c.ReportTimezone, err)
	}
	return nil
}

// Location resolves the configured report timezone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ReportTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.ReportTimezone == "" {
		c.ReportTimezone = "Asia/Kolkata"
	}
	if c.Database.BatchSize == 0 {
		c.Database.BatchSize = 500
	}
	if c.Database.DSN == "" {
		c.Database.DSN = os.Getenv("DATABASE_URL")
	}
	if c.Fetch.TimeoutSeconds == 0 {
		c.Fetch.TimeoutSeconds = 30
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
