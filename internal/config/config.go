package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"AfriQuoteFeed/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Provider struct {
		BaseURL    string `yaml:"base_url"`
		UserAgent  string `yaml:"user_agent"`
		TimeoutSec int    `yaml:"timeout_sec"`
		Proxy      string `yaml:"proxy"`
	} `yaml:"provider"`
	// Symbols left unset fall back to the built-in registry.
	Symbols struct {
		Stocks     []string `yaml:"stocks"`
		Currencies []string `yaml:"currencies"`
	} `yaml:"symbols"`
	Fetch struct {
		Interval          string  `yaml:"interval"`
		Range             string  `yaml:"range"`
		CurrencyInterval  string  `yaml:"currency_interval"`
		CurrencyRange     string  `yaml:"currency_range"`
		Concurrency       int     `yaml:"concurrency"`
		RequestsPerSecond float64 `yaml:"requests_per_second"` // always > 0; unset or 0 means 1
		Burst             int     `yaml:"burst"`
		CacheTTLSec       int     `yaml:"cache_ttl_sec"`
		ZeroAsMissing     bool    `yaml:"zero_as_missing"`
	} `yaml:"fetch"`
	Output struct {
		Dir     string   `yaml:"dir"`
		Exports []string `yaml:"exports"`
	} `yaml:"output"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		Cron       string `yaml:"cron"`
		RunOnStart bool   `yaml:"run_on_start"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
}

// LoadDotEnv loads a .env file into the process environment if one exists.
func LoadDotEnv(paths ...string) {
	_ = godotenv.Load(paths...)
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
	if v := os.Getenv("YAHOO_BASE_URL"); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Provider.Proxy = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("CRON_SCHEDULE"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("FETCH_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Fetch.Concurrency = n
		}
	}
	if v := os.Getenv("FETCH_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Fetch.RequestsPerSecond = f
		}
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	// Defaults
	if cfg.Provider.BaseURL == "" {
		cfg.Provider.BaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"
	}
	if cfg.Fetch.Interval == "" {
		cfg.Fetch.Interval = string(model.Interval1d)
	}
	if cfg.Fetch.Range == "" {
		cfg.Fetch.Range = string(model.Range5d)
	}
	if cfg.Fetch.CurrencyInterval == "" {
		cfg.Fetch.CurrencyInterval = string(model.Interval1d)
	}
	if cfg.Fetch.CurrencyRange == "" {
		cfg.Fetch.CurrencyRange = string(model.Range5d)
	}
	if cfg.Fetch.Concurrency == 0 {
		cfg.Fetch.Concurrency = 2
	}
	if cfg.Fetch.RequestsPerSecond == 0 {
		cfg.Fetch.RequestsPerSecond = 1
	}
	if cfg.Fetch.Burst == 0 {
		cfg.Fetch.Burst = 1
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "data"
	}
	if cfg.Schedule.Cron == "" {
		// after the BRVM close, weekdays
		cfg.Schedule.Cron = "0 30 18 * * 1-5"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	if !model.Interval(c.Fetch.Interval).Valid() {
		return fmt.Errorf("fetch.interval %q is not a valid interval code", c.Fetch.Interval)
	}
	if !model.Range(c.Fetch.Range).Valid() {
		return fmt.Errorf("fetch.range %q is not a valid range code", c.Fetch.Range)
	}
	if !model.Interval(c.Fetch.CurrencyInterval).Valid() {
		return fmt.Errorf("fetch.currency_interval %q is not a valid interval code", c.Fetch.CurrencyInterval)
	}
	if !model.Range(c.Fetch.CurrencyRange).Valid() {
		return fmt.Errorf("fetch.currency_range %q is not a valid range code", c.Fetch.CurrencyRange)
	}
	if c.Fetch.Concurrency < 1 {
		return fmt.Errorf("fetch.concurrency must be positive")
	}
	if c.Fetch.RequestsPerSecond < 0 {
		return fmt.Errorf("fetch.requests_per_second must not be negative")
	}
	if c.Fetch.CacheTTLSec < 0 {
		return fmt.Errorf("fetch.cache_ttl_sec must not be negative")
	}
	if c.Provider.TimeoutSec < 0 {
		return fmt.Errorf("provider.timeout_sec must not be negative")
	}
	for _, e := range c.Output.Exports {
		if e != "parquet" && e != "csv" {
			return fmt.Errorf("output.exports: unknown format %q", e)
		}
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}
