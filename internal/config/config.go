// Package config provides configuration management for the price tracker.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"price-tracker/internal/errors"
	"price-tracker/internal/models"
)

// Config holds all application configuration.
type Config struct {
	Telegram    TelegramConfig        `mapstructure:"telegram"`
	Intraday    IntradayConfig        `mapstructure:"intraday"`
	PriceAlerts map[string]PriceAlert `mapstructure:"price_alerts"`
	Provider    ProviderConfig        `mapstructure:"provider"`
	Data        DataConfig            `mapstructure:"data"`
	Logging     LoggingConfig         `mapstructure:"logging"`
}

// TelegramConfig holds the bot credentials and destination chat.
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

// IntradayConfig holds intraday move-alert thresholds. Thresholds maps an
// instrument ID to a percentage override; instruments without an override
// use DefaultThresholdPct.
type IntradayConfig struct {
	DefaultThresholdPct float64            `mapstructure:"default_threshold_pct"`
	Thresholds          map[string]float64 `mapstructure:"thresholds"`
}

// PriceAlert holds the absolute GBP price thresholds for one instrument.
// Either bound may be unset.
type PriceAlert struct {
	Above *float64 `mapstructure:"above"`
	Below *float64 `mapstructure:"below"`
}

// ProviderConfig holds market-data provider settings.
type ProviderConfig struct {
	TimeoutSec int `mapstructure:"timeout_sec"`
}

// DataConfig holds the location of the persisted JSON stores.
type DataConfig struct {
	Dir string `mapstructure:"dir"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/price-tracker"
	}
	return filepath.Join(home, ".config", "price-tracker")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
// A missing config file is a fatal startup error: nothing runs without
// credentials, so Load fails with a remediation hint instead of writing
// a half-empty template.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v, configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, errors.Wrapf(errors.ErrConfigMissing,
				"%s/config.toml (run 'tracker config init' or copy config.example.toml)", configDir)
		}
		return nil, fmt.Errorf("reading config.toml: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("intraday.default_threshold_pct", 2.0)
	v.SetDefault("provider.timeout_sec", 30)
	v.SetDefault("data.dir", filepath.Join(configDir, "data"))
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", true)
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age_days", 30)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Intraday.DefaultThresholdPct <= 0 {
		return fmt.Errorf("intraday.default_threshold_pct must be positive")
	}
	for id, pct := range c.Intraday.Thresholds {
		if pct <= 0 {
			return fmt.Errorf("intraday threshold for %q must be positive", id)
		}
	}
	for id, alert := range c.PriceAlerts {
		if alert.Above != nil && alert.Below != nil && *alert.Above < *alert.Below {
			return fmt.Errorf("price alert for %q: above (%.2f) is lower than below (%.2f)",
				id, *alert.Above, *alert.Below)
		}
	}
	if c.Provider.TimeoutSec <= 0 {
		return fmt.Errorf("provider.timeout_sec must be positive")
	}
	return nil
}

// TelegramConfigured reports whether both Telegram credentials are set.
// Without them notifications are disabled and cycles run send-less.
func (c *Config) TelegramConfigured() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// IntradayThreshold returns the intraday move threshold for an instrument,
// falling back to the configured default.
func (c *Config) IntradayThreshold(instrumentID string) float64 {
	if pct, ok := c.Intraday.Thresholds[instrumentID]; ok {
		return pct
	}
	return c.Intraday.DefaultThresholdPct
}

// HistoryPath returns the path of the price history store.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Data.Dir, "price_history.json")
}

// AlertStatePath returns the path of the alert state store.
func (c *Config) AlertStatePath() string {
	return filepath.Join(c.Data.Dir, "alerts_state.json")
}

// Instruments returns the fixed set of tracked instruments. The set is not
// user-editable at runtime; it is returned fresh on each call so callers
// cannot mutate shared state.
func Instruments() []models.Instrument {
	return []models.Instrument{
		{
			ID:             "gold_gbp",
			Symbol:         "GC=F",
			Name:           "Gold",
			Emoji:          "🥇",
			NativeCurrency: models.USD,
			Unit:           "per oz",
		},
		{
			ID:             "iswd",
			Symbol:         "ISWD.L",
			Name:           "ISWD",
			Emoji:          "📈",
			NativeCurrency: models.GBP,
		},
		{
			ID:             "hbks",
			Symbol:         "HBKS.L",
			Name:           "HBKS",
			Emoji:          "📊",
			NativeCurrency: models.GBP,
		},
	}
}
