package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete dashboard configuration
type Config struct {
	Store    StoreConfig    `json:"store" yaml:"store"`
	Snapshot SnapshotConfig `json:"snapshot" yaml:"snapshot"`
	Market   MarketConfig   `json:"market" yaml:"market"`
	Log      LogConfig      `json:"log" yaml:"log"`
}

// StoreConfig contains local persistence parameters
type StoreConfig struct {
	DBPath string `json:"db_path" yaml:"db_path"`
}

// SnapshotConfig contains remote snapshot fetch parameters
type SnapshotConfig struct {
	BaseURL     string `json:"base_url" yaml:"base_url"`
	HoldingsTTL string `json:"holdings_ttl" yaml:"holdings_ttl"` // e.g., "1h"
	CalendarTTL string `json:"calendar_ttl" yaml:"calendar_ttl"` // e.g., "6h"
	RefreshSpec string `json:"refresh_spec,omitempty" yaml:"refresh_spec,omitempty"`
}

// ParseHoldingsTTL converts the holdings TTL string to time.Duration
func (sc SnapshotConfig) ParseHoldingsTTL() (time.Duration, error) {
	if sc.HoldingsTTL == "" {
		return time.Hour, nil
	}
	return time.ParseDuration(sc.HoldingsTTL)
}

// ParseCalendarTTL converts the calendar TTL string to time.Duration
func (sc SnapshotConfig) ParseCalendarTTL() (time.Duration, error) {
	if sc.CalendarTTL == "" {
		return 6 * time.Hour, nil
	}
	return time.ParseDuration(sc.CalendarTTL)
}

// MarketConfig contains display and day-bucketing parameters
type MarketConfig struct {
	Timezone    string   `json:"timezone" yaml:"timezone"`
	CoreTickers []string `json:"core_tickers" yaml:"core_tickers"`
}

// Location resolves the configured timezone, falling back to UTC.
func (mc MarketConfig) Location() *time.Location {
	loc, err := time.LoadLocation(mc.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LogConfig contains structured logging parameters
type LogConfig struct {
	Level       string `json:"level" yaml:"level"`
	Encoding    string `json:"encoding" yaml:"encoding"` // "console" or "json"
	Development bool   `json:"development,omitempty" yaml:"development,omitempty"`
}

// LoadFromFile loads configuration from a file (JSON or YAML based on extension)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Store.DBPath == "" {
		return fmt.Errorf("store.db_path is required")
	}
	if c.Snapshot.BaseURL == "" {
		return fmt.Errorf("snapshot.base_url is required")
	}
	if _, err := c.Snapshot.ParseHoldingsTTL(); err != nil {
		return fmt.Errorf("snapshot.holdings_ttl: %w", err)
	}
	if _, err := c.Snapshot.ParseCalendarTTL(); err != nil {
		return fmt.Errorf("snapshot.calendar_ttl: %w", err)
	}
	if c.Market.Timezone != "" {
		if _, err := time.LoadLocation(c.Market.Timezone); err != nil {
			return fmt.Errorf("unknown timezone: %s", c.Market.Timezone)
		}
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug|info|warn|error")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			DBPath: "./dashboard.sqlite",
		},
		Snapshot: SnapshotConfig{
			BaseURL:     "http://127.0.0.1:8787",
			HoldingsTTL: "1h",
			CalendarTTL: "6h",
			RefreshSpec: "0 */30 * * * *",
		},
		Market: MarketConfig{
			Timezone:    "America/New_York",
			CoreTickers: []string{"TSLA", "GOOGL", "NVDA", "META"},
		},
		Log: LogConfig{
			Level:    "info",
			Encoding: "console",
		},
	}
}
