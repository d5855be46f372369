package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.NoError(t, cfg.Validate())

	ttl, err := cfg.Snapshot.ParseHoldingsTTL()
	assert.NoError(t, err)
	assert.Equal(t, time.Hour, ttl)

	ttl, err = cfg.Snapshot.ParseCalendarTTL()
	assert.NoError(t, err)
	assert.Equal(t, 6*time.Hour, ttl)
}

func TestValidateFailures(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Store.DBPath = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Snapshot.BaseURL = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Snapshot.HoldingsTTL = "soon"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Market.Timezone = "Mars/Olympus_Mons"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Log.Level = "loud"
	assert.Error(t, cfg.Validate())
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
store:
  db_path: /tmp/dash.sqlite
snapshot:
  base_url: https://example.com/dashboard
  holdings_ttl: 30m
market:
  timezone: America/New_York
  core_tickers: [TSLA, NVDA]
log:
  level: debug
`
	assert.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadFromFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "/tmp/dash.sqlite", cfg.Store.DBPath)
	assert.Equal(t, "https://example.com/dashboard", cfg.Snapshot.BaseURL)
	assert.Equal(t, []string{"TSLA", "NVDA"}, cfg.Market.CoreTickers)
	assert.Equal(t, "debug", cfg.Log.Level)

	ttl, err := cfg.Snapshot.ParseHoldingsTTL()
	assert.NoError(t, err)
	assert.Equal(t, 30*time.Minute, ttl)

	// Fields the file omits keep their defaults.
	assert.Equal(t, "6h", cfg.Snapshot.CalendarTTL)
}

func TestLoadJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"store":{"db_path":"x.db"},"snapshot":{"base_url":"http://localhost:9999"}}`
	assert.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadFromFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "x.db", cfg.Store.DBPath)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yml")
	want := Default()
	want.Market.CoreTickers = []string{"RKLB"}
	assert.NoError(t, want.SaveToFile(path))

	got, err := LoadFromFile(path)
	assert.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLocationFallsBackToUTC(t *testing.T) {
	t.Parallel()

	mc := MarketConfig{Timezone: "nowhere"}
	assert.Equal(t, time.UTC, mc.Location())
}
