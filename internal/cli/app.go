package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wssxwz/stock-strategy/config"
	"github.com/wssxwz/stock-strategy/history"
	"github.com/wssxwz/stock-strategy/holdings"
	"github.com/wssxwz/stock-strategy/ledger"
	"github.com/wssxwz/stock-strategy/overview"
	"github.com/wssxwz/stock-strategy/pin"
	"github.com/wssxwz/stock-strategy/signal"
	"github.com/wssxwz/stock-strategy/snapshot"
	"github.com/wssxwz/stock-strategy/store"
)

// app wires the dashboard components together for one CLI invocation.
// Built once in the root PersistentPreRunE, torn down in PersistentPostRun.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   *store.Store
	loc     *time.Location
	hist    *history.Log
	signals *signal.Registry
	ledger  *ledger.Ledger
	book    *holdings.Book
	gate    *pin.Gate
	cache   *snapshot.Cache
	board   *overview.Builder
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if err := level.Set(strings.ToLower(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	zc := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      cfg.Development,
		Encoding:         cfg.Encoding,
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	if cfg.Encoding == "console" || cfg.Encoding == "" {
		zc.Encoding = "console"
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	return zc.Build()
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}

	cfg := config.Default()
	if v := os.Getenv("DASHBOARD_DB"); v != "" {
		cfg.Store.DBPath = v
	}
	if v := os.Getenv("DASHBOARD_BASE_URL"); v != "" {
		cfg.Snapshot.BaseURL = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a *app) init() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if dbPath != "" {
		cfg.Store.DBPath = dbPath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	a.cfg = cfg

	a.logger, err = newLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	a.store, err = store.Open(cfg.Store.DBPath, a.logger)
	if err != nil {
		return err
	}

	a.loc = cfg.Market.Location()
	a.hist = history.New(a.store, a.loc, a.logger)
	a.signals = signal.NewRegistry(a.store, a.hist, a.loc, a.logger)
	a.ledger = ledger.New(a.store, a.signals, a.hist, a.logger)
	a.book = holdings.NewBook(a.store, a.logger)
	a.gate = pin.NewGate(a.store)

	holdingsTTL, _ := cfg.Snapshot.ParseHoldingsTTL()
	calendarTTL, _ := cfg.Snapshot.ParseCalendarTTL()
	a.cache = snapshot.NewCache(a.store, cfg.Snapshot.BaseURL, holdingsTTL, calendarTTL, a.loc, a.logger)

	a.board = overview.NewBuilder(a.signals, a.ledger, a.hist, a.cache, cfg.Market.CoreTickers)
	return nil
}

func (a *app) close() {
	if a.store != nil {
		_ = a.store.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// requireUnlocked enforces the PIN gate in front of the private holdings
// commands and keeps an active session's window open.
func (a *app) requireUnlocked() error {
	if !a.gate.IsSet() {
		return fmt.Errorf("no PIN set: run `dashboard holdings pin setup` first")
	}
	if !a.gate.Unlocked() {
		return fmt.Errorf("holdings are locked: run `dashboard holdings unlock --pin <pin>`")
	}
	return a.gate.Touch()
}
