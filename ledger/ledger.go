// Package ledger tracks signal-driven trades: opened on confirmation,
// closed exactly once with a win/loss outcome, retained indefinitely.
package ledger

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/wssxwz/stock-strategy/history"
	"github.com/wssxwz/stock-strategy/pkg/id"
	"github.com/wssxwz/stock-strategy/signal"
	"github.com/wssxwz/stock-strategy/store"
)

const storeKey = "positions"

type ExitType string

const (
	Win  ExitType = "win"
	Loss ExitType = "loss"
)

type Position struct {
	ID           string    `json:"id"`
	Ticker       string    `json:"ticker"`
	EntryPrice   float64   `json:"entry_price"`
	CurrentPrice float64   `json:"current_price"`
	TP           float64   `json:"tp"`
	SL           float64   `json:"sl"`
	EntryTime    time.Time `json:"entry_time"`
	Note         string    `json:"note,omitempty"`
	Closed       bool      `json:"closed"`
	ExitPrice    float64   `json:"exit_price,omitempty"`
	ExitType     ExitType  `json:"exit_type,omitempty"`
	ExitTime     time.Time `json:"exit_time,omitzero"`
}

// Return is the percentage return: against the exit price once closed,
// against the last known current price while open.
func (p Position) Return() float64 {
	ref := p.CurrentPrice
	if p.Closed {
		ref = p.ExitPrice
	}
	if p.EntryPrice == 0 {
		return 0
	}
	return (ref - p.EntryPrice) / p.EntryPrice * 100
}

type Ledger struct {
	store   *store.Store
	signals *signal.Registry
	hist    *history.Log
	log     *zap.Logger
	now     func() time.Time
}

func New(st *store.Store, signals *signal.Registry, hist *history.Log, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{store: st, signals: signals, hist: hist, log: logger, now: time.Now}
}

// WithClock replaces the clock used to stamp entry and exit times.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

func (l *Ledger) all() []Position {
	return store.Value(l.store, storeKey, []Position{})
}

func (l *Ledger) save(positions []Position) {
	if err := l.store.Set(storeKey, positions); err != nil {
		l.log.Error("save positions", zap.Error(err))
	}
}

// Open records a new trade. When sigID names a known signal, that signal is
// marked position-taken so it drops out of the actionable view.
func (l *Ledger) Open(ticker string, entryPrice, tp, sl float64, note, sigID string) (Position, error) {
	if entryPrice <= 0 {
		return Position{}, fmt.Errorf("entry price must be positive, got %v", entryPrice)
	}

	pos := Position{
		ID:           id.New(),
		Ticker:       ticker,
		EntryPrice:   entryPrice,
		CurrentPrice: entryPrice,
		TP:           tp,
		SL:           sl,
		EntryTime:    l.now(),
		Note:         note,
	}

	l.save(append(l.all(), pos))

	if sigID != "" {
		l.signals.MarkPositionTaken(sigID)
	}

	l.hist.Append(history.BuySignal, "Opened "+ticker,
		fmt.Sprintf("Opened %s @$%.2f, take-profit $%.2f, stop-loss $%.2f", ticker, entryPrice, tp, sl))

	l.log.Info("position opened",
		zap.String("ticker", ticker), zap.Float64("entry", entryPrice))
	return pos, nil
}

// Close finalizes a position. Unknown ids and already-closed positions are
// a silent no-op; a closed position never reopens and its exit fields never
// change.
func (l *Ledger) Close(posID string, exit ExitType, exitPrice float64) (Position, bool) {
	positions := l.all()
	for i := range positions {
		p := &positions[i]
		if p.ID != posID || p.Closed {
			continue
		}

		p.Closed = true
		p.ExitPrice = exitPrice
		p.ExitType = exit
		p.ExitTime = l.now()
		l.save(positions)

		outcome := "Take-profit"
		if exit == Loss {
			outcome = "Stop-loss"
		}
		l.hist.Append(history.ExitAlert, outcome+" "+p.Ticker,
			fmt.Sprintf("%s exited @$%.2f, return %+.2f%%", p.Ticker, exitPrice, p.Return()))

		l.log.Info("position closed",
			zap.String("ticker", p.Ticker), zap.String("exit", string(exit)),
			zap.Float64("return_pct", p.Return()))
		return *p, true
	}
	return Position{}, false
}

// Active returns open positions in entry order.
func (l *Ledger) Active() []Position {
	var out []Position
	for _, p := range l.all() {
		if !p.Closed {
			out = append(out, p)
		}
	}
	return out
}

// ClosedPositions returns closed positions in entry order.
func (l *Ledger) ClosedPositions() []Position {
	var out []Position
	for _, p := range l.all() {
		if p.Closed {
			out = append(out, p)
		}
	}
	return out
}

// WinRate returns the whole-percent share of closed positions that exited
// as wins. ok is false while nothing has closed yet.
func (l *Ledger) WinRate() (pct int, ok bool) {
	closed := l.ClosedPositions()
	if len(closed) == 0 {
		return 0, false
	}
	wins := 0
	for _, p := range closed {
		if p.ExitType == Win {
			wins++
		}
	}
	return int(math.Round(float64(wins) / float64(len(closed)) * 100)), true
}
