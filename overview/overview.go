// Package overview derives the dashboard's headline view: today's counts,
// win rate, and the core cards that merge cached quotes with the latest
// signal per core ticker. Everything here is computed on demand; the merge
// is display-only and writes nothing back.
package overview

import (
	"context"
	"time"

	"github.com/wssxwz/stock-strategy/history"
	"github.com/wssxwz/stock-strategy/ledger"
	"github.com/wssxwz/stock-strategy/signal"
	"github.com/wssxwz/stock-strategy/snapshot"
)

// CoreCard is one core-ticker card. Quote and Signal are nil when there is
// nothing to show; the renderer draws a placeholder.
type CoreCard struct {
	Ticker string
	Quote  *snapshot.Quote
	Signal *signal.Signal
}

type Summary struct {
	TodaySignals    int
	ActivePositions int
	WinRatePct      int
	HasWinRate      bool
	QuoteStatus     snapshot.Status
	Cards           []CoreCard
	Today           []history.Entry
}

type Builder struct {
	signals     *signal.Registry
	ledger      *ledger.Ledger
	hist        *history.Log
	cache       *snapshot.Cache
	coreTickers []string
	now         func() time.Time
}

func NewBuilder(signals *signal.Registry, led *ledger.Ledger, hist *history.Log, cache *snapshot.Cache, coreTickers []string) *Builder {
	return &Builder{
		signals:     signals,
		ledger:      led,
		hist:        hist,
		cache:       cache,
		coreTickers: coreTickers,
		now:         time.Now,
	}
}

// WithClock replaces the clock used for "today" bucketing.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

func (b *Builder) Build(ctx context.Context) Summary {
	now := b.now()

	s := Summary{
		TodaySignals:    b.signals.CountOnDay(now),
		ActivePositions: len(b.ledger.Active()),
		Today:           b.hist.OnDay(now),
	}
	s.WinRatePct, s.HasWinRate = b.ledger.WinRate()

	holdings, status := b.cache.CoreHoldings(ctx)
	s.QuoteStatus = status

	for _, ticker := range b.coreTickers {
		card := CoreCard{Ticker: ticker}
		if q, ok := holdings.Tickers[ticker]; ok {
			card.Quote = &q
		}
		if sig, ok := b.signals.Latest(ticker); ok {
			card.Signal = &sig
		}
		s.Cards = append(s.Cards, card)
	}
	return s
}
