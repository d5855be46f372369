// Package holdings is the PIN-gated private book of current positions. It
// models live holdings only: entries are seeded once, refreshed from quote
// snapshots, and never closed.
package holdings

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/wssxwz/stock-strategy/store"
)

const storeKey = "private_positions"

type Kind string

const (
	Stock   Kind = "stock"
	Options Kind = "options"
)

type Position struct {
	Ticker   string    `json:"ticker"`
	Name     string    `json:"name"`
	Shares   float64   `json:"shares"`
	Cost     float64   `json:"cost"`
	Price    float64   `json:"price"`
	PnL      float64   `json:"pnl"`
	PnLPct   float64   `json:"pnlPct"`
	Type     Kind      `json:"type"`
	Expiry   string    `json:"expiry,omitempty"`
	Strike   float64   `json:"strike,omitempty"`
	LastSync time.Time `json:"lastSync,omitzero"`
}

// MarketValue is the current position value at the last synced price.
func (p Position) MarketValue() float64 {
	return p.Price * p.Shares
}

// SortKey selects the list ordering.
type SortKey string

const (
	ByPnLPct      SortKey = "pnlPct"      // descending
	ByPnLAbs      SortKey = "pnlAbs"      // descending
	ByMarketValue SortKey = "marketValue" // descending
	ByTicker      SortKey = "ticker"      // ascending
)

// Filter selects which holdings List returns.
type Filter string

const (
	All    Filter = "all"
	Profit Filter = "profit" // pnl >= 0
	Loss   Filter = "loss"   // pnl < 0
)

// Summary aggregates the whole book. Every field is derived from the
// stored positions, never persisted.
type Summary struct {
	TotalPnL    float64
	TotalCost   float64
	ReturnPct   float64 // TotalPnL / TotalCost * 100
	MarketValue float64
	WinCount    int
	Positions   int
}

type Book struct {
	store *store.Store
	log   *zap.Logger
	now   func() time.Time
}

func NewBook(st *store.Store, logger *zap.Logger) *Book {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Book{store: st, log: logger, now: time.Now}
}

// WithClock replaces the clock used to stamp syncs.
func (b *Book) WithClock(now func() time.Time) *Book {
	b.now = now
	return b
}

// Seed writes the initial holdings list if the book has never been
// persisted. Subsequent calls are a no-op.
func (b *Book) Seed(initial []Position) {
	var existing []Position
	if b.store.Get(storeKey, &existing) {
		return
	}
	for i := range initial {
		recompute(&initial[i])
	}
	b.save(initial)
	b.log.Info("holdings seeded", zap.Int("count", len(initial)))
}

func (b *Book) all() []Position {
	return store.Value(b.store, storeKey, []Position{})
}

func (b *Book) save(positions []Position) {
	if err := b.store.Set(storeKey, positions); err != nil {
		b.log.Error("save holdings", zap.Error(err))
	}
}

// pnl and pnlPct are always derived from price/cost/shares, never
// hand-edited.
func recompute(p *Position) {
	p.PnL = (p.Price - p.Cost) * p.Shares
	if p.Cost != 0 {
		p.PnLPct = (p.Price - p.Cost) / p.Cost * 100
	} else {
		p.PnLPct = 0
	}
}

// Sync overlays quote prices onto each held ticker and recomputes the
// derived P&L fields. Tickers absent from the quote map are left unchanged;
// a single missing quote never aborts the sync.
func (b *Book) Sync(prices map[string]float64) (updated int) {
	positions := b.all()
	now := b.now()

	for i := range positions {
		price, ok := prices[positions[i].Ticker]
		if !ok {
			continue
		}
		positions[i].Price = price
		positions[i].LastSync = now
		recompute(&positions[i])
		updated++
	}

	if updated > 0 {
		b.save(positions)
	}
	b.log.Info("holdings synced",
		zap.Int("updated", updated), zap.Int("held", len(positions)))
	return updated
}

// List returns holdings matching the filter in the requested order.
func (b *Book) List(key SortKey, filter Filter) []Position {
	var out []Position
	for _, p := range b.all() {
		switch filter {
		case Profit:
			if p.PnL < 0 {
				continue
			}
		case Loss:
			if p.PnL >= 0 {
				continue
			}
		}
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		switch key {
		case ByPnLAbs:
			return out[i].PnL > out[j].PnL
		case ByMarketValue:
			return out[i].MarketValue() > out[j].MarketValue()
		case ByTicker:
			return out[i].Ticker < out[j].Ticker
		default:
			return out[i].PnLPct > out[j].PnLPct
		}
	})
	return out
}

// Summarize computes the aggregate view of the whole book.
func (b *Book) Summarize() Summary {
	var s Summary
	for _, p := range b.all() {
		s.Positions++
		s.TotalPnL += p.PnL
		s.TotalCost += p.Cost * p.Shares
		s.MarketValue += p.MarketValue()
		if p.PnL >= 0 {
			s.WinCount++
		}
	}
	if s.TotalCost != 0 {
		s.ReturnPct = s.TotalPnL / s.TotalCost * 100
	}
	return s
}
