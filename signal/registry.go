package signal

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wssxwz/stock-strategy/history"
	"github.com/wssxwz/stock-strategy/pkg/id"
	"github.com/wssxwz/stock-strategy/store"
)

const storeKey = "signals"

// Filter options compose via logical AND; the zero value matches every
// non-archived signal.
type Filter struct {
	Type     string // exact match, "" or "all" disables
	MinScore int
	Query    string // case-insensitive ticker substring
}

type Registry struct {
	store *store.Store
	hist  *history.Log
	loc   *time.Location
	log   *zap.Logger
	now   func() time.Time
}

func NewRegistry(st *store.Store, hist *history.Log, loc *time.Location, logger *zap.Logger) *Registry {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{store: st, hist: hist, loc: loc, log: logger, now: time.Now}
}

// WithClock replaces the clock used to stamp imported signals.
func (r *Registry) WithClock(now func() time.Time) *Registry {
	r.now = now
	return r
}

func (r *Registry) all() []Signal {
	return store.Value(r.store, storeKey, []Signal{})
}

func (r *Registry) save(sigs []Signal) {
	if err := r.store.Set(storeKey, sigs); err != nil {
		r.log.Error("save signals", zap.Error(err))
	}
}

// ImportFromText parses a free-text push into a Signal, persists it
// newest-first, and records the raw text in the push history.
func (r *Registry) ImportFromText(raw string) (Signal, error) {
	p, err := Parse(raw)
	if err != nil {
		return Signal{}, err
	}

	sig := Signal{
		ID:           id.New(),
		Type:         TypeBuy,
		Ticker:       p.Ticker,
		Score:        p.Score,
		Price:        p.Price,
		SuggestPrice: p.SuggestPrice,
		TPPrice:      p.TPPrice,
		SLPrice:      p.SLPrice,
		RSI14:        p.RSI14,
		BBPct:        p.BBPct,
		AboveMA200:   p.AboveMA200,
		KBTag:        p.KBTag,
		Time:         r.now(),
	}

	r.save(append([]Signal{sig}, r.all()...))
	// The history entry keeps the original text so the audit trail survives
	// even if the parse format evolves.
	r.hist.Append(history.BuySignal, "Buy signal "+sig.Ticker, raw)

	r.log.Info("signal imported",
		zap.String("ticker", sig.Ticker), zap.Int("score", sig.Score))
	return sig, nil
}

// List returns non-archived signals matching the filter, newest-first.
func (r *Registry) List(f Filter) []Signal {
	var out []Signal
	q := strings.ToLower(f.Query)

	for _, s := range r.all() {
		if s.Archived {
			continue
		}
		if f.Type != "" && f.Type != "all" && s.Type != f.Type {
			continue
		}
		if s.Score < f.MinScore {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(s.Ticker), q) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Find returns the signal with the given id.
func (r *Registry) Find(sigID string) (Signal, bool) {
	for _, s := range r.all() {
		if s.ID == sigID {
			return s, true
		}
	}
	return Signal{}, false
}

// Latest returns the most recent signal for ticker, archived or not.
func (r *Registry) Latest(ticker string) (Signal, bool) {
	for _, s := range r.all() {
		if s.Ticker == ticker {
			return s, true
		}
	}
	return Signal{}, false
}

// Archive soft-deletes a signal. Unknown ids and already-archived signals
// are a no-op, so the call is idempotent.
func (r *Registry) Archive(sigID string) {
	r.update(sigID, func(s *Signal) { s.Archived = true })
}

// MarkPositionTaken flags that a position was opened from this signal.
func (r *Registry) MarkPositionTaken(sigID string) {
	r.update(sigID, func(s *Signal) { s.PositionTaken = true })
}

func (r *Registry) update(sigID string, mutate func(*Signal)) {
	sigs := r.all()
	for i := range sigs {
		if sigs[i].ID == sigID {
			mutate(&sigs[i])
			r.save(sigs)
			return
		}
	}
}

// CountOnDay returns how many signals arrived on the given day in the
// registry's configured location.
func (r *Registry) CountOnDay(day time.Time) int {
	want := day.In(r.loc).Format("2006-01-02")
	n := 0
	for _, s := range r.all() {
		if s.Time.In(r.loc).Format("2006-01-02") == want {
			n++
		}
	}
	return n
}
