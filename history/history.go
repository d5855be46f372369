// Package history is the append-only push-notification log. Every signal
// import, position open and position close leaves an entry here; the log is
// capped to the most recent 500 entries.
package history

import (
	"time"

	"go.uber.org/zap"

	"github.com/wssxwz/stock-strategy/pkg/id"
	"github.com/wssxwz/stock-strategy/store"
)

const (
	storeKey   = "push_history"
	maxEntries = 500
)

// Type classifies a push entry.
type Type string

const (
	MorningBrief  Type = "morning_brief"
	DeepAnalysis  Type = "deep_analysis"
	BuySignal     Type = "buy_signal"
	EveningReview Type = "evening_review"
	ExitAlert     Type = "exit_alert"
)

// Label returns the display name for the type.
func (t Type) Label() string {
	switch t {
	case MorningBrief:
		return "Morning brief"
	case DeepAnalysis:
		return "Deep analysis"
	case BuySignal:
		return "Buy signal"
	case EveningReview:
		return "Evening review"
	case ExitAlert:
		return "Exit alert"
	}
	return string(t)
}

type Entry struct {
	ID      string    `json:"id"`
	Type    Type      `json:"type"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Time    time.Time `json:"time"`
}

// DayGroup holds one calendar day of entries, newest entry first.
type DayGroup struct {
	Date    string
	Entries []Entry
}

type Log struct {
	store *store.Store
	loc   *time.Location
	log   *zap.Logger
	now   func() time.Time
}

func New(st *store.Store, loc *time.Location, logger *zap.Logger) *Log {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{store: st, loc: loc, log: logger, now: time.Now}
}

// WithClock replaces the clock used to stamp entries.
func (l *Log) WithClock(now func() time.Time) *Log {
	l.now = now
	return l
}

// Append prepends a new entry and trims the log to capacity.
func (l *Log) Append(t Type, title, content string) {
	entries := store.Value(l.store, storeKey, []Entry{})

	entries = append([]Entry{{
		ID:      id.New(),
		Type:    t,
		Title:   title,
		Content: content,
		Time:    l.now(),
	}}, entries...)

	if len(entries) > maxEntries {
		entries = entries[:maxEntries]
	}

	if err := l.store.Set(storeKey, entries); err != nil {
		l.log.Error("append push history", zap.Error(err))
		return
	}
	l.log.Debug("push recorded", zap.String("type", string(t)), zap.String("title", title))
}

// Entries returns the log newest-first.
func (l *Log) Entries() []Entry {
	return store.Value(l.store, storeKey, []Entry{})
}

// OnDay returns the entries whose timestamp falls on the given day in the
// log's configured location.
func (l *Log) OnDay(day time.Time) []Entry {
	want := day.In(l.loc).Format("2006-01-02")
	var out []Entry
	for _, e := range l.Entries() {
		if e.Time.In(l.loc).Format("2006-01-02") == want {
			out = append(out, e)
		}
	}
	return out
}

// GroupedByDay buckets entries by date, preserving stored order within each
// day. Days appear in the order their first entry appears, so the most
// recent day comes first.
func (l *Log) GroupedByDay() []DayGroup {
	var groups []DayGroup
	index := map[string]int{}

	for _, e := range l.Entries() {
		date := e.Time.In(l.loc).Format("2006-01-02")
		i, ok := index[date]
		if !ok {
			i = len(groups)
			index[date] = i
			groups = append(groups, DayGroup{Date: date})
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}
	return groups
}
