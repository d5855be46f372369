package history

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/wssxwz/stock-strategy/store"
)

func newTestLog(t *testing.T) *Log {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	assert.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	return New(st, time.UTC, zap.NewNop())
}

func TestAppendNewestFirst(t *testing.T) {
	t.Parallel()

	l := newTestLog(t)

	l.Append(BuySignal, "first", "a")
	l.Append(ExitAlert, "second", "b")

	entries := l.Entries()
	assert.Len(t, entries, 2)
	assert.Equal(t, "second", entries[0].Title)
	assert.Equal(t, "first", entries[1].Title)
}

func TestCapDropsOldest(t *testing.T) {
	t.Parallel()

	l := newTestLog(t)

	for i := 0; i < 501; i++ {
		l.Append(BuySignal, fmt.Sprintf("entry-%d", i), "")
	}

	entries := l.Entries()
	assert.Len(t, entries, 500)
	assert.Equal(t, "entry-500", entries[0].Title)
	// entry-0, the oldest, is the one that fell off.
	assert.Equal(t, "entry-1", entries[499].Title)
}

func TestGroupedByDay(t *testing.T) {
	t.Parallel()

	l := newTestLog(t)

	day1 := time.Date(2026, 2, 2, 8, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 2, 3, 8, 0, 0, 0, time.UTC)

	l.WithClock(func() time.Time { return day1 })
	l.Append(MorningBrief, "brief-1", "")
	l.WithClock(func() time.Time { return day2 })
	l.Append(MorningBrief, "brief-2", "")
	l.Append(EveningReview, "review-2", "")

	groups := l.GroupedByDay()
	assert.Len(t, groups, 2)

	// Most recent day first, stored (newest-first) order within the day.
	assert.Equal(t, "2026-02-03", groups[0].Date)
	assert.Len(t, groups[0].Entries, 2)
	assert.Equal(t, "review-2", groups[0].Entries[0].Title)
	assert.Equal(t, "2026-02-02", groups[1].Date)
	assert.Equal(t, "brief-1", groups[1].Entries[0].Title)
}

func TestOnDay(t *testing.T) {
	t.Parallel()

	l := newTestLog(t)

	day := time.Date(2026, 2, 3, 8, 0, 0, 0, time.UTC)
	l.WithClock(func() time.Time { return day })
	l.Append(BuySignal, "today", "")

	l.WithClock(func() time.Time { return day.AddDate(0, 0, 1) })
	l.Append(BuySignal, "tomorrow", "")

	got := l.OnDay(day)
	assert.Len(t, got, 1)
	assert.Equal(t, "today", got[0].Title)
}

func TestTypeLabels(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Morning brief", MorningBrief.Label())
	assert.Equal(t, "Exit alert", ExitAlert.Label())
	assert.Equal(t, "custom", Type("custom").Label())
}
