package signal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/wssxwz/stock-strategy/history"
	"github.com/wssxwz/stock-strategy/store"
)

func newTestRegistry(t *testing.T) (*Registry, *history.Log) {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	assert.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	hist := history.New(st, time.UTC, zap.NewNop())
	return NewRegistry(st, hist, time.UTC, zap.NewNop()), hist
}

const nvda = "**NVDA** 评分:88 当前价:$180.50 止盈:$210 止损:$165"

func TestImportFromText(t *testing.T) {
	t.Parallel()

	r, hist := newTestRegistry(t)

	sig, err := r.ImportFromText(nvda)
	assert.NoError(t, err)
	assert.Equal(t, "NVDA", sig.Ticker)
	assert.Equal(t, 88, sig.Score)
	assert.False(t, sig.Archived)
	assert.False(t, sig.PositionTaken)

	// The audit entry carries the original raw text, not just the fields.
	entries := hist.Entries()
	assert.Len(t, entries, 1)
	assert.Equal(t, history.BuySignal, entries[0].Type)
	assert.Equal(t, nvda, entries[0].Content)
}

func TestImportParseErrorCreatesNothing(t *testing.T) {
	t.Parallel()

	r, hist := newTestRegistry(t)

	_, err := r.ImportFromText("评分:88 no ticker here")
	assert.Error(t, err)
	assert.Empty(t, r.List(Filter{}))
	assert.Empty(t, hist.Entries())
}

func TestListFilters(t *testing.T) {
	t.Parallel()

	r, _ := newTestRegistry(t)

	_, err := r.ImportFromText(nvda)
	assert.NoError(t, err)
	_, err = r.ImportFromText("**TSLA** 评分:72 当前价:$244.70")
	assert.NoError(t, err)

	assert.Len(t, r.List(Filter{}), 2)
	assert.Len(t, r.List(Filter{Type: "all"}), 2)
	assert.Len(t, r.List(Filter{MinScore: 80}), 1)
	assert.Len(t, r.List(Filter{Query: "nv"}), 1)
	assert.Len(t, r.List(Filter{MinScore: 80, Query: "tsla"}), 0)
	assert.Empty(t, r.List(Filter{Type: "sell"}))
}

func TestListExcludesArchived(t *testing.T) {
	t.Parallel()

	r, _ := newTestRegistry(t)

	sig, err := r.ImportFromText(nvda)
	assert.NoError(t, err)

	r.Archive(sig.ID)
	assert.Empty(t, r.List(Filter{}))

	// Archived signals are soft-state: still findable by id.
	got, ok := r.Find(sig.ID)
	assert.True(t, ok)
	assert.True(t, got.Archived)
}

func TestArchiveIdempotent(t *testing.T) {
	t.Parallel()

	r, _ := newTestRegistry(t)

	sig, err := r.ImportFromText(nvda)
	assert.NoError(t, err)

	r.Archive(sig.ID)
	first, _ := r.Find(sig.ID)
	r.Archive(sig.ID)
	second, _ := r.Find(sig.ID)
	assert.Equal(t, first, second)

	r.Archive("no-such-id") // unknown id is a no-op
	assert.Len(t, r.all(), 1)
}

func TestMarkPositionTaken(t *testing.T) {
	t.Parallel()

	r, _ := newTestRegistry(t)

	sig, err := r.ImportFromText(nvda)
	assert.NoError(t, err)

	r.MarkPositionTaken(sig.ID)
	got, _ := r.Find(sig.ID)
	assert.True(t, got.PositionTaken)
}

func TestCountOnDay(t *testing.T) {
	t.Parallel()

	r, _ := newTestRegistry(t)

	day := time.Date(2026, 2, 3, 14, 0, 0, 0, time.UTC)
	r.WithClock(func() time.Time { return day })
	_, err := r.ImportFromText(nvda)
	assert.NoError(t, err)

	r.WithClock(func() time.Time { return day.AddDate(0, 0, -1) })
	_, err = r.ImportFromText("**TSLA** 评分:72")
	assert.NoError(t, err)

	assert.Equal(t, 1, r.CountOnDay(day))
}
