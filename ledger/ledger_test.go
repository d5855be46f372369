package ledger

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/wssxwz/stock-strategy/history"
	"github.com/wssxwz/stock-strategy/signal"
	"github.com/wssxwz/stock-strategy/store"
)

func newTestLedger(t *testing.T) (*Ledger, *signal.Registry, *history.Log) {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	assert.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	hist := history.New(st, time.UTC, zap.NewNop())
	reg := signal.NewRegistry(st, hist, time.UTC, zap.NewNop())
	return New(st, reg, hist, zap.NewNop()), reg, hist
}

func TestOpenRejectsNonPositiveEntry(t *testing.T) {
	t.Parallel()

	l, _, _ := newTestLedger(t)

	_, err := l.Open("NVDA", 0, 210, 165, "", "")
	assert.Error(t, err)
	_, err = l.Open("NVDA", -5, 210, 165, "", "")
	assert.Error(t, err)
	assert.Empty(t, l.Active())
}

func TestOpenMirrorsSignal(t *testing.T) {
	t.Parallel()

	l, reg, hist := newTestLedger(t)

	sig, err := reg.ImportFromText("**NVDA** 评分:88 当前价:$180.50")
	assert.NoError(t, err)

	pos, err := l.Open("NVDA", 180.50, 210, 165, "from push", sig.ID)
	assert.NoError(t, err)
	assert.Equal(t, "NVDA", pos.Ticker)
	assert.False(t, pos.Closed)

	got, ok := reg.Find(sig.ID)
	assert.True(t, ok)
	assert.True(t, got.PositionTaken)

	// import + open both pushed a buy_signal entry
	assert.Len(t, hist.Entries(), 2)
	assert.Equal(t, history.BuySignal, hist.Entries()[0].Type)
}

func TestCloseComputesReturnAndAlertsOnce(t *testing.T) {
	t.Parallel()

	l, _, hist := newTestLedger(t)

	pos, err := l.Open("TSLA", 100, 120, 90, "", "")
	assert.NoError(t, err)

	closed, ok := l.Close(pos.ID, Win, 120)
	assert.True(t, ok)
	assert.True(t, closed.Closed)
	assert.InDelta(t, 20.00, closed.Return(), 1e-9)

	alerts := 0
	for _, e := range hist.Entries() {
		if e.Type == history.ExitAlert {
			alerts++
		}
	}
	assert.Equal(t, 1, alerts)
}

func TestCloseIsTerminal(t *testing.T) {
	t.Parallel()

	l, _, _ := newTestLedger(t)

	pos, err := l.Open("TSLA", 100, 120, 90, "", "")
	assert.NoError(t, err)

	first, ok := l.Close(pos.ID, Win, 120)
	assert.True(t, ok)

	// A second close must not alter the exit fields.
	_, ok = l.Close(pos.ID, Loss, 80)
	assert.False(t, ok)

	stored := l.ClosedPositions()
	assert.Len(t, stored, 1)
	assert.Equal(t, first.ExitPrice, stored[0].ExitPrice)
	assert.Equal(t, first.ExitType, stored[0].ExitType)
	assert.True(t, first.ExitTime.Equal(stored[0].ExitTime))
}

func TestCloseUnknownIDIsNoOp(t *testing.T) {
	t.Parallel()

	l, _, hist := newTestLedger(t)

	_, ok := l.Close("no-such-id", Win, 100)
	assert.False(t, ok)
	assert.Empty(t, hist.Entries())
}

func TestActiveAndClosedSplit(t *testing.T) {
	t.Parallel()

	l, _, _ := newTestLedger(t)

	a, err := l.Open("AAA", 10, 12, 9, "", "")
	assert.NoError(t, err)
	_, err = l.Open("BBB", 20, 24, 18, "", "")
	assert.NoError(t, err)

	_, ok := l.Close(a.ID, Loss, 9)
	assert.True(t, ok)

	assert.Len(t, l.Active(), 1)
	assert.Equal(t, "BBB", l.Active()[0].Ticker)
	assert.Len(t, l.ClosedPositions(), 1)
	assert.Equal(t, "AAA", l.ClosedPositions()[0].Ticker)
}

func TestWinRate(t *testing.T) {
	t.Parallel()

	l, _, _ := newTestLedger(t)

	_, ok := l.WinRate()
	assert.False(t, ok)

	for i, exit := range []ExitType{Win, Win, Loss} {
		pos, err := l.Open("T", float64(100+i), 0, 0, "", "")
		assert.NoError(t, err)
		_, closed := l.Close(pos.ID, exit, 110)
		assert.True(t, closed)
	}

	pct, ok := l.WinRate()
	assert.True(t, ok)
	assert.Equal(t, 67, pct)
}

func TestClockInjection(t *testing.T) {
	t.Parallel()

	l, _, _ := newTestLedger(t)

	at := time.Date(2026, 2, 3, 9, 30, 0, 0, time.UTC)
	l.WithClock(func() time.Time { return at })

	pos, err := l.Open("NVDA", 180.50, 0, 0, "", "")
	assert.NoError(t, err)
	assert.True(t, pos.EntryTime.Equal(at))
}
