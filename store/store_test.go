package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	assert.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

type record struct {
	Ticker string    `json:"ticker"`
	Price  float64   `json:"price"`
	Tags   []string  `json:"tags"`
	At     time.Time `json:"at"`
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	want := record{
		Ticker: "NVDA",
		Price:  180.50,
		Tags:   []string{"core", "ai"},
		At:     time.Date(2026, 2, 3, 9, 30, 0, 0, time.UTC),
	}
	assert.NoError(t, s.Set("rec", want))

	var got record
	assert.True(t, s.Get("rec", &got))
	assert.Equal(t, want, got)
}

func TestGetMissingKeyReturnsDefault(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	got := Value(s, "nothing", []record{{Ticker: "DEF"}})
	assert.Equal(t, "DEF", got[0].Ticker)
}

func TestGetCorruptValueReturnsDefault(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	_, err := s.db.Exec(`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)`,
		"bad", "{not json", time.Now().UTC())
	assert.NoError(t, err)

	var got record
	assert.False(t, s.Get("bad", &got))
	assert.Equal(t, record{}, got)

	// Corruption is tolerated, not repaired: the raw row stays put.
	var raw string
	assert.NoError(t, s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, "bad").Scan(&raw))
	assert.Equal(t, "{not json", raw)
}

func TestSetOverwrites(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	assert.NoError(t, s.Set("k", record{Ticker: "OLD"}))
	assert.NoError(t, s.Set("k", record{Ticker: "NEW"}))

	var got record
	assert.True(t, s.Get("k", &got))
	assert.Equal(t, "NEW", got.Ticker)
}

func TestDelete(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	assert.NoError(t, s.Set("k", record{Ticker: "X"}))
	assert.NoError(t, s.Delete("k"))
	assert.NoError(t, s.Delete("k")) // deleting an absent key is fine

	var got record
	assert.False(t, s.Get("k", &got))
}
