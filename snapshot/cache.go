// Package snapshot provides best-effort, TTL-bounded visibility into the
// externally generated JSON snapshots (quotes, daily market, calendar,
// weekly reports). A fetch failure never propagates: callers get the last
// cached payload, or an absent status they must render as "unavailable".
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/wssxwz/stock-strategy/store"
)

const (
	holdingsKey = "core_holdings_cache"
	marketKey   = "market_cache"
	calendarKey = "calendar_cache"
	reportsKey  = "weekly_reports"
)

// Status describes where a snapshot came from.
type Status int

const (
	Missing Status = iota // nothing cached, fetch failed
	Stale                 // fetch failed, expired cache served
	Fresh                 // within TTL or just fetched
)

func (s Status) String() string {
	switch s {
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	}
	return "missing"
}

// entry wraps a payload with its fetch time for TTL checks.
type entry[T any] struct {
	Payload   T         `json:"payload"`
	FetchedAt time.Time `json:"fetched_at"`
}

type Cache struct {
	store       *store.Store
	client      *http.Client
	baseURL     string
	holdingsTTL time.Duration
	calendarTTL time.Duration
	loc         *time.Location
	log         *zap.Logger
	now         func() time.Time
}

func NewCache(st *store.Store, baseURL string, holdingsTTL, calendarTTL time.Duration, loc *time.Location, logger *zap.Logger) *Cache {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		store:       st,
		client:      &http.Client{Timeout: 30 * time.Second},
		baseURL:     baseURL,
		holdingsTTL: holdingsTTL,
		calendarTTL: calendarTTL,
		loc:         loc,
		log:         logger,
		now:         time.Now,
	}
}

// WithClock replaces the clock used for TTL checks and day keys.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

func (c *Cache) fetch(ctx context.Context, path string, out any) error {
	url := c.baseURL + "/" + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("fetch %s: status %d: %s", path, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// readThrough implements the cache algorithm for a single-resource
// snapshot: cached-and-fresh wins, then the network, then whatever is
// cached regardless of age. ttl == 0 means no expiry — presence alone is
// authoritative (weekly reports).
func readThrough[T any](ctx context.Context, c *Cache, key, path string, ttl time.Duration) (T, Status) {
	var cached entry[T]
	hit := c.store.Get(key, &cached)

	if hit && (ttl == 0 || c.now().Sub(cached.FetchedAt) < ttl) {
		return cached.Payload, Fresh
	}

	var fetched T
	if err := c.fetch(ctx, path, &fetched); err != nil {
		c.log.Warn("snapshot fetch failed, degrading",
			zap.String("resource", path), zap.Bool("stale_available", hit), zap.Error(err))
		if hit {
			return cached.Payload, Stale
		}
		var zero T
		return zero, Missing
	}

	if err := c.store.Set(key, entry[T]{Payload: fetched, FetchedAt: c.now()}); err != nil {
		c.log.Error("persist snapshot", zap.String("resource", path), zap.Error(err))
	}
	return fetched, Fresh
}

// CoreHoldings returns the quote snapshot for the core tickers.
func (c *Cache) CoreHoldings(ctx context.Context) (CoreHoldings, Status) {
	return readThrough[CoreHoldings](ctx, c, holdingsKey, "core_holdings.json", c.holdingsTTL)
}

// Calendar returns the economic + earnings calendar.
func (c *Cache) Calendar(ctx context.Context) (Calendar, Status) {
	return readThrough[Calendar](ctx, c, calendarKey, "calendar.json", c.calendarTTL)
}

// WeeklyReports returns the weekly-report collection. Reports are
// quasi-static: once cached they are served until InvalidateReports.
func (c *Cache) WeeklyReports(ctx context.Context) ([]WeeklyReport, Status) {
	return readThrough[[]WeeklyReport](ctx, c, reportsKey, "weekly_reports.json", 0)
}

// InvalidateReports drops the cached weekly reports so the next read
// fetches again.
func (c *Cache) InvalidateReports() error {
	return c.store.Delete(reportsKey)
}

// Market returns the day-keyed market snapshot. The resource for "today"
// may not exist yet around the publication boundary, so on a miss the
// previous calendar day is tried as well; at most two dates are attempted.
func (c *Cache) Market(ctx context.Context) (Market, Status) {
	var cached entry[Market]
	hit := c.store.Get(marketKey, &cached)

	if hit && c.now().Sub(cached.FetchedAt) < c.holdingsTTL {
		return cached.Payload, Fresh
	}

	today := c.now().In(c.loc)
	for _, day := range []time.Time{today, today.AddDate(0, 0, -1)} {
		path := fmt.Sprintf("market_%s.json", day.Format("2006-01-02"))
		var m Market
		if err := c.fetch(ctx, path, &m); err != nil {
			c.log.Debug("market snapshot miss", zap.String("resource", path), zap.Error(err))
			continue
		}
		if err := c.store.Set(marketKey, entry[Market]{Payload: m, FetchedAt: c.now()}); err != nil {
			c.log.Error("persist snapshot", zap.String("resource", path), zap.Error(err))
		}
		return m, Fresh
	}

	if hit {
		return cached.Payload, Stale
	}
	return Market{}, Missing
}

// Refresh force-fetches every snapshot, ignoring TTLs. Used by the watch
// command; individual failures are collected, not fatal.
func (c *Cache) Refresh(ctx context.Context) error {
	var errs []error

	var holdings CoreHoldings
	if err := c.fetch(ctx, "core_holdings.json", &holdings); err != nil {
		errs = append(errs, err)
	} else if err := c.store.Set(holdingsKey, entry[CoreHoldings]{Payload: holdings, FetchedAt: c.now()}); err != nil {
		errs = append(errs, err)
	}

	var cal Calendar
	if err := c.fetch(ctx, "calendar.json", &cal); err != nil {
		errs = append(errs, err)
	} else if err := c.store.Set(calendarKey, entry[Calendar]{Payload: cal, FetchedAt: c.now()}); err != nil {
		errs = append(errs, err)
	}

	var reports []WeeklyReport
	if err := c.fetch(ctx, "weekly_reports.json", &reports); err != nil {
		errs = append(errs, err)
	} else if err := c.store.Set(reportsKey, entry[[]WeeklyReport]{Payload: reports, FetchedAt: c.now()}); err != nil {
		errs = append(errs, err)
	}

	today := c.now().In(c.loc)
	fetchedMarket := false
	for _, day := range []time.Time{today, today.AddDate(0, 0, -1)} {
		path := fmt.Sprintf("market_%s.json", day.Format("2006-01-02"))
		var m Market
		if err := c.fetch(ctx, path, &m); err != nil {
			continue
		}
		if err := c.store.Set(marketKey, entry[Market]{Payload: m, FetchedAt: c.now()}); err != nil {
			errs = append(errs, err)
		}
		fetchedMarket = true
		break
	}
	if !fetchedMarket {
		errs = append(errs, fmt.Errorf("market snapshot unavailable for %s and the day before",
			today.Format("2006-01-02")))
	}

	return errors.Join(errs...)
}
