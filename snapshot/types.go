package snapshot

// Schemas for the externally produced JSON resources. These files are
// generated by the reporting jobs and consumed read-only here; the shapes
// below mirror what the producers emit.

// Quote is one ticker's entry in the core-holdings snapshot.
type Quote struct {
	Ticker    string   `json:"ticker"`
	Price     float64  `json:"price"`
	Change    float64  `json:"change"`
	ChangePct float64  `json:"change_pct"`
	Date      string   `json:"date"`
	Volume    int64    `json:"volume"`
	High52W   *float64 `json:"high_52w"`
	Low52W    *float64 `json:"low_52w"`
	OffHigh   *float64 `json:"off_high"`
}

// CoreHoldings is the quote snapshot for the watched core tickers.
type CoreHoldings struct {
	Tickers     map[string]Quote `json:"tickers"`
	GeneratedAt string           `json:"generated_at"`
}

// Prices flattens the snapshot to ticker -> last price for holdings sync.
func (c CoreHoldings) Prices() map[string]float64 {
	out := make(map[string]float64, len(c.Tickers))
	for t, q := range c.Tickers {
		out[t] = q.Price
	}
	return out
}

// MarketQuote is one index/commodity/fx/sector entry in the daily market
// snapshot.
type MarketQuote struct {
	Ticker    string  `json:"ticker"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Change    float64 `json:"change"`
	ChangePct float64 `json:"change_pct"`
}

type FearGreed struct {
	Score  int    `json:"score"`
	Rating string `json:"rating"`
}

// Market is the day-keyed market snapshot.
type Market struct {
	Date        string        `json:"date"`
	Indices     []MarketQuote `json:"indices"`
	Commodities []MarketQuote `json:"commodities"`
	FX          []MarketQuote `json:"fx"`
	Sectors     []MarketQuote `json:"sectors"`
	FearGreed   *FearGreed    `json:"fear_greed"`
}

// CalendarEvent is one macro or earnings event.
type CalendarEvent struct {
	Date       string `json:"date"`
	Event      string `json:"event"`
	Category   string `json:"category"` // macro | fomc | political | earnings
	Importance int    `json:"importance"`
	Impact     string `json:"impact"`
	Emoji      string `json:"emoji,omitempty"`
	Note       string `json:"note,omitempty"`
	Ticker     string `json:"ticker,omitempty"`
	Timing     string `json:"timing,omitempty"` // BMO | AMC
}

// EarningsDetail carries per-ticker earnings expectations.
type EarningsDetail struct {
	Ticker       string   `json:"ticker"`
	CompanyName  string   `json:"company_name"`
	Sector       string   `json:"sector,omitempty"`
	MarketCap    *float64 `json:"market_cap"`
	EarningsDate string   `json:"earnings_date,omitempty"`
	Timing       string   `json:"timing,omitempty"`
	EPSEstimate  *float64 `json:"eps_estimate"`
	RevEstimate  *float64 `json:"rev_estimate"`
}

// Calendar is the economic + earnings calendar resource.
type Calendar struct {
	ByDate          map[string][]CalendarEvent `json:"by_date"`
	ThisWeek        []CalendarEvent            `json:"this_week"`
	EarningsDetails []EarningsDetail           `json:"earnings_details"`
	GeneratedAt     string                     `json:"generated_at"`
}

// StockJudgment is one per-stock call inside a weekly report.
type StockJudgment struct {
	Ticker   string `json:"ticker"`
	Stance   string `json:"stance"` // hold | add | trim | watch
	Judgment string `json:"judgment"`
}

// WeeklyReport is one entry of the weekly-report collection.
type WeeklyReport struct {
	Week     string          `json:"week"`
	Events   []string        `json:"events"`
	Outlook  string          `json:"outlook"`
	Stocks   []StockJudgment `json:"stocks"`
	Risks    []string        `json:"risks"`
	Strategy string          `json:"strategy"`
	Raw      string          `json:"raw,omitempty"`
}
