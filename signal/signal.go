// Package signal stores structured buy recommendations imported from
// free-text pushes and keeps them filterable until archived or acted on.
package signal

import "time"

type Signal struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	Ticker        string    `json:"ticker"`
	Score         int       `json:"score"`
	Price         float64   `json:"price"`
	SuggestPrice  float64   `json:"suggest_price,omitempty"`
	TPPrice       float64   `json:"tp_price"`
	SLPrice       float64   `json:"sl_price"`
	RSI14         float64   `json:"rsi14"`
	BBPct         float64   `json:"bb_pct"`
	AboveMA200    bool      `json:"above_ma200"`
	KBTag         string    `json:"kb_tag,omitempty"`
	Time          time.Time `json:"time"`
	Archived      bool      `json:"archived"`
	PositionTaken bool      `json:"position_taken"`
}

// TypeBuy is the only signal type the import pipeline produces today.
const TypeBuy = "buy"
