package signal

import (
	"fmt"
	"regexp"
	"strconv"
)

// The import format is the human-readable push convention the notification
// bot emits: a bolded ticker plus labeled fields. Ticker and score are
// mandatory; every other field defaults to zero/absent.
var (
	reTicker  = regexp.MustCompile(`\*\*([A-Z]{1,6})\*\*`)
	reScore   = regexp.MustCompile(`评分[：:]\s*(\d+)`)
	rePrice   = regexp.MustCompile(`当前价[：:]\s*\$([\d.]+)`)
	reSuggest = regexp.MustCompile(`建议买入[：:]\s*\$([\d.]+)`)
	reRSI     = regexp.MustCompile(`RSI14[：:]\s*([\d.]+)`)
	reBB      = regexp.MustCompile(`BB%[：:]\s*([\d.]+)`)
	reTP      = regexp.MustCompile(`止盈[：:]\s*\$([\d.]+)`)
	reSL      = regexp.MustCompile(`止损[：:]\s*\$([\d.]+)`)
	reKBTag   = regexp.MustCompile(`(⭐ 核心持仓|🎯 重点关注)`)
	reMA200   = regexp.MustCompile(`MA200\s*✅`)
)

// ParseError reports an import text missing one of the mandatory fields.
type ParseError struct {
	Missing string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse signal text: missing %s", e.Missing)
}

// Parsed holds the fields extracted from one import text.
type Parsed struct {
	Ticker       string
	Score        int
	Price        float64
	SuggestPrice float64
	RSI14        float64
	BBPct        float64
	TPPrice      float64
	SLPrice      float64
	KBTag        string
	AboveMA200   bool
}

func matchFloat(re *regexp.Regexp, text string) float64 {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return v
}

// Parse extracts structured fields from a free-text signal push.
func Parse(raw string) (Parsed, error) {
	var p Parsed

	if m := reTicker.FindStringSubmatch(raw); m != nil {
		p.Ticker = m[1]
	}
	if m := reScore.FindStringSubmatch(raw); m != nil {
		p.Score, _ = strconv.Atoi(m[1])
	}

	if p.Ticker == "" {
		return Parsed{}, &ParseError{Missing: "ticker"}
	}
	if p.Score == 0 {
		return Parsed{}, &ParseError{Missing: "score"}
	}

	p.Price = matchFloat(rePrice, raw)
	p.SuggestPrice = matchFloat(reSuggest, raw)
	p.RSI14 = matchFloat(reRSI, raw)
	p.BBPct = matchFloat(reBB, raw)
	p.TPPrice = matchFloat(reTP, raw)
	p.SLPrice = matchFloat(reSL, raw)

	if m := reKBTag.FindStringSubmatch(raw); m != nil {
		p.KBTag = m[1]
	}
	p.AboveMA200 = reMA200.MatchString(raw)

	return p, nil
}
