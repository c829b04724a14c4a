package model

import (
	"encoding/json"
	"time"
)

// QuotePoint is one OHLCV observation. Timestamp is milliseconds since epoch.
// Any price or volume may be null; a point is kept only when Close is set.
type QuotePoint struct {
	Timestamp int64    `json:"timestamp"`
	Open      *float64 `json:"open"`
	High      *float64 `json:"high"`
	Low       *float64 `json:"low"`
	Close     *float64 `json:"close"`
	Volume    *float64 `json:"volume"`
}

// Time returns the point timestamp as a UTC time.
func (p QuotePoint) Time() time.Time {
	return time.UnixMilli(p.Timestamp).UTC()
}

// Series is the normalized quote history for one symbol.
// Meta is the provider's meta object, passed through untouched.
type Series struct {
	Symbol Symbol          `json:"symbol"`
	Meta   json.RawMessage `json:"meta,omitempty"`
	Data   []QuotePoint    `json:"data"`
}

// Last returns the most recent point, if any.
func (s *Series) Last() (QuotePoint, bool) {
	if s == nil || len(s.Data) == 0 {
		return QuotePoint{}, false
	}
	return s.Data[len(s.Data)-1], true
}

// CurrencySnapshot is a currency series plus its latest rate and period change.
// CurrentRate is nil when the series has no points.
type CurrencySnapshot struct {
	Pair        Symbol       `json:"pair"`
	CurrentRate *float64     `json:"currentRate,omitempty"`
	Change      float64      `json:"change"`
	Data        []QuotePoint `json:"data"`
}

// FetchResult is the aggregate written by one batch run.
type FetchResult struct {
	Timestamp  string             `json:"timestamp"`
	Stocks     []Series           `json:"stocks"`
	Currencies []CurrencySnapshot `json:"currencies"`
}

// ISOLayout matches the millisecond UTC form used for run timestamps.
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

// NewFetchResult returns an empty result stamped with t.
func NewFetchResult(t time.Time) *FetchResult {
	return &FetchResult{
		Timestamp:  t.UTC().Format(ISOLayout),
		Stocks:     []Series{},
		Currencies: []CurrencySnapshot{},
	}
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }
