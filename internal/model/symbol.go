package model

import "strings"

// CurrencyMarker identifies a currency pair in a provider symbol, e.g. EURXOF=X.
const CurrencyMarker = "=X"

// Symbol is the provider lookup key for an equity or a currency pair.
type Symbol string

// IsCurrencyPair reports whether s carries the currency-pair marker.
func (s Symbol) IsCurrencyPair() bool {
	return strings.Contains(string(s), CurrencyMarker)
}

// FileStem is the symbol as used in snapshot file names.
// Only the first marker occurrence is removed.
func (s Symbol) FileStem() string {
	return strings.Replace(string(s), CurrencyMarker, "", 1)
}

func (s Symbol) String() string { return string(s) }

// Interval is the bar width requested from the provider.
type Interval string

const (
	Interval1m  Interval = "1m"
	Interval2m  Interval = "2m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval30m Interval = "30m"
	Interval60m Interval = "60m"
	Interval90m Interval = "90m"
	Interval1h  Interval = "1h"
	Interval1d  Interval = "1d"
	Interval5d  Interval = "5d"
	Interval1wk Interval = "1wk"
	Interval1mo Interval = "1mo"
	Interval3mo Interval = "3mo"
)

var validIntervals = map[Interval]bool{
	Interval1m: true, Interval2m: true, Interval5m: true, Interval15m: true,
	Interval30m: true, Interval60m: true, Interval90m: true, Interval1h: true,
	Interval1d: true, Interval5d: true, Interval1wk: true, Interval1mo: true,
	Interval3mo: true,
}

func (i Interval) Valid() bool { return validIntervals[i] }

// Range is the lookback window requested from the provider.
type Range string

const (
	Range1d  Range = "1d"
	Range5d  Range = "5d"
	Range1mo Range = "1mo"
	Range3mo Range = "3mo"
	Range6mo Range = "6mo"
	Range1y  Range = "1y"
	Range2y  Range = "2y"
	Range5y  Range = "5y"
	Range10y Range = "10y"
	RangeYTD Range = "ytd"
	RangeMax Range = "max"
)

var validRanges = map[Range]bool{
	Range1d: true, Range5d: true, Range1mo: true, Range3mo: true, Range6mo: true,
	Range1y: true, Range2y: true, Range5y: true, Range10y: true, RangeYTD: true,
	RangeMax: true,
}

func (r Range) Valid() bool { return validRanges[r] }
