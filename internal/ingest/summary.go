package ingest

import (
	"sort"

	"AfriQuoteFeed/internal/calculator"
	"AfriQuoteFeed/internal/model"
)

// Mover is one symbol's standing at the end of a run.
type Mover struct {
	Symbol model.Symbol
	Kind   string
	Last   float64
	Change float64
	// Position of Last within the fetched window's range, 0.0~1.0.
	Position float64
}

// Summary aggregates a batch result the way the dashboard's market summary does.
type Summary struct {
	Fetched   int
	Failed    int
	Gainers   int
	Losers    int
	Unchanged int
	Movers    []Mover // sorted by absolute change, largest first
	Failures  []Outcome
}

// Summarize builds a Summary from a batch result and its report.
func Summarize(res *model.FetchResult, report *Report) Summary {
	sum := Summary{Fetched: report.Fetched(), Failures: report.Failures()}
	sum.Failed = len(sum.Failures)

	add := func(symbol model.Symbol, kind string, points []model.QuotePoint) {
		if len(points) == 0 {
			return
		}
		change, err := calculator.LastChange(points)
		if err != nil {
			return
		}
		last := *points[len(points)-1].Close
		m := Mover{Symbol: symbol, Kind: kind, Last: last, Change: change}
		if high, low, err := calculator.PeriodRange(points); err == nil {
			m.Position, _ = calculator.RangePosition(last, high, low)
		}
		if kind == KindStock {
			switch {
			case change > 0:
				sum.Gainers++
			case change < 0:
				sum.Losers++
			default:
				sum.Unchanged++
			}
		}
		sum.Movers = append(sum.Movers, m)
	}

	for _, s := range res.Stocks {
		add(s.Symbol, KindStock, s.Data)
	}
	for _, c := range res.Currencies {
		add(c.Pair, KindCurrency, c.Data)
	}

	sort.SliceStable(sum.Movers, func(i, j int) bool {
		return abs(sum.Movers[i].Change) > abs(sum.Movers[j].Change)
	})
	return sum
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
