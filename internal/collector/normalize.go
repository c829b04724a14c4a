package collector

import (
	"encoding/json"
	"fmt"

	"AfriQuoteFeed/internal/model"
)

// NormalizeOptions tunes how provider values become quote points.
type NormalizeOptions struct {
	// ZeroAsMissing treats a 0 value like a null, dropping points whose close is 0.
	ZeroAsMissing bool
}

// normalize zips the parallel provider arrays into quote points.
// Timestamps become milliseconds, missing entries become nil and points
// without a close are dropped. Provider order is preserved.
func normalize(symbol model.Symbol, res chartResult, opts NormalizeOptions) (*model.Series, error) {
	series := &model.Series{
		Symbol: symbol,
		Meta:   res.Meta,
		Data:   []model.QuotePoint{},
	}
	if len(res.Timestamp) == 0 {
		return series, nil
	}
	if len(res.Indicators.Quote) == 0 {
		return nil, &PayloadError{Symbol: symbol, Reason: "missing indicators.quote[0]"}
	}

	q := res.Indicators.Quote[0]
	at := func(vals []*float64, i int) *float64 {
		if i >= len(vals) || vals[i] == nil {
			return nil
		}
		if opts.ZeroAsMissing && *vals[i] == 0 {
			return nil
		}
		v := *vals[i]
		return &v
	}

	series.Data = make([]model.QuotePoint, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		p := model.QuotePoint{
			Timestamp: ts * 1000,
			Open:      at(q.Open, i),
			High:      at(q.High, i),
			Low:       at(q.Low, i),
			Close:     at(q.Close, i),
			Volume:    at(q.Volume, i),
		}
		if p.Close == nil {
			continue
		}
		series.Data = append(series.Data, p)
	}
	return series, nil
}

// DecodeChart parses a chart body and normalizes its first result.
func DecodeChart(symbol model.Symbol, body []byte, opts NormalizeOptions) (*model.Series, error) {
	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, &TransportError{Symbol: symbol, Err: fmt.Errorf("decode: %w", err)}
	}
	if e := chart.Chart.Error; e != nil {
		return nil, &ProviderError{Symbol: symbol, Code: e.Code, Description: e.Description}
	}
	if len(chart.Chart.Result) == 0 {
		return nil, &PayloadError{Symbol: symbol, Reason: "missing result[0]"}
	}
	return normalize(symbol, chart.Chart.Result[0], opts)
}
