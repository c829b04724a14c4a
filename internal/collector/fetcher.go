package collector

//go:generate mockgen -source=fetcher.go -destination=mocks/mock_fetcher.go -package=mocks

import (
	"context"

	"AfriQuoteFeed/internal/model"
)

// Request selects one chart from the provider.
type Request struct {
	Symbol   model.Symbol
	Interval model.Interval
	Range    model.Range
}

// NewRequest returns a request with the default 1d interval over 5d.
func NewRequest(symbol model.Symbol) Request {
	return Request{Symbol: symbol, Interval: model.Interval1d, Range: model.Range5d}
}

func (r Request) key() string {
	return string(r.Symbol) + "|" + string(r.Interval) + "|" + string(r.Range)
}

// Fetcher defines the interface for fetching a normalized series.
// A failed fetch returns one of *ProviderError, *TransportError or *PayloadError.
type Fetcher interface {
	FetchSeries(ctx context.Context, req Request) (*model.Series, error)
	Name() string
}
