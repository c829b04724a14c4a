package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"AfriQuoteFeed/internal/model"
)

const (
	DefaultBaseURL   = "https://query1.finance.yahoo.com/v8/finance/chart"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// YahooFetcher implements Fetcher using the Yahoo Finance v8 chart API.
type YahooFetcher struct {
	client    *resty.Client
	normalize NormalizeOptions
}

type yahooOptions struct {
	baseURL   string
	userAgent string
	proxy     string
	timeout   time.Duration
	normalize NormalizeOptions
}

// YahooOption configures a YahooFetcher.
type YahooOption func(*yahooOptions)

func WithBaseURL(u string) YahooOption {
	return func(o *yahooOptions) { o.baseURL = u }
}

func WithUserAgent(ua string) YahooOption {
	return func(o *yahooOptions) { o.userAgent = ua }
}

func WithProxy(proxyURL string) YahooOption {
	return func(o *yahooOptions) { o.proxy = proxyURL }
}

// WithTimeout sets a per-request timeout. Zero keeps the transport default.
func WithTimeout(d time.Duration) YahooOption {
	return func(o *yahooOptions) { o.timeout = d }
}

func WithNormalizeOptions(n NormalizeOptions) YahooOption {
	return func(o *yahooOptions) { o.normalize = n }
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(opts ...YahooOption) *YahooFetcher {
	o := yahooOptions{baseURL: DefaultBaseURL, userAgent: DefaultUserAgent}
	for _, opt := range opts {
		opt(&o)
	}

	client := resty.New().
		SetBaseURL(o.baseURL).
		SetHeaders(map[string]string{
			"Accept":          "application/json",
			"Accept-Encoding": "gzip, br",
			"User-Agent":      o.userAgent,
		}).
		OnAfterResponse(DecompressMiddleware)
	if o.timeout > 0 {
		client.SetTimeout(o.timeout)
	}
	if o.proxy != "" {
		client.SetProxy(o.proxy)
	}

	return &YahooFetcher{client: client, normalize: o.normalize}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// FetchSeries issues one chart request and normalizes the response.
func (f *YahooFetcher) FetchSeries(ctx context.Context, req Request) (*model.Series, error) {
	if req.Interval == "" {
		req.Interval = model.Interval1d
	}
	if req.Range == "" {
		req.Range = model.Range5d
	}
	if !req.Interval.Valid() {
		return nil, fmt.Errorf("yahoo %s: invalid interval %q", req.Symbol, req.Interval)
	}
	if !req.Range.Valid() {
		return nil, fmt.Errorf("yahoo %s: invalid range %q", req.Symbol, req.Range)
	}

	start := time.Now()
	resp, err := f.client.R().
		SetContext(ctx).
		SetPathParam("symbol", string(req.Symbol)).
		SetQueryParams(map[string]string{
			"interval":       string(req.Interval),
			"range":          string(req.Range),
			"includePrePost": "false",
			"events":         "div,split",
		}).
		Get("/{symbol}")
	if err != nil {
		err = &TransportError{Symbol: req.Symbol, Err: err}
		log.Warn().Err(err).Str("symbol", string(req.Symbol)).Msg("chart request failed")
		return nil, err
	}

	series, err := DecodeChart(req.Symbol, resp.Body(), f.normalize)
	if err != nil {
		// a provider error object wins over the HTTP status; anything else on a
		// non-2xx response is a transport failure
		if _, ok := err.(*ProviderError); !ok && !resp.IsSuccess() {
			err = &TransportError{Symbol: req.Symbol, StatusCode: resp.StatusCode(), Err: fmt.Errorf("unexpected response: %s", truncate(resp.String(), 200))}
		}
		log.Warn().Err(err).Str("symbol", string(req.Symbol)).Int("status", resp.StatusCode()).Msg("chart request rejected")
		return nil, err
	}
	if !resp.IsSuccess() {
		err = &TransportError{Symbol: req.Symbol, StatusCode: resp.StatusCode(), Err: fmt.Errorf("unexpected status")}
		log.Warn().Err(err).Str("symbol", string(req.Symbol)).Msg("chart request rejected")
		return nil, err
	}

	log.Info().
		Str("symbol", string(req.Symbol)).
		Str("interval", string(req.Interval)).
		Str("range", string(req.Range)).
		Int("points", len(series.Data)).
		Dur("took", time.Since(start)).
		Msg("chart fetched")
	return series, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
