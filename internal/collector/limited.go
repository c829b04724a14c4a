package collector

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"AfriQuoteFeed/internal/model"
)

// LimitedFetcher gates every request on a shared token bucket.
type LimitedFetcher struct {
	next    Fetcher
	limiter *rate.Limiter
}

// NewLimitedFetcher allows rps requests per second with the given burst.
// A non-positive rps disables limiting; config.Load never produces one, so
// only tests and library callers can run unlimited.
func NewLimitedFetcher(next Fetcher, rps float64, burst int) *LimitedFetcher {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &LimitedFetcher{next: next, limiter: rate.NewLimiter(limit, burst)}
}

func (f *LimitedFetcher) Name() string { return f.next.Name() }

func (f *LimitedFetcher) FetchSeries(ctx context.Context, req Request) (*model.Series, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		// the limiter refuses early when the deadline cannot be met
		return nil, fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
	}
	return f.next.FetchSeries(ctx, req)
}
