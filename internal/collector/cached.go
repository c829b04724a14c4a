package collector

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"AfriQuoteFeed/internal/model"
)

// CachedFetcher memoises successful series per request for a fixed TTL.
// Concurrent identical requests share one upstream call. Failures are not cached.
type CachedFetcher struct {
	next  Fetcher
	cache *cache.Cache
	group singleflight.Group
}

func NewCachedFetcher(next Fetcher, ttl time.Duration) *CachedFetcher {
	return &CachedFetcher{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (f *CachedFetcher) Name() string { return f.next.Name() }

func (f *CachedFetcher) FetchSeries(ctx context.Context, req Request) (*model.Series, error) {
	key := req.key()
	if v, ok := f.cache.Get(key); ok {
		log.Debug().Str("symbol", string(req.Symbol)).Msg("series served from cache")
		return v.(*model.Series), nil
	}

	v, err, _ := f.group.Do(key, func() (interface{}, error) {
		series, err := f.next.FetchSeries(ctx, req)
		if err != nil {
			return nil, err
		}
		f.cache.SetDefault(key, series)
		return series, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Series), nil
}
