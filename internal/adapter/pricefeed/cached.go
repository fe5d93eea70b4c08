package pricefeed

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/cashforecast/internal/infrastructure/metrics"
	"github.com/iho/cashforecast/internal/usecase"
)

const cacheKeyPrefix = "price:"

// CachedSource fronts a PriceSource with a short-lived cache so repeated
// forecasts do not hammer the quote service. Cache failures degrade to a
// direct lookup.
type CachedSource struct {
	inner  usecase.PriceSource
	cache  usecase.Cache
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCachedSource creates a new CachedSource.
func NewCachedSource(inner usecase.PriceSource, cache usecase.Cache, ttl time.Duration, logger zerolog.Logger) *CachedSource {
	return &CachedSource{
		inner:  inner,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// LastClose returns the cached close for the ticker, fetching and caching
// on a miss.
func (s *CachedSource) LastClose(ctx context.Context, ticker string) (decimal.Decimal, error) {
	key := cacheKeyPrefix + ticker

	if cached, err := s.cache.Get(ctx, key); err == nil {
		if price, err := decimal.NewFromString(cached); err == nil {
			metrics.PriceLookups.WithLabelValues(metrics.LookupHit).Inc()
			return price, nil
		}
		// Unparseable entry; drop it and fetch fresh.
		if err := s.cache.Delete(ctx, key); err != nil {
			s.logger.Warn().Err(err).Str("ticker", ticker).Msg("failed to evict bad price cache entry")
		}
	}

	began := time.Now()
	price, err := s.inner.LastClose(ctx, ticker)
	metrics.PriceLookupDuration.Observe(time.Since(began).Seconds())
	if err != nil {
		return decimal.Zero, err
	}

	if err := s.cache.Set(ctx, key, price.String(), s.ttl); err != nil {
		s.logger.Warn().Err(err).Str("ticker", ticker).Msg("failed to cache price")
	}
	return price, nil
}
