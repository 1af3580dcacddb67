package application

import (
	"context"
	"errors"
	"strings"

	"stockval/internal/domain"

	"go.uber.org/zap"
)

// SeriesCache serves daily series, fetching each symbol at most once.
type SeriesCache struct {
	provider SeriesProvider
	memo     *memo[domain.DailySeries]
	log      *zap.Logger
}

func NewSeriesCache(provider SeriesProvider, cache Cache[domain.DailySeries], log *zap.Logger) *SeriesCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &SeriesCache{
		provider: provider,
		memo:     newMemo("series", cache, log),
		log:      log,
	}
}

func (s *SeriesCache) FetchSeries(ctx context.Context, symbol string) (domain.DailySeries, error) {
	key := normalizeSymbol(symbol)
	return s.memo.get(ctx, key, s.fill(key))
}

// Refresh fetches symbol again and replaces the cached series. A failed
// fetch leaves the cached series in place.
func (s *SeriesCache) Refresh(ctx context.Context, symbol string) error {
	key := normalizeSymbol(symbol)
	return s.memo.refresh(ctx, key, s.fill(key))
}

func (s *SeriesCache) fill(key string) func(context.Context) (domain.DailySeries, error) {
	return func(ctx context.Context) (domain.DailySeries, error) {
		series, err := s.provider.DailySeries(ctx, key)
		switch {
		case errors.Is(err, domain.ErrRateLimited):
			s.log.Warn("series_rate_limited", zap.String("symbol", key))
			return nil, err
		case err != nil:
			s.log.Warn("series_fetch_failed", zap.String("symbol", key), zap.Error(err))
			return nil, err
		}
		s.log.Debug("series_fetched", zap.String("symbol", key), zap.Int("days", len(series)))
		return series, nil
	}
}

// Invalidate drops the cached series of symbol.
func (s *SeriesCache) Invalidate(ctx context.Context, symbol string) error {
	return s.memo.forget(ctx, normalizeSymbol(symbol))
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
