package bootstrap

import (
	"context"
	"fmt"

	"stockval/internal/application"
	"stockval/internal/config"
	"stockval/internal/domain"
	infraconfig "stockval/internal/infrastructure/config"
	"stockval/internal/infrastructure/httpx"
	"stockval/internal/infrastructure/logx"
	"stockval/internal/infrastructure/provider"
	redisstore "stockval/internal/infrastructure/redis"
	"stockval/internal/infrastructure/worker"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Providers are the upstream ports the valuation service reads through.
type Providers struct {
	Series   application.SeriesProvider
	Searcher application.SymbolSearcher
	Rates    application.RateProvider
}

// Caches back the three memoized lookups.
type Caches struct {
	Series     application.Cache[domain.DailySeries]
	Currencies application.Cache[domain.Currency]
	Rates      application.Cache[decimal.Decimal]
	// Ping is nil for the memory backend.
	Ping func(context.Context) error
}

func ProvideLogger() *zap.Logger { return logx.L() }

// ProvideConfig loads and validates the environment.
func ProvideConfig() (config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func ProvideRedisClient(cfg config.Config) (*redis.Client, func(), error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return client, func() { _ = client.Close() }, nil
}

func ProvideCaches(cfg config.Config, log *zap.Logger) (Caches, func(), error) {
	switch cfg.CacheBackend {
	case "", "memory":
		return Caches{
			Series:     application.NewMemoryCache[domain.DailySeries](),
			Currencies: application.NewMemoryCache[domain.Currency](),
			Rates:      application.NewMemoryCache[decimal.Decimal](),
		}, func() {}, nil
	case "redis":
		client, cleanup, err := ProvideRedisClient(cfg)
		if err != nil {
			return Caches{}, func() {}, err
		}
		p := infraconfig.DefaultCachePrefix
		log.Info("cache_backend", zap.String("backend", "redis"), zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.CacheTTL))
		return Caches{
			Series:     redisstore.New[domain.DailySeries](client, p+"series:", cfg.CacheTTL),
			Currencies: redisstore.New[domain.Currency](client, p+"currency:", cfg.CacheTTL),
			Rates:      redisstore.New[decimal.Decimal](client, p+"rate:", cfg.CacheTTL),
			Ping:       func(ctx context.Context) error { return redisstore.Ping(ctx, client) },
		}, cleanup, nil
	default:
		return Caches{}, func() {}, fmt.Errorf("unsupported CACHE_BACKEND=%q", cfg.CacheBackend)
	}
}

func ProvideProviders(cfg config.Config) (Providers, error) {
	switch cfg.Provider {
	case "fake":
		f := provider.NewFake()
		return Providers{Series: f, Searcher: f, Rates: f}, nil
	case "", "alphavantage":
		timeout := cfg.RequestTimeout
		if timeout <= 0 {
			timeout = infraconfig.DefaultRequestTimeout
		}
		client := httpx.New(timeout)
		av := &provider.AlphaVantageProvider{
			BaseURL: cfg.AlphaVantageBase,
			APIKey:  cfg.AlphaVantageAPIKey,
			Client:  client,
		}
		fx := &provider.FrankfurterProvider{
			BaseURL: cfg.FrankfurterBase,
			Client:  client,
		}
		return Providers{Series: av, Searcher: av, Rates: fx}, nil
	default:
		return Providers{}, fmt.Errorf("unsupported PROVIDER=%q", cfg.Provider)
	}
}

func ProvideValuationService(cfg config.Config, p Providers, c Caches, log *zap.Logger) *application.ValuationService {
	return application.NewValuationService(
		application.NewSeriesCache(p.Series, c.Series, log.Named("series")),
		application.NewCurrencyLookup(p.Searcher, c.Currencies, log.Named("currency")),
		application.NewRateResolver(p.Rates, c.Rates, log.Named("rates")),
		application.WithLogger(log.Named("valuation")),
		application.WithDefaultBase(cfg.Base()),
		application.WithFloorYear(cfg.FloorYear),
		application.WithStrictConversion(cfg.StrictConversion),
	)
}

func ProvideRefresher(cfg config.Config, svc *application.ValuationService, log *zap.Logger) application.Worker {
	return &worker.Refresher{
		Service: svc,
		Symbols: cfg.Watchlist,
		Every:   cfg.RefreshInterval,
		Timeout: cfg.RequestTimeout,
		Log:     log.Named("refresher"),
	}
}
