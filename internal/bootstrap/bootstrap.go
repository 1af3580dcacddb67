package bootstrap

import (
	"context"
	"errors"

	"stockval/internal/application"
	"stockval/internal/config"
	"stockval/internal/domain"
	infraconfig "stockval/internal/infrastructure/config"

	"go.uber.org/zap"
)

// App is everything a process entry point needs.
type App struct {
	Config  config.Config
	Log     *zap.Logger
	Service *application.ValuationService
	// Ready probes the cache backend; nil when there is nothing to probe.
	Ready func(context.Context) error
	// Refresher keeps the watchlist's series current in long-running processes.
	Refresher application.Worker
}

// Init wires config, caches, providers and the valuation service. The
// returned cleanup must be called on exit.
func Init() (*App, func(), error) {
	cfg, err := ProvideConfig()
	if err != nil {
		return nil, func() {}, err
	}
	log := ProvideLogger()

	caches, cleanup, err := ProvideCaches(cfg, log)
	if err != nil {
		return nil, func() {}, err
	}
	providers, err := ProvideProviders(cfg)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}
	log.Info("bootstrap",
		zap.String("env", cfg.Env),
		zap.String("provider", cfg.Provider),
		zap.String("cache", cfg.CacheBackend),
		zap.String("base", cfg.BaseCurrency),
	)
	svc := ProvideValuationService(cfg, providers, caches, log)
	if err := checkBase(svc, cfg, log); err != nil {
		cleanup()
		return nil, func() {}, err
	}
	return &App{
		Config:    cfg,
		Log:       log,
		Service:   svc,
		Ready:     caches.Ping,
		Refresher: ProvideRefresher(cfg, svc, log),
	}, cleanup, nil
}

// checkBase rejects a default base the rate provider does not offer. An
// unreachable provider only warns: the service can still start and the
// base is checked again on first conversion.
func checkBase(svc *application.ValuationService, cfg config.Config, log *zap.Logger) error {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = infraconfig.DefaultRequestTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	_, err := svc.CheckCurrency(ctx, cfg.BaseCurrency)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrInvalidCurrency):
		return err
	default:
		log.Warn("base_currency_unchecked", zap.String("base", cfg.BaseCurrency), zap.Error(err))
		return nil
	}
}
