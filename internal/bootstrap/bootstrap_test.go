package bootstrap

import (
	"context"
	"testing"

	"stockval/internal/config"
	"stockval/internal/domain"
	"stockval/internal/infrastructure/provider"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInit_FakeMemory(t *testing.T) {
	t.Setenv("PROVIDER", "fake")
	t.Setenv("CACHE_BACKEND", "memory")
	t.Setenv("BASE_CURRENCY", "EUR")

	app, cleanup, err := Init()
	require.NoError(t, err)
	defer cleanup()
	require.Nil(t, app.Ready)
	require.Equal(t, "EUR", string(app.Service.DefaultBase()))

	v, err := app.Service.CloseValue(context.Background(), "AAPL", "", "")
	require.NoError(t, err)
	require.True(t, v.Value.IsPositive())
}

func TestInit_BaseNotOfferedByProvider(t *testing.T) {
	t.Setenv("PROVIDER", "fake")
	t.Setenv("CACHE_BACKEND", "memory")
	t.Setenv("BASE_CURRENCY", "CHF")

	_, _, err := Init()
	require.ErrorIs(t, err, domain.ErrInvalidCurrency)
}

func TestInit_MissingKey(t *testing.T) {
	t.Setenv("PROVIDER", "alphavantage")
	t.Setenv("ALPHAVANTAGE_API_KEY", "")
	_, _, err := Init()
	require.ErrorIs(t, err, config.ErrMissingAPIKey)
}

func TestProvideCaches_Redis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cfg := config.Config{CacheBackend: "redis", RedisAddr: mr.Addr()}
	caches, cleanup, err := ProvideCaches(cfg, zap.NewNop())
	require.NoError(t, err)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, caches.Ping(ctx))
	require.NoError(t, caches.Currencies.Set(ctx, "SAP", "EUR"))
	require.True(t, mr.Exists("stockval:currency:SAP"))
}

func TestProvideProviders(t *testing.T) {
	p, err := ProvideProviders(config.Config{Provider: "fake"})
	require.NoError(t, err)
	require.IsType(t, &provider.Fake{}, p.Series)

	p, err = ProvideProviders(config.Config{Provider: "alphavantage", AlphaVantageAPIKey: "k"})
	require.NoError(t, err)
	require.IsType(t, &provider.AlphaVantageProvider{}, p.Series)
	require.IsType(t, &provider.FrankfurterProvider{}, p.Rates)

	_, err = ProvideProviders(config.Config{Provider: "nope"})
	require.Error(t, err)
}
