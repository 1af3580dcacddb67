package application

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"stockval/internal/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const currencyListKey = "all"

// RateResolver resolves latest conversion rates per ordered currency pair.
type RateResolver struct {
	provider RateProvider
	rates    *memo[decimal.Decimal]
	list     *memo[[]domain.Currency]
	log      *zap.Logger
}

func NewRateResolver(provider RateProvider, cache Cache[decimal.Decimal], log *zap.Logger) *RateResolver {
	if log == nil {
		log = zap.NewNop()
	}
	rates := newMemo("rates", cache, log).rememberErrors(func(err error) bool {
		return errors.Is(err, domain.ErrInvalidCurrencyPair)
	})
	return &RateResolver{
		provider: provider,
		rates:    rates,
		list:     newMemo[[]domain.Currency]("currencies", nil, log),
		log:      log,
	}
}

// Rate returns how many units of to one unit of from buys.
// A currency always converts to itself at 1 without a provider call.
func (r *RateResolver) Rate(ctx context.Context, from, to domain.Currency) (domain.ExchangeRate, error) {
	if from == to {
		return domain.Identity(from), nil
	}
	key := string(from) + "/" + string(to)
	rate, err := r.rates.get(ctx, key, func(ctx context.Context) (decimal.Decimal, error) {
		rates, err := r.provider.Latest(ctx, from, to)
		if err != nil {
			return decimal.Zero, err
		}
		rate, ok := rates[to]
		if !ok {
			return decimal.Zero, fmt.Errorf("%w: %s", domain.ErrInvalidCurrencyPair, key)
		}
		r.log.Info("rate_fetched", zap.String("pair", key), zap.String("rate", rate.String()))
		return rate, nil
	})
	if err != nil {
		return domain.ExchangeRate{}, err
	}
	return domain.ExchangeRate{From: from, To: to, Rate: rate}, nil
}

// Currencies returns the codes the rate provider supports, sorted.
func (r *RateResolver) Currencies(ctx context.Context) ([]domain.Currency, error) {
	return r.list.get(ctx, currencyListKey, func(ctx context.Context) ([]domain.Currency, error) {
		list, err := r.provider.Currencies(ctx)
		if err != nil {
			return nil, err
		}
		out := slices.Clone(list)
		slices.Sort(out)
		return slices.Compact(out), nil
	})
}

// Supports reports whether c is in the provider's currency list.
func (r *RateResolver) Supports(ctx context.Context, c domain.Currency) (bool, error) {
	list, err := r.Currencies(ctx)
	if err != nil {
		return false, err
	}
	_, found := slices.BinarySearch(list, c)
	return found, nil
}
