package application

import (
	"context"

	"stockval/internal/domain"

	"github.com/shopspring/decimal"
)

// SeriesProvider returns the recent daily closes of a symbol.
// Implementations classify throttling as domain.ErrRateLimited and upstream
// error payloads as domain.ErrProviderError.
type SeriesProvider interface {
	DailySeries(ctx context.Context, symbol string) (domain.DailySeries, error)
}

// SymbolSearcher looks up listings matching keywords, best match first.
type SymbolSearcher interface {
	SearchSymbol(ctx context.Context, keywords string) ([]domain.SymbolMatch, error)
}

// RateProvider serves latest exchange rates.
type RateProvider interface {
	// Latest returns the rates from base into each of symbols. Unknown
	// currencies are simply missing from the result.
	Latest(ctx context.Context, base domain.Currency, symbols ...domain.Currency) (map[domain.Currency]decimal.Decimal, error)
	// Currencies lists every code the provider can convert.
	Currencies(ctx context.Context) ([]domain.Currency, error)
}
