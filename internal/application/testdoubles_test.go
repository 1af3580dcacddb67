package application

import (
	"context"
	"sync"

	"stockval/internal/domain"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seriesOf(kv ...string) domain.DailySeries {
	out := domain.DailySeries{}
	for i := 0; i+1 < len(kv); i += 2 {
		out[kv[i]] = domain.Bar{Close: dec(kv[i+1])}
	}
	return out
}

type fakeSeriesProvider struct {
	mu     sync.Mutex
	series map[string]domain.DailySeries
	errs   map[string]error
	calls  map[string]int
}

func (f *fakeSeriesProvider) DailySeries(_ context.Context, symbol string) (domain.DailySeries, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[symbol]++
	if err := f.errs[symbol]; err != nil {
		return nil, err
	}
	s, ok := f.series[symbol]
	if !ok {
		return nil, domain.ErrProviderError
	}
	return s, nil
}

func (f *fakeSeriesProvider) callsFor(symbol string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[symbol]
}

type fakeSearcher struct {
	currency map[string]domain.Currency
	err      error
	calls    int
}

func (f *fakeSearcher) SearchSymbol(_ context.Context, keywords string) ([]domain.SymbolMatch, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.currency[keywords]
	if !ok {
		return nil, nil
	}
	return []domain.SymbolMatch{{Symbol: keywords, Currency: c}}, nil
}

type fakeRateProvider struct {
	rates map[string]decimal.Decimal // "EUR/USD" -> rate
	list  []domain.Currency
	err   error
	calls int
}

func (f *fakeRateProvider) Latest(_ context.Context, base domain.Currency, symbols ...domain.Currency) (map[domain.Currency]decimal.Decimal, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := map[domain.Currency]decimal.Decimal{}
	for _, s := range symbols {
		if r, ok := f.rates[string(base)+"/"+string(s)]; ok {
			out[s] = r
		}
	}
	return out, nil
}

func (f *fakeRateProvider) Currencies(context.Context) ([]domain.Currency, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.list, nil
}

type fakeClock struct{ d domain.Date }

func (f fakeClock) Today() domain.Date { return f.d }

type fixture struct {
	prices   *fakeSeriesProvider
	searcher *fakeSearcher
	rates    *fakeRateProvider
	svc      *ValuationService
}

func newFixture(opts ...Option) *fixture {
	f := &fixture{
		prices: &fakeSeriesProvider{series: map[string]domain.DailySeries{
			"AAPL": seriesOf("2025-04-07", "100", "2025-04-04", "90"),
			"SAP":  seriesOf("2025-04-07", "200", "2025-04-04", "210"),
			"ZERO": seriesOf("2025-04-07", "10", "2025-04-04", "0"),
		}},
		searcher: &fakeSearcher{currency: map[string]domain.Currency{
			"AAPL": "USD",
			"SAP":  "EUR",
			"ZERO": "USD",
		}},
		rates: &fakeRateProvider{
			rates: map[string]decimal.Decimal{"EUR/USD": dec("1.1")},
			list:  []domain.Currency{"USD", "EUR", "GBP"},
		},
	}
	f.svc = NewValuationService(
		NewSeriesCache(f.prices, NewMemoryCache[domain.DailySeries](), nil),
		NewCurrencyLookup(f.searcher, NewMemoryCache[domain.Currency](), nil),
		NewRateResolver(f.rates, NewMemoryCache[decimal.Decimal](), nil),
		opts...,
	)
	return f
}
