package provider

import (
	"context"
	"hash/fnv"
	"time"

	"stockval/internal/application"
	"stockval/internal/domain"

	"github.com/shopspring/decimal"
)

// Ensure Fake implements the provider ports.
var (
	_ application.SeriesProvider = (*Fake)(nil)
	_ application.SymbolSearcher = (*Fake)(nil)
	_ application.RateProvider   = (*Fake)(nil)
)

// Fake serves deterministic data for offline runs: a 100-weekday series per
// symbol, every symbol quoted in Currency, and fixed rates against USD.
type Fake struct {
	Currency domain.Currency
	// USDRates holds how many units of each currency one USD buys.
	USDRates map[domain.Currency]decimal.Decimal
	clock    func() time.Time
}

func NewFake() *Fake {
	return &Fake{
		Currency: "USD",
		USDRates: map[domain.Currency]decimal.Decimal{
			"USD": decimal.NewFromInt(1),
			"EUR": decimal.RequireFromString("0.9"),
			"GBP": decimal.RequireFromString("0.8"),
			"JPY": decimal.NewFromInt(150),
		},
		clock: time.Now,
	}
}

func (f *Fake) DailySeries(_ context.Context, symbol string) (domain.DailySeries, error) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(symbol))
	price := decimal.NewFromInt(int64(50 + h.Sum32()%450))
	step := decimal.RequireFromString("0.25")

	out := domain.DailySeries{}
	d := f.clock().UTC()
	for n := 0; n < 100; d = d.AddDate(0, 0, -1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		out[d.Format(domain.DateFormat)] = domain.Bar{Close: price}
		price = price.Sub(step)
		n++
	}
	return out, nil
}

func (f *Fake) SearchSymbol(_ context.Context, keywords string) ([]domain.SymbolMatch, error) {
	return []domain.SymbolMatch{{Symbol: keywords, Name: keywords, Region: "Fake", Currency: f.Currency}}, nil
}

func (f *Fake) Latest(_ context.Context, base domain.Currency, symbols ...domain.Currency) (map[domain.Currency]decimal.Decimal, error) {
	if base == "" {
		base = "USD"
	}
	perBase, ok := f.USDRates[base]
	if !ok {
		return map[domain.Currency]decimal.Decimal{}, nil
	}
	out := map[domain.Currency]decimal.Decimal{}
	for _, s := range symbols {
		if perS, ok := f.USDRates[s]; ok {
			out[s] = perS.Div(perBase)
		}
	}
	return out, nil
}

func (f *Fake) Currencies(context.Context) ([]domain.Currency, error) {
	out := make([]domain.Currency, 0, len(f.USDRates))
	for c := range f.USDRates {
		out = append(out, c)
	}
	return out, nil
}
