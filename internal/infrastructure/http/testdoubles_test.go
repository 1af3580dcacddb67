package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"stockval/internal/application"
	"stockval/internal/domain"

	"github.com/shopspring/decimal"
)

type stubMarket struct {
	series   map[string]domain.DailySeries
	currency map[string]domain.Currency
	rates    map[string]decimal.Decimal
	errs     map[string]error
}

func (m *stubMarket) DailySeries(_ context.Context, symbol string) (domain.DailySeries, error) {
	if err := m.errs[symbol]; err != nil {
		return nil, err
	}
	s, ok := m.series[symbol]
	if !ok {
		return nil, domain.ErrProviderError
	}
	return s, nil
}

func (m *stubMarket) SearchSymbol(_ context.Context, keywords string) ([]domain.SymbolMatch, error) {
	c, ok := m.currency[keywords]
	if !ok {
		return nil, nil
	}
	return []domain.SymbolMatch{{Symbol: keywords, Currency: c}}, nil
}

func (m *stubMarket) Latest(_ context.Context, base domain.Currency, symbols ...domain.Currency) (map[domain.Currency]decimal.Decimal, error) {
	out := map[domain.Currency]decimal.Decimal{}
	for _, s := range symbols {
		if r, ok := m.rates[string(base)+"/"+string(s)]; ok {
			out[s] = r
		}
	}
	return out, nil
}

func (m *stubMarket) Currencies(context.Context) ([]domain.Currency, error) {
	return []domain.Currency{"USD", "EUR"}, nil
}

func bars(kv ...string) domain.DailySeries {
	out := domain.DailySeries{}
	for i := 0; i+1 < len(kv); i += 2 {
		out[kv[i]] = domain.Bar{Close: decimal.RequireFromString(kv[i+1])}
	}
	return out
}

func newStubMarket() *stubMarket {
	return &stubMarket{
		series: map[string]domain.DailySeries{
			"AAPL": bars("2025-04-07", "100", "2025-04-04", "90"),
			"SAP":  bars("2025-04-07", "200", "2025-04-04", "210"),
			"ZERO": bars("2025-04-07", "10", "2025-04-04", "0"),
		},
		currency: map[string]domain.Currency{"AAPL": "USD", "SAP": "EUR", "ZERO": "USD"},
		rates:    map[string]decimal.Decimal{"EUR/USD": decimal.RequireFromString("1.1"), "USD/EUR": decimal.RequireFromString("0.5")},
		errs:     map[string]error{},
	}
}

func setup(m *stubMarket) (*Server, http.Handler) {
	svc := application.NewValuationService(
		application.NewSeriesCache(m, nil, nil),
		application.NewCurrencyLookup(m, nil, nil),
		application.NewRateResolver(m, nil, nil),
	)
	srv := NewServer(svc)
	return srv, NewRouter(srv)
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
