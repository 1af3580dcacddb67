package provider_test

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"stockval/internal/domain"
	"stockval/internal/infrastructure/provider"

	"github.com/stretchr/testify/require"
)

const sampleDaily = `{
	"Meta Data": {
		"1. Information": "Daily Prices (open, high, low, close) and Volumes",
		"2. Symbol": "IBM"
	},
	"Time Series (Daily)": {
		"2025-04-07": {
			"1. open": "185.00",
			"2. high": "186.50",
			"3. low": "184.50",
			"4. close": "186.20",
			"5. volume": "3456789"
		},
		"2025-04-04": {
			"1. open": "184.50",
			"2. high": "185.50",
			"3. low": "184.00",
			"4. close": "185.00",
			"5. volume": "3214567"
		}
	}
}`

const sampleSearch = `{
	"bestMatches": [
		{
			"1. symbol": "SAP.DEX",
			"2. name": "SAP SE",
			"3. type": "Equity",
			"4. region": "XETRA",
			"8. currency": "EUR",
			"9. matchScore": "1.0000"
		},
		{
			"1. symbol": "SAP",
			"2. name": "SAP SE ADR",
			"4. region": "United States",
			"8. currency": "USD"
		}
	]
}`

func avProvider(body string, code int, lastURL *string) *provider.AlphaVantageProvider {
	return &provider.AlphaVantageProvider{
		BaseURL: "https://www.alphavantage.co",
		APIKey:  "demo",
		Client:  httpClient(body, code, lastURL),
	}
}

func TestDailySeries_Parses(t *testing.T) {
	var got string
	p := avProvider(sampleDaily, 200, &got)
	s, err := p.DailySeries(context.Background(), "IBM")
	require.NoError(t, err)
	require.Len(t, s, 2)
	require.Equal(t, "186.2", s["2025-04-07"].Close.String())
	require.Equal(t, "185", s["2025-04-04"].Close.String())

	u, err := url.Parse(got)
	require.NoError(t, err)
	require.Equal(t, "/query", u.Path)
	require.Equal(t, "TIME_SERIES_DAILY", u.Query().Get("function"))
	require.Equal(t, "IBM", u.Query().Get("symbol"))
	require.Equal(t, "compact", u.Query().Get("outputsize"))
	require.Equal(t, "demo", u.Query().Get("apikey"))
}

func TestDailySeries_Classification(t *testing.T) {
	cases := []struct {
		name string
		body string
		want error
	}{
		{"note", `{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`, domain.ErrRateLimited},
		{"information rate limit", `{"Information": "Our standard API rate limit is 25 requests per day."}`, domain.ErrRateLimited},
		{"information other", `{"Information": "The demo API key is for demo purposes only."}`, domain.ErrProviderError},
		{"error message", `{"Error Message": "Invalid API call. Please retry or visit the documentation."}`, domain.ErrProviderError},
		{"empty", `{}`, domain.ErrProviderError},
		{"bad close", `{"Time Series (Daily)": {"2025-04-07": {"4. close": "n/a"}}}`, domain.ErrProviderError},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := avProvider(tt.body, 200, nil).DailySeries(context.Background(), "XYZ")
			require.Error(t, err)
			require.True(t, errors.Is(err, tt.want), err.Error())
		})
	}
}

func TestDailySeries_HTTPError(t *testing.T) {
	_, err := avProvider(`bad gateway`, 502, nil).DailySeries(context.Background(), "IBM")
	require.ErrorIs(t, err, domain.ErrProviderError)
}

func TestSearchSymbol(t *testing.T) {
	var got string
	p := avProvider(sampleSearch, 200, &got)
	m, err := p.SearchSymbol(context.Background(), "SAP")
	require.NoError(t, err)
	require.Len(t, m, 2)
	require.Equal(t, "SAP.DEX", m[0].Symbol)
	require.Equal(t, domain.Currency("EUR"), m[0].Currency)
	require.Equal(t, "XETRA", m[0].Region)

	u, _ := url.Parse(got)
	require.Equal(t, "SYMBOL_SEARCH", u.Query().Get("function"))
	require.Equal(t, "SAP", u.Query().Get("keywords"))
}

func TestSearchSymbol_NoMatches(t *testing.T) {
	m, err := avProvider(`{"bestMatches": []}`, 200, nil).SearchSymbol(context.Background(), "NOPE")
	require.NoError(t, err)
	require.Empty(t, m)
}

func TestAlphaVantage_MissingKey(t *testing.T) {
	p := &provider.AlphaVantageProvider{BaseURL: "https://www.alphavantage.co"}
	_, err := p.DailySeries(context.Background(), "IBM")
	require.Error(t, err)
}
