package provider

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"stockval/internal/application"
	"stockval/internal/domain"
	"stockval/internal/infrastructure/httpx"

	"github.com/shopspring/decimal"
)

const alphaVantageQueryPath = "/query"

// AlphaVantageProvider serves daily series and symbol search.
type AlphaVantageProvider struct {
	BaseURL string
	APIKey  string
	Client  *httpx.Client
}

var (
	_ application.SeriesProvider = (*AlphaVantageProvider)(nil)
	_ application.SymbolSearcher = (*AlphaVantageProvider)(nil)
)

// avStatus holds the fields Alpha Vantage uses instead of HTTP status codes.
type avStatus struct {
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
}

// err classifies the payload. Throttling arrives as "Note", or as an
// "Information" text about the request rate; anything else there is an
// upstream error.
func (s avStatus) err() error {
	switch {
	case s.Note != "":
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, s.Note)
	case s.ErrorMessage != "":
		return fmt.Errorf("%w: %s", domain.ErrProviderError, s.ErrorMessage)
	case s.Information != "" && isRateLimitText(s.Information):
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, s.Information)
	case s.Information != "":
		return fmt.Errorf("%w: %s", domain.ErrProviderError, s.Information)
	}
	return nil
}

func isRateLimitText(s string) bool {
	s = strings.ToLower(s)
	return strings.Contains(s, "rate limit") || strings.Contains(s, "call frequency")
}

type avDailyResp struct {
	avStatus
	Series map[string]struct {
		Close string `json:"4. close"`
	} `json:"Time Series (Daily)"`
}

type avSearchResp struct {
	avStatus
	BestMatches []struct {
		Symbol   string `json:"1. symbol"`
		Name     string `json:"2. name"`
		Region   string `json:"4. region"`
		Currency string `json:"8. currency"`
	} `json:"bestMatches"`
}

func (p *AlphaVantageProvider) DailySeries(ctx context.Context, symbol string) (domain.DailySeries, error) {
	var body avDailyResp
	err := p.query(ctx, url.Values{
		"function":   {"TIME_SERIES_DAILY"},
		"symbol":     {symbol},
		"outputsize": {"compact"},
	}, &body)
	if err != nil {
		return nil, err
	}
	if err := body.err(); err != nil {
		return nil, err
	}
	if body.Series == nil {
		return nil, fmt.Errorf("%w: alphavantage: no daily series for %s", domain.ErrProviderError, symbol)
	}

	out := make(domain.DailySeries, len(body.Series))
	for day, bar := range body.Series {
		c, err := decimal.NewFromString(bar.Close)
		if err != nil {
			return nil, fmt.Errorf("%w: alphavantage: close %q on %s: %v", domain.ErrProviderError, bar.Close, day, err)
		}
		out[day] = domain.Bar{Close: c}
	}
	return out, nil
}

func (p *AlphaVantageProvider) SearchSymbol(ctx context.Context, keywords string) ([]domain.SymbolMatch, error) {
	var body avSearchResp
	err := p.query(ctx, url.Values{
		"function": {"SYMBOL_SEARCH"},
		"keywords": {keywords},
	}, &body)
	if err != nil {
		return nil, err
	}
	if err := body.err(); err != nil {
		return nil, err
	}
	out := make([]domain.SymbolMatch, 0, len(body.BestMatches))
	for _, m := range body.BestMatches {
		out = append(out, domain.SymbolMatch{
			Symbol:   m.Symbol,
			Name:     m.Name,
			Region:   m.Region,
			Currency: domain.Currency(strings.ToUpper(m.Currency)),
		})
	}
	return out, nil
}

func (p *AlphaVantageProvider) query(ctx context.Context, q url.Values, out any) error {
	if p.BaseURL == "" || p.APIKey == "" {
		return errors.New("alphavantage: missing configuration")
	}
	u, err := url.Parse(strings.TrimRight(p.BaseURL, "/") + alphaVantageQueryPath)
	if err != nil {
		return fmt.Errorf("alphavantage: invalid base url: %w", err)
	}
	q.Set("apikey", p.APIKey)
	u.RawQuery = q.Encode()

	client := p.Client
	if client == nil {
		client = &httpx.Client{}
	}
	if err := client.GetJSON(ctx, u.String(), out); err != nil {
		var se *httpx.StatusError
		if errors.As(err, &se) {
			return fmt.Errorf("%w: alphavantage: %v", domain.ErrProviderError, err)
		}
		return fmt.Errorf("alphavantage: %w", err)
	}
	return nil
}
