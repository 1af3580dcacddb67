package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"stockval/internal/application"
	"stockval/internal/domain"
	"stockval/internal/infrastructure/httpx"

	"github.com/shopspring/decimal"
)

const frankfurterLatestPath = "/latest"

// FrankfurterProvider reads latest ECB reference rates from a Frankfurter API.
type FrankfurterProvider struct {
	BaseURL string
	Client  *httpx.Client
}

var _ application.RateProvider = (*FrankfurterProvider)(nil)

type frankfurterLatestResp struct {
	Amount decimal.Decimal            `json:"amount"`
	Base   string                     `json:"base"`
	Date   string                     `json:"date"`
	Rates  map[string]decimal.Decimal `json:"rates"`
}

func (p *FrankfurterProvider) Latest(ctx context.Context, base domain.Currency, symbols ...domain.Currency) (map[domain.Currency]decimal.Decimal, error) {
	q := url.Values{}
	if base != "" {
		q.Set("base", string(base))
	}
	if len(symbols) > 0 {
		codes := make([]string, len(symbols))
		for i, s := range symbols {
			codes[i] = string(s)
		}
		q.Set("symbols", strings.Join(codes, ","))
	}

	body, err := p.latest(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make(map[domain.Currency]decimal.Decimal, len(body.Rates))
	for code, rate := range body.Rates {
		out[domain.Currency(code)] = rate
	}
	return out, nil
}

// Currencies lists the base of an unfiltered latest call plus every quoted code.
func (p *FrankfurterProvider) Currencies(ctx context.Context) ([]domain.Currency, error) {
	body, err := p.latest(ctx, url.Values{})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Currency, 0, len(body.Rates)+1)
	if body.Base != "" {
		out = append(out, domain.Currency(body.Base))
	}
	for code := range body.Rates {
		out = append(out, domain.Currency(code))
	}
	return out, nil
}

func (p *FrankfurterProvider) latest(ctx context.Context, q url.Values) (frankfurterLatestResp, error) {
	if p.BaseURL == "" {
		return frankfurterLatestResp{}, errors.New("frankfurter: missing configuration")
	}
	u, err := url.Parse(strings.TrimRight(p.BaseURL, "/") + frankfurterLatestPath)
	if err != nil {
		return frankfurterLatestResp{}, fmt.Errorf("frankfurter: invalid base url: %w", err)
	}
	u.RawQuery = q.Encode()

	client := p.Client
	if client == nil {
		client = &httpx.Client{}
	}
	var body frankfurterLatestResp
	err = client.GetJSON(ctx, u.String(), &body)
	var se *httpx.StatusError
	switch {
	case errors.As(err, &se) && (se.Code == http.StatusNotFound || se.Code == http.StatusUnprocessableEntity):
		// unknown currency code: same as an empty rate set
		return frankfurterLatestResp{}, nil
	case errors.As(err, &se):
		return frankfurterLatestResp{}, fmt.Errorf("%w: frankfurter: %v", domain.ErrProviderError, err)
	case err != nil:
		return frankfurterLatestResp{}, fmt.Errorf("frankfurter: %w", err)
	}
	return body, nil
}
