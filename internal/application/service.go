package application

import (
	"context"
	"errors"
	"fmt"

	"stockval/internal/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var hundred = decimal.NewFromInt(100)

type ValuationService struct {
	series     *SeriesCache
	currencies *CurrencyLookup
	rates      *RateResolver

	defaultBase domain.Currency
	floorYear   int
	strict      bool
	clock       Clock
	log         *zap.Logger
}

type Option func(*ValuationService)

func WithClock(c Clock) Option                 { return func(s *ValuationService) { s.clock = c } }
func WithLogger(l *zap.Logger) Option          { return func(s *ValuationService) { s.log = l } }
func WithFloorYear(y int) Option               { return func(s *ValuationService) { s.floorYear = y } }
func WithDefaultBase(c domain.Currency) Option { return func(s *ValuationService) { s.defaultBase = c } }
func WithStrictConversion(strict bool) Option  { return func(s *ValuationService) { s.strict = strict } }

func NewValuationService(series *SeriesCache, currencies *CurrencyLookup, rates *RateResolver, opts ...Option) *ValuationService {
	s := &ValuationService{
		series:     series,
		currencies: currencies,
		rates:      rates,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = realClock{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.defaultBase == "" {
		s.defaultBase = domain.DefaultBase
	}
	if s.floorYear == 0 {
		s.floorYear = 2000
	}
	return s
}

// DefaultBase is the base currency used when a call passes "".
func (s *ValuationService) DefaultBase() domain.Currency { return s.defaultBase }

// CloseValue returns the close of symbol on the last trading day at or
// before date ("" means today), converted into base.
func (s *ValuationService) CloseValue(ctx context.Context, symbol, date string, base domain.Currency) (domain.Valuation, error) {
	symbol = normalizeSymbol(symbol)
	if date == "" {
		date = s.clock.Today().String()
	}
	base = s.base(base)
	fail := func(err error) (domain.Valuation, error) {
		return domain.Valuation{}, &ValuationError{Symbol: symbol, Date: date, Err: err}
	}
	if _, err := domain.ParseDate(date); err != nil {
		return fail(err)
	}

	series, err := s.series.FetchSeries(ctx, symbol)
	if err != nil {
		return fail(err)
	}
	day, err := ResolveTradingDay(series, date, s.floorYear)
	if err != nil {
		return fail(err)
	}
	conv, err := s.conversion(ctx, symbol, base)
	if err != nil {
		return fail(err)
	}
	v := valuationOn(symbol, date, day, series, conv)
	s.log.Debug("close_value",
		zap.String("symbol", symbol),
		zap.String("date", date),
		zap.String("trading_day", day),
		zap.String("value", v.Value.String()),
		zap.String("base", string(base)),
	)
	return v, nil
}

// PortfolioValue values every holding on asOf ("" means today) and sums them.
// If any holding fails the whole call fails with a *PortfolioError naming
// each failed symbol; no partial total is returned.
func (s *ValuationService) PortfolioValue(ctx context.Context, holdings []domain.Holding, asOf string, base domain.Currency) (domain.PortfolioValuation, error) {
	if len(holdings) == 0 {
		return domain.PortfolioValuation{}, domain.ErrNoHoldings
	}
	if asOf == "" {
		asOf = s.clock.Today().String()
	}
	base = s.base(base)

	out := domain.PortfolioValuation{Date: asOf, Base: base, Total: decimal.Zero}
	var failures []*ValuationError
	for _, h := range holdings {
		v, err := s.CloseValue(ctx, h.Symbol, asOf, base)
		if err != nil {
			var ve *ValuationError
			if !errors.As(err, &ve) {
				ve = &ValuationError{Symbol: h.Symbol, Date: asOf, Err: err}
			}
			failures = append(failures, ve)
			continue
		}
		line := domain.Line{Holding: h, Valuation: v, Value: v.Value.Mul(h.Quantity)}
		out.Lines = append(out.Lines, line)
		out.Total = out.Total.Add(line.Value)
	}
	if len(failures) > 0 {
		s.log.Warn("portfolio_incomplete", zap.String("date", asOf), zap.Int("failed", len(failures)), zap.Int("holdings", len(holdings)))
		return domain.PortfolioValuation{}, &PortfolioError{Date: asOf, Failures: failures}
	}
	s.log.Info("portfolio_valued", zap.String("date", asOf), zap.String("base", string(base)), zap.String("total", out.Total.String()))
	return out, nil
}

// PercentChange compares the converted close on day1 against day2 from a
// single series fetch: (day1 - day2) / day2 * 100.
func (s *ValuationService) PercentChange(ctx context.Context, symbol, day1, day2 string, base domain.Currency) (domain.Change, error) {
	symbol = normalizeSymbol(symbol)
	base = s.base(base)
	fail := func(date string, err error) (domain.Change, error) {
		return domain.Change{}, &ValuationError{Symbol: symbol, Date: date, Err: err}
	}
	for _, d := range []string{day1, day2} {
		if _, err := domain.ParseDate(d); err != nil {
			return fail(d, err)
		}
	}

	series, err := s.series.FetchSeries(ctx, symbol)
	if err != nil {
		return fail("", err)
	}
	td1, err := ResolveTradingDay(series, day1, s.floorYear)
	if err != nil {
		return fail(day1, err)
	}
	td2, err := ResolveTradingDay(series, day2, s.floorYear)
	if err != nil {
		return fail(day2, err)
	}
	conv, err := s.conversion(ctx, symbol, base)
	if err != nil {
		return fail("", err)
	}

	v1 := valuationOn(symbol, day1, td1, series, conv)
	v2 := valuationOn(symbol, day2, td2, series, conv)
	if v2.Value.IsZero() {
		return fail(day2, fmt.Errorf("%w: %s close on %s", domain.ErrDivisionByZero, symbol, td2))
	}
	pct := v1.Value.Sub(v2.Value).Div(v2.Value).Mul(hundred)
	s.log.Info("percent_change",
		zap.String("symbol", symbol),
		zap.String("day1", day1),
		zap.String("day2", day2),
		zap.String("percent", pct.StringFixed(4)),
	)
	return domain.Change{Symbol: symbol, Day1: v1, Day2: v2, Percent: pct}, nil
}

// RefreshSeries replaces the cached series of symbol with a fresh fetch.
func (s *ValuationService) RefreshSeries(ctx context.Context, symbol string) error {
	return s.series.Refresh(ctx, symbol)
}

// Currencies lists the codes usable as a base currency.
func (s *ValuationService) Currencies(ctx context.Context) ([]domain.Currency, error) {
	return s.rates.Currencies(ctx)
}

// CheckCurrency validates code as a base currency: it must be an ISO code
// the rate provider knows.
func (s *ValuationService) CheckCurrency(ctx context.Context, code string) (domain.Currency, error) {
	c, err := domain.ParseCurrency(code)
	if err != nil {
		return "", err
	}
	ok, err := s.rates.Supports(ctx, c)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: %s is not offered by the rate provider", domain.ErrInvalidCurrency, c)
	}
	return c, nil
}

func (s *ValuationService) base(c domain.Currency) domain.Currency {
	if c == "" {
		return s.defaultBase
	}
	return c
}

// conversion resolves the rate from symbol's native currency into base. An
// unknown native currency falls back to base; an unknown pair falls back to
// a rate of 1 unless strict conversion is on. Other failures propagate.
func (s *ValuationService) conversion(ctx context.Context, symbol string, base domain.Currency) (domain.ExchangeRate, error) {
	native, err := s.currencies.ResolveCurrency(ctx, symbol)
	switch {
	case errors.Is(err, domain.ErrNoMatch):
		s.log.Warn("currency_fallback_base", zap.String("symbol", symbol), zap.String("base", string(base)))
		native = base
	case err != nil:
		return domain.ExchangeRate{}, err
	}

	rate, err := s.rates.Rate(ctx, native, base)
	switch {
	case errors.Is(err, domain.ErrInvalidCurrencyPair) && !s.strict:
		s.log.Warn("rate_fallback_identity", zap.String("symbol", symbol), zap.String("from", string(native)), zap.String("to", string(base)))
		fallback := domain.Identity(native)
		fallback.To, fallback.Fallback = base, true
		return fallback, nil
	case err != nil:
		return domain.ExchangeRate{}, err
	}
	return rate, nil
}

func valuationOn(symbol, date, day string, series domain.DailySeries, conv domain.ExchangeRate) domain.Valuation {
	closePrice := series[day].Close
	return domain.Valuation{
		Symbol:       symbol,
		Date:         date,
		TradingDay:   day,
		Native:       conv.From,
		Base:         conv.To,
		Close:        closePrice,
		Rate:         conv.Rate,
		Value:        conv.Convert(closePrice),
		RateFallback: conv.Fallback,
	}
}
