package domain

import "errors"

var (
	ErrBadFormat           = errors.New("bad date format")
	ErrRateLimited         = errors.New("provider rate limited")
	ErrProviderError       = errors.New("provider error")
	ErrNoMatch             = errors.New("no currency match")
	ErrInvalidCurrencyPair = errors.New("invalid currency pair")
	ErrNoDataBeforeFloor   = errors.New("no trading data before floor year")
	ErrDivisionByZero      = errors.New("reference price is zero")
	ErrInvalidCurrency     = errors.New("invalid currency")
	ErrNoHoldings          = errors.New("no holdings")
)
