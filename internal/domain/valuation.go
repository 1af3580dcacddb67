package domain

import "github.com/shopspring/decimal"

// Holding is a quantity of one symbol in a portfolio.
type Holding struct {
	Symbol   string
	Quantity decimal.Decimal
}

// Valuation is the converted close of a symbol on a requested date.
type Valuation struct {
	Symbol     string
	Date       string // as requested
	TradingDay string // the series key actually used
	Native     Currency
	Base       Currency
	Close      decimal.Decimal // in Native
	Rate       decimal.Decimal // Native -> Base
	Value      decimal.Decimal // Close * Rate, in Base
	// RateFallback is set when no rate could be resolved and 1 was used.
	RateFallback bool
}

// Line is one valued holding of a portfolio.
type Line struct {
	Holding   Holding
	Valuation Valuation
	Value     decimal.Decimal // Valuation.Value * Quantity
}

type PortfolioValuation struct {
	Date  string
	Base  Currency
	Lines []Line
	Total decimal.Decimal
}

// Change is the move of Day1's converted close relative to Day2's,
// in percent: (Day1 - Day2) / Day2 * 100.
type Change struct {
	Symbol  string
	Day1    Valuation
	Day2    Valuation
	Percent decimal.Decimal
}
