package domain

import "github.com/shopspring/decimal"

// ExchangeRate converts one unit of From into Rate units of To, as of the
// provider's latest quote.
type ExchangeRate struct {
	From Currency
	To   Currency
	Rate decimal.Decimal
	// Fallback marks a rate of 1 used because the pair is unknown.
	Fallback bool
}

// Identity is the rate of a currency into itself.
func Identity(c Currency) ExchangeRate {
	return ExchangeRate{From: c, To: c, Rate: decimal.NewFromInt(1)}
}

// Convert returns amount expressed in To.
func (r ExchangeRate) Convert(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(r.Rate)
}
