package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 code such as "USD".
type Currency string

// DefaultBase is used when no base currency is configured.
const DefaultBase Currency = "USD"

var currencyRe = regexp.MustCompile(`^[A-Z]{3}$`)

// ParseCurrency normalizes s to upper case and checks it against the ISO 4217 table.
func ParseCurrency(s string) (Currency, error) {
	code := strings.ToUpper(strings.TrimSpace(s))
	// Format first, then membership.
	if !currencyRe.MatchString(code) || money.GetCurrency(code) == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, s)
	}
	return Currency(code), nil
}

func (c Currency) String() string { return string(c) }

// Format renders amount with the currency's symbol and minor units, e.g. "$1,234.50".
// Unknown codes fall back to "<amount> <code>".
func (c Currency) Format(amount decimal.Decimal) string {
	cur := money.GetCurrency(string(c))
	if cur == nil {
		return amount.StringFixed(2) + " " + string(c)
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}
