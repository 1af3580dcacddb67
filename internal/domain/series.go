package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Bar is one trading day of a daily series.
type Bar struct {
	Close decimal.Decimal `json:"close"`
}

// DailySeries maps ISO dates (YYYY-MM-DD) to the bar recorded on that day.
// A series is never mutated after it is fetched.
type DailySeries map[string]Bar

// Dates returns the trading days in ascending order.
func (s DailySeries) Dates() []string {
	out := make([]string, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
