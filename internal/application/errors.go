package application

import (
	"fmt"
	"strings"
)

// ValuationError names the symbol and date a valuation failed for.
// The cause is one of the domain sentinels, reachable with errors.Is.
type ValuationError struct {
	Symbol string
	Date   string
	Err    error
}

func (e *ValuationError) Error() string {
	if e.Date == "" {
		return fmt.Sprintf("%s: %v", e.Symbol, e.Err)
	}
	return fmt.Sprintf("%s on %s: %v", e.Symbol, e.Date, e.Err)
}

func (e *ValuationError) Unwrap() error { return e.Err }

// PortfolioError lists every holding that could not be valued.
type PortfolioError struct {
	Date     string
	Failures []*ValuationError
}

func (e *PortfolioError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, f.Error())
	}
	return fmt.Sprintf("portfolio on %s: %d holding(s) failed: %s", e.Date, len(e.Failures), strings.Join(parts, "; "))
}

func (e *PortfolioError) Unwrap() []error {
	out := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		out[i] = f
	}
	return out
}

// Symbols returns the failing symbols in input order.
func (e *PortfolioError) Symbols() []string {
	out := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		out[i] = f.Symbol
	}
	return out
}
