package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"stockval/internal/domain"

	"go.uber.org/zap"
)

// CurrencyLookup resolves the currency a symbol is quoted in.
type CurrencyLookup struct {
	searcher SymbolSearcher
	memo     *memo[domain.Currency]
	log      *zap.Logger
}

func NewCurrencyLookup(searcher SymbolSearcher, cache Cache[domain.Currency], log *zap.Logger) *CurrencyLookup {
	if log == nil {
		log = zap.NewNop()
	}
	memo := newMemo("currency", cache, log).rememberErrors(func(err error) bool {
		return errors.Is(err, domain.ErrNoMatch)
	})
	return &CurrencyLookup{
		searcher: searcher,
		memo:     memo,
		log:      log,
	}
}

// ResolveCurrency returns the currency of the best search match for symbol,
// or domain.ErrNoMatch. Both outcomes are cached per symbol.
func (l *CurrencyLookup) ResolveCurrency(ctx context.Context, symbol string) (domain.Currency, error) {
	key := normalizeSymbol(symbol)
	return l.memo.get(ctx, key, func(ctx context.Context) (domain.Currency, error) {
		matches, err := l.searcher.SearchSymbol(ctx, key)
		if err != nil {
			return "", err
		}
		if len(matches) == 0 {
			l.log.Info("currency_no_match", zap.String("symbol", key))
			return "", fmt.Errorf("%w for %s", domain.ErrNoMatch, key)
		}
		cur := domain.Currency(strings.ToUpper(strings.TrimSpace(string(matches[0].Currency))))
		if cur == "" {
			return "", fmt.Errorf("%w for %s: best match has no currency", domain.ErrNoMatch, key)
		}
		return cur, nil
	})
}
