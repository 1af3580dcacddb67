package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestParseCurrency(t *testing.T) {
	c, err := ParseCurrency(" eur ")
	require.NoError(t, err)
	require.Equal(t, Currency("EUR"), c)

	for _, bad := range []string{"", "EU", "EURO", "E1R", "XXZ"} {
		_, err := ParseCurrency(bad)
		require.Error(t, err, bad)
		require.True(t, errors.Is(err, ErrInvalidCurrency), bad)
	}
}

func TestCurrencyFormat(t *testing.T) {
	require.Equal(t, "$1,234.50", Currency("USD").Format(decimal.RequireFromString("1234.5")))
	require.Equal(t, "12.35 ZZZ", Currency("ZZZ").Format(decimal.RequireFromString("12.345")))
}

func TestDailySeriesDates_Sorted(t *testing.T) {
	s := DailySeries{
		"2025-04-07": {Close: decimal.NewFromInt(100)},
		"2025-04-03": {Close: decimal.NewFromInt(80)},
		"2025-04-04": {Close: decimal.NewFromInt(90)},
	}
	require.Equal(t, []string{"2025-04-03", "2025-04-04", "2025-04-07"}, s.Dates())
}
