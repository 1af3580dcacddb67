package application

import (
	"fmt"

	"stockval/internal/domain"
)

// ResolveTradingDay returns the latest key of series at or before date.
// It walks back one calendar day at a time and gives up with
// domain.ErrNoDataBeforeFloor once the year drops below floorYear.
func ResolveTradingDay(series domain.DailySeries, date string, floorYear int) (string, error) {
	d, err := domain.ParseDate(date)
	if err != nil {
		return "", err
	}
	for {
		key := d.String()
		if _, ok := series[key]; ok {
			return key, nil
		}
		d = d.StepBack()
		if d.Year() < floorYear {
			return "", fmt.Errorf("%w: nothing at or before %s (floor %d)", domain.ErrNoDataBeforeFloor, date, floorYear)
		}
	}
}
