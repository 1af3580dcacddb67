package domain

import (
	"fmt"
	"regexp"
	"time"
)

// DateFormat is the ISO layout used for series keys and user input.
const DateFormat = "2006-01-02"

// dateRe checks shape only: "2025-13-39" matches. ParseDate adds the
// calendar check on top of it.
var dateRe = regexp.MustCompile(`^[0-2][0-9][0-9][0-9]-[0-1][0-9]-[0-3][0-9]$`)

// IsValidDate reports whether s has the YYYY-MM-DD shape.
func IsValidDate(s string) bool {
	return dateRe.MatchString(s)
}

// Date is a calendar day with no time component.
type Date struct {
	t time.Time
}

// NewDate returns the normalized date for year, month, day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current local date.
func Today() Date {
	return NewDate(time.Now().Date())
}

// ParseDate accepts only strings that pass IsValidDate and name a real calendar day.
func ParseDate(s string) (Date, error) {
	if !IsValidDate(s) {
		return Date{}, fmt.Errorf("%w: %q want YYYY-MM-DD", ErrBadFormat, s)
	}
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q is not a calendar date", ErrBadFormat, s)
	}
	return Date{t: t}, nil
}

// StepBack returns the previous calendar day.
func (d Date) StepBack() Date { return Date{t: d.t.AddDate(0, 0, -1)} }

func (d Date) Year() int { return d.t.Year() }

func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) Before(x Date) bool { return d.t.Before(x.t) }

func (d Date) String() string { return d.t.Format(DateFormat) }
