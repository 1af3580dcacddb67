package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsValidDate(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"2025-04-07", true},
		{"25-4-7", false},
		{"2025-4-07", false},
		{"3025-04-07", false},
		{"2025-04-07T00:00", false},
		{"", false},
		// day must start with 0-3
		{"2025-13-40", false},
		// shape only: not calendar dates but accepted
		{"2025-13-39", true},
		{"2025-19-39", true},
	}
	for _, c := range cases {
		if got := IsValidDate(c.in); got != c.want {
			t.Fatalf("IsValidDate(%q)=%v want %v", c.in, got, c.want)
		}
	}
}

func TestParseDate_RejectsNonCalendarDates(t *testing.T) {
	for _, s := range []string{"2025-19-39", "2025-02-30", "2025-00-10", "25-4-7"} {
		_, err := ParseDate(s)
		require.Error(t, err, s)
		require.True(t, errors.Is(err, ErrBadFormat), s)
	}
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	require.Equal(t, "2024-02-29", d.String())
}

func TestStepBack_CrossesBoundaries(t *testing.T) {
	cases := map[string]string{
		"2025-04-07": "2025-04-06",
		"2025-03-01": "2025-02-28",
		"2024-03-01": "2024-02-29",
		"2025-05-01": "2025-04-30",
		"2024-01-01": "2023-12-31",
		"2000-01-01": "1999-12-31",
	}
	for in, want := range cases {
		d, err := ParseDate(in)
		require.NoError(t, err)
		require.Equal(t, want, d.StepBack().String(), in)
	}
}

func TestToday(t *testing.T) {
	d := Today()
	require.False(t, d.IsZero())
	require.True(t, IsValidDate(d.String()))
}
