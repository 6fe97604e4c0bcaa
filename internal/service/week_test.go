package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekBounds(t *testing.T) {
	cases := []struct {
		ref, start, end string
	}{
		{"2026-02-02", "2026-02-02", "2026-02-08"}, // Monday
		{"2026-02-07", "2026-02-02", "2026-02-08"}, // Saturday
		{"2026-02-08", "2026-02-02", "2026-02-08"}, // Sunday
		{"2026-02-09", "2026-02-09", "2026-02-15"},
		{"2026-01-01", "2025-12-29", "2026-01-04"}, // across a year
		{"2024-02-29", "2024-02-26", "2024-03-03"}, // leap day
	}
	for _, tc := range cases {
		start, end, err := WeekBoundsOf(tc.ref)
		require.NoError(t, err)
		assert.Equal(t, tc.start, start, tc.ref)
		assert.Equal(t, tc.end, end, tc.ref)
	}
}

func TestWeekBoundsHoldsForEveryDay(t *testing.T) {
	day := time.Date(2025, 1, 1, 15, 30, 0, 0, time.UTC)
	for i := 0; i < 800; i++ {
		ref := day.AddDate(0, 0, i)
		start, end := WeekBounds(ref)

		s, err := ParseDate(start)
		require.NoError(t, err)
		e, err := ParseDate(end)
		require.NoError(t, err)

		assert.Equal(t, time.Monday, s.Weekday())
		assert.Equal(t, time.Sunday, e.Weekday())
		assert.Equal(t, s.AddDate(0, 0, 6), e)
		refDate := Today(ref)
		assert.True(t, start <= refDate && refDate <= end, "%s not in %s..%s", refDate, start, end)
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	_, err := ParseDate("07/02/2026")
	assert.ErrorIs(t, err, ErrInvalidDate)
	_, _, err = WeekBoundsOf("2026-13-01")
	assert.ErrorIs(t, err, ErrInvalidDate)
}
