package service

import (
	"fmt"
	"time"

	"productivity-ranker/internal/model"
)

// WeekBounds returns the Monday and Sunday of the week containing ref.
// Sunday belongs to the week that began six days earlier.
func WeekBounds(ref time.Time) (start, end string) {
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	monday := day.AddDate(0, 0, -offset)
	return monday.Format(model.DateLayout), monday.AddDate(0, 0, 6).Format(model.DateLayout)
}

// WeekBoundsOf is WeekBounds for a YYYY-MM-DD date.
func WeekBoundsOf(date string) (start, end string, err error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", "", err
	}
	start, end = WeekBounds(t)
	return start, end, nil
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not YYYY-MM-DD", ErrInvalidDate, s)
	}
	return t, nil
}

func Today(now time.Time) string { return now.Format(model.DateLayout) }
