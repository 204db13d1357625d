// Package dates implements the timezone-aware date helpers used across the
// explore and notification code. All parsing and arithmetic happens in UTC so
// the result never depends on the server's local zone or the time-of-day
// component of the input.
package dates

import (
	"fmt"
	"time"
)

const (
	// DatabaseLayout is the canonical stored form, e.g. "2026-03-15".
	DatabaseLayout = "2006-01-02"
	// DisplayLayout is the human-readable form, e.g. "March 15, 2026".
	DisplayLayout = "January 2, 2006"
)

// FormatForDisplay converts a database date (YYYY-MM-DD) to its display form.
func FormatForDisplay(dbDate string) (string, error) {
	t, err := time.ParseInLocation(DatabaseLayout, dbDate, time.UTC)
	if err != nil {
		return "", fmt.Errorf("parse database date %q: %w", dbDate, err)
	}
	return t.Format(DisplayLayout), nil
}

// FormatForDatabase converts a display date back to its database form.
// FormatForDatabase(FormatForDisplay(d)) == d for any valid YYYY-MM-DD input.
func FormatForDatabase(displayDate string) (string, error) {
	t, err := time.ParseInLocation(DisplayLayout, displayDate, time.UTC)
	if err != nil {
		return "", fmt.Errorf("parse display date %q: %w", displayDate, err)
	}
	return t.Format(DatabaseLayout), nil
}

// CalculateDaysLeft returns the number of calendar days between now and
// target: 0 for any date on or before today, otherwise the positive day
// difference. The time-of-day component of both arguments is ignored.
func CalculateDaysLeft(target, now time.Time) int {
	td := midnightUTC(target)
	nd := midnightUTC(now)
	days := int(td.Sub(nd) / (24 * time.Hour))
	if days < 0 {
		return 0
	}
	return days
}

func midnightUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
