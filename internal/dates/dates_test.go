package dates_test

import (
	"testing"
	"time"

	"edumatch/platform-service/internal/dates"
)

// ── Round-trip: database → display → database ──────────────────────────────

func TestFormatRoundTrip(t *testing.T) {
	inputs := []string{"2026-01-01", "2026-02-28", "2024-02-29", "2026-12-31", "1999-07-04"}
	for _, d := range inputs {
		display, err := dates.FormatForDisplay(d)
		if err != nil {
			t.Fatalf("FormatForDisplay(%q) unexpected error: %v", d, err)
		}
		back, err := dates.FormatForDatabase(display)
		if err != nil {
			t.Fatalf("FormatForDatabase(%q) unexpected error: %v", display, err)
		}
		if back != d {
			t.Errorf("round-trip %q → %q → %q, want %q", d, display, back, d)
		}
	}
}

func TestFormatForDisplay(t *testing.T) {
	got, err := dates.FormatForDisplay("2026-03-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "March 15, 2026" {
		t.Errorf("FormatForDisplay = %q, want %q", got, "March 15, 2026")
	}
}

func TestFormatForDisplay_Invalid(t *testing.T) {
	invalid := []string{"", "15-03-2026", "2026/03/15", "2026-13-01", "not a date"}
	for _, d := range invalid {
		if _, err := dates.FormatForDisplay(d); err == nil {
			t.Errorf("FormatForDisplay(%q) expected error, got nil", d)
		}
	}
}

// ── CalculateDaysLeft ──────────────────────────────────────────────────────

func TestCalculateDaysLeft_PastReturnsZero(t *testing.T) {
	now := time.Date(2026, 8, 30, 13, 45, 0, 0, time.UTC)
	past := []time.Time{
		now.AddDate(0, 0, -1),
		now.AddDate(0, -3, 0),
		now.AddDate(-2, 0, 0),
	}
	for _, p := range past {
		if got := dates.CalculateDaysLeft(p, now); got != 0 {
			t.Errorf("CalculateDaysLeft(%v) = %d, want 0", p, got)
		}
	}
}

func TestCalculateDaysLeft_SameDayReturnsZero(t *testing.T) {
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	target := time.Date(2026, 8, 30, 23, 59, 0, 0, time.UTC)
	if got := dates.CalculateDaysLeft(target, now); got != 0 {
		t.Errorf("CalculateDaysLeft(same day) = %d, want 0", got)
	}
}

func TestCalculateDaysLeft_FutureCalendarDiff(t *testing.T) {
	now := time.Date(2026, 8, 30, 23, 59, 59, 0, time.UTC)
	cases := []struct {
		target time.Time
		want   int
	}{
		{time.Date(2026, 8, 31, 0, 0, 1, 0, time.UTC), 1},
		{time.Date(2026, 9, 4, 12, 0, 0, 0, time.UTC), 5},
		{time.Date(2026, 9, 29, 6, 30, 0, 0, time.UTC), 30},
	}
	for _, c := range cases {
		if got := dates.CalculateDaysLeft(c.target, now); got != c.want {
			t.Errorf("CalculateDaysLeft(%v) = %d, want %d", c.target, got, c.want)
		}
	}
}

// Result must not depend on the time-of-day of either argument.
func TestCalculateDaysLeft_TimeOfDayIndependent(t *testing.T) {
	target := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	for hour := 0; hour < 24; hour++ {
		now := time.Date(2026, 9, 1, hour, 30, 0, 0, time.UTC)
		if got := dates.CalculateDaysLeft(target, now); got != 9 {
			t.Errorf("CalculateDaysLeft(now at %02d:30) = %d, want 9", hour, got)
		}
	}
}
