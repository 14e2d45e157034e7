// Package core holds the pure domain: bills, categories, profiles, money in
// cents, dd/MM/yyyy date handling and the payment/aggregation logic.
package core

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for every date in the system (DB, CSV, API).
const DateLayout = "02/01/2006"

// ParseDate parses a dd/MM/yyyy string. Callers in filters and aggregations
// must treat an error as "does not match" rather than failing the whole run.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders a time as dd/MM/yyyy.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DaysRemaining returns the signed day count between today and the due date.
// Negative means overdue. Malformed input counts as 0 so a bad record never
// aborts the caller.
func DaysRemaining(dueDate string, today time.Time) int {
	due, err := ParseDate(dueDate)
	if err != nil {
		return 0
	}
	// Compare calendar days in UTC so the result is always a whole number.
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return int(due.Sub(t).Hours() / 24)
}

// AdvanceDate moves a date forward by n units. Month and year advancement
// clamp to the last day of a shorter target month, so the 31st of January
// plus one month lands on the 28th (or 29th) of February.
func AdvanceDate(t time.Time, unit RecurrenceUnit, n int) time.Time {
	if n < 1 {
		n = 1
	}
	switch unit {
	case Day:
		return t.AddDate(0, 0, n)
	case Week:
		return t.AddDate(0, 0, 7*n)
	case Month:
		return addMonthsClamped(t, n)
	case Year:
		return addMonthsClamped(t, 12*n)
	default:
		return addMonthsClamped(t, 1)
	}
}

func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, t.Location()).AddDate(0, months, 0)
	if last := lastDayOfMonth(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, t.Location())
}

func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
