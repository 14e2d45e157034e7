package core

import (
	"testing"
	"time"
)

func TestDaysRemaining(t *testing.T) {
	today := time.Date(2024, 5, 10, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		due  string
		want int
	}{
		{"due today", "10/05/2024", 0},
		{"due tomorrow", "11/05/2024", 1},
		{"due in a week", "17/05/2024", 7},
		{"overdue three days", "07/05/2024", -3},
		{"malformed defaults to zero", "2024-05-10", 0},
		{"empty defaults to zero", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysRemaining(tt.due, today); got != tt.want {
				t.Errorf("DaysRemaining(%q) = %d, want %d", tt.due, got, tt.want)
			}
		})
	}
}

func TestAdvanceDate_Clamping(t *testing.T) {
	tests := []struct {
		name string
		from string
		unit RecurrenceUnit
		n    int
		want string
	}{
		{"jan 31 to feb leap", "31/01/2024", Month, 1, "29/02/2024"},
		{"jan 31 to feb non-leap", "31/01/2025", Month, 1, "28/02/2025"},
		{"feb 29 plus year", "29/02/2024", Year, 1, "28/02/2025"},
		{"day unit", "28/02/2024", Day, 2, "01/03/2024"},
		{"week unit", "01/01/2024", Week, 1, "08/01/2024"},
		{"multi month across year", "30/11/2024", Month, 3, "28/02/2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, err := ParseDate(tt.from)
			if err != nil {
				t.Fatalf("parse %q: %v", tt.from, err)
			}
			got := FormatDate(AdvanceDate(from, tt.unit, tt.n))
			if got != tt.want {
				t.Errorf("AdvanceDate(%s, %s, %d) = %s, want %s", tt.from, tt.unit, tt.n, got, tt.want)
			}
		})
	}
}

func TestParseDateRoundTrip(t *testing.T) {
	in := "05/09/2026"
	d, err := ParseDate(in)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if out := FormatDate(d); out != in {
		t.Errorf("round trip = %s, want %s", out, in)
	}
}
