package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12.34", 1234, false},
		{"12,34", 1234, false},
		{"12.345", 1234, false}, // rounds down
		{"12.346", 1235, false}, // rounds up
		{"0", 0, false},         // variable-amount bill
		{"0.00", 0, false},
		{"1200", 120000, false},
		{"", 0, true},
		{"-5", 0, true},
		{"+5", 0, true},
		{"1.2.3", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseDecimalToCents(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDecimalToCents(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDecimalToCents(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDecimalToCents(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseAmountOrZero(t *testing.T) {
	if m := ParseAmountOrZero("garbage"); m.Cents != 0 {
		t.Errorf("bad input must default to zero, got %d", m.Cents)
	}
	if m := ParseAmountOrZero("45.90"); m.Cents != 4590 {
		t.Errorf("got %d, want 4590", m.Cents)
	}
}

func TestMoneyStringRoundTrip(t *testing.T) {
	for _, cents := range []int64{0, 1, 99, 100, 1234, 120000} {
		s := Money{Cents: cents}.String()
		got, err := ParseDecimalToCents(s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		if got != cents {
			t.Errorf("round trip %d -> %q -> %d", cents, s, got)
		}
	}
}
