package core

import "testing"

func validBill() Bill {
	return Bill{
		Name:               "Internet",
		Amount:             Money{Cents: 9990},
		DueDate:            "01/02/2025",
		CategoryID:         1,
		ProfileID:          1,
		Unit:               Month,
		Interval:           1,
		CurrentInstallment: 1,
	}
}

func TestBillValidate(t *testing.T) {
	if err := validBill().Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Bill)
	}{
		{"empty name", func(b *Bill) { b.Name = "  " }},
		{"bad unit", func(b *Bill) { b.Unit = "fortnight" }},
		{"zero interval", func(b *Bill) { b.Interval = 0 }},
		{"zero installment", func(b *Bill) { b.CurrentInstallment = 0 }},
		{"installment past total", func(b *Bill) { b.TotalInstallments = 3; b.CurrentInstallment = 4 }},
		{"negative amount", func(b *Bill) { b.Amount = Money{Cents: -1} }},
		{"bad due date", func(b *Bill) { b.DueDate = "2025-02-01" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBill()
			tt.mutate(&b)
			if err := b.Validate(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestBillValidate_VariableAmountAllowed(t *testing.T) {
	b := validBill()
	b.Amount = Money{}
	if err := b.Validate(); err != nil {
		t.Fatalf("zero amount means variable bill, got %v", err)
	}
}

func TestBillIsTerminal(t *testing.T) {
	tests := []struct {
		total, current int
		want           bool
	}{
		{0, 1, false},
		{0, 50, false},
		{12, 11, false},
		{12, 12, true},
		{12, 13, true},
	}
	for _, tt := range tests {
		b := validBill()
		b.TotalInstallments = tt.total
		b.CurrentInstallment = tt.current
		if got := b.IsTerminal(); got != tt.want {
			t.Errorf("IsTerminal(%d/%d) = %v, want %v", tt.current, tt.total, got, tt.want)
		}
	}
}

func TestCategoryValidate(t *testing.T) {
	if err := (Category{Name: "Housing"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Category{Name: ""}).Validate(); err == nil {
		t.Error("expected error for empty name")
	}
}

func TestProfileValidate(t *testing.T) {
	if err := (Profile{Name: "Main"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Profile{Name: " "}).Validate(); err == nil {
		t.Error("expected error for blank name")
	}
}
