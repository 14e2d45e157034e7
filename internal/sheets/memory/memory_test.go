package memory

import (
	"context"
	"testing"

	"vencehoje/internal/sheets"
)

func TestStore_AppendPayment(t *testing.T) {
	s := New()

	ref, err := s.AppendPayment(context.Background(), sheets.PaymentRow{
		PaymentDate: "10/01/2024",
		BillName:    "Rent",
		Category:    "Housing",
		BaseCents:   120000,
		PaidCents:   120000,
	})
	if err != nil {
		t.Fatalf("AppendPayment() error = %v", err)
	}
	if ref != "mem:1" {
		t.Errorf("ref = %s, want mem:1", ref)
	}

	rows := s.Rows()
	if len(rows) != 1 || rows[0].BillName != "Rent" {
		t.Errorf("rows = %+v", rows)
	}
}

func TestStore_RowsReturnsCopy(t *testing.T) {
	s := New()
	if _, err := s.AppendPayment(context.Background(), sheets.PaymentRow{BillName: "Water"}); err != nil {
		t.Fatalf("AppendPayment() error = %v", err)
	}

	rows := s.Rows()
	rows[0].BillName = "mutated"

	if s.Rows()[0].BillName != "Water" {
		t.Error("Rows() must return a copy")
	}
}
