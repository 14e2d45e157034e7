package core

import (
	"testing"
	"time"
)

func monthlyBill(due string) Bill {
	return Bill{
		ID:                 7,
		Name:               "Rent",
		Amount:             Money{Cents: 120000},
		DueDate:            due,
		CategoryID:         1,
		ProfileID:          1,
		Unit:               Month,
		Interval:           1,
		CurrentInstallment: 1,
	}
}

func TestProcessPayment_OpenEndedAdvances(t *testing.T) {
	bill := monthlyBill("10/01/2024")
	when := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	res := ProcessPayment(bill, Money{Cents: 120000}, when)

	if res.Updated == nil {
		t.Fatal("open-ended bill must never be deleted")
	}
	if res.Updated.DueDate != "10/02/2024" {
		t.Errorf("due date = %s, want 10/02/2024", res.Updated.DueDate)
	}
	if res.Updated.CurrentInstallment != 2 {
		t.Errorf("installment = %d, want 2", res.Updated.CurrentInstallment)
	}
	if res.Updated.IsPaid {
		t.Error("advanced original must stay pending")
	}

	if !res.Archived.IsPaid {
		t.Error("archived record must be paid")
	}
	if res.Archived.ID != 0 {
		t.Errorf("archived record must get fresh identity, got id %d", res.Archived.ID)
	}
	if res.Archived.PaymentDate != "10/01/2024" {
		t.Errorf("payment date = %s, want 10/01/2024", res.Archived.PaymentDate)
	}
	if res.Archived.PaidAmount == nil || res.Archived.PaidAmount.Cents != 120000 {
		t.Errorf("paid amount = %v, want 120000", res.Archived.PaidAmount)
	}
	if res.Archived.Amount.Cents != 120000 {
		t.Errorf("archived base = %d, want original base", res.Archived.Amount.Cents)
	}
}

func TestProcessPayment_InstallmentSeries(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		current    int
		wantDelete bool
	}{
		{"mid-series advances", 12, 3, false},
		{"penultimate advances", 12, 11, false},
		{"final installment deletes", 12, 12, true},
		{"overshoot still deletes", 12, 13, true},
	}

	when := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bill := monthlyBill("05/03/2024")
			bill.TotalInstallments = tt.total
			bill.CurrentInstallment = tt.current

			res := ProcessPayment(bill, bill.Amount, when)

			if tt.wantDelete && res.Updated != nil {
				t.Error("completed series must delete the original")
			}
			if !tt.wantDelete {
				if res.Updated == nil {
					t.Fatal("unfinished series must keep the original")
				}
				if res.Updated.CurrentInstallment != tt.current+1 {
					t.Errorf("installment = %d, want %d", res.Updated.CurrentInstallment, tt.current+1)
				}
			}
			if !res.Archived.IsPaid {
				t.Error("every payment must produce an archived record")
			}
		})
	}
}

func TestProcessPayment_VariableBillBaseline(t *testing.T) {
	bill := monthlyBill("15/06/2024")
	bill.Amount = Money{} // variable
	when := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	res := ProcessPayment(bill, Money{Cents: 8350}, when)

	if res.Archived.Amount.Cents != 8350 {
		t.Errorf("variable archived base = %d, want paid amount 8350", res.Archived.Amount.Cents)
	}
	if got := Fee(res.Archived.Amount, *res.Archived.PaidAmount); !got.IsZero() {
		t.Errorf("variable bill must never derive a fee, got %d", got.Cents)
	}
	if res.Updated == nil || res.Updated.Amount.Cents != 0 {
		t.Error("pending original must stay variable")
	}
}

func TestProcessPayment_MalformedDueDateDoesNotAdvance(t *testing.T) {
	bill := monthlyBill("not-a-date")
	when := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	res := ProcessPayment(bill, Money{Cents: 5000}, when)

	if res.Updated == nil {
		t.Fatal("payment with a bad due date must still keep the original")
	}
	if res.Updated.DueDate != "not-a-date" {
		t.Errorf("bad due date must be left untouched, got %s", res.Updated.DueDate)
	}
	if !res.Archived.IsPaid {
		t.Error("archived record must still be produced")
	}
}

func TestProcessPayment_MonthEndClamping(t *testing.T) {
	tests := []struct {
		due  string
		want string
	}{
		{"31/01/2024", "29/02/2024"}, // leap year
		{"31/01/2025", "28/02/2025"},
		{"30/04/2024", "30/05/2024"},
		{"31/12/2024", "31/01/2025"},
	}
	when := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		bill := monthlyBill(tt.due)
		res := ProcessPayment(bill, bill.Amount, when)
		if res.Updated.DueDate != tt.want {
			t.Errorf("due %s advanced to %s, want %s", tt.due, res.Updated.DueDate, tt.want)
		}
	}
}

func TestProcessPayment_CustomIntervals(t *testing.T) {
	tests := []struct {
		unit     RecurrenceUnit
		interval int
		due      string
		want     string
	}{
		{Day, 10, "01/01/2024", "11/01/2024"},
		{Week, 2, "01/01/2024", "15/01/2024"},
		{Month, 3, "15/01/2024", "15/04/2024"},
		{Year, 1, "29/02/2024", "28/02/2025"},
	}
	when := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		bill := monthlyBill(tt.due)
		bill.Unit = tt.unit
		bill.Interval = tt.interval
		res := ProcessPayment(bill, bill.Amount, when)
		if res.Updated.DueDate != tt.want {
			t.Errorf("%s/%d from %s = %s, want %s", tt.unit, tt.interval, tt.due, res.Updated.DueDate, tt.want)
		}
	}
}

func TestFee(t *testing.T) {
	tests := []struct {
		name string
		base int64
		paid int64
		want int64
	}{
		{"on-time exact", 10000, 10000, 0},
		{"late with fee", 10000, 10250, 250},
		{"underpaid", 10000, 9000, 0},
		{"variable never fees", 0, 5000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fee(Money{Cents: tt.base}, Money{Cents: tt.paid})
			if got.Cents != tt.want {
				t.Errorf("Fee() = %d, want %d", got.Cents, tt.want)
			}
		})
	}
}

func TestRequiresConfirmation(t *testing.T) {
	today := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	overdue := monthlyBill("07/05/2024")
	if !RequiresConfirmation(overdue, today) {
		t.Error("overdue bill must require confirmation")
	}

	variable := monthlyBill("20/05/2024")
	variable.Amount = Money{}
	if !RequiresConfirmation(variable, today) {
		t.Error("variable bill must require confirmation")
	}

	onTime := monthlyBill("10/05/2024")
	if RequiresConfirmation(onTime, today) {
		t.Error("bill due today pays one-tap")
	}
}
