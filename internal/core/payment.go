package core

import "time"

// PaymentResult is the outcome of processing a payment. Archived is the new
// paid history record (always present, fresh identity). Updated is the
// original bill advanced to its next cycle, or nil when the installment
// series is complete and the original must be deleted.
type PaymentResult struct {
	Archived Bill
	Updated  *Bill
}

// ProcessPayment computes the clone-and-archive outcome of paying a bill.
//
// The archived record keeps the original base amount, except for
// variable-amount bills (base 0) where the paid amount becomes the base so
// later aggregation does not derive a fee against a zero baseline.
//
// The original either advances one recurrence period with its installment
// counter incremented, or is deleted (Updated == nil) when the series is
// complete. A malformed due date leaves the original untouched instead of
// failing the payment.
func ProcessPayment(bill Bill, amountPaid Money, paymentDate time.Time) PaymentResult {
	baseForHistory := bill.Amount
	if bill.IsVariable() {
		baseForHistory = amountPaid
	}

	paid := amountPaid
	archived := bill
	archived.ID = 0
	archived.IsPaid = true
	archived.PaymentDate = FormatDate(paymentDate)
	archived.PaidAmount = &paid
	archived.Amount = baseForHistory

	if bill.IsTerminal() {
		return PaymentResult{Archived: archived}
	}

	updated := bill
	updated.CurrentInstallment = bill.CurrentInstallment + 1
	if due, err := ParseDate(bill.DueDate); err == nil {
		updated.DueDate = FormatDate(AdvanceDate(due, bill.Unit, bill.Interval))
	}
	return PaymentResult{Archived: archived, Updated: &updated}
}

// Fee is the positive difference between the paid amount and the base
// amount. It is a derived display concept, never stored, and never applies
// to variable-amount bills.
func Fee(base, paid Money) Money {
	if base.IsZero() || paid.Cents <= base.Cents {
		return Money{}
	}
	return paid.Sub(base)
}

// RequiresConfirmation reports whether paying this bill must go through the
// confirm-actual-amount flow instead of one-tap pay: any overdue bill, and
// any variable-amount bill.
func RequiresConfirmation(bill Bill, today time.Time) bool {
	return bill.IsVariable() || DaysRemaining(bill.DueDate, today) < 0
}
