package sheets

import (
	"context"
)

// PaymentRow is one archived payment as it appears in the mirror spreadsheet.
type PaymentRow struct {
	PaymentDate string
	BillName    string
	Category    string
	BaseCents   int64
	PaidCents   int64
	FeeCents    int64
	Installment string // "3/12", empty for open-ended bills
}

// PaymentMirror appends archived payments to an external backup sheet.
type PaymentMirror interface {
	AppendPayment(ctx context.Context, row PaymentRow) (rowRef string, err error)
}
