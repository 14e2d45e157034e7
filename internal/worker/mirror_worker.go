// Package worker contains the background consumers driven by bill events.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"vencehoje/internal/amqp"
	"vencehoje/internal/core"
	"vencehoje/internal/sheets"
	"vencehoje/internal/storage"
)

// MirrorWorker copies archived payments from SQLite to the backup spreadsheet.
type MirrorWorker struct {
	storage *storage.SQLiteRepository
	mirror  sheets.PaymentMirror
}

func NewMirrorWorker(storage *storage.SQLiteRepository, mirror sheets.PaymentMirror) *MirrorWorker {
	return &MirrorWorker{
		storage: storage,
		mirror:  mirror,
	}
}

// HandleBillEvent processes a single bill event from AMQP. Only payment
// events carry an archived record to mirror; everything else is ignored.
func (w *MirrorWorker) HandleBillEvent(ctx context.Context, msg *amqp.BillEventMessage) error {
	if msg.Kind != amqp.EventBillPaid || msg.ArchivedID == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing payment event",
		"bill_id", msg.BillID,
		"archived_id", msg.ArchivedID)

	archived, err := w.storage.GetBill(ctx, msg.ArchivedID)
	if err != nil {
		return fmt.Errorf("get archived bill: %w", err)
	}

	ref, err := w.mirror.AppendPayment(ctx, w.buildRow(ctx, archived))
	if err != nil {
		return fmt.Errorf("append payment to mirror: %w", err)
	}

	slog.InfoContext(ctx, "Payment mirrored",
		"archived_id", msg.ArchivedID,
		"bill_name", archived.Name,
		"row_ref", ref)

	return nil
}

func (w *MirrorWorker) buildRow(ctx context.Context, archived core.Bill) sheets.PaymentRow {
	row := sheets.PaymentRow{
		PaymentDate: archived.PaymentDate,
		BillName:    archived.Name,
		Category:    w.categoryName(ctx, archived.CategoryID),
		BaseCents:   archived.Amount.Cents,
	}

	if archived.PaidAmount != nil {
		row.PaidCents = archived.PaidAmount.Cents
		row.FeeCents = core.Fee(archived.Amount, *archived.PaidAmount).Cents
	}
	if archived.TotalInstallments > 0 {
		row.Installment = fmt.Sprintf("%d/%d", archived.CurrentInstallment, archived.TotalInstallments)
	}

	return row
}

// categoryName resolves the category for display; a dangling reference falls
// back to the default bucket.
func (w *MirrorWorker) categoryName(ctx context.Context, categoryID int64) string {
	cat, err := w.storage.GetCategory(ctx, categoryID)
	if err != nil {
		return core.DefaultCategoryName
	}
	return cat.Name
}
