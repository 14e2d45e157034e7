// Package services orchestrates the domain over storage and the event bus.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"vencehoje/internal/amqp"
	"vencehoje/internal/core"
	"vencehoje/internal/storage"
)

// BillService coordinates bill writes: persist in SQLite first, then
// publish a bill event for the workers. Publish failures never fail the
// user's operation.
type BillService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewBillService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *BillService {
	return &BillService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

func (s *BillService) CreateBill(ctx context.Context, b core.Bill) (core.Bill, error) {
	if err := b.Validate(); err != nil {
		return core.Bill{}, fmt.Errorf("validate bill: %w", err)
	}

	created, err := s.storage.CreateBill(ctx, b)
	if err != nil {
		return core.Bill{}, fmt.Errorf("create bill: %w", err)
	}

	s.publish(ctx, amqp.NewBillChangedMessage(created.ID, created.ProfileID))
	return created, nil
}

func (s *BillService) UpdateBill(ctx context.Context, b core.Bill) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("validate bill: %w", err)
	}
	if err := s.storage.UpdateBill(ctx, b); err != nil {
		return fmt.Errorf("update bill: %w", err)
	}
	s.publish(ctx, amqp.NewBillChangedMessage(b.ID, b.ProfileID))
	return nil
}

func (s *BillService) DeleteBill(ctx context.Context, id int64) error {
	b, err := s.storage.GetBill(ctx, id)
	if err != nil {
		return fmt.Errorf("get bill: %w", err)
	}
	if err := s.storage.DeleteBill(ctx, id); err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}
	s.publish(ctx, amqp.NewBillChangedMessage(id, b.ProfileID))
	return nil
}

// PayBill runs the recurrence engine for one payment and persists the
// outcome atomically. amountPaid may be zero only for variable bills paid
// at their base amount; paymentDate defaults to today when zero.
func (s *BillService) PayBill(ctx context.Context, billID int64, amountPaid core.Money, paymentDate time.Time) (core.Bill, error) {
	bill, err := s.storage.GetBill(ctx, billID)
	if err != nil {
		return core.Bill{}, fmt.Errorf("get bill: %w", err)
	}
	if bill.IsPaid {
		return core.Bill{}, fmt.Errorf("bill %d is already an archived record", billID)
	}

	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	res := core.ProcessPayment(bill, amountPaid, paymentDate)
	archived, err := s.storage.ApplyPayment(ctx, billID, res)
	if err != nil {
		return core.Bill{}, fmt.Errorf("apply payment: %w", err)
	}

	slog.InfoContext(ctx, "Bill paid",
		"bill_id", billID,
		"archived_id", archived.ID,
		"amount_cents", amountPaid.Cents,
		"fee_cents", core.Fee(archived.Amount, amountPaid).Cents,
		"series_complete", res.Updated == nil)

	s.publish(ctx, amqp.NewBillPaidMessage(billID, archived.ID, bill.ProfileID))
	return archived, nil
}

// RestoreBills replaces a profile's bills with an imported set. The caller
// parses the backup completely before this runs, so a broken file never
// clears anything.
func (s *BillService) RestoreBills(ctx context.Context, profileID int64, bills []core.Bill) error {
	if err := s.storage.ReplaceProfileBills(ctx, profileID, bills); err != nil {
		return fmt.Errorf("restore bills: %w", err)
	}
	s.publish(ctx, amqp.NewBillChangedMessage(0, profileID))
	return nil
}

func (s *BillService) publish(ctx context.Context, msg *amqp.BillEventMessage) {
	if s.amqpClient == nil {
		return
	}
	if err := s.amqpClient.PublishBillEvent(ctx, msg); err != nil {
		// Local write already succeeded; the workers catch up on their
		// next scheduled run.
		slog.ErrorContext(ctx, "Failed to publish bill event",
			"kind", msg.Kind,
			"bill_id", msg.BillID,
			"error", err)
	}
}

func (s *BillService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close bill service: %v", errs)
	}
	return nil
}
