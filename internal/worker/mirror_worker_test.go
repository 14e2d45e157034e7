package worker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"vencehoje/internal/amqp"
	"vencehoje/internal/core"
	"vencehoje/internal/sheets/memory"
	"vencehoje/internal/storage"
)

func newTestWorker(t *testing.T) (*MirrorWorker, *storage.SQLiteRepository, *memory.Store) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	if err := repo.Seed(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	store := memory.New()
	return NewMirrorWorker(repo, store), repo, store
}

func payTestBill(t *testing.T, repo *storage.SQLiteRepository, bill core.Bill, paid core.Money) core.Bill {
	t.Helper()
	ctx := context.Background()

	created, err := repo.CreateBill(ctx, bill)
	if err != nil {
		t.Fatalf("create bill: %v", err)
	}

	res := core.ProcessPayment(created, paid, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	archived, err := repo.ApplyPayment(ctx, created.ID, res)
	if err != nil {
		t.Fatalf("apply payment: %v", err)
	}
	return archived
}

func TestMirrorWorker_HandleBillEvent(t *testing.T) {
	w, repo, store := newTestWorker(t)
	ctx := context.Background()

	cats, err := repo.ListCategories(ctx, 1)
	if err != nil || len(cats) == 0 {
		t.Fatalf("list categories: %v", err)
	}

	archived := payTestBill(t, repo, core.Bill{
		Name:               "Car loan",
		Amount:             core.Money{Cents: 45000},
		DueDate:            "10/01/2024",
		CategoryID:         cats[0].ID,
		ProfileID:          1,
		Unit:               core.Month,
		Interval:           1,
		TotalInstallments:  12,
		CurrentInstallment: 3,
	}, core.Money{Cents: 46500})

	if err := w.HandleBillEvent(ctx, amqp.NewBillPaidMessage(1, archived.ID, 1)); err != nil {
		t.Fatalf("HandleBillEvent() error = %v", err)
	}

	rows := store.Rows()
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	row := rows[0]
	if row.BillName != "Car loan" || row.PaymentDate != "10/01/2024" {
		t.Errorf("row identity wrong: %+v", row)
	}
	if row.BaseCents != 45000 || row.PaidCents != 46500 || row.FeeCents != 1500 {
		t.Errorf("row amounts wrong: %+v", row)
	}
	if row.Installment != "3/12" {
		t.Errorf("installment = %s, want 3/12", row.Installment)
	}
	if row.Category != cats[0].Name {
		t.Errorf("category = %s, want %s", row.Category, cats[0].Name)
	}
}

func TestMirrorWorker_IgnoresChangeEvents(t *testing.T) {
	w, _, store := newTestWorker(t)

	if err := w.HandleBillEvent(context.Background(), amqp.NewBillChangedMessage(1, 1)); err != nil {
		t.Fatalf("HandleBillEvent() error = %v", err)
	}
	if len(store.Rows()) != 0 {
		t.Error("change events must not be mirrored")
	}
}

func TestMirrorWorker_DanglingCategoryFallsBack(t *testing.T) {
	w, repo, store := newTestWorker(t)
	ctx := context.Background()

	archived := payTestBill(t, repo, core.Bill{
		Name:               "Old subscription",
		Amount:             core.Money{Cents: 999},
		DueDate:            "10/01/2024",
		CategoryID:         99999,
		ProfileID:          1,
		Unit:               core.Month,
		Interval:           1,
		CurrentInstallment: 1,
	}, core.Money{Cents: 999})

	if err := w.HandleBillEvent(ctx, amqp.NewBillPaidMessage(1, archived.ID, 1)); err != nil {
		t.Fatalf("HandleBillEvent() error = %v", err)
	}

	rows := store.Rows()
	if len(rows) != 1 || rows[0].Category != core.DefaultCategoryName {
		t.Errorf("dangling category should fall back to %s, got %+v", core.DefaultCategoryName, rows)
	}
}

func TestMirrorWorker_MissingArchivedBillFails(t *testing.T) {
	w, _, _ := newTestWorker(t)

	if err := w.HandleBillEvent(context.Background(), amqp.NewBillPaidMessage(1, 424242, 1)); err == nil {
		t.Error("missing archived record should surface an error for requeue")
	}
}
