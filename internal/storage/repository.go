// Package storage is the SQLite persistence layer for bills, categories and
// profiles. Dates are stored as dd/MM/yyyy text and amounts as integer
// cents, matching the core domain exactly.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"vencehoje/internal/core"

	_ "modernc.org/sqlite"
)

var (
	ErrNotFound = errors.New("not found")
	ErrBuiltIn  = errors.New("built-in category cannot be deleted")
)

// Built-in categories seeded for every new profile, colors from the
// original palette.
var builtinCategories = []core.Category{
	{Name: "Housing", ColorHex: "#1976D2", Icon: "🏠", IsBuiltIn: true},
	{Name: "Transport", ColorHex: "#FBC02D", Icon: "🚗", IsBuiltIn: true},
	{Name: "Health", ColorHex: "#2FD3B2", Icon: "🩺", IsBuiltIn: true},
	{Name: "Leisure", ColorHex: "#7B1FA2", Icon: "🎉", IsBuiltIn: true},
	{Name: "Food", ColorHex: "#388E3C", Icon: "🍽️", IsBuiltIn: true},
	{Name: "Education", ColorHex: "#00796B", Icon: "📚", IsBuiltIn: true},
	{Name: core.DefaultCategoryName, ColorHex: "#9E9E9E", Icon: "🏷️", IsBuiltIn: true},
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Seed creates the main profile and its built-in categories on first run.
func (r *SQLiteRepository) Seed(ctx context.Context) error {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&count); err != nil {
		return fmt.Errorf("count profiles: %w", err)
	}
	if count > 0 {
		return nil
	}

	main, err := r.CreateProfile(ctx, core.Profile{Name: "Main", ColorHex: "#1976D2", IsMain: true})
	if err != nil {
		return fmt.Errorf("seed main profile: %w", err)
	}

	slog.InfoContext(ctx, "Seeded main profile", "profile_id", main.ID)
	return nil
}

// --- Profiles ---

func (r *SQLiteRepository) ListProfiles(ctx context.Context) ([]core.Profile, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, color_hex, is_main FROM profiles ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var out []core.Profile
	for rows.Next() {
		var p core.Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.ColorHex, &p.IsMain); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetProfile(ctx context.Context, id int64) (core.Profile, error) {
	var p core.Profile
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, color_hex, is_main FROM profiles WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.ColorHex, &p.IsMain)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Profile{}, ErrNotFound
	}
	if err != nil {
		return core.Profile{}, fmt.Errorf("get profile %d: %w", id, err)
	}
	return p, nil
}

// CreateProfile inserts the profile and seeds its built-in categories.
func (r *SQLiteRepository) CreateProfile(ctx context.Context, p core.Profile) (core.Profile, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Profile{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO profiles (name, color_hex, is_main) VALUES (?, ?, ?)`,
		p.Name, p.ColorHex, p.IsMain)
	if err != nil {
		return core.Profile{}, fmt.Errorf("insert profile: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Profile{}, fmt.Errorf("profile id: %w", err)
	}

	for _, c := range builtinCategories {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO categories (name, color_hex, icon, profile_id, is_built_in) VALUES (?, ?, ?, ?, 1)`,
			c.Name, c.ColorHex, c.Icon, id); err != nil {
			return core.Profile{}, fmt.Errorf("seed category %q: %w", c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return core.Profile{}, fmt.Errorf("commit: %w", err)
	}

	p.ID = id
	slog.InfoContext(ctx, "Profile created", "profile_id", id, "name", p.Name)
	return p, nil
}

// DeleteProfile removes the profile; its bills and categories cascade.
func (r *SQLiteRepository) DeleteProfile(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete profile %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	slog.InfoContext(ctx, "Profile deleted with its bills and categories", "profile_id", id)
	return nil
}

// --- Categories ---

const categoryColumns = `id, name, color_hex, icon, profile_id, is_built_in`

func scanCategory(row interface{ Scan(...any) error }) (core.Category, error) {
	var c core.Category
	err := row.Scan(&c.ID, &c.Name, &c.ColorHex, &c.Icon, &c.ProfileID, &c.IsBuiltIn)
	return c, err
}

func (r *SQLiteRepository) ListCategories(ctx context.Context, profileID int64) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE profile_id = ? ORDER BY name ASC`, profileID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	return collectCategories(rows)
}

// ListAllCategories returns categories across every profile, for the
// notification worker.
func (r *SQLiteRepository) ListAllCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories`)
	if err != nil {
		return nil, fmt.Errorf("list all categories: %w", err)
	}
	defer rows.Close()
	return collectCategories(rows)
}

func collectCategories(rows *sql.Rows) ([]core.Category, error) {
	var out []core.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	c, err := scanCategory(r.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, ErrNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category %d: %w", id, err)
	}
	return c, nil
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (name, color_hex, icon, profile_id, is_built_in) VALUES (?, ?, ?, ?, ?)`,
		c.Name, c.ColorHex, c.Icon, c.ProfileID, c.IsBuiltIn)
	if err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("category id: %w", err)
	}
	return c, nil
}

// DeleteCategory refuses to remove built-in categories. Bills referencing a
// deleted category are left alone and fall back to the default bucket.
func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id int64) error {
	c, err := r.GetCategory(ctx, id)
	if err != nil {
		return err
	}
	if c.IsBuiltIn {
		return ErrBuiltIn
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	return nil
}

// --- Bills ---

const billColumns = `id, name, amount_cents, paid_cents, due_date, payment_date,
	category_id, profile_id, unit, interval_count, total_installments,
	current_installment, is_paid, is_automatic`

func scanBill(row interface{ Scan(...any) error }) (core.Bill, error) {
	var b core.Bill
	var paid sql.NullInt64
	err := row.Scan(&b.ID, &b.Name, &b.Amount.Cents, &paid, &b.DueDate, &b.PaymentDate,
		&b.CategoryID, &b.ProfileID, &b.Unit, &b.Interval, &b.TotalInstallments,
		&b.CurrentInstallment, &b.IsPaid, &b.IsAutomatic)
	if paid.Valid {
		b.PaidAmount = &core.Money{Cents: paid.Int64}
	}
	return b, err
}

func paidCents(b core.Bill) any {
	if b.PaidAmount == nil {
		return nil
	}
	return b.PaidAmount.Cents
}

func (r *SQLiteRepository) ListBills(ctx context.Context, profileID int64) ([]core.Bill, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+billColumns+` FROM bills WHERE profile_id = ?
		 ORDER BY substr(due_date, 7, 4), substr(due_date, 4, 2), substr(due_date, 1, 2)`, profileID)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	defer rows.Close()
	return collectBills(rows)
}

// ListAllBills returns bills across every profile; the notification worker
// watches all of them.
func (r *SQLiteRepository) ListAllBills(ctx context.Context) ([]core.Bill, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+billColumns+` FROM bills`)
	if err != nil {
		return nil, fmt.Errorf("list all bills: %w", err)
	}
	defer rows.Close()
	return collectBills(rows)
}

func collectBills(rows *sql.Rows) ([]core.Bill, error) {
	var out []core.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetBill(ctx context.Context, id int64) (core.Bill, error) {
	b, err := scanBill(r.db.QueryRowContext(ctx,
		`SELECT `+billColumns+` FROM bills WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Bill{}, ErrNotFound
	}
	if err != nil {
		return core.Bill{}, fmt.Errorf("get bill %d: %w", id, err)
	}
	return b, nil
}

func (r *SQLiteRepository) CreateBill(ctx context.Context, b core.Bill) (core.Bill, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO bills (name, amount_cents, paid_cents, due_date, payment_date,
			category_id, profile_id, unit, interval_count, total_installments,
			current_installment, is_paid, is_automatic)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.Name, b.Amount.Cents, paidCents(b), b.DueDate, b.PaymentDate,
		b.CategoryID, b.ProfileID, b.Unit, b.Interval, b.TotalInstallments,
		b.CurrentInstallment, b.IsPaid, b.IsAutomatic)
	if err != nil {
		return core.Bill{}, fmt.Errorf("insert bill: %w", err)
	}
	b.ID, err = res.LastInsertId()
	if err != nil {
		return core.Bill{}, fmt.Errorf("bill id: %w", err)
	}
	return b, nil
}

func (r *SQLiteRepository) UpdateBill(ctx context.Context, b core.Bill) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bills SET name = ?, amount_cents = ?, paid_cents = ?, due_date = ?,
			payment_date = ?, category_id = ?, unit = ?, interval_count = ?,
			total_installments = ?, current_installment = ?, is_paid = ?, is_automatic = ?
		 WHERE id = ?`,
		b.Name, b.Amount.Cents, paidCents(b), b.DueDate, b.PaymentDate,
		b.CategoryID, b.Unit, b.Interval, b.TotalInstallments,
		b.CurrentInstallment, b.IsPaid, b.IsAutomatic, b.ID)
	if err != nil {
		return fmt.Errorf("update bill %d: %w", b.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteBill(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bills WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete bill %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ApplyPayment persists a payment outcome atomically: the archived record is
// inserted and the original is either advanced or deleted, in one
// transaction.
func (r *SQLiteRepository) ApplyPayment(ctx context.Context, originalID int64, res core.PaymentResult) (core.Bill, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Bill{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	a := res.Archived
	ins, err := tx.ExecContext(ctx,
		`INSERT INTO bills (name, amount_cents, paid_cents, due_date, payment_date,
			category_id, profile_id, unit, interval_count, total_installments,
			current_installment, is_paid, is_automatic)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Name, a.Amount.Cents, paidCents(a), a.DueDate, a.PaymentDate,
		a.CategoryID, a.ProfileID, a.Unit, a.Interval, a.TotalInstallments,
		a.CurrentInstallment, a.IsPaid, a.IsAutomatic)
	if err != nil {
		return core.Bill{}, fmt.Errorf("insert archived record: %w", err)
	}
	archivedID, err := ins.LastInsertId()
	if err != nil {
		return core.Bill{}, fmt.Errorf("archived id: %w", err)
	}

	if res.Updated == nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM bills WHERE id = ?`, originalID); err != nil {
			return core.Bill{}, fmt.Errorf("delete completed series: %w", err)
		}
	} else {
		u := res.Updated
		if _, err := tx.ExecContext(ctx,
			`UPDATE bills SET due_date = ?, current_installment = ?, is_paid = 0 WHERE id = ?`,
			u.DueDate, u.CurrentInstallment, originalID); err != nil {
			return core.Bill{}, fmt.Errorf("advance original: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return core.Bill{}, fmt.Errorf("commit payment: %w", err)
	}

	archived := res.Archived
	archived.ID = archivedID
	slog.InfoContext(ctx, "Payment applied",
		"bill_id", originalID,
		"archived_id", archivedID,
		"series_complete", res.Updated == nil)
	return archived, nil
}

// ReplaceProfileBills clears a profile's bills and inserts the given set, in
// one transaction. Used by CSV restore, which only gets here after the whole
// file parsed successfully.
func (r *SQLiteRepository) ReplaceProfileBills(ctx context.Context, profileID int64, bills []core.Bill) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM bills WHERE profile_id = ?`, profileID); err != nil {
		return fmt.Errorf("clear profile bills: %w", err)
	}

	for _, b := range bills {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO bills (name, amount_cents, paid_cents, due_date, payment_date,
				category_id, profile_id, unit, interval_count, total_installments,
				current_installment, is_paid, is_automatic)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			b.Name, b.Amount.Cents, paidCents(b), b.DueDate, b.PaymentDate,
			b.CategoryID, profileID, b.Unit, b.Interval, b.TotalInstallments,
			b.CurrentInstallment, b.IsPaid, b.IsAutomatic); err != nil {
			return fmt.Errorf("insert imported bill %q: %w", b.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit restore: %w", err)
	}

	slog.InfoContext(ctx, "Profile bills replaced from backup",
		"profile_id", profileID,
		"count", len(bills))
	return nil
}
