// Package backup implements the semicolon-delimited CSV backup format:
//
//	Name;Amount;DueDate;Category;Status;PaidAmount;PaymentDate;TotalInstallments;CurrentInstallment;Automatic
//
// Status is Paid/Pending and Automatic is Yes/No. Categories travel by name
// and are re-resolved on import, falling back to the profile's default
// category when the name no longer matches.
package backup

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"vencehoje/internal/core"
)

const fieldCount = 10

var header = []string{
	"Name", "Amount", "DueDate", "Category", "Status",
	"PaidAmount", "PaymentDate", "TotalInstallments", "CurrentInstallment", "Automatic",
}

// Export writes all bills of one profile as CSV. Category ids are resolved
// to names; an unresolvable id exports as the default category name.
func Export(w io.Writer, bills []core.Bill, categories []core.Category) error {
	names := make(map[int64]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, b := range bills {
		name, ok := names[b.CategoryID]
		if !ok {
			name = core.DefaultCategoryName
		}

		status := "Pending"
		if b.IsPaid {
			status = "Paid"
		}
		automatic := "No"
		if b.IsAutomatic {
			automatic = "Yes"
		}
		paidAmount := ""
		if b.PaidAmount != nil {
			paidAmount = b.PaidAmount.String()
		}

		record := []string{
			b.Name,
			b.Amount.String(),
			b.DueDate,
			name,
			status,
			paidAmount,
			b.PaymentDate,
			strconv.Itoa(b.TotalInstallments),
			strconv.Itoa(b.CurrentInstallment),
			automatic,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write bill %q: %w", b.Name, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// Import parses a backup into bills for the given profile. The whole file is
// read before anything is returned, so callers can safely clear existing
// bills only after a successful parse. Rows with fewer than the expected
// fields are skipped; numeric fields fall back to their neutral defaults
// (installments 0, current installment 1, amounts 0).
func Import(r io.Reader, profileID int64, categories []core.Category) ([]core.Bill, error) {
	ids := make(map[string]int64, len(categories))
	var fallback int64
	for _, c := range categories {
		ids[c.Name] = c.ID
		if c.Name == core.DefaultCategoryName {
			fallback = c.ID
		}
	}

	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1 // short rows are skipped, not fatal

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var bills []core.Bill
	for _, rec := range records[1:] { // skip header
		if len(rec) < fieldCount {
			continue
		}

		categoryID, ok := ids[rec[3]]
		if !ok {
			categoryID = fallback
		}

		total, err := strconv.Atoi(rec[7])
		if err != nil || total < 0 {
			total = 0
		}
		current, err := strconv.Atoi(rec[8])
		if err != nil || current < 1 {
			current = 1
		}

		bill := core.Bill{
			Name:               rec[0],
			Amount:             core.ParseAmountOrZero(rec[1]),
			DueDate:            rec[2],
			PaymentDate:        rec[6],
			CategoryID:         categoryID,
			ProfileID:          profileID,
			Unit:               core.Month,
			Interval:           1,
			TotalInstallments:  total,
			CurrentInstallment: current,
			IsPaid:             rec[4] == "Paid",
			IsAutomatic:        rec[9] == "Yes",
		}
		if rec[5] != "" {
			paid := core.ParseAmountOrZero(rec[5])
			bill.PaidAmount = &paid
		}
		bills = append(bills, bill)
	}

	return bills, nil
}
