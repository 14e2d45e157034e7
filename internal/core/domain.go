package core

import (
	"errors"
	"strings"
)

const (
	Day   RecurrenceUnit = "day"
	Week  RecurrenceUnit = "week"
	Month RecurrenceUnit = "month"
	Year  RecurrenceUnit = "year"
)

// DefaultCategoryName is the fallback bucket for bills whose category was
// deleted or never resolved.
const DefaultCategoryName = "Other"

type (
	RecurrenceUnit string

	// Bill is a single payable obligation. Dates are dd/MM/yyyy strings at
	// the edges (DB, CSV, API); a bill with a malformed date must never
	// crash a computation, it just stops matching date filters.
	Bill struct {
		ID                 int64
		Name               string
		Amount             Money  // base amount; 0 cents = variable, resolved at payment
		PaidAmount         *Money // set only on archived (paid) records
		DueDate            string
		PaymentDate        string // empty while pending
		CategoryID         int64
		ProfileID          int64
		Unit               RecurrenceUnit
		Interval           int // every N units
		TotalInstallments  int // 0 = unbounded
		CurrentInstallment int
		IsPaid             bool
		IsAutomatic        bool // auto-debited, excluded from reminders
	}

	Category struct {
		ID        int64
		Name      string
		ColorHex  string
		Icon      string // emoji or icon name
		ProfileID int64
		IsBuiltIn bool
	}

	Profile struct {
		ID       int64
		Name     string
		ColorHex string
		IsMain   bool
	}
)

var (
	ErrEmptyName          = errors.New("empty name")
	ErrInvalidUnit        = errors.New("invalid recurrence unit")
	ErrInvalidInterval    = errors.New("invalid recurrence interval")
	ErrInvalidInstallment = errors.New("invalid installment state")
	ErrInvalidAmount      = errors.New("invalid amount")
)

func (u RecurrenceUnit) Valid() bool {
	switch u {
	case Day, Week, Month, Year:
		return true
	}
	return false
}

func (b Bill) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrEmptyName
	}
	if len(b.Name) > 200 {
		return errors.New("name too long (max 200 characters)")
	}
	if !b.Unit.Valid() {
		return ErrInvalidUnit
	}
	if b.Interval < 1 {
		return ErrInvalidInterval
	}
	if b.CurrentInstallment < 1 {
		return ErrInvalidInstallment
	}
	if b.TotalInstallments > 0 && b.CurrentInstallment > b.TotalInstallments {
		return ErrInvalidInstallment
	}
	if b.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if _, err := ParseDate(b.DueDate); err != nil {
		return errors.New("invalid due date: " + err.Error())
	}
	return nil
}

// IsVariable reports whether the bill's amount is resolved only at payment
// time. Variable bills never produce a fee.
func (b Bill) IsVariable() bool {
	return b.Amount.Cents == 0
}

// IsTerminal reports whether a successful payment completes the series.
func (b Bill) IsTerminal() bool {
	return b.TotalInstallments > 0 && b.CurrentInstallment >= b.TotalInstallments
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Name) > 100 {
		return errors.New("name too long (max 100 characters)")
	}
	return nil
}

func (p Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if len(p.Name) > 100 {
		return errors.New("name too long (max 100 characters)")
	}
	return nil
}
