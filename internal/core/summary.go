package core

import "sort"

// FeeBucket is the synthetic dashboard bucket holding accumulated late fees.
const FeeBucket = "Fees"

// AggregateMode selects which side of the ledger a dashboard query covers.
type AggregateMode string

const (
	AggregatePaid    AggregateMode = "paid"
	AggregatePending AggregateMode = "pending"
)

// CategoryAmount is an amount aggregated under a category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// MonthBreakdown is the dashboard view for one month: per-category totals
// plus the grand total. Percentages are derived, not stored.
type MonthBreakdown struct {
	Year    int
	Month   int // 1-12
	Mode    AggregateMode
	Buckets []CategoryAmount
	Total   Money
}

// Aggregate buckets bills into per-category totals for the given month.
//
// Paid mode keys on the payment date and splits any overpayment of a fixed
// bill into the Fees bucket; variable bills contribute their full paid
// amount with no fee. Pending mode keys on the due date and sums base
// amounts only. Bills with malformed dates simply do not match.
func Aggregate(bills []Bill, categories []Category, month, year int, mode AggregateMode) MonthBreakdown {
	names := make(map[int64]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	totals := make(map[string]int64)
	var fees int64

	for _, b := range bills {
		dateStr := b.DueDate
		if b.IsPaid && b.PaymentDate != "" {
			dateStr = b.PaymentDate
		}
		date, err := ParseDate(dateStr)
		if err != nil {
			continue
		}
		if int(date.Month()) != month || date.Year() != year {
			continue
		}
		if (mode == AggregatePaid) != b.IsPaid {
			continue
		}

		name, ok := names[b.CategoryID]
		if !ok {
			name = DefaultCategoryName
		}

		if mode == AggregatePending {
			totals[name] += b.Amount.Cents
			continue
		}

		paid := b.Amount
		if b.PaidAmount != nil {
			paid = *b.PaidAmount
		}
		if b.Amount.IsZero() {
			// Variable bill: no baseline, no fee
			totals[name] += paid.Cents
			continue
		}
		totals[name] += b.Amount.Cents
		if paid.Cents > b.Amount.Cents {
			fees += paid.Cents - b.Amount.Cents
		}
	}

	if fees > 0 {
		totals[FeeBucket] += fees
	}

	out := MonthBreakdown{Year: year, Month: month, Mode: mode}
	for name, cents := range totals {
		out.Buckets = append(out.Buckets, CategoryAmount{Name: name, Amount: Money{Cents: cents}})
		out.Total.Cents += cents
	}
	sort.Slice(out.Buckets, func(i, j int) bool {
		if out.Buckets[i].Amount.Cents != out.Buckets[j].Amount.Cents {
			return out.Buckets[i].Amount.Cents > out.Buckets[j].Amount.Cents
		}
		return out.Buckets[i].Name < out.Buckets[j].Name
	})
	return out
}

// Percent returns the bucket's share of the breakdown total, 0-100.
func (mb MonthBreakdown) Percent(name string) float64 {
	if mb.Total.Cents == 0 {
		return 0
	}
	for _, b := range mb.Buckets {
		if b.Name == name {
			return float64(b.Amount.Cents) / float64(mb.Total.Cents) * 100
		}
	}
	return 0
}
