// Package notify implements the reminder policy and its delivery plumbing:
// a pure per-run decision function, a single-slot delayed scheduler and the
// Notifier port.
package notify

import (
	"fmt"
	"time"
	"unicode/utf8"

	"vencehoje/internal/core"
)

// Insistence controls how aggressively reminders repeat.
type Insistence string

const (
	Standard Insistence = "standard"
	High     Insistence = "high"
	Critical Insistence = "critical"
)

const (
	// No reminders at or past this hour, whatever the insistence.
	curfewHour = 22

	// Standard insistence only fires within this window past the target time.
	standardWindow = 45 * time.Minute

	// SleepInterval is the long recheck used while the curfew gate holds or
	// nothing is pending.
	SleepInterval = 4 * time.Hour

	standardInterval = 1 * time.Hour
	highInterval     = 4 * time.Hour
	criticalInterval = 2 * time.Hour

	fallbackGlyph = "🚨"
)

// ParseInsistence maps a stored preference string to a level, defaulting to
// Standard for anything unknown.
func ParseInsistence(s string) Insistence {
	switch Insistence(s) {
	case High:
		return High
	case Critical:
		return Critical
	default:
		return Standard
	}
}

// ParseTargetTime parses an "HH:MM" preference, defaulting to 08:00 on any
// parse failure.
func ParseTargetTime(s string) (hour, minute int) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 8, 0
	}
	return h, m
}

// Decision is the outcome of one policy run: whether to notify, with what
// message, and when to check again. Exactly one future check is always
// scheduled.
type Decision struct {
	Notify    bool
	Message   string
	NextCheck time.Duration
}

// Evaluate runs the reminder policy once. It never fails: malformed bill
// dates are treated as not pending, and the returned decision always carries
// a reschedule interval.
//
// Curfew comes first: before the target time or at/after 22:00 nothing fires
// and the next check is the long sleeping interval. Then eligibility: a bill
// is pending for notification iff it is unpaid, not auto-debited, and due
// today or earlier. Standard insistence fires only in the first 45 minutes
// past the target; High and Critical fire on every eligible run.
func Evaluate(now time.Time, targetHour, targetMinute int, level Insistence, bills []core.Bill, categories []core.Category) Decision {
	target := time.Date(now.Year(), now.Month(), now.Day(), targetHour, targetMinute, 0, 0, now.Location())

	if now.Before(target) || now.Hour() >= curfewHour {
		return Decision{NextCheck: SleepInterval}
	}

	pending := pendingForNotification(bills, now)
	if len(pending) == 0 {
		return Decision{NextCheck: SleepInterval}
	}

	fire := false
	switch level {
	case High, Critical:
		fire = true
	default:
		fire = now.After(target) && now.Before(target.Add(standardWindow))
	}

	d := Decision{NextCheck: nextInterval(level)}
	if fire {
		d.Notify = true
		d.Message = buildMessage(pending, categories)
	}
	return d
}

func nextInterval(level Insistence) time.Duration {
	switch level {
	case High:
		return highInterval
	case Critical:
		return criticalInterval
	default:
		return standardInterval
	}
}

// pendingForNotification keeps unpaid, non-automatic bills due today or
// earlier, in input order so the message is deterministic.
func pendingForNotification(bills []core.Bill, now time.Time) []core.Bill {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	var out []core.Bill
	for _, b := range bills {
		if b.IsPaid || b.IsAutomatic {
			continue
		}
		due, err := core.ParseDate(b.DueDate)
		if err != nil {
			continue
		}
		if !due.After(today) {
			out = append(out, b)
		}
	}
	return out
}

func buildMessage(pending []core.Bill, categories []core.Category) string {
	first := pending[0]

	glyph := fallbackGlyph
	for _, c := range categories {
		if c.ID == first.CategoryID {
			// Short icons are emoji; long ones are platform icon names and
			// get the generic alert glyph instead.
			if c.Icon != "" && utf8.RuneCountInString(c.Icon) <= 2 {
				glyph = c.Icon
			}
			break
		}
	}

	if others := len(pending) - 1; others > 0 {
		return fmt.Sprintf("%s %s (+%d more)", glyph, first.Name, others)
	}
	return fmt.Sprintf("%s %s", glyph, first.Name)
}
