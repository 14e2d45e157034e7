package worker

import (
	"context"
	"log/slog"
	"time"

	"vencehoje/internal/notify"
	"vencehoje/internal/storage"
)

// NotifyWorker drives the reminder policy: evaluate, maybe send, schedule
// exactly one future check. Bill change events trigger an immediate
// re-evaluation, which replaces whatever check was pending.
type NotifyWorker struct {
	storage      *storage.SQLiteRepository
	notifier     notify.Notifier
	scheduler    *notify.Scheduler
	targetHour   int
	targetMinute int
	level        notify.Insistence
	now          func() time.Time
}

func NewNotifyWorker(storage *storage.SQLiteRepository, notifier notify.Notifier, targetHour, targetMinute int, level notify.Insistence) *NotifyWorker {
	return &NotifyWorker{
		storage:      storage,
		notifier:     notifier,
		scheduler:    notify.NewScheduler(),
		targetHour:   targetHour,
		targetMinute: targetMinute,
		level:        level,
		now:          time.Now,
	}
}

// Run evaluates once immediately and then follows the policy's reschedule
// chain until ctx ends.
func (w *NotifyWorker) Run(ctx context.Context) error {
	w.Refresh(ctx)
	<-ctx.Done()
	w.scheduler.Stop()
	return ctx.Err()
}

// Refresh runs one policy evaluation now and schedules the next one. Safe
// to call from the AMQP consumer while the timer chain is active.
func (w *NotifyWorker) Refresh(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	decision, err := w.evaluate(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Reminder evaluation failed", "error", err)
	}

	if decision.Notify {
		if err := w.notifier.Send(ctx, decision.Message); err != nil {
			slog.ErrorContext(ctx, "Failed to send reminder", "error", err)
		} else {
			slog.InfoContext(ctx, "Reminder sent", "message", decision.Message)
		}
	}

	w.scheduler.Schedule(ctx, decision.NextCheck, func() { w.Refresh(ctx) })
}

// RunPeriodic forces a re-evaluation every interval. It is the safety net
// under the timer chain: if a scheduled check is lost (process suspend,
// storage error fallback) the reminders still resume within one interval.
func (w *NotifyWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.Refresh(ctx)
		}
	}
}

func (w *NotifyWorker) evaluate(ctx context.Context) (notify.Decision, error) {
	bills, err := w.storage.ListAllBills(ctx)
	if err != nil {
		// Fall back to the sleeping interval so the chain never breaks
		return notify.Decision{NextCheck: notify.SleepInterval}, err
	}
	categories, err := w.storage.ListAllCategories(ctx)
	if err != nil {
		return notify.Decision{NextCheck: notify.SleepInterval}, err
	}

	return notify.Evaluate(w.now(), w.targetHour, w.targetMinute, w.level, bills, categories), nil
}
