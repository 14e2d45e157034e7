package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Scheduler holds at most one pending delayed run. Scheduling again before
// the pending run fires replaces it, which is the only concurrency rule the
// reminder loop needs: the newest schedule always wins.
type Scheduler struct {
	mu    sync.Mutex
	timer *time.Timer
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Schedule arranges fn to run after delay, cancelling any previously
// scheduled run that has not fired yet.
func (s *Scheduler) Schedule(ctx context.Context, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}

	slog.DebugContext(ctx, "Scheduled next reminder check", "delay", delay)
	s.timer = time.AfterFunc(delay, fn)
}

// Stop cancels the pending run, if any.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
