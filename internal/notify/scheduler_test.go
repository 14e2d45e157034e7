package notify

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestScheduler_ReplacesPendingRun(t *testing.T) {
	s := NewScheduler()
	defer s.Stop()

	var first, second atomic.Int32
	ctx := context.Background()

	s.Schedule(ctx, 30*time.Millisecond, func() { first.Add(1) })
	s.Schedule(ctx, 10*time.Millisecond, func() { second.Add(1) })

	time.Sleep(80 * time.Millisecond)

	if first.Load() != 0 {
		t.Error("replaced run must not fire")
	}
	if second.Load() != 1 {
		t.Errorf("replacement fired %d times, want 1", second.Load())
	}
}

func TestScheduler_StopCancelsPendingRun(t *testing.T) {
	s := NewScheduler()

	var fired atomic.Int32
	s.Schedule(context.Background(), 20*time.Millisecond, func() { fired.Add(1) })
	s.Stop()

	time.Sleep(60 * time.Millisecond)

	if fired.Load() != 0 {
		t.Error("stopped run must not fire")
	}
}

func TestScheduler_ImmediateRescheduleWins(t *testing.T) {
	s := NewScheduler()
	defer s.Stop()

	done := make(chan struct{})
	s.Schedule(context.Background(), time.Hour, func() {})
	s.Schedule(context.Background(), 0, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("immediate reschedule never fired")
	}
}
