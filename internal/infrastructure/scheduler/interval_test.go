package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestIntervalSchedulerTicks(t *testing.T) {
	t.Parallel()

	var runs atomic.Int32
	s := NewIntervalScheduler(5*time.Millisecond, nil)
	if err := s.Start(context.Background(), func(time.Time) { runs.Add(1) }); err != nil {
		t.Fatalf("start: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for runs.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if runs.Load() < 3 {
		t.Fatalf("expected at least 3 runs, got %d", runs.Load())
	}

	after := runs.Load()
	time.Sleep(20 * time.Millisecond)
	if runs.Load() != after {
		t.Fatalf("job ran after Stop")
	}
}

func TestIntervalSchedulerDefaults(t *testing.T) {
	t.Parallel()

	s := NewIntervalScheduler(0, nil)
	if s.interval != DefaultInterval {
		t.Fatalf("unexpected interval: %v", s.interval)
	}
	if s.location != time.UTC {
		t.Fatalf("unexpected location: %v", s.location)
	}
	if err := s.Start(context.Background(), nil); err != nil {
		t.Fatalf("start with nil job: %v", err)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("stop without start: %v", err)
	}
}

func TestIntervalSchedulerStopsOnContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	ran := make(chan struct{}, 1)
	s := NewIntervalScheduler(time.Hour, nil)
	if err := s.Start(ctx, func(time.Time) { ran <- struct{}{} }); err != nil {
		t.Fatalf("start: %v", err)
	}
	<-ran
	cancel()

	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
}

func TestIntervalSchedulerReportsTriggersInLocation(t *testing.T) {
	t.Parallel()

	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	triggers := make(chan time.Time, 1)
	s := NewIntervalScheduler(time.Hour, paris)
	if err := s.Start(context.Background(), func(at time.Time) {
		select {
		case triggers <- at:
		default:
		}
	}); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop(context.Background())

	select {
	case at := <-triggers:
		if at.Location() != paris {
			t.Fatalf("trigger reported in %v, want %v", at.Location(), paris)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("job never ran")
	}

	from := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	next := s.NextRun(from)
	if next.Location() != paris || !next.Equal(from.Add(time.Hour)) {
		t.Fatalf("unexpected next run: %v", next)
	}
}

func TestIntervalSchedulerRestartsAfterContextEnds(t *testing.T) {
	t.Parallel()

	ran := make(chan struct{}, 4)
	job := func(time.Time) { ran <- struct{}{} }

	ctx, cancel := context.WithCancel(context.Background())
	s := NewIntervalScheduler(time.Hour, nil)
	if err := s.Start(ctx, job); err != nil {
		t.Fatalf("start: %v", err)
	}
	<-ran
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for {
		s.mu.Lock()
		released := s.done == nil
		s.mu.Unlock()
		if released {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("loop was not released after its context ended")
		}
		time.Sleep(time.Millisecond)
	}

	if err := s.Start(context.Background(), job); err != nil {
		t.Fatalf("restart: %v", err)
	}
	defer s.Stop(context.Background())

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("restarted scheduler did not run the job")
	}
}
