package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestIntervalSchedulerRunsImmediately(t *testing.T) {
	t.Parallel()

	var runs atomic.Int64
	s := NewIntervalScheduler(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx, func(time.Time) { runs.Add(1) }); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	deadline := time.After(time.Second)
	for runs.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("job never ran")
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}

	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}
}

func TestIntervalSchedulerTicks(t *testing.T) {
	t.Parallel()

	var runs atomic.Int64
	s := NewIntervalScheduler(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx, func(time.Time) { runs.Add(1) }); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for runs.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("expected at least 3 runs, got %d", runs.Load())
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}

	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}
}

func TestIntervalSchedulerStopWaitsForJob(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	entered := make(chan struct{})
	var finished atomic.Bool

	s := NewIntervalScheduler(time.Hour)
	ctx := context.Background()

	err := s.Start(ctx, func(time.Time) {
		close(entered)
		<-release
		finished.Store(true)
	})
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	<-entered
	go func() {
		time.Sleep(20 * time.Millisecond)
		close(release)
	}()

	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}
	if !finished.Load() {
		t.Fatal("Stop returned before in-flight job finished")
	}
}

func TestIntervalSchedulerZeroInterval(t *testing.T) {
	t.Parallel()

	var runs atomic.Int64
	s := NewIntervalScheduler(0)
	if s.interval != fallbackInterval {
		t.Fatalf("expected fallback interval, got %v", s.interval)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx, func(time.Time) { runs.Add(1) }); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	deadline := time.After(time.Second)
	for runs.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("job never ran")
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}

	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}
}

func TestIntervalSchedulerStopWithoutStart(t *testing.T) {
	t.Parallel()

	s := NewIntervalScheduler(time.Hour)
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}
}
