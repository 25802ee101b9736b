package scheduler

import (
	"context"
	"time"

	"RedditPulse/internal/ports"
)

// IntervalScheduler runs a job immediately and then on a fixed cadence until
// the context is cancelled or Stop is called.
type IntervalScheduler struct {
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

var _ ports.Scheduler = (*IntervalScheduler)(nil)

// fallbackInterval replaces a non-positive sweep interval, which would make
// time.NewTicker panic.
const fallbackInterval = time.Minute

// NewIntervalScheduler builds a scheduler with the given sweep interval.
func NewIntervalScheduler(interval time.Duration) *IntervalScheduler {
	if interval <= 0 {
		interval = fallbackInterval
	}
	return &IntervalScheduler{interval: interval}
}

// Start begins ticking. The job runs once right away; a job invocation always
// finishes before the scheduler observes cancellation.
func (s *IntervalScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	if s.stop != nil {
		return nil
	}

	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		job(time.Now())
		for {
			select {
			case t := <-ticker.C:
				job(t)
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			}
		}
	}()

	return nil
}

// Stop halts the ticker goroutine and waits for an in-flight job to finish.
func (s *IntervalScheduler) Stop(ctx context.Context) error {
	if s.stop == nil {
		return nil
	}
	close(s.stop)
	s.stop = nil

	select {
	case <-s.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}
