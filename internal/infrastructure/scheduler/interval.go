package scheduler

import (
	"context"
	"time"

	"newsrobot/internal/ports"
)

// IntervalScheduler triggers the job on a fixed period using time.Ticker.
type IntervalScheduler struct {
	every time.Duration
	stop  chan struct{}
}

var _ ports.Scheduler = (*IntervalScheduler)(nil)

// NewIntervalScheduler builds a scheduler firing every d. The first run
// happens only after the first full interval elapses.
func NewIntervalScheduler(d time.Duration) *IntervalScheduler {
	return &IntervalScheduler{every: d}
}

// Start launches the ticking goroutine. Calling Start twice is a no-op.
func (s *IntervalScheduler) Start(ctx context.Context, job func()) error {
	if job == nil {
		return nil
	}

	if s.stop != nil {
		return nil
	}

	s.stop = make(chan struct{})
	go func() {
		ticker := time.NewTicker(s.every)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				job()
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			}
		}
	}()

	return nil
}

// Stop halts the ticker goroutine.
func (s *IntervalScheduler) Stop(ctx context.Context) error {
	if s.stop == nil {
		return nil
	}
	close(s.stop)
	s.stop = nil
	return nil
}
