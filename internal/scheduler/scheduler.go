// Package scheduler triggers batch runs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs one job on a standard five-field cron expression.
type Scheduler struct {
	cron     *cron.Cron
	location *time.Location
	mu       sync.Mutex
	entryID  cron.EntryID
	started  bool
}

// NewScheduler creates a scheduler evaluating expressions in loc.
func NewScheduler(loc *time.Location) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		location: loc,
	}
}

// Schedule replaces the scheduled job with fn, fired on spec.
func (s *Scheduler) Schedule(spec string, fn func()) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entryID != 0 {
		s.cron.Remove(s.entryID)
	}

	entryID, err := s.cron.AddFunc(spec, fn)
	if err != nil {
		return fmt.Errorf("add cron job: %w", err)
	}

	s.entryID = entryID

	return nil
}

// Next returns the next time the job fires, or the zero time when nothing
// is scheduled or the scheduler is stopped.
func (s *Scheduler) Next() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entryID == 0 {
		return time.Time{}
	}

	return s.cron.Entry(s.entryID).Next
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		s.cron.Start()
		s.started = true
	}
}

// Stop halts the scheduler. A job already running is not interrupted; the
// returned context is done once it has returned.
func (s *Scheduler) Stop() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		return ctx
	}

	s.started = false

	return s.cron.Stop()
}

// Window returns the publish-date window of a run fired at now: the
// lookbackDays days ending with the day of now, as [since, until).
func Window(now time.Time, lookbackDays int) (time.Time, time.Time) {
	y, m, d := now.Date()
	until := time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())

	return until.AddDate(0, 0, -lookbackDays), until
}
