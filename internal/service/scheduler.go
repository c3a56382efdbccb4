package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs background jobs on cron schedules. A run still in
// progress when the next one is due is skipped.
type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger
	// timeout bounds a single run.
	timeout time.Duration
}

// NewScheduler constructs a Scheduler evaluating schedules in loc. Each run
// gets a context cancelled after timeout.
func NewScheduler(loc *time.Location, timeout time.Duration, log *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(loc), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		log:     log,
		timeout: timeout,
	}
}

// Schedule registers job under a standard cron expression or descriptor
// such as "@every 6h". Job errors are logged and never stop the scheduler.
func (s *Scheduler) Schedule(schedule, name string, job func(ctx context.Context) error) (cron.EntryID, error) {
	id, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		start := time.Now()
		if err := job(ctx); err != nil {
			s.log.Error("scheduled job failed", zap.String("job", name), zap.Error(err))
			return
		}
		s.log.Debug("scheduled job finished", zap.String("job", name), zap.Duration("duration", time.Since(start)))
	})
	if err != nil {
		return 0, fmt.Errorf("schedule %s with %q: %w", name, schedule, err)
	}
	return id, nil
}

// ScheduleCalendarSync imports url on schedule.
func (s *Scheduler) ScheduleCalendarSync(schedule, url string, calendar *CalendarService) (cron.EntryID, error) {
	return s.Schedule(schedule, "calendar sync", func(ctx context.Context) error {
		_, err := calendar.Import(ctx, url)
		return err
	})
}

// Entries returns the number of registered jobs.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
