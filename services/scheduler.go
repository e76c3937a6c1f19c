package services

import (
	"fmt"
	"time"

	"mlb-streak-go/config"
	"mlb-streak-go/logging"

	"github.com/go-co-op/gocron/v2"
)

// DailyScheduler runs named tasks once per day at fixed local times. It wraps
// gocron so callers only deal with "HH:MM" strings from config.
type DailyScheduler struct {
	scheduler gocron.Scheduler
	logger    *logging.Logger
}

// NewDailyScheduler creates a scheduler whose clock times are interpreted in loc.
func NewDailyScheduler(loc *time.Location) (*DailyScheduler, error) {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &DailyScheduler{
		scheduler: scheduler,
		logger:    logging.WithPrefix("Scheduler"),
	}, nil
}

// AddDailyJob registers task to run every day at the given "HH:MM" clock time.
func (s *DailyScheduler) AddDailyJob(name, clock string, task func()) error {
	hour, minute, err := config.ParseClock(clock)
	if err != nil {
		return fmt.Errorf("invalid time for job %s: %w", name, err)
	}

	job, err := s.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(uint(hour), uint(minute), 0))),
		gocron.NewTask(task),
		gocron.WithName(name),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", name, err)
	}

	s.logger.Infof("Scheduled daily job %s at %s (id=%s)", name, clock, job.ID())
	return nil
}

// Start begins running scheduled jobs in the background.
func (s *DailyScheduler) Start() {
	s.scheduler.Start()
	s.logger.Info("Scheduler started")
}

// Shutdown stops the scheduler and waits for running jobs to finish.
func (s *DailyScheduler) Shutdown() error {
	if err := s.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("failed to shut down scheduler: %w", err)
	}
	s.logger.Info("Scheduler stopped")
	return nil
}
