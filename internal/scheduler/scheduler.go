package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/service"
)

// CycleRunner runs one evaluation cycle
type CycleRunner interface {
	RunCycle(ctx context.Context) (*service.CycleResult, error)
}

// RatingsRefresher rebuilds ratings from match history
type RatingsRefresher interface {
	Refresh(ctx context.Context) (*service.RatingState, error)
}

// Scheduler manages cron-driven evaluation and rating refresh jobs
type Scheduler struct {
	cron            *cron.Cron
	runner          CycleRunner
	ratings         RatingsRefresher
	logger          logrus.FieldLogger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	jobTimeout      time.Duration
	gracefulTimeout time.Duration
}

// NewScheduler creates a new scheduler. Expressions accept an optional leading seconds field.
func NewScheduler(runner CycleRunner, ratings RatingsRefresher, logger logrus.FieldLogger) *Scheduler {
	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	return &Scheduler{
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.Recover(cron.PrintfLogger(logger)), cron.SkipIfStillRunning(cron.PrintfLogger(logger))),
		),
		runner:          runner,
		ratings:         ratings,
		logger:          logger.WithField("component", "scheduler"),
		jobIDs:          make([]cron.EntryID, 0),
		jobTimeout:      10 * time.Minute,
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleEvaluation schedules evaluation cycles
func (s *Scheduler) ScheduleEvaluation(cronExpression string) error {
	return s.schedule(cronExpression, "evaluation", func(ctx context.Context) error {
		result, err := s.runner.RunCycle(ctx)
		if err != nil {
			return err
		}
		s.logger.WithField("cycle_id", result.CycleID.String()).Infof("Scheduled evaluation completed: %s", result.Stats.String())
		return nil
	})
}

// ScheduleRatingsRefresh schedules rebuilding ratings from the history file
func (s *Scheduler) ScheduleRatingsRefresh(cronExpression string) error {
	if s.ratings == nil {
		return fmt.Errorf("no ratings refresher configured")
	}
	return s.schedule(cronExpression, "ratings_refresh", func(ctx context.Context) error {
		state, err := s.ratings.Refresh(ctx)
		if err != nil {
			return err
		}
		s.logger.WithFields(logrus.Fields{
			"snapshot_id": state.SnapshotID.String(),
			"teams":       state.Ratings.Len(),
		}).Info("Scheduled ratings refresh completed")
		return nil
	})
}

func (s *Scheduler) schedule(cronExpression, name string, job func(context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	entryID, err := s.cron.AddFunc(cronExpression, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()

		if err := job(ctx); err != nil {
			s.logger.WithError(err).WithField("job", name).Error("Scheduled job failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add %s job: %w", name, err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{
		"job":  name,
		"cron": cronExpression,
	}).Info("Scheduled job")

	return nil
}

// RunNow runs one evaluation cycle immediately, outside the schedule
func (s *Scheduler) RunNow(ctx context.Context) (*service.CycleResult, error) {
	return s.runner.RunCycle(ctx)
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.Infof("Scheduler started with %d jobs", len(s.jobIDs))

	return nil
}

// Stop stops the scheduler, waiting up to the graceful timeout for running jobs
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	s.isRunning = false
	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-time.After(s.gracefulTimeout):
		return fmt.Errorf("scheduler stop timed out after %s", s.gracefulTimeout)
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			nextTime := entry.Next
			if nextRun.IsZero() || nextTime.Before(nextRun) {
				nextRun = nextTime
			}
		}
	}

	return nextRun
}

// Entries returns information about scheduled entries
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			entries = append(entries, entry)
		}
	}

	return entries
}
