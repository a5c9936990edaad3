// Package scheduler runs periodic background jobs using the gocron library.
// The only job today is SQLite maintenance (VACUUM) on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/mrocha/faqbot/internal/config"
	"github.com/mrocha/faqbot/internal/database"
)

const maintenanceTimeout = 5 * time.Minute

// Scheduler manages scheduled tasks using the gocron library.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
	cfg       *config.SchedulerConfig
	store     database.Store
	mu        sync.Mutex
	running   bool
}

// NewScheduler creates a new scheduler instance using gocron.
func NewScheduler(logger *slog.Logger, cfg *config.SchedulerConfig, store database.Store) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	return &Scheduler{
		scheduler: s,
		logger:    logger.With("component", "scheduler"),
		cfg:       cfg,
		store:     store,
	}, nil
}

// Start registers the maintenance job (when enabled) and starts the
// scheduler's internal ticking.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}

	if !s.cfg.MaintenanceEnabled {
		s.logger.Info("Database maintenance job disabled")
		s.scheduler.Start()
		s.running = true
		return nil
	}

	_, err := s.scheduler.NewJob(
		gocron.CronJob(s.cfg.MaintenanceSchedule, false),
		gocron.NewTask(func() {
			s.logger.Info("Running scheduled task", "task_name", "db_maintenance")
			startTime := time.Now()

			ctx, cancel := context.WithTimeout(context.Background(), maintenanceTimeout)
			defer cancel()
			if taskErr := s.store.RunMaintenance(ctx); taskErr != nil {
				s.logger.Error("Scheduled task failed", "task_name", "db_maintenance", "error", taskErr)
			}

			s.logger.Info("Finished scheduled task", "task_name", "db_maintenance", "duration", time.Since(startTime))
		}),
		gocron.WithName("db_maintenance"),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule maintenance task: %w", err)
	}

	s.scheduler.Start()
	s.running = true
	s.logger.Info("Scheduler started", "maintenance_schedule", s.cfg.MaintenanceSchedule)
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs to complete.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	err := s.scheduler.Shutdown()
	if err != nil {
		s.logger.Error("Error during scheduler shutdown", "error", err)
	} else {
		s.logger.Info("Scheduler stopped gracefully.")
	}

	s.running = false
	return err
}
