package usecase

import (
	"context"
	"log/slog"
	"time"

	"WineWindow/internal/ports"
)

// Scheduler wires the ticking driver with the backfill job.
type Scheduler struct {
	driver   ports.Scheduler
	backfill *Backfill
	logger   *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring backfills.
func NewScheduler(driver ports.Scheduler, backfill *Backfill, logger *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, backfill: backfill, logger: logger}
}

// Start registers the backfill with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.backfill == nil {
		return nil
	}

	job := func(trigger time.Time) {
		if _, err := s.backfill.Run(ctx); err != nil && s.logger != nil {
			s.logger.Error("scheduled backfill failed", "trigger", trigger.Format(time.RFC3339), "error", err)
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
