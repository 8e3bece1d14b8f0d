package usecase

import (
	"context"
	"log/slog"
	"time"

	"ArticlePress/internal/ports"
)

// Scheduler wires the cron driver with unattended pipeline runs. A scheduled
// run composes an article for the top-ranked story; publication stays a human
// decision.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	logger   *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring jobs.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, logger *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, pipeline: pipeline, logger: logger}
}

// Start registers the pipeline with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	job := func(trigger time.Time) {
		path, err := s.pipeline.ComposeTop(ctx)
		if err != nil {
			if s.logger != nil {
				s.logger.Error("scheduled run failed", "trigger", trigger, "error", err)
			}
			return
		}
		if s.logger != nil && path != "" {
			s.logger.Info("scheduled run produced article", "trigger", trigger, "path", path)
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
