package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"ai-stock-forecaster/internal/logger"
	"ai-stock-forecaster/internal/pipeline"
)

// Scheduler runs the forecast pipeline on a cron schedule. Overlapping runs
// are skipped rather than queued: one slow cycle must not pile up behind
// itself.
type Scheduler struct {
	cron *cron.Cron
	pipe *pipeline.Pipeline
	ctx  context.Context

	running chan struct{}
}

func New(ctx context.Context, pipe *pipeline.Pipeline) *Scheduler {
	s := &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		pipe:    pipe,
		ctx:     ctx,
		running: make(chan struct{}, 1),
	}
	return s
}

// Register adds the forecast cycle under the given 6-field cron expression.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.runCycle); err != nil {
		return fmt.Errorf("register forecast schedule %q: %w", spec, err)
	}
	return nil
}

func (s *Scheduler) runCycle() {
	select {
	case s.running <- struct{}{}:
	default:
		logger.Warn(s.ctx, "Previous forecast cycle still running - skipping this trigger")
		return
	}
	defer func() { <-s.running }()

	if err := s.pipe.Run(s.ctx); err != nil {
		logger.ErrorWithErr(s.ctx, "Scheduled forecast cycle failed", err)
	}
}

// RunNow executes one cycle immediately, outside the schedule.
func (s *Scheduler) RunNow() error {
	return s.pipe.Run(s.ctx)
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info(s.ctx, "Scheduler started")
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	logger.Info(s.ctx, "Scheduler stopped")
}
