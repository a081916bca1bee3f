package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/amishk599/jobpulse/internal/model"
)

// Runner performs one refresh cycle.
type Runner interface {
	Run(ctx context.Context) (model.RunSummary, error)
}

// Scheduler owns the daemon loop: runs the pipeline immediately, then again
// every interval. Runs never overlap.
type Scheduler struct {
	runner   Runner
	interval time.Duration
	logger   *slog.Logger
}

// NewScheduler creates a scheduler that refreshes the dataset at the given interval.
func NewScheduler(runner Runner, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		interval: interval,
		logger:   logger,
	}
}

// Run starts the refresh loop. It runs one immediate cycle, then waits the
// configured interval after each cycle finishes. A failed cycle is logged
// and the loop continues. It returns nil when ctx is cancelled (graceful
// shutdown).
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting scheduler", "interval", s.interval.String())

	// Run one immediate refresh cycle.
	s.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down scheduler")
			return nil
		case <-time.After(s.interval):
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	run, err := s.runner.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Error("refresh failed", "run_id", run.RunID, "error", err)
		return
	}
	s.logger.Info("refresh complete",
		"run_id", run.RunID,
		"unique", run.Unique,
		"next_in", s.interval.String(),
	)
}
