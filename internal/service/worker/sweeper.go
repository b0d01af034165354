package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"portfoliohub/internal/repository"
)

// Sweeper runs the scheduled overdue-task sweep: any Open task past its due
// date becomes Delayed. The sweep is idempotent and independent of any
// in-flight request.
type Sweeper struct {
	tasks    *repository.TaskRepository
	logger   *zap.Logger
	interval time.Duration
}

func NewSweeper(tasks *repository.TaskRepository, interval time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{tasks: tasks, interval: interval, logger: logger}
}

// Start runs one sweep immediately, then on the configured cadence until the
// context is cancelled. Call in a goroutine.
func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("Starting overdue task sweeper",
		zap.Duration("interval", s.interval),
	)

	s.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Overdue task sweeper stopped")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single sweep.
func (s *Sweeper) RunOnce(ctx context.Context) {
	count, err := s.tasks.MarkOverdue(ctx)
	if err != nil {
		s.logger.Error("Overdue sweep failed", zap.Error(err))
		return
	}
	if count > 0 {
		s.logger.Info("Overdue tasks marked as delayed", zap.Int64("count", count))
	} else {
		s.logger.Debug("No overdue tasks found")
	}
}
