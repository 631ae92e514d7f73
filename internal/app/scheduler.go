package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lwr-nhs/tutoring/internal/service"
)

// Scheduler drives the periodic slot sweep in the background.
type Scheduler struct {
	rollover *service.RolloverService
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
}

func NewScheduler(rollover *service.RolloverService, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		rollover: rollover,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start launches the sweep loop.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler",
		zap.Duration("sweep_interval", s.interval))

	go s.runSweepTask(ctx)
}

// Stop terminates the background loop.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

// runSweepTask runs one sweep immediately, then on every tick.
func (s *Scheduler) runSweepTask(ctx context.Context) {
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.stopChan:
			s.logger.Info("Slot sweep task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Slot sweep task cancelled")
			return
		}
	}
}

func (s *Scheduler) sweep(ctx context.Context) {
	s.logger.Info("Starting slot expiration sweep")

	// Per-tutor failures are already logged inside the sweep; the combined
	// error is reported here and the next tick tries again.
	if err := s.rollover.Sweep(ctx); err != nil {
		s.logger.Error("Slot sweep finished with failures", zap.Error(err))
		return
	}

	s.logger.Info("Slot sweep completed successfully")
}
