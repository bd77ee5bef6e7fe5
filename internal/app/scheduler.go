package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const retentionInterval = 24 * time.Hour

// HistoryPruner removes sync runs older than a cutoff.
type HistoryPruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Scheduler runs the history retention task in the background.
type Scheduler struct {
	pruner    HistoryPruner
	retention time.Duration
	interval  time.Duration
	now       func() time.Time
	logger    *zap.Logger
	stopChan  chan struct{}
	done      chan struct{}
}

func NewScheduler(pruner HistoryPruner, retention time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		pruner:    pruner,
		retention: retention,
		interval:  retentionInterval,
		now:       time.Now,
		logger:    logger,
		stopChan:  make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start launches the retention task; it prunes once immediately.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting history retention task", zap.Duration("retention", s.retention))
	go s.runRetentionTask(ctx)
}

// Stop signals the task and waits for it to exit.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping history retention task")
	close(s.stopChan)
	<-s.done
}

func (s *Scheduler) runRetentionTask(ctx context.Context) {
	defer close(s.done)

	s.prune(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.prune(ctx)
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) prune(ctx context.Context) {
	cutoff := s.now().Add(-s.retention)

	removed, err := s.pruner.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("Failed to prune sync history", zap.Error(err))
		return
	}

	s.logger.Info("Sync history pruned",
		zap.Int64("removed", removed),
		zap.Time("cutoff", cutoff),
	)
}
