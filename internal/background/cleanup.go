package background

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/BradenHooton/quill/internal/metrics"
)

// Sweeper removes expired entries and reports how many it removed.
// Both cache.ExpiringStore and cache.AttemptCounter satisfy it.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// CleanupManager periodically sweeps expired reset tokens and login counters
type CleanupManager struct {
	sweepers map[string]Sweeper
	logger   *slog.Logger
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// NewCleanupManager creates a new cleanup manager. sweepers is keyed by the
// kind label reported in logs and metrics.
func NewCleanupManager(sweepers map[string]Sweeper, logger *slog.Logger, interval time.Duration) *CleanupManager {
	return &CleanupManager{
		sweepers: sweepers,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the periodic sweep until Stop is called or ctx is done.
// It blocks; run it in its own goroutine.
func (cm *CleanupManager) Start(ctx context.Context) {
	defer close(cm.doneCh)

	ticker := time.NewTicker(cm.interval)
	defer ticker.Stop()

	// Run immediately on startup
	cm.runCleanup(ctx)

	for {
		select {
		case <-ticker.C:
			cm.runCleanup(ctx)
		case <-cm.stopCh:
			cm.logger.Info("cleanup manager stopped")
			return
		case <-ctx.Done():
			cm.logger.Info("cleanup manager context cancelled")
			return
		}
	}
}

func (cm *CleanupManager) runCleanup(ctx context.Context) {
	cleanupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for kind, sweeper := range cm.sweepers {
		removed, err := sweeper.Sweep(cleanupCtx)
		if err != nil {
			cm.logger.Error("failed to sweep expired entries",
				slog.String("kind", kind), slog.Any("error", err))
			continue
		}

		metrics.RecordSwept(kind, removed)
		if removed > 0 {
			cm.logger.Debug("expired entries swept",
				slog.String("kind", kind), slog.Int("removed", removed))
		}
	}
}

// Stop signals the cleanup manager to stop and waits for Start to return.
// It is safe to call more than once.
func (cm *CleanupManager) Stop() {
	cm.stopOnce.Do(func() { close(cm.stopCh) })
	<-cm.doneCh
}
