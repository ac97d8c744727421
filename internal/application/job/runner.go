package job

import (
	"context"
	"log/slog"
	"time"
)

// RunLock guards against overlapping reconciliation runs across service
// instances. acquired is false when another holder owns the lock; release is
// non-nil only when acquired.
type RunLock interface {
	TryLock(ctx context.Context) (release func(), acquired bool, err error)
}

// Runner drives the reconciler on a fixed interval until its context is
// cancelled. A run that cannot take the lock is skipped, not queued.
type Runner struct {
	reconciler *OverdueReconciler
	lock       RunLock
	interval   time.Duration
	logger     *slog.Logger
}

// NewRunner wires dependencies. interval is typically 24h.
func NewRunner(reconciler *OverdueReconciler, lock RunLock, interval time.Duration, logger *slog.Logger) *Runner {
	return &Runner{
		reconciler: reconciler,
		lock:       lock,
		interval:   interval,
		logger:     logger,
	}
}

// Start runs one pass immediately and then on every tick. It blocks until
// ctx is cancelled, so callers run it in its own goroutine.
func (r *Runner) Start(ctx context.Context) {
	r.runOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciliation runner stopped")
			return
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

func (r *Runner) runOnce(ctx context.Context) {
	release, acquired, err := r.lock.TryLock(ctx)
	if err != nil {
		r.logger.Error("reconciliation lock attempt failed", "error", err)
		return
	}
	if !acquired {
		r.logger.Info("reconciliation already running elsewhere, skipping")
		return
	}
	defer release()

	if _, err := r.reconciler.Run(ctx, time.Now().UTC()); err != nil {
		r.logger.Error("overdue reconciliation failed", "error", err)
	}
}
