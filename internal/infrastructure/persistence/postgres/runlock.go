package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/naufallariff/credia-system/pkg/postgres"
)

// ReconcileLockKey is the advisory lock key guarding the overdue
// reconciliation job across service instances.
const ReconcileLockKey int64 = 7201_1001

// AdvisoryRunLock implements job.RunLock with a postgres advisory lock.
// Advisory locks are session-scoped, so the lock pins a dedicated pool
// connection until released.
type AdvisoryRunLock struct {
	pool *pgxpool.Pool
	key  int64
}

// NewAdvisoryRunLock creates a run lock on the given key.
func NewAdvisoryRunLock(pool *pgxpool.Pool, key int64) *AdvisoryRunLock {
	return &AdvisoryRunLock{pool: pool, key: key}
}

// TryLock attempts the lock without blocking. The returned release func
// unlocks and returns the pinned connection to the pool.
func (l *AdvisoryRunLock) TryLock(ctx context.Context) (func(), bool, error) {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("acquire connection: %w", err)
	}

	acquired, err := postgres.TryAdvisoryLock(ctx, conn, l.key)
	if err != nil {
		conn.Release()
		return nil, false, err
	}
	if !acquired {
		conn.Release()
		return nil, false, nil
	}

	release := func() {
		// Unlock on a fresh context: the job's context may already be done.
		_ = postgres.AdvisoryUnlock(context.Background(), conn, l.key)
		conn.Release()
	}
	return release, true, nil
}
