package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"khawam-pro/pkg/poller"
)

const (
	archivePollInterval = 5 * time.Second
	archiveAfter        = 72 * time.Hour
	archiveLockTTL      = archivePollInterval * 2
)

// LockHandler is the redis subset the watcher needs for its poll lock.
type LockHandler interface {
	AcquireLock(key string, value string, expiry time.Duration) (bool, error)
}

// ArchiveWatcher polls for stale completed orders and archives them. The
// poller skips a tick while a sweep is outstanding, and a redis lock keeps
// replicas from sweeping concurrently.
type ArchiveWatcher struct {
	orders  OrderService
	locks   LockHandler
	lockKey string
	logger  *zap.Logger
	poller  *poller.Poller
}

// NewArchiveWatcher creates the watcher. locks may be nil in single-replica
// deployments; the in-process guard still applies.
func NewArchiveWatcher(orders OrderService, locks LockHandler, lockKey string, logger *zap.Logger) *ArchiveWatcher {
	w := &ArchiveWatcher{
		orders:  orders,
		locks:   locks,
		lockKey: lockKey,
		logger:  logger,
	}
	w.poller = poller.New(archivePollInterval, w.sweep, logger)
	return w
}

// Start begins polling until ctx is cancelled or Stop is called.
func (w *ArchiveWatcher) Start(ctx context.Context) {
	w.poller.Start(ctx)
}

// Stop halts polling.
func (w *ArchiveWatcher) Stop() {
	w.poller.Stop()
}

func (w *ArchiveWatcher) sweep(ctx context.Context) {
	if w.locks != nil {
		ok, err := w.locks.AcquireLock(w.lockKey, "archive-watcher", archiveLockTTL)
		if err != nil {
			w.logger.Warn("archive lock unavailable, skipping sweep", zap.Error(err))
			return
		}
		if !ok {
			return
		}
	}

	n, err := w.orders.ArchiveStaleCompleted(ctx, archiveAfter)
	if err != nil {
		w.logger.Warn("archive sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		w.logger.Info("archived stale completed orders", zap.Int64("count", n))
	}
}
