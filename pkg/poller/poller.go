// Package poller provides a fixed-interval scheduler that never overlaps
// runs: a tick is skipped while the previous run is still outstanding.
package poller

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Func is one poll run. A slow run delays nothing; subsequent ticks are
// skipped until it returns.
type Func func(ctx context.Context)

// Poller runs a Func on a fixed interval with an in-flight guard.
type Poller struct {
	interval time.Duration
	fn       Func
	logger   *zap.Logger

	inFlight atomic.Bool
	skipped  atomic.Int64

	started  atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// New creates a Poller. Start must be called to begin ticking.
func New(interval time.Duration, fn Func, logger *zap.Logger) *Poller {
	return &Poller{
		interval: interval,
		fn:       fn,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins ticking until Stop is called or ctx is cancelled. The first
// run happens after one interval, not immediately.
func (p *Poller) Start(ctx context.Context) {
	if !p.started.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer close(p.done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-p.stop:
				return
			case <-ticker.C:
				p.runOnce(ctx)
			}
		}
	}()
}

func (p *Poller) runOnce(ctx context.Context) {
	if !p.inFlight.CompareAndSwap(false, true) {
		p.skipped.Add(1)
		p.logger.Debug("previous poll still running, skipping tick",
			zap.Int64("skipped", p.skipped.Load()))
		return
	}

	go func() {
		defer p.inFlight.Store(false)
		p.fn(ctx)
	}()
}

// Stop halts ticking and waits for the loop to exit. A run already in
// flight is not interrupted. Stopping a poller that was never started
// returns immediately.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })
	if !p.started.Load() {
		return
	}
	<-p.done
}

// SkippedTicks reports how many ticks were dropped by the in-flight guard.
func (p *Poller) SkippedTicks() int64 {
	return p.skipped.Load()
}
