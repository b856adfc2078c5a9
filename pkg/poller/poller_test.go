package poller

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestPollerRunsOnInterval(t *testing.T) {
	var runs atomic.Int64
	p := New(10*time.Millisecond, func(ctx context.Context) {
		runs.Add(1)
	}, zap.NewNop())

	p.Start(context.Background())
	time.Sleep(100 * time.Millisecond)
	p.Stop()

	assert.GreaterOrEqual(t, runs.Load(), int64(3))
}

func TestPollerSkipsTickWhileRunInFlight(t *testing.T) {
	var runs atomic.Int64
	release := make(chan struct{})

	p := New(10*time.Millisecond, func(ctx context.Context) {
		runs.Add(1)
		<-release
	}, zap.NewNop())

	p.Start(context.Background())
	time.Sleep(80 * time.Millisecond)

	// The first run is still blocked, so only one run may have started and
	// several ticks must have been skipped.
	assert.Equal(t, int64(1), runs.Load())
	assert.GreaterOrEqual(t, p.SkippedTicks(), int64(2))

	close(release)
	p.Stop()
}

func TestPollerStopWithoutStartReturns(t *testing.T) {
	p := New(10*time.Millisecond, func(ctx context.Context) {}, zap.NewNop())

	done := make(chan struct{})
	go func() {
		p.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked on a poller that was never started")
	}
}

func TestPollerStopsOnContextCancel(t *testing.T) {
	var runs atomic.Int64
	ctx, cancel := context.WithCancel(context.Background())

	p := New(5*time.Millisecond, func(ctx context.Context) {
		runs.Add(1)
	}, zap.NewNop())

	p.Start(ctx)
	time.Sleep(30 * time.Millisecond)
	cancel()
	time.Sleep(20 * time.Millisecond)
	after := runs.Load()
	time.Sleep(30 * time.Millisecond)

	assert.Equal(t, after, runs.Load())
}
