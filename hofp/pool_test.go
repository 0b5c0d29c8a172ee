package hofp

import (
	"context"
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPool(t *testing.T) {
	pool := NewPool(Options{Size: 1})

	require.Equal(t, 1, pool.Size())
	require.NoError(t, pool.Stop())
}

func TestNewPoolDefaultSize(t *testing.T) {
	pool := NewPool(Options{})

	require.Equal(t, runtime.NumCPU(), pool.Size())
	require.NoError(t, pool.Stop())
}

func TestPoolQueue(t *testing.T) {
	var (
		pool     = NewPool(Options{Size: 4})
		executed atomic.Int64
	)

	for i := 0; i < 42; i++ {
		err := pool.Queue(func(context.Context) error {
			executed.Add(1)
			return nil
		})
		require.NoError(t, err)
	}

	require.NoError(t, pool.Stop())
	require.Equal(t, int64(42), executed.Load())
}

func TestPoolFailFast(t *testing.T) {
	pool := NewPool(Options{Size: 1})

	// The returned error is racy here, the function may or may not have run by the time 'Queue' returns
	_ = pool.Queue(func(context.Context) error { return assert.AnError })

	// The pool is tearing down, queuing must eventually begin surfacing the causal error
	for pool.Queue(func(context.Context) error { return nil }) == nil { //nolint:revive
	}

	require.ErrorIs(t, pool.Stop(), assert.AnError)
}

func TestPoolStopIdempotent(t *testing.T) {
	pool := NewPool(Options{Size: 1})

	_ = pool.Queue(func(context.Context) error { return assert.AnError })

	require.ErrorIs(t, pool.Stop(), assert.AnError)
	require.ErrorIs(t, pool.Stop(), assert.AnError)
}

func TestPoolWorkerContextCancelledOnTeardown(t *testing.T) {
	var (
		pool      = NewPool(Options{Size: 2})
		cancelled = make(chan struct{})
	)

	_ = pool.Queue(func(ctx context.Context) error {
		<-ctx.Done()
		close(cancelled)

		return nil
	})

	_ = pool.Queue(func(context.Context) error { return assert.AnError })

	// The first function blocks until the failure tears the pool down and cancels its context
	<-cancelled

	require.ErrorIs(t, pool.Stop(), assert.AnError)
}
