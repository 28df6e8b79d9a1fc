package worker_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventreport/backend/pkg/worker"
)

func TestPoolLifecycle(t *testing.T) {
	t.Parallel()

	t.Run("enqueue before start is rejected only when stopped", func(t *testing.T) {
		t.Parallel()
		p := worker.NewPool(worker.WithWorkers(1))
		require.NoError(t, p.Start(context.Background()))
		t.Cleanup(func() { _ = p.Stop() })

		assert.ErrorIs(t, p.Enqueue(nil), worker.ErrNilJob)
	})

	t.Run("double start", func(t *testing.T) {
		t.Parallel()
		p := worker.NewPool(worker.WithWorkers(1))
		require.NoError(t, p.Start(context.Background()))
		t.Cleanup(func() { _ = p.Stop() })

		assert.ErrorIs(t, p.Start(context.Background()), worker.ErrAlreadyStarted)
	})

	t.Run("stop before start", func(t *testing.T) {
		t.Parallel()
		p := worker.NewPool()
		assert.ErrorIs(t, p.Stop(), worker.ErrNotStarted)
	})

	t.Run("jobs run on background workers", func(t *testing.T) {
		t.Parallel()
		p := worker.NewPool(worker.WithWorkers(2), worker.WithQueueSize(8))
		require.NoError(t, p.Start(context.Background()))

		var count atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 5; i++ {
			wg.Add(1)
			require.NoError(t, p.Enqueue(func(ctx context.Context) {
				defer wg.Done()
				count.Add(1)
			}))
		}
		wg.Wait()

		assert.Equal(t, int32(5), count.Load())
		require.NoError(t, p.Stop())
	})

	t.Run("stop drains queued jobs", func(t *testing.T) {
		t.Parallel()
		p := worker.NewPool(worker.WithWorkers(1), worker.WithQueueSize(16))
		require.NoError(t, p.Start(context.Background()))

		var count atomic.Int32
		for i := 0; i < 10; i++ {
			require.NoError(t, p.Enqueue(func(ctx context.Context) {
				count.Add(1)
			}))
		}

		require.NoError(t, p.Stop())
		assert.Equal(t, int32(10), count.Load())
	})

	t.Run("enqueue after stop", func(t *testing.T) {
		t.Parallel()
		p := worker.NewPool(worker.WithWorkers(1))
		require.NoError(t, p.Start(context.Background()))
		require.NoError(t, p.Stop())

		assert.ErrorIs(t, p.Enqueue(func(ctx context.Context) {}), worker.ErrStopped)
	})

	t.Run("full queue rejects without blocking", func(t *testing.T) {
		t.Parallel()
		p := worker.NewPool(worker.WithWorkers(1), worker.WithQueueSize(1))
		require.NoError(t, p.Start(context.Background()))
		t.Cleanup(func() { _ = p.Stop() })

		release := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(1)
		// Occupy the single worker.
		require.NoError(t, p.Enqueue(func(ctx context.Context) {
			defer wg.Done()
			<-release
		}))

		// Fill the buffer, then expect rejection.
		require.Eventually(t, func() bool {
			err := p.Enqueue(func(ctx context.Context) {})
			return err == nil || err == worker.ErrQueueFull
		}, time.Second, time.Millisecond)

		var sawFull bool
		for i := 0; i < 3; i++ {
			if p.Enqueue(func(ctx context.Context) {}) == worker.ErrQueueFull {
				sawFull = true
				break
			}
		}
		assert.True(t, sawFull)

		close(release)
		wg.Wait()
	})

	t.Run("panicking job does not kill the pool", func(t *testing.T) {
		t.Parallel()
		p := worker.NewPool(worker.WithWorkers(1))
		require.NoError(t, p.Start(context.Background()))

		var wg sync.WaitGroup
		wg.Add(1)
		require.NoError(t, p.Enqueue(func(ctx context.Context) {
			defer wg.Done()
			panic("boom")
		}))
		wg.Wait()

		done := make(chan struct{})
		require.NoError(t, p.Enqueue(func(ctx context.Context) { close(done) }))
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("pool stopped processing after a panic")
		}
		require.NoError(t, p.Stop())
	})
}
