package broadcast_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventreport/backend/pkg/broadcast"
)

func receive[T any](t *testing.T, sub *broadcast.Subscriber[T]) T {
	t.Helper()
	select {
	case msg := <-sub.Messages():
		return msg.Payload
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		panic("unreachable")
	}
}

func TestHubPublish(t *testing.T) {
	t.Parallel()

	t.Run("delivers to every subscriber", func(t *testing.T) {
		t.Parallel()
		hub := broadcast.NewHub[string](broadcast.Config{})
		defer hub.Close()

		a, err := hub.Subscribe(context.Background())
		require.NoError(t, err)
		b, err := hub.Subscribe(context.Background())
		require.NoError(t, err)

		hub.Publish(context.Background(), "hello")

		assert.Equal(t, "hello", receive(t, a))
		assert.Equal(t, "hello", receive(t, b))
	})

	t.Run("no replay for late subscribers", func(t *testing.T) {
		t.Parallel()
		hub := broadcast.NewHub[string](broadcast.Config{})
		defer hub.Close()

		hub.Publish(context.Background(), "before")

		sub, err := hub.Subscribe(context.Background())
		require.NoError(t, err)

		hub.Publish(context.Background(), "after")
		assert.Equal(t, "after", receive(t, sub))

		select {
		case msg := <-sub.Messages():
			t.Fatalf("unexpected replayed message: %v", msg.Payload)
		default:
		}
	})

	t.Run("closed subscriber does not affect the rest", func(t *testing.T) {
		t.Parallel()
		hub := broadcast.NewHub[string](broadcast.Config{})
		defer hub.Close()

		gone, err := hub.Subscribe(context.Background())
		require.NoError(t, err)
		alive, err := hub.Subscribe(context.Background())
		require.NoError(t, err)

		gone.Close()
		hub.Publish(context.Background(), "still here")

		assert.Equal(t, "still here", receive(t, alive))
		assert.Equal(t, 1, hub.SubscriberCount())
	})

	t.Run("slow consumer is dropped instead of blocking", func(t *testing.T) {
		t.Parallel()
		hub := broadcast.NewHub[int](broadcast.Config{DefaultBufferSize: 1})
		defer hub.Close()

		slow, err := hub.Subscribe(context.Background())
		require.NoError(t, err)

		// Fill the buffer, then publish again without draining.
		hub.Publish(context.Background(), 1)
		hub.Publish(context.Background(), 2)

		select {
		case <-slow.Done():
		case <-time.After(time.Second):
			t.Fatal("slow subscriber was not closed")
		}
	})
}

func TestHubSubscribe(t *testing.T) {
	t.Parallel()

	t.Run("context cancellation unsubscribes", func(t *testing.T) {
		t.Parallel()
		hub := broadcast.NewHub[string](broadcast.Config{})
		defer hub.Close()

		ctx, cancel := context.WithCancel(context.Background())
		sub, err := hub.Subscribe(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, hub.SubscriberCount())

		cancel()
		select {
		case <-sub.Done():
		case <-time.After(time.Second):
			t.Fatal("subscription did not close on context cancel")
		}
		assert.Eventually(t, func() bool {
			return hub.SubscriberCount() == 0
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("metrics callback tracks the count", func(t *testing.T) {
		t.Parallel()
		var mu sync.Mutex
		var counts []int
		hub := broadcast.NewHub[string](broadcast.Config{
			MetricsCallback: func(n int) {
				mu.Lock()
				counts = append(counts, n)
				mu.Unlock()
			},
		})
		defer hub.Close()

		sub, err := hub.Subscribe(context.Background())
		require.NoError(t, err)
		sub.Close()

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, []int{1, 0}, counts)
	})

	t.Run("subscribe after close fails", func(t *testing.T) {
		t.Parallel()
		hub := broadcast.NewHub[string](broadcast.Config{})
		require.NoError(t, hub.Close())

		_, err := hub.Subscribe(context.Background())
		assert.ErrorIs(t, err, broadcast.ErrHubClosed)
	})
}

func TestHubClose(t *testing.T) {
	t.Parallel()

	t.Run("closes all subscribers", func(t *testing.T) {
		t.Parallel()
		hub := broadcast.NewHub[string](broadcast.Config{})

		sub, err := hub.Subscribe(context.Background())
		require.NoError(t, err)

		require.NoError(t, hub.Close())
		select {
		case <-sub.Done():
		case <-time.After(time.Second):
			t.Fatal("subscriber not closed on hub shutdown")
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()
		hub := broadcast.NewHub[string](broadcast.Config{})
		require.NoError(t, hub.Close())
		require.NoError(t, hub.Close())
	})

	t.Run("publish after close is a no-op", func(t *testing.T) {
		t.Parallel()
		hub := broadcast.NewHub[string](broadcast.Config{})
		require.NoError(t, hub.Close())
		hub.Publish(context.Background(), "dropped")
	})
}
