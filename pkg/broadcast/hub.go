package broadcast

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Message wraps a payload pushed to subscribers.
type Message[T any] struct {
	ID        string
	Payload   T
	Timestamp time.Time
}

// Config configures hub behavior.
type Config struct {
	// DefaultBufferSize is the per-subscriber channel buffer.
	DefaultBufferSize int
	// ShutdownTimeout bounds how long Close waits for background goroutines.
	ShutdownTimeout time.Duration
	// MetricsCallback, when set, is invoked with the subscriber count after
	// every subscribe and unsubscribe.
	MetricsCallback func(subscribers int)
}

// Hub maintains the set of currently connected subscribers and pushes
// messages to all of them. Delivery is fire-and-forget: there is no replay
// for late subscribers, no acknowledgement, and no backpressure. A subscriber
// whose buffer is full is considered dead and is closed, which removes it
// from the set.
type Hub[T any] struct {
	config      Config
	subscribers map[string]*Subscriber[T]
	mu          sync.RWMutex
	wg          sync.WaitGroup
	closed      bool
	closeChan   chan struct{}
}

// Subscriber is a runtime handle for one connected client.
type Subscriber[T any] struct {
	id        string
	messages  chan Message[T]
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	hub       *Hub[T]
}

// NewHub creates a hub with the given configuration.
func NewHub[T any](config Config) *Hub[T] {
	if config.DefaultBufferSize <= 0 {
		config.DefaultBufferSize = 100
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 30 * time.Second
	}

	return &Hub[T]{
		config:      config,
		subscribers: make(map[string]*Subscriber[T]),
		closeChan:   make(chan struct{}),
	}
}

// Subscribe registers a new subscriber. The subscription is closed when the
// provided context is cancelled or when Close is called on the handle.
func (h *Hub[T]) Subscribe(ctx context.Context) (*Subscriber[T], error) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, ErrHubClosed
	}

	subCtx, subCancel := context.WithCancel(ctx)
	sub := &Subscriber[T]{
		id:       uuid.New().String(),
		messages: make(chan Message[T], h.config.DefaultBufferSize),
		ctx:      subCtx,
		cancel:   subCancel,
		hub:      h,
	}
	h.subscribers[sub.id] = sub
	count := len(h.subscribers)
	h.mu.Unlock()

	if h.config.MetricsCallback != nil {
		h.config.MetricsCallback(count)
	}

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		<-subCtx.Done()
		sub.Close()
	}()

	return sub, nil
}

// Publish pushes a payload to every subscriber currently in the set.
// A failed push to one subscriber never interrupts pushes to the rest, and
// failures are invisible to the caller.
func (h *Hub[T]) Publish(ctx context.Context, payload T) {
	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return
	}
	// Snapshot so a disconnect mid-broadcast cannot corrupt iteration.
	subscribers := make([]*Subscriber[T], 0, len(h.subscribers))
	for _, sub := range h.subscribers {
		subscribers = append(subscribers, sub)
	}
	h.mu.RUnlock()

	msg := Message[T]{
		ID:        uuid.New().String(),
		Payload:   payload,
		Timestamp: time.Now(),
	}

	for _, sub := range subscribers {
		select {
		case <-ctx.Done():
			return
		case <-h.closeChan:
			return
		default:
		}

		select {
		case sub.messages <- msg:
		case <-sub.ctx.Done():
			// Subscriber already closing.
		default:
			// Buffer full: the consumer stopped draining. Close it so the
			// connection lifecycle removes it from the set.
			go sub.Close()
		}
	}
}

// SubscriberCount returns the number of currently registered subscribers.
func (h *Hub[T]) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Close shuts down the hub and all subscribers.
func (h *Hub[T]) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	close(h.closeChan)
	subscribers := make([]*Subscriber[T], 0, len(h.subscribers))
	for _, sub := range h.subscribers {
		subscribers = append(subscribers, sub)
	}
	h.mu.Unlock()

	for _, sub := range subscribers {
		sub.Close()
	}

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(h.config.ShutdownTimeout):
		return ErrShutdownTimeout
	}
}

// Messages returns the channel to receive messages on. The channel is never
// closed; consumers must select on Done as well.
func (s *Subscriber[T]) Messages() <-chan Message[T] {
	return s.messages
}

// Done is closed when the subscription ends.
func (s *Subscriber[T]) Done() <-chan struct{} {
	return s.ctx.Done()
}

// ID returns the unique subscriber ID.
func (s *Subscriber[T]) ID() string {
	return s.id
}

// Close unsubscribes and releases resources. Safe for repeated calls.
func (s *Subscriber[T]) Close() {
	s.closeOnce.Do(func() {
		s.cancel()

		s.hub.mu.Lock()
		delete(s.hub.subscribers, s.id)
		count := len(s.hub.subscribers)
		s.hub.mu.Unlock()

		if s.hub.config.MetricsCallback != nil {
			s.hub.config.MetricsCallback(count)
		}
	})
}
