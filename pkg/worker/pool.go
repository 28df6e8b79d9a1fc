package worker

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Job is a fire-and-forget unit of work. The context passed to the job is the
// pool's own context, deliberately detached from any request: once enqueued, a
// job is not cancelled by the caller going away.
type Job func(ctx context.Context)

// Pool processes jobs on a fixed set of background goroutines.
type Pool struct {
	jobs   chan Job
	poolID uuid.UUID
	wg     sync.WaitGroup
	mu     sync.Mutex
	stopMu sync.RWMutex // serializes Enqueue against channel close in Stop

	workers         int
	shutdownTimeout time.Duration
	logger          *slog.Logger

	ctx      context.Context
	cancel   context.CancelFunc
	stopping atomic.Bool
}

// NewPool creates a new pool. It must be started with Start before use.
func NewPool(opts ...Option) *Pool {
	options := &options{
		workers:         4,
		queueSize:       256,
		shutdownTimeout: 30 * time.Second,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	return &Pool{
		jobs:            make(chan Job, options.queueSize),
		poolID:          uuid.New(),
		workers:         options.workers,
		shutdownTimeout: options.shutdownTimeout,
		logger:          options.logger,
	}
}

// Start launches the worker goroutines.
func (p *Pool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		return ErrAlreadyStarted
	}

	p.ctx, p.cancel = context.WithCancel(ctx)
	p.stopping.Store(false)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run()
	}

	p.logger.Info("worker pool started",
		slog.String("pool_id", p.poolID.String()),
		slog.Int("workers", p.workers))

	return nil
}

// Enqueue schedules a job for background execution. It never blocks: when the
// queue is full or the pool is stopping the job is rejected with an error,
// which the caller may log but must not surface to its own caller.
func (p *Pool) Enqueue(job Job) error {
	if job == nil {
		return ErrNilJob
	}

	p.stopMu.RLock()
	defer p.stopMu.RUnlock()
	if p.stopping.Load() {
		return ErrStopped
	}

	select {
	case p.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop drains in-flight jobs and shuts the pool down. Jobs still waiting in
// the queue are executed before workers exit, bounded by the shutdown timeout.
func (p *Pool) Stop() error {
	p.mu.Lock()
	if p.cancel == nil {
		p.mu.Unlock()
		return ErrNotStarted
	}
	if !p.stopping.CompareAndSwap(false, true) {
		p.mu.Unlock()
		return nil
	}
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	p.stopMu.Lock()
	close(p.jobs)
	p.stopMu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(p.shutdownTimeout):
		cancel()
		<-done
		p.logger.Warn("worker pool stopped after timeout",
			slog.String("pool_id", p.poolID.String()))
		return ErrShutdownTimeout
	}

	cancel()
	p.logger.Info("worker pool stopped", slog.String("pool_id", p.poolID.String()))
	return nil
}

func (p *Pool) run() {
	defer p.wg.Done()

	for job := range p.jobs {
		p.execute(job)
	}
}

// execute runs a single job, converting panics into log entries so one bad
// job cannot take down the pool.
func (p *Pool) execute(job Job) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("job panicked",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
		}
	}()

	job(p.ctx)
}
