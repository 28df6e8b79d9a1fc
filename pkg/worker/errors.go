package worker

import "errors"

var (
	ErrNilJob          = errors.New("worker: nil job")
	ErrQueueFull       = errors.New("worker: job queue is full")
	ErrStopped         = errors.New("worker: pool is stopped")
	ErrAlreadyStarted  = errors.New("worker: pool already started")
	ErrNotStarted      = errors.New("worker: pool not started")
	ErrShutdownTimeout = errors.New("worker: shutdown timed out")
)
