// Package jobs runs fire-and-forget background work on a fixed pool of goroutines.
// Delivery is best effort: a job that fails is logged and counted, never redelivered.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrQueueFull is returned by TryEnqueue when the buffer has no free slot.
	ErrQueueFull = errors.New("queue buffer full")
	// ErrQueueClosed is returned for jobs offered before Start or after Stop.
	ErrQueueClosed = errors.New("queue not accepting jobs")
)

// Job is one unit of background work.
type Job struct {
	ID       string
	Type     string
	Payload  interface{}
	Enqueued time.Time
}

// Handler processes a job.
type Handler func(context.Context, Job) error

// QueueConfig sizes the worker pool.
type QueueConfig struct {
	Workers    int
	BufferSize int
	Logger     *zap.Logger
}

// Stats counts job outcomes since the queue was built.
type Stats struct {
	Succeeded int64
	Failed    int64
	Rejected  int64
}

// Queue dispatches jobs to workers through a bounded buffer.
type Queue struct {
	name    string
	handler Handler
	workers int
	logger  *zap.Logger

	jobs   chan Job
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu   sync.RWMutex
	open bool

	succeeded atomic.Int64
	failed    atomic.Int64
	rejected  atomic.Int64
}

// NewQueue builds a queue. Nothing runs until Start.
func NewQueue(name string, handler Handler, cfg QueueConfig) *Queue {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = cfg.Workers * 16
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Queue{
		name:    name,
		handler: handler,
		workers: cfg.Workers,
		logger:  cfg.Logger.With(zap.String("queue", name)),
		jobs:    make(chan Job, cfg.BufferSize),
	}
}

// Start launches the workers. Handlers receive a context derived from ctx. Calling Start twice,
// or after Stop, does nothing.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.open || q.ctx != nil {
		return
	}
	q.ctx, q.cancel = context.WithCancel(ctx)
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	q.open = true
	q.logger.Debug("queue started", zap.Int("workers", q.workers))
}

// Stop refuses new jobs, lets the workers finish what is already buffered and waits for them.
func (q *Queue) Stop() {
	q.mu.Lock()
	if !q.open {
		q.mu.Unlock()
		return
	}
	q.open = false
	close(q.jobs)
	q.mu.Unlock()

	q.wg.Wait()
	q.cancel()
	q.logger.Debug("queue stopped", zap.Int64("succeeded", q.succeeded.Load()), zap.Int64("failed", q.failed.Load()))
}

// TryEnqueue offers a job without blocking.
func (q *Queue) TryEnqueue(job Job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if !q.open {
		q.rejected.Add(1)
		return fmt.Errorf("%w: %s", ErrQueueClosed, q.name)
	}
	if job.Enqueued.IsZero() {
		job.Enqueued = time.Now().UTC()
	}
	select {
	case q.jobs <- job:
		return nil
	default:
		q.rejected.Add(1)
		return fmt.Errorf("%w: %s", ErrQueueFull, q.name)
	}
}

// Stats returns the outcome counters.
func (q *Queue) Stats() Stats {
	return Stats{Succeeded: q.succeeded.Load(), Failed: q.failed.Load(), Rejected: q.rejected.Load()}
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for job := range q.jobs {
		if err := q.handler(q.ctx, job); err != nil {
			q.failed.Add(1)
			q.logger.Warn("job failed, dropped",
				zap.String("job_id", job.ID),
				zap.String("type", job.Type),
				zap.Duration("waited", time.Since(job.Enqueued)),
				zap.Error(err))
			continue
		}
		q.succeeded.Add(1)
	}
}
