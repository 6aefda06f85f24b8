package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Common errors returned by the JobQueue
var (
	ErrQueueClosed = errors.New("job queue is closed")
	ErrQueueFull   = errors.New("job queue is full")
)

// Job represents a unit of asynchronous work. A job is handed off by a
// request handler and runs independently of the request lifecycle; it is
// responsible for driving its own task to a terminal state, whatever
// happens during execution.
type Job interface {
	// ID returns the ID of the task the job reports its lifecycle through
	ID() uuid.UUID

	// Type returns the job type identifier
	Type() string

	// Execute runs the job logic
	Execute(ctx context.Context) error
}

// Scheduler is the hand-off primitive between the request path and the
// background workers. Implementations run the job out-of-band; the contract
// is only that an accepted job eventually reaches a terminal task state.
type Scheduler interface {
	// Enqueue adds a job for processing.
	// Returns an error if the queue is full or closed.
	Enqueue(job Job) error
}

// JobQueue implements a buffered in-memory job queue. It satisfies
// Scheduler for producers and exposes a read-only channel for consumers.
type JobQueue struct {
	jobs   chan Job
	logger *slog.Logger
	mu     sync.Mutex
	closed bool
}

// Ensure JobQueue implements Scheduler
var _ Scheduler = (*JobQueue)(nil)

// NewJobQueue creates a new job queue with the specified buffer size.
// If logger is nil, a default logger will be used.
func NewJobQueue(size int, logger *slog.Logger) *JobQueue {
	if logger == nil {
		logger = slog.Default()
	}

	return &JobQueue{
		jobs:   make(chan Job, size),
		logger: logger,
	}
}

// Enqueue adds a job to the queue for processing
// Returns an error if the queue is full or closed
func (q *JobQueue) Enqueue(job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.jobs <- job:
		q.logger.Debug("job enqueued",
			"job_id", job.ID(),
			"job_type", job.Type(),
			"queue_len", len(q.jobs),
			"queue_cap", cap(q.jobs))
		return nil
	default:
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(q.jobs))
	}
}

// Close closes the job queue, preventing further job submission.
// Jobs already enqueued are still delivered to consumers.
func (q *JobQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.jobs)
		q.logger.Info("job queue closed")
	}
}

// GetChannel returns a read-only channel for consuming jobs
func (q *JobQueue) GetChannel() <-chan Job {
	return q.jobs
}
