package task

import (
	"context"
	"log/slog"
	"sync"
)

// JobSource provides read-only access to the job channel, allowing workers
// to consume jobs without the ability to enqueue.
type JobSource interface {
	// GetChannel returns a read-only channel for consuming jobs
	GetChannel() <-chan Job
}

// DispatcherConfig holds configuration options for the dispatcher
type DispatcherConfig struct {
	// WorkerCount determines how many concurrent worker goroutines to start
	// If zero or negative, defaults to 1
	WorkerCount int
}

// DefaultDispatcherConfig returns a DispatcherConfig with reasonable defaults
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		WorkerCount: 2,
	}
}

// Dispatcher manages a pool of worker goroutines that run jobs from a job
// source. Jobs for different tasks may run concurrently; each job serializes
// its own work internally. A panicking job never takes a worker down.
type Dispatcher struct {
	source      JobSource
	workerCount int
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	logger      *slog.Logger
}

// NewDispatcher creates a new dispatcher consuming from the given source.
// If logger is nil, a default logger will be used.
func NewDispatcher(source JobSource, config DispatcherConfig, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}

	workerCount := config.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
		logger.Warn("invalid worker count specified, using default",
			"specified_count", config.WorkerCount,
			"default_count", 1)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Dispatcher{
		source:      source,
		workerCount: workerCount,
		ctx:         ctx,
		cancel:      cancel,
		logger:      logger,
	}
}

// Start launches the worker goroutines.
func (d *Dispatcher) Start() {
	for i := 0; i < d.workerCount; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}

	d.logger.Info("dispatcher started", "worker_count", d.workerCount)
}

// Stop signals all workers to finish their current job and waits for them
// to exit. Jobs still sitting in the queue are not executed; their tasks
// are lost with the process, which is acceptable because tasks are not
// durable to begin with.
func (d *Dispatcher) Stop() {
	d.cancel()
	d.wg.Wait()
	d.logger.Info("dispatcher stopped")
}

// worker consumes jobs from the source until shutdown
func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	d.logger.Debug("starting worker", "worker_id", id)

	for {
		select {
		case <-d.ctx.Done():
			d.logger.Debug("stopping worker", "worker_id", id)
			return

		case job, ok := <-d.source.GetChannel():
			if !ok {
				d.logger.Debug("job channel closed, stopping worker", "worker_id", id)
				return
			}

			d.runJob(job, id)
		}
	}
}

// runJob executes a single job, recovering from panics so one bad job
// cannot kill the worker.
func (d *Dispatcher) runJob(job Job, workerID int) {
	logger := d.logger.With(
		"job_id", job.ID(),
		"job_type", job.Type(),
		"worker_id", workerID,
	)

	defer func() {
		if p := recover(); p != nil {
			logger.Error("job panicked", "panic", p)
		}
	}()

	logger.Info("running job")

	if err := job.Execute(d.ctx); err != nil {
		// The job has already recorded the failure on its task; this log
		// line is for operators, not for pollers.
		logger.Error("job execution failed", "error", err)
		return
	}

	logger.Info("job completed")
}
