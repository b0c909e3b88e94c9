// Package worker serializes conversation log appends through a small pool of
// writer goroutines so concurrent saves never interleave rows in the
// configured storage.Driver.
//
// Unlike a fire-and-forget queue, Submit waits for its row to be written and
// hands the driver's error back to the caller, so an HTTP handler can still
// report I/O failures.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/papercomputeco/pairwise/pkg/session"
	"github.com/papercomputeco/pairwise/pkg/storage"
)

var (
	defaultNumWorkers   uint = 1
	defaultJobQueueSize uint = 256
)

// ErrPoolClosed is returned by Submit once Close has been called.
var ErrPoolClosed = errors.New("worker pool is closed")

// Job is a unit of work for the worker pool to execute against.
type Job struct {
	Record *session.Record
	done   chan error
}

// Config is the configuration options for the worker pool.
type Config struct {
	// Driver is the storage backend rows are appended to.
	Driver storage.Driver

	// NumWorkers is the number of writer goroutines. Defaults to 1, which is
	// what keeps appends to a single file strictly ordered.
	NumWorkers uint

	// QueueSize is the capacity of the buffered job channel (defaults to 256).
	QueueSize uint

	Logger *slog.Logger
}

// Pool runs storage appends on background workers.
type Pool struct {
	config *Config
	queue  chan Job
	wg     sync.WaitGroup
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
}

// NewPool creates a new Pool and starts its worker goroutines.
func NewPool(c *Config) (*Pool, error) {
	if c.Driver == nil {
		return nil, errors.New("worker pool requires a storage driver")
	}

	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}

	if c.QueueSize == 0 {
		c.QueueSize = defaultJobQueueSize
	}

	if c.NumWorkers > uint(math.MaxInt) {
		return nil, fmt.Errorf("NumWorkers %d exceeds max int", c.NumWorkers)
	}

	logger := c.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	wp := &Pool{
		config: c,
		queue:  make(chan Job, c.QueueSize),
		logger: logger,
	}

	wp.wg.Add(int(c.NumWorkers))
	for i := range c.NumWorkers {
		go wp.worker(i)
	}

	return wp, nil
}

// Submit queues rec and blocks until a worker has appended it, returning the
// driver's error. If ctx ends first, Submit returns ctx.Err(); a record that
// was already queued may still be written.
func (p *Pool) Submit(ctx context.Context, rec *session.Record) error {
	if rec == nil {
		return storage.ErrNilRecord
	}

	job := Job{Record: rec, done: make(chan error, 1)}

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrPoolClosed
	}
	select {
	case p.queue <- job:
		p.mu.RUnlock()
	case <-ctx.Done():
		p.mu.RUnlock()
		return ctx.Err()
	}

	p.logger.Debug("record queued", "task_id", rec.TaskID)

	select {
	case err := <-job.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting jobs and waits for queued ones to drain.
// Call this during graceful shutdown after the HTTP server has stopped.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	p.wg.Wait()
}

// worker is the inner worker thread that continuously pulls jobs off the jobs queue
func (p *Pool) worker(id uint) {
	defer p.wg.Done()
	p.logger.Debug("writer started", "worker_id", id)

	for job := range p.queue {
		job.done <- p.processJob(job)
	}

	p.logger.Debug("writer stopped", "worker_id", id)
}

func (p *Pool) processJob(job Job) error {
	// the submitter may have given up; the row is still written
	ctx := context.Background()

	if err := p.config.Driver.Append(ctx, job.Record); err != nil {
		p.logger.Error("conversation log append failed",
			"task_id", job.Record.TaskID,
			"error", err,
		)
		return err
	}

	p.logger.Info("conversation stored", "task_id", job.Record.TaskID)
	return nil
}
