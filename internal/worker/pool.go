// Package worker runs fire-and-forget tasks (notification emails) off the request path.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Defaults used when the pool is configured with zero values.
const (
	DefaultWorkers     = 4
	DefaultQueueSize   = 100
	DefaultTaskTimeout = 30 * time.Second
)

type task struct {
	name string
	fn   func(ctx context.Context) error
}

// Pool is a fixed set of goroutines reading from a bounded queue. Submit never blocks:
// when the queue is full the task is dropped and logged.
type Pool struct {
	logger      *slog.Logger
	workers     int
	taskTimeout time.Duration
	queue       chan task
	wg          sync.WaitGroup
	mu          sync.Mutex
	running     bool
	stopped     bool
}

// Config configures a Pool.
type Config struct {
	Workers     int
	QueueSize   int
	TaskTimeout time.Duration
}

// NewPool creates a pool. Call Start before submitting work.
func NewPool(logger *slog.Logger, cfg Config) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.TaskTimeout <= 0 {
		cfg.TaskTimeout = DefaultTaskTimeout
	}
	return &Pool{
		logger:      logger,
		workers:     cfg.Workers,
		taskTimeout: cfg.TaskTimeout,
		queue:       make(chan task, cfg.QueueSize),
	}
}

// Start launches the worker goroutines.
func (p *Pool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running || p.stopped {
		return
	}
	p.running = true

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run()
	}
	p.logger.Info("worker pool started", "workers", p.workers, "queue_size", cap(p.queue))
}

// Submit enqueues a task. It implements domain.TaskRunner.
func (p *Pool) Submit(name string, fn func(ctx context.Context) error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		p.logger.Warn("task dropped, pool stopped", "task", name)
		return
	}
	select {
	case p.queue <- task{name: name, fn: fn}:
	default:
		p.logger.Warn("task dropped, queue full", "task", name)
	}
}

// Stop stops accepting tasks and waits for queued ones to finish or ctx to expire.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	close(p.queue)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		p.logger.Info("worker pool stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("worker pool drain: %w", ctx.Err())
	}
}

func (p *Pool) run() {
	defer p.wg.Done()
	for t := range p.queue {
		p.execute(t)
	}
}

func (p *Pool) execute(t task) {
	ctx, cancel := context.WithTimeout(context.Background(), p.taskTimeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("task panicked", "task", t.name, "panic", r)
		}
	}()

	start := time.Now()
	if err := t.fn(ctx); err != nil {
		p.logger.Warn("task failed", "task", t.name, "err", err, "duration_ms", time.Since(start).Milliseconds())
		return
	}
	p.logger.Debug("task done", "task", t.name, "duration_ms", time.Since(start).Milliseconds())
}
