package schedule

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/campus-tools/iliasdl/internal/model"
)

// Task is one unit of crawl work: a content node and the directory or file
// path it materializes at. The pool owns a task from submission until it is
// dispatched to the runner.
type Task struct {
	// Path is the destination path, a pure function of the parent task's
	// path and the node's sanitized name (thread pagination deliberately
	// reuses its parent's path).
	Path string

	// Node is the classified content node to process.
	Node model.Node
}

// Runner processes one task. It may submit further tasks into the same pool.
type Runner func(ctx context.Context, task Task) error

// Pool is a concurrency-bounded task scheduler.
//
// Design decision: Submission spawns a goroutine that blocks on a weighted
// semaphore rather than queueing through a bounded worker loop, because
// handlers submit children while holding a slot; a bounded submission path
// would deadlock as soon as every worker fans out at once. Goroutines are
// cheap enough to stand in for the queue.
type Pool struct {
	// runner executes dispatched tasks.
	runner Runner

	// slots gates concurrent execution at the configured job limit.
	slots *semaphore.Weighted

	// wg tracks every submitted task until it finishes.
	wg sync.WaitGroup

	// queued counts submitted but unfinished tasks; running counts tasks
	// currently executing. running never exceeds the job limit.
	queued  atomic.Int64
	running atomic.Int64

	// logger receives dispatch traces and per-task failures.
	logger *slog.Logger
}

// Option configures a Pool.
type Option func(*Pool)

// WithLogger sets the logger used for dispatch and failure reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pool) {
		p.logger = logger
	}
}

// New creates a Pool executing at most limit tasks concurrently.
// A limit below one is treated as one.
func New(limit int, runner Runner, opts ...Option) *Pool {
	if limit < 1 {
		limit = 1
	}
	p := &Pool{
		runner: runner,
		slots:  semaphore.NewWeighted(int64(limit)),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Submit registers a task for eventual execution. It is safe to call from
// the driver and from inside running tasks, and returns immediately.
func (p *Pool) Submit(ctx context.Context, task Task) {
	p.queued.Add(1)
	p.wg.Add(1)

	go func() {
		defer p.wg.Done()
		defer p.queued.Add(-1)

		if err := p.slots.Acquire(ctx, 1); err != nil {
			// Run cancelled while waiting for a slot.
			p.logger.Debug("task dropped", "path", task.Path, "reason", err)
			return
		}
		defer p.slots.Release(1)

		p.running.Add(1)
		defer p.running.Add(-1)

		// The counters above are released even when the runner panics;
		// a leaked increment would hang Wait forever.
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("task panicked",
					"kind", task.Node.Kind.String(),
					"path", task.Path,
					"panic", r,
				)
			}
		}()

		if err := p.runner(ctx, task); err != nil {
			p.logger.Error("sync failed",
				"kind", task.Node.Kind.String(),
				"path", task.Path,
				"error", err,
			)
		}
	}()
}

// Wait blocks until every submitted task, including recursive submissions,
// has finished.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Queued returns the number of submitted but unfinished tasks.
func (p *Pool) Queued() int64 {
	return p.queued.Load()
}

// Running returns the number of tasks currently executing.
func (p *Pool) Running() int64 {
	return p.running.Load()
}
