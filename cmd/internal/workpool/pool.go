// Package workpool runs CPU-bound work on a fixed set of goroutines.
//
// Request handlers submit key derivation and token generation here instead of
// running them inline, so the number of concurrent hash computations is capped
// by the pool size and excess work waits in a bounded queue.
//
// A task that has been queued always runs to completion. If the submitting
// context ends first, the caller gets ctx.Err() and the task's result is
// dropped.
package workpool

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"
)

var (
	// ErrClosed is returned when submitting to a closed pool.
	ErrClosed = errors.New("workpool: closed")
	// ErrPanic wraps a panic raised by a task.
	ErrPanic = errors.New("workpool: task panicked")
)

// Observer receives timings for each finished task: time spent queued and time spent running.
type Observer func(wait, run time.Duration)

// Option configures a Pool.
type Option func(*Pool)

// WithObserver installs a timing observer.
func WithObserver(obs Observer) Option {
	return func(p *Pool) {
		if obs != nil {
			p.observe = obs
		}
	}
}

type task struct {
	run      func()
	enqueued time.Time
}

// Pool is a fixed-size worker pool with a bounded queue.
type Pool struct {
	size    int
	tasks   chan task
	observe Observer

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// New starts a pool with size workers and room for queue pending tasks.
// Non-positive size defaults to GOMAXPROCS; negative queue defaults to size.
func New(size, queue int, opts ...Option) *Pool {
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}
	if queue < 0 {
		queue = size
	}

	p := &Pool{
		size:    size,
		tasks:   make(chan task, queue),
		observe: func(time.Duration, time.Duration) {},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.worker()
	}
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return p.size }

// Queued returns the number of tasks waiting for a worker.
func (p *Pool) Queued() int { return len(p.tasks) }

// Close stops accepting work, waits for queued tasks to finish, and stops the workers.
// It is safe to call more than once.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for t := range p.tasks {
		start := time.Now()
		t.run()
		p.observe(start.Sub(t.enqueued), time.Since(start))
	}
}

// submit enqueues fn, waiting for queue space until ctx ends.
func (p *Pool) submit(ctx context.Context, fn func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case p.tasks <- task{run: fn, enqueued: time.Now()}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do runs fn on the pool and waits for its result.
func Do[T any](ctx context.Context, p *Pool, fn func() (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}

	// Buffered so the worker never blocks on an abandoned caller.
	done := make(chan result, 1)

	err := p.submit(ctx, func() {
		var r result
		defer func() {
			if rec := recover(); rec != nil {
				r = result{err: fmt.Errorf("%w: %v", ErrPanic, rec)}
			}
			done <- r
		}()
		r.v, r.err = fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}

	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
