// Package scheduler provides a bounded-concurrency task scheduler. At most N
// tasks run at once; excess tasks wait in FIFO order and start as running
// tasks finish. A task's failure resolves only that task's future; admitted
// siblings are never cancelled or paused.
package scheduler

import (
	"context"
	"errors"
	"sync"
)

// DefaultConcurrency is used when a Scheduler is created with a
// non-positive limit.
const DefaultConcurrency = 5

// Task is one asynchronous unit of work.
type Task func(ctx context.Context) error

// Future resolves with the outcome of one submitted task.
type Future struct {
	done chan struct{}
	err  error
}

// Done returns a channel closed when the task has settled.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Err blocks until the task settles and returns its error, if any.
func (f *Future) Err() error {
	<-f.done
	return f.err
}

// Scheduler runs tasks with a concurrency ceiling. There is no priority,
// cancellation or timeout at the scheduler level; timeouts belong to the
// task's own context.
type Scheduler struct {
	limit int

	mu      sync.Mutex
	queue   []*job
	running int
	wg      sync.WaitGroup
}

type job struct {
	ctx    context.Context
	task   Task
	future *Future
}

// New creates a Scheduler admitting at most limit concurrent tasks.
func New(limit int) *Scheduler {
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	return &Scheduler{limit: limit}
}

// Add submits a task and returns its future. The task starts immediately if
// a slot is free, otherwise it waits behind previously queued tasks.
func (s *Scheduler) Add(ctx context.Context, task Task) *Future {
	f := &Future{done: make(chan struct{})}
	s.wg.Add(1)

	s.mu.Lock()
	s.queue = append(s.queue, &job{ctx: ctx, task: task, future: f})
	s.dispatchLocked()
	s.mu.Unlock()

	return f
}

// AddBatch submits many tasks and waits for all of them to settle. If any
// task fails, the joined error reports every failure; tasks already started
// are not cancelled when a sibling fails.
func (s *Scheduler) AddBatch(ctx context.Context, tasks []Task) error {
	futures := make([]*Future, len(tasks))
	for i, task := range tasks {
		futures[i] = s.Add(ctx, task)
	}
	var errs []error
	for _, f := range futures {
		if err := f.Err(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Wait blocks until every submitted task has settled.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// Running returns the number of currently executing tasks.
func (s *Scheduler) Running() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// dispatchLocked starts queued tasks while slots are free. Callers hold s.mu.
func (s *Scheduler) dispatchLocked() {
	for s.running < s.limit && len(s.queue) > 0 {
		j := s.queue[0]
		s.queue = s.queue[1:]
		s.running++

		go func() {
			j.future.err = s.run(j)
			close(j.future.done)
			s.wg.Done()

			s.mu.Lock()
			s.running--
			s.dispatchLocked()
			s.mu.Unlock()
		}()
	}
}

// run executes one task, honoring a context already cancelled at start.
func (s *Scheduler) run(j *job) error {
	if err := j.ctx.Err(); err != nil {
		return err
	}
	return j.task(j.ctx)
}
