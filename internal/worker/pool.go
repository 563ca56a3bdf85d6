// Package worker implements the bounded parallel job handler used by both
// the massive-ingest and synchronization paths (spec §4.5), grounded on the
// teacher's own background-worker shape in backend/raid3/heal.go: a
// buffered job channel, a fixed number of worker goroutines, and a
// sync.WaitGroup join.
package worker

import (
	"sync"

	"github.com/dfsync/dfsync/internal/xerrors"
)

// Task is a unit of independent work submitted to a Pool. Tasks may
// execute in any order relative to one another (spec §4.5).
type Task func() (any, error)

// Pool is a bounded worker pool: N workers drain a shared, bounded job
// queue. Results and failures are collected as tasks complete and are only
// exposed once Process returns, so an arbitrarily large batch can be
// submitted without the caller having to drain anything concurrently
// (spec §4.5 "the caller drains the channel after process() returns").
//
// A Pool is not reusable after Process returns — construct a new one for
// each batch of work, matching spec §4.5's failure-semantics contract.
type Pool struct {
	queue chan Task
	wg    sync.WaitGroup

	mu       sync.Mutex
	results  []any
	failures []error

	done sync.WaitGroup
}

// New constructs a Pool with the given worker count and queue bound.
// workers must be ≥ 1 (spec §4.5 "Construction"). queueBound caps how many
// submitted-but-not-yet-started tasks may sit in the queue before Submit
// blocks (back pressure, spec §9's resolution of the source's unbounded
// add_massive queue).
func New(workers, queueBound int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueBound < 1 {
		queueBound = workers
	}
	p := &Pool{
		queue: make(chan Task, queueBound),
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.run()
	}
	return p
}

func (p *Pool) run() {
	defer p.wg.Done()
	for task := range p.queue {
		result, err := task()
		p.mu.Lock()
		if err != nil {
			p.failures = append(p.failures, err)
		} else if result != nil {
			p.results = append(p.results, result)
		}
		p.mu.Unlock()
		p.done.Done()
	}
}

// Submit enqueues a task. It blocks if the queue is full (back pressure).
func (p *Pool) Submit(task Task) {
	p.done.Add(1)
	p.queue <- task
}

// Process blocks until every submitted task has completed, then stops the
// workers. It returns a channel holding every non-nil successful result (exactly
// sized, so the caller can drain it at leisure without risking a worker
// blocking on a full channel) and an aggregated *xerrors.WorkerError if any
// task failed (spec §4.5 "Failure semantics").
func (p *Pool) Process() (<-chan any, error) {
	p.done.Wait()
	close(p.queue)
	p.wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()

	results := make(chan any, len(p.results))
	for _, r := range p.results {
		results <- r
	}
	close(results)

	return results, xerrors.NewWorkerError(p.failures)
}
