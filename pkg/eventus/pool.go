package eventus

import (
	"context"
	"runtime"
	"sync"

	"github.com/randalmurphal/eventus/pkg/eventus/observability"
)

// workerPool executes submitted no-argument tasks on a fixed set of
// background workers, decoupling publishers from handler execution
// latency. The FIFO queue is unbounded and guarded by its own lock plus a
// condition variable, decoupled from the bus registry lock so enqueuing
// never waits on an in-progress dispatch and vice versa.
//
// Tasks cannot be cancelled once submitted; shutdown is cooperative only
// (stop then drain).
type workerPool struct {
	bus *Bus

	mu       sync.Mutex
	cond     *sync.Cond
	queue    []func()
	stopping bool

	wg sync.WaitGroup
}

// newWorkerPool starts the worker goroutines. workers <= 0 uses the
// hardware concurrency hint, minimum 1.
func newWorkerPool(workers int, bus *Bus) *workerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}

	p := &workerPool{bus: bus}
	p.cond = sync.NewCond(&p.mu)

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

// enqueue appends task to the queue and wakes one waiting worker. It never
// blocks the enqueuing goroutine waiting for completion. Returns false if
// the pool has begun stopping; the task is not queued in that case.
func (p *workerPool) enqueue(task func()) bool {
	p.mu.Lock()
	if p.stopping {
		p.mu.Unlock()
		return false
	}
	p.queue = append(p.queue, task)
	p.mu.Unlock()

	p.cond.Signal()
	p.bus.metrics.RecordTaskEnqueued(context.Background())
	return true
}

// stop raises the stop signal, wakes all workers, and joins them.
// Outstanding queued tasks are drained before the workers exit; no task is
// silently dropped. No new tasks may be enqueued once stopping begins.
func (p *workerPool) stop() {
	p.mu.Lock()
	p.stopping = true
	p.mu.Unlock()

	p.cond.Broadcast()
	p.wg.Wait()
}

// worker loops: wait until the queue is non-empty or the stop signal is
// raised; exit once stopping and drained; otherwise dequeue exactly one
// task and run it to completion.
func (p *workerPool) worker() {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.stopping {
			p.cond.Wait()
		}
		if len(p.queue) == 0 {
			// Stopping and drained.
			p.mu.Unlock()
			return
		}
		task := p.queue[0]
		p.queue = p.queue[1:]
		p.mu.Unlock()

		p.run(task)
	}
}

// run executes one task, containing panics so a failing task cannot take
// down the worker or corrupt queue state for the others.
func (p *workerPool) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			p.bus.metrics.RecordTaskPanic(context.Background())
			observability.LogTaskPanic(p.bus.log(), r)
		}
	}()

	p.bus.metrics.RecordTaskDequeued(context.Background())
	task()
}
