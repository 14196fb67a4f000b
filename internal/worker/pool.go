// Package worker runs claim analyses concurrently with a fixed number of
// workers and optional per-policy throttling.
package worker

import (
	"context"
	"sync"
)

// Job is one unit of work
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is what a job produces
type Result interface {
	GetError() error
}

type queuedJob struct {
	index int
	job   Job
}

// Pool executes submitted jobs on a fixed set of workers. Results are
// stored by submission order, so Wait returns them in the order the jobs
// went in regardless of which worker finished first.
type Pool struct {
	workers int
	queue   chan queuedJob

	mu      sync.Mutex
	results []Result
	closed  bool // no more submissions
	drained bool // queue channel closed

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewPool creates a pool bound to ctx. Cancelling ctx has the same effect
// as Shutdown.
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Pool{
		workers: workers,
		queue:   make(chan queuedJob, workers*2),
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.work()
	}
}

func (p *Pool) work() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case qj, ok := <-p.queue:
			if !ok {
				return
			}
			result := qj.job.Execute(p.ctx)
			p.mu.Lock()
			p.results[qj.index] = result
			p.mu.Unlock()
		}
	}
}

// Submit queues a job, blocking while the queue is full. It reports false
// if the pool is shutting down and the job was dropped.
func (p *Pool) Submit(job Job) bool {
	p.mu.Lock()
	if p.closed || p.ctx.Err() != nil {
		p.mu.Unlock()
		return false
	}
	index := len(p.results)
	p.results = append(p.results, nil)
	p.mu.Unlock()

	select {
	case <-p.ctx.Done():
		return false
	case p.queue <- queuedJob{index: index, job: job}:
		return true
	}
}

// Wait stops accepting jobs, waits for the queue to drain and returns one
// entry per submitted job. Jobs dropped by a shutdown have a nil entry.
// Call it from the goroutine that submits.
func (p *Pool) Wait() []Result {
	p.mu.Lock()
	p.closed = true
	if !p.drained {
		p.drained = true
		close(p.queue)
	}
	p.mu.Unlock()
	p.wg.Wait()
	p.cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.results
}

// Shutdown abandons queued jobs and waits for running ones to return
func (p *Pool) Shutdown() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.cancel()
	p.wg.Wait()
}
