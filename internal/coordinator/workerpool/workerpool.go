// Package workerpool runs one Job per translation unit across a bounded
// set of goroutines, adapted from the teacher's
// pkg/mutator/internal/workerpool package (there generalized from running
// `go test` subprocesses to running independent per-file mutation
// pipelines).
package workerpool

import (
	"runtime"
	"sync"
)

// Job is a unit of work a Worker executes: processing a single translation
// unit end to end (guard traversal, catalog, rewrite, tree serialization).
type Job interface {
	Start(worker *Worker)
}

// Worker pulls jobs off a shared queue until it's closed.
type Worker struct {
	Name string
	ID   int
}

// NewWorker returns a named, numbered Worker.
func NewWorker(id int, name string) *Worker {
	return &Worker{Name: name, ID: id}
}

func (w *Worker) start(jobs <-chan Job, done *sync.WaitGroup) {
	go func() {
		defer done.Done()
		for job := range jobs {
			job.Start(w)
		}
	}()
}

// Pool is a bounded set of Workers draining a shared Job queue.
type Pool struct {
	queue   chan Job
	name    string
	workers []*Worker
	wg      sync.WaitGroup
}

// Size picks the worker count the way the teacher's configuration layer
// does for its own integration-mode split: 0 means "use every available
// CPU", halved when running in integration mode (where the mutated
// program's own build is itself CPU-heavy alongside the mutation engine).
func Size(configured int, integrationMode bool) int {
	if configured > 0 {
		if integrationMode {
			return (configured + 1) / 2
		}

		return configured
	}

	n := runtime.NumCPU()
	if integrationMode {
		return n / 2
	}

	return n
}

// New builds a Pool of the given size, named for diagnostics.
func New(name string, size int) *Pool {
	if size < 1 {
		size = 1
	}
	p := &Pool{name: name, queue: make(chan Job, size)}
	for i := 0; i < size; i++ {
		p.workers = append(p.workers, NewWorker(i, name))
	}

	return p
}

// ActiveWorkers reports the pool's worker count.
func (p *Pool) ActiveWorkers() int { return len(p.workers) }

// Start launches every worker.
func (p *Pool) Start() {
	p.wg.Add(len(p.workers))
	for _, w := range p.workers {
		w.start(p.queue, &p.wg)
	}
}

// AppendJob enqueues a job for the next free worker.
func (p *Pool) AppendJob(job Job) {
	p.queue <- job
}

// Stop closes the queue and blocks until every in-flight job finishes.
func (p *Pool) Stop() {
	close(p.queue)
	p.wg.Wait()
}
