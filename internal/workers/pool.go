package workers

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"wordguess/internal/lib/logger/sl"
)

// Pool runs a fixed number of workers draining a shared job channel,
// adapted from the teacher's internal/services/workers.WorkerPool (fixed
// worker count, WaitGroup-driven shutdown) in place of the root-level
// generic pool's log-file-per-run variant, which has no analogue here:
// insertion failures are rare enough (duplicate words) to log inline.
type Pool struct {
	workersCount int
	jobs         chan Job
	log          *slog.Logger
	metrics      *Metrics
}

// New returns a pool with workersCount goroutines, none started yet.
func New(workersCount int, log *slog.Logger) *Pool {
	return &Pool{
		workersCount: workersCount,
		jobs:         make(chan Job, workersCount*4),
		log:          log,
		metrics:      &Metrics{},
	}
}

// AddJob enqueues a job. Callers must close the pool via Run returning
// only after all jobs have been submitted and the channel closed.
func (p *Pool) AddJob(job Job) {
	p.jobs <- job
}

// Close signals that no further jobs will be submitted.
func (p *Pool) Close() {
	close(p.jobs)
}

// Run starts workersCount goroutines consuming jobs until the channel is
// closed or ctx is cancelled, then blocks until they all exit.
func (p *Pool) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < p.workersCount; i++ {
		wg.Add(1)
		go p.worker(ctx, &wg)
	}
	wg.Wait()
}

// Metrics returns the pool's running job counters.
func (p *Pool) Metrics() *Metrics { return p.metrics }

func (p *Pool) worker(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	for {
		select {
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			start := time.Now()
			result := job.execute(ctx)
			if result.Err != nil {
				p.metrics.RecordFailure(time.Since(start))
				p.log.Error("insert failed", "word", job.Args, "error", sl.Err(result.Err))
				continue
			}
			p.metrics.RecordSuccess(time.Since(start))
		case <-ctx.Done():
			p.log.Warn("worker cancelled", "error", sl.Err(ctx.Err()))
			return
		}
	}
}
