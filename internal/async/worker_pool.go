package async

import (
	"context"
	"errors"
	"sync"
	"time"

	"log/slog"

	"github.com/amara-nwosu/lexvault/internal/entity"
	"github.com/amara-nwosu/lexvault/internal/repository"
)

// JobRunner executes one claimed job end to end. Outcome handling (finalize,
// reschedule, fail) is the runner's responsibility; the pool only reports the
// returned error in its logs.
type JobRunner interface {
	Run(ctx context.Context, job *entity.ProcessingJob) error
}

// leaseSlack extends the claim lease past the hard timeout so a timed-out
// job's retry bookkeeping lands before any other worker can reclaim the row.
const leaseSlack = 30 * time.Second

// WorkerPool polls the durable queue with a fixed set of workers. Each claim
// runs under a hard timeout so one stuck backend call cannot pin a worker
// forever.
type WorkerPool struct {
	jobs   repository.JobRepository
	runner JobRunner
	logger *slog.Logger

	workers      int
	pollInterval time.Duration
	softTimeout  time.Duration
	jobTimeout   time.Duration

	wake chan struct{}
	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*WorkerPool)

func WithWorkers(n int) Option {
	return func(p *WorkerPool) {
		if n > 0 {
			p.workers = n
		}
	}
}
func WithPollInterval(d time.Duration) Option {
	return func(p *WorkerPool) {
		if d > 0 {
			p.pollInterval = d
		}
	}
}
func WithJobTimeout(d time.Duration) Option {
	return func(p *WorkerPool) {
		if d > 0 {
			p.jobTimeout = d
		}
	}
}

// WithSoftTimeout sets the wall-clock threshold above which a finished job
// is logged as slow. Exceeding it never interrupts the job; the hard
// timeout does that.
func WithSoftTimeout(d time.Duration) Option {
	return func(p *WorkerPool) {
		if d > 0 {
			p.softTimeout = d
		}
	}
}

func NewWorkerPool(jobs repository.JobRepository, runner JobRunner, logger *slog.Logger, opts ...Option) *WorkerPool {
	if logger == nil {
		logger = slog.Default()
	}
	p := &WorkerPool{
		jobs:         jobs,
		runner:       runner,
		logger:       logger,
		workers:      4,
		pollInterval: 2 * time.Second,
		softTimeout:  2 * time.Minute,
		jobTimeout:   3 * time.Minute,
		wake:         make(chan struct{}, 1),
		stop:         make(chan struct{}),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *WorkerPool) Start() {
	p.once.Do(func() {
		for i := 0; i < p.workers; i++ {
			p.wg.Add(1)
			go p.workerLoop(i + 1)
		}
	})
}

// Wake nudges one idle worker to poll immediately.
func (p *WorkerPool) Wake() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *WorkerPool) workerLoop(workerID int) {
	defer p.wg.Done()
	p.logger.Info("worker started", "worker_id", workerID)

	for {
		select {
		case <-p.stop:
			p.logger.Info("worker stopped", "worker_id", workerID)
			return
		default:
		}

		// The claim lease tracks the hard timeout: a worker that dies or is
		// cut off mid-job leaves a row that lapses back into claimability.
		// The slack covers the failure bookkeeping that runs after the hard
		// timeout fires.
		claimCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		job, err := p.jobs.ClaimNext(claimCtx, p.jobTimeout+leaseSlack)
		cancel()

		if err != nil {
			if !errors.Is(err, repository.ErrNoJobAvailable) {
				p.logger.Error("claim failed", "worker_id", workerID, "error", err)
			}
			select {
			case <-p.stop:
			case <-p.wake:
			case <-time.After(p.pollInterval):
			}
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), p.jobTimeout)
		started := time.Now()
		err = p.runner.Run(ctx, job)
		cancel()

		if elapsed := time.Since(started); elapsed > p.softTimeout {
			p.logger.Warn("job exceeded soft timeout", "worker_id", workerID, "job_id", job.ID, "elapsed", elapsed)
		}
		if err != nil {
			p.logger.Error("job run failed", "worker_id", workerID, "job_id", job.ID, "document_id", job.DocumentID, "error", err)
		} else {
			p.logger.Info("job run finished", "worker_id", workerID, "job_id", job.ID, "document_id", job.DocumentID)
		}
	}
}

// Shutdown stops claiming and waits for in-flight jobs; a redelivery-safe
// queue means anything cut off by ctx is retried later.
func (p *WorkerPool) Shutdown(ctx context.Context) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.stop)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); p.wg.Wait() }()

	select {
	case <-ctx.Done():
		p.logger.Warn("shutdown interrupted by context")
	case <-done:
		p.logger.Info("workers drained, shutdown complete")
	}
}
