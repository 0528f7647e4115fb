package async

import (
	"context"

	"github.com/google/uuid"

	"github.com/amara-nwosu/lexvault/internal/entity"
	"github.com/amara-nwosu/lexvault/internal/repository"
)

// Queue is the admission side of the pipeline: accepted documents are handed
// over here and picked up by a WorkerPool, possibly in another process.
type Queue interface {
	Enqueue(ctx context.Context, documentID uuid.UUID, ownerID string) (*entity.ProcessingJob, error)
}

// DurableQueue enqueues into processing_jobs so jobs survive restarts. When a
// WorkerPool runs in the same process it can be attached to skip the poll
// delay; across processes the pollers find the row on their own.
type DurableQueue struct {
	jobs        repository.JobRepository
	maxAttempts int32
	wake        func()
}

func NewDurableQueue(jobs repository.JobRepository, maxAttempts int32) *DurableQueue {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &DurableQueue{jobs: jobs, maxAttempts: maxAttempts}
}

// AttachPool wires an in-process pool so enqueues wake an idle worker.
func (q *DurableQueue) AttachPool(pool *WorkerPool) {
	q.wake = pool.Wake
}

func (q *DurableQueue) Enqueue(ctx context.Context, documentID uuid.UUID, ownerID string) (*entity.ProcessingJob, error) {
	job, err := q.jobs.Enqueue(ctx, documentID, ownerID, q.maxAttempts)
	if err != nil {
		return nil, err
	}
	if q.wake != nil {
		q.wake()
	}
	return job, nil
}
