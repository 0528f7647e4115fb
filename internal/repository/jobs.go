package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amara-nwosu/lexvault/constants"
	"github.com/amara-nwosu/lexvault/internal/common"
	"github.com/amara-nwosu/lexvault/internal/entity"
)

// ErrNoJobAvailable is returned by ClaimNext when the queue is empty.
var ErrNoJobAvailable = errors.New("no job available")

// JobRepository is the durable, at-least-once job queue. Jobs live in
// processing_jobs; workers claim with FOR UPDATE SKIP LOCKED so one row is
// delivered to one worker at a time, and a crashed worker's row becomes
// claimable again once its visibility timeout lapses.
type JobRepository interface {
	// Enqueue creates a fresh queued job for a document.
	Enqueue(ctx context.Context, documentID uuid.UUID, ownerID string, maxAttempts int32) (*entity.ProcessingJob, error)
	// ClaimNext atomically claims the oldest runnable job, bumps its attempt
	// count, and renews its visibility lease so the row becomes redeliverable
	// if this worker never finishes it.
	ClaimNext(ctx context.Context, lease time.Duration) (*entity.ProcessingJob, error)
	GetByID(ctx context.Context, jobID uuid.UUID) (*entity.ProcessingJob, error)
	// GetProgress reads the latest checkpoint for status polling.
	GetProgress(ctx context.Context, jobID uuid.UUID) (*entity.Progress, error)
	UpdateStage(ctx context.Context, jobID uuid.UUID, stage constants.JobStage) error
	// RecordProgress stores the latest checkpoint; best-effort by contract,
	// callers ignore its error.
	RecordProgress(ctx context.Context, jobID uuid.UUID, p entity.Progress) error
	// Retry closes a claimed job and enqueues its successor: a new job ID
	// bound to the same document, attempt count carried forward, visible
	// after the given delay.
	Retry(ctx context.Context, job *entity.ProcessingJob, delay time.Duration, message string) (*entity.ProcessingJob, error)
	MarkDone(ctx context.Context, jobID uuid.UUID) error
	MarkFailed(ctx context.Context, jobID uuid.UUID, message string) error
}

type jobRepo struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewJobRepository(pool *pgxpool.Pool, log *slog.Logger) JobRepository {
	if log == nil {
		log = slog.Default()
	}
	return &jobRepo{pool: pool, log: log}
}

const qEnqueueJob = `
insert into processing_jobs (
    id, document_id, owner_id, attempt_count, max_attempts, stage,
    visible_after, created_at, updated_at
) values ($1, $2, $3, 0, $4, $5, now(), now(), now())
returning id, document_id, owner_id, attempt_count, max_attempts, stage,
          last_error, visible_after, created_at, updated_at
`

func (r *jobRepo) Enqueue(ctx context.Context, documentID uuid.UUID, ownerID string, maxAttempts int32) (*entity.ProcessingJob, error) {
	row := r.pool.QueryRow(ctx, qEnqueueJob, uuid.New(), documentID, ownerID, maxAttempts, string(constants.StageQueued))
	job, err := scanJob(row)
	if err != nil {
		r.log.Error("job enqueue failed", "document_id", documentID, "err", err)
		return nil, fmt.Errorf("%w: enqueue job: %v", common.ErrPersistence, err)
	}
	r.log.Info("job enqueued", "job_id", job.ID, "document_id", documentID)
	return job, nil
}

// qClaimJob claims the oldest runnable job: queued rows whose backoff lapsed,
// and in-flight rows whose visibility lease lapsed because the claiming
// worker died or hit the hard timeout. Attempt count increments at claim
// time, so a worker crash still consumes an attempt on redelivery, and the
// lease renews so no two workers run the same row at once.
const qClaimJob = `
with next_job as (
    select id
    from processing_jobs
    where visible_after <= now() and stage not in ($2, $3)
    order by created_at asc
    for update skip locked
    limit 1
),
claimed as (
    update processing_jobs
    set stage = $1, attempt_count = attempt_count + 1,
        visible_after = now() + $4, updated_at = now()
    where id in (select id from next_job)
    returning id, document_id, owner_id, attempt_count, max_attempts, stage,
              last_error, visible_after, created_at, updated_at
)
select * from claimed
`

func (r *jobRepo) ClaimNext(ctx context.Context, lease time.Duration) (*entity.ProcessingJob, error) {
	row := r.pool.QueryRow(ctx, qClaimJob,
		string(constants.StageClassifying), string(constants.StageDone), string(constants.StageFailed), lease)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoJobAvailable
		}
		return nil, fmt.Errorf("%w: claim job: %v", common.ErrPersistence, err)
	}
	r.log.Info("job claimed", "job_id", job.ID, "document_id", job.DocumentID, "attempt", job.AttemptCount)
	return job, nil
}

const qSelectJob = `
select id, document_id, owner_id, attempt_count, max_attempts, stage,
       last_error, visible_after, created_at, updated_at
from processing_jobs
where id = $1
`

func (r *jobRepo) GetByID(ctx context.Context, jobID uuid.UUID) (*entity.ProcessingJob, error) {
	job, err := scanJob(r.pool.QueryRow(ctx, qSelectJob, jobID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("job %s not found", jobID)
		}
		return nil, fmt.Errorf("%w: get job: %v", common.ErrPersistence, err)
	}
	return job, nil
}

const qSelectProgress = `
select stage, progress_percent, progress_message from processing_jobs where id = $1
`

func (r *jobRepo) GetProgress(ctx context.Context, jobID uuid.UUID) (*entity.Progress, error) {
	var (
		p     entity.Progress
		stage string
	)
	err := r.pool.QueryRow(ctx, qSelectProgress, jobID).Scan(&stage, &p.Percent, &p.Message)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("job %s not found", jobID)
		}
		return nil, fmt.Errorf("%w: get progress: %v", common.ErrPersistence, err)
	}
	p.Stage = constants.JobStage(stage)
	return &p, nil
}

const qUpdateStage = `
update processing_jobs set stage = $2, updated_at = now() where id = $1
`

func (r *jobRepo) UpdateStage(ctx context.Context, jobID uuid.UUID, stage constants.JobStage) error {
	_, err := r.pool.Exec(ctx, qUpdateStage, jobID, string(stage))
	if err != nil {
		return fmt.Errorf("%w: update stage: %v", common.ErrPersistence, err)
	}
	return nil
}

const qRecordProgress = `
update processing_jobs
set progress_percent = $2, progress_message = $3, updated_at = now()
where id = $1
`

func (r *jobRepo) RecordProgress(ctx context.Context, jobID uuid.UUID, p entity.Progress) error {
	_, err := r.pool.Exec(ctx, qRecordProgress, jobID, p.Percent, p.Message)
	if err != nil {
		return fmt.Errorf("%w: record progress: %v", common.ErrPersistence, err)
	}
	return nil
}

const qCloseRetriedJob = `
update processing_jobs set stage = $2, last_error = $3, updated_at = now() where id = $1
`

const qEnqueueRetry = `
insert into processing_jobs (
    id, document_id, owner_id, attempt_count, max_attempts, stage,
    last_error, visible_after, created_at, updated_at
) values ($1, $2, $3, $4, $5, $6, $7, now() + $8, now(), now())
returning id, document_id, owner_id, attempt_count, max_attempts, stage,
          last_error, visible_after, created_at, updated_at
`

func (r *jobRepo) Retry(ctx context.Context, job *entity.ProcessingJob, delay time.Duration, message string) (*entity.ProcessingJob, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: retry job: %v", common.ErrPersistence, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, qCloseRetriedJob, job.ID, string(constants.StageFailed), message); err != nil {
		return nil, fmt.Errorf("%w: close retried job: %v", common.ErrPersistence, err)
	}
	row := tx.QueryRow(ctx, qEnqueueRetry,
		uuid.New(), job.DocumentID, job.OwnerID, job.AttemptCount, job.MaxAttempts,
		string(constants.StageQueued), message, delay)
	next, err := scanJob(row)
	if err != nil {
		return nil, fmt.Errorf("%w: enqueue retry: %v", common.ErrPersistence, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: retry job: %v", common.ErrPersistence, err)
	}
	r.log.Warn("job retried", "job_id", job.ID, "next_job_id", next.ID, "delay", delay, "error", message)
	return next, nil
}

const qFinishJob = `
update processing_jobs set stage = $2, last_error = $3, updated_at = now() where id = $1
`

func (r *jobRepo) MarkDone(ctx context.Context, jobID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, qFinishJob, jobID, string(constants.StageDone), nil)
	if err != nil {
		return fmt.Errorf("%w: finish job: %v", common.ErrPersistence, err)
	}
	r.log.Info("job done", "job_id", jobID)
	return nil
}

func (r *jobRepo) MarkFailed(ctx context.Context, jobID uuid.UUID, message string) error {
	_, err := r.pool.Exec(ctx, qFinishJob, jobID, string(constants.StageFailed), message)
	if err != nil {
		return fmt.Errorf("%w: fail job: %v", common.ErrPersistence, err)
	}
	r.log.Warn("job failed", "job_id", jobID, "error", message)
	return nil
}

func scanJob(row pgx.Row) (*entity.ProcessingJob, error) {
	var (
		job   entity.ProcessingJob
		stage string
	)
	err := row.Scan(
		&job.ID, &job.DocumentID, &job.OwnerID, &job.AttemptCount, &job.MaxAttempts, &stage,
		&job.LastError, &job.VisibleAfter, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	job.Stage = constants.JobStage(stage)
	return &job, nil
}
