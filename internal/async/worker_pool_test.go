package async

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amara-nwosu/lexvault/constants"
	"github.com/amara-nwosu/lexvault/internal/entity"
	"github.com/amara-nwosu/lexvault/internal/repository"
)

type memJobRepo struct {
	mu   sync.Mutex
	jobs []*entity.ProcessingJob
	done []uuid.UUID
}

func (m *memJobRepo) Enqueue(_ context.Context, documentID uuid.UUID, ownerID string, maxAttempts int32) (*entity.ProcessingJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job := &entity.ProcessingJob{
		ID:           uuid.New(),
		DocumentID:   documentID,
		OwnerID:      ownerID,
		MaxAttempts:  maxAttempts,
		Stage:        constants.StageQueued,
		VisibleAfter: time.Now(),
	}
	m.jobs = append(m.jobs, job)
	return job, nil
}

func (m *memJobRepo) ClaimNext(_ context.Context, lease time.Duration) (*entity.ProcessingJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for _, job := range m.jobs {
		if job.Stage.Terminal() || job.VisibleAfter.After(now) {
			continue
		}
		job.Stage = constants.StageClassifying
		job.AttemptCount++
		job.VisibleAfter = now.Add(lease)
		cp := *job
		return &cp, nil
	}
	return nil, repository.ErrNoJobAvailable
}

func (m *memJobRepo) GetByID(_ context.Context, _ uuid.UUID) (*entity.ProcessingJob, error) {
	return nil, repository.ErrNoJobAvailable
}
func (m *memJobRepo) GetProgress(_ context.Context, _ uuid.UUID) (*entity.Progress, error) {
	return nil, repository.ErrNoJobAvailable
}
func (m *memJobRepo) UpdateStage(_ context.Context, _ uuid.UUID, _ constants.JobStage) error {
	return nil
}
func (m *memJobRepo) RecordProgress(_ context.Context, _ uuid.UUID, _ entity.Progress) error {
	return nil
}
func (m *memJobRepo) Retry(_ context.Context, job *entity.ProcessingJob, delay time.Duration, message string) (*entity.ProcessingJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, j := range m.jobs {
		if j.ID == job.ID {
			j.Stage = constants.StageFailed
			j.LastError = &message
		}
	}
	next := &entity.ProcessingJob{
		ID:           uuid.New(),
		DocumentID:   job.DocumentID,
		OwnerID:      job.OwnerID,
		AttemptCount: job.AttemptCount,
		MaxAttempts:  job.MaxAttempts,
		Stage:        constants.StageQueued,
		VisibleAfter: time.Now().Add(delay),
	}
	m.jobs = append(m.jobs, next)
	return next, nil
}
func (m *memJobRepo) MarkDone(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, j := range m.jobs {
		if j.ID == id {
			j.Stage = constants.StageDone
		}
	}
	m.done = append(m.done, id)
	return nil
}
func (m *memJobRepo) MarkFailed(_ context.Context, id uuid.UUID, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, j := range m.jobs {
		if j.ID == id {
			j.Stage = constants.StageFailed
			j.LastError = &message
		}
	}
	return nil
}

type countingRunner struct {
	jobs *memJobRepo

	mu   sync.Mutex
	runs []uuid.UUID
}

func (c *countingRunner) Run(ctx context.Context, job *entity.ProcessingJob) error {
	c.mu.Lock()
	c.runs = append(c.runs, job.ID)
	c.mu.Unlock()
	if c.jobs != nil {
		_ = c.jobs.MarkDone(ctx, job.ID)
	}
	return nil
}

func (c *countingRunner) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.runs)
}

func TestWorkerPoolRunsQueuedJobs(t *testing.T) {
	repo := &memJobRepo{}
	runner := &countingRunner{jobs: repo}
	queue := NewDurableQueue(repo, 3)

	for i := 0; i < 3; i++ {
		_, err := queue.Enqueue(context.Background(), uuid.New(), "owner-1")
		require.NoError(t, err)
	}

	pool := NewWorkerPool(repo, runner, nil,
		WithWorkers(2),
		WithPollInterval(10*time.Millisecond),
		WithJobTimeout(time.Second),
	)
	pool.Start()

	deadline := time.Now().Add(2 * time.Second)
	for runner.count() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	pool.Shutdown(ctx)

	assert.Equal(t, 3, runner.count())
}

func TestWorkerPoolWakeSkipsPollDelay(t *testing.T) {
	repo := &memJobRepo{}
	runner := &countingRunner{jobs: repo}
	queue := NewDurableQueue(repo, 3)

	pool := NewWorkerPool(repo, runner, nil,
		WithWorkers(1),
		WithPollInterval(time.Hour),
		WithJobTimeout(time.Second),
	)
	queue.AttachPool(pool)
	pool.Start()

	// Let the worker park on the long poll interval first.
	time.Sleep(20 * time.Millisecond)
	_, err := queue.Enqueue(context.Background(), uuid.New(), "owner-1")
	require.NoError(t, err)

	deadline := time.Now().Add(2 * time.Second)
	for runner.count() < 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	pool.Shutdown(ctx)

	assert.Equal(t, 1, runner.count())
}

func TestWorkerPoolReclaimsLapsedLease(t *testing.T) {
	repo := &memJobRepo{}
	queue := NewDurableQueue(repo, 3)

	job, err := queue.Enqueue(context.Background(), uuid.New(), "owner-1")
	require.NoError(t, err)

	// A worker claims the job and then dies without finishing it; the short
	// lease lapses and the row must become claimable again.
	first, err := repo.ClaimNext(context.Background(), 10*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, job.ID, first.ID)
	require.Equal(t, int32(1), first.AttemptCount)
	time.Sleep(20 * time.Millisecond)

	runner := &countingRunner{jobs: repo}
	pool := NewWorkerPool(repo, runner, nil,
		WithWorkers(1),
		WithPollInterval(10*time.Millisecond),
		WithJobTimeout(time.Second),
	)
	pool.Start()

	deadline := time.Now().Add(2 * time.Second)
	for runner.count() < 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	pool.Shutdown(ctx)

	require.Equal(t, 1, runner.count())
	assert.Equal(t, job.ID, runner.runs[0])

	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.Equal(t, int32(2), repo.jobs[0].AttemptCount, "redelivery consumes an attempt")
	assert.Equal(t, constants.StageDone, repo.jobs[0].Stage)
}

func TestWorkerPoolShutdownIsIdempotent(t *testing.T) {
	pool := NewWorkerPool(&memJobRepo{}, &countingRunner{}, nil, WithWorkers(1))
	pool.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	pool.Shutdown(ctx)
	pool.Shutdown(ctx)
}
