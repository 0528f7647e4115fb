package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amara-nwosu/lexvault/constants"
	"github.com/amara-nwosu/lexvault/internal/common"
	"github.com/amara-nwosu/lexvault/internal/entity"
)

type statusDocRepo struct {
	captureDocRepo
	doc *entity.Document
}

func (s *statusDocRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Document, error) {
	if s.doc == nil || s.doc.ID != id {
		return nil, common.ErrDocumentNotFound
	}
	return s.doc, nil
}

type statusJobRepo struct {
	progress *entity.Progress
}

func (s *statusJobRepo) Enqueue(_ context.Context, _ uuid.UUID, _ string, _ int32) (*entity.ProcessingJob, error) {
	return nil, errors.New("not used")
}
func (s *statusJobRepo) ClaimNext(_ context.Context, _ time.Duration) (*entity.ProcessingJob, error) {
	return nil, errors.New("not used")
}
func (s *statusJobRepo) GetByID(_ context.Context, _ uuid.UUID) (*entity.ProcessingJob, error) {
	return nil, errors.New("not used")
}
func (s *statusJobRepo) GetProgress(_ context.Context, _ uuid.UUID) (*entity.Progress, error) {
	if s.progress == nil {
		return nil, errors.New("job not found")
	}
	return s.progress, nil
}
func (s *statusJobRepo) UpdateStage(_ context.Context, _ uuid.UUID, _ constants.JobStage) error {
	return nil
}
func (s *statusJobRepo) RecordProgress(_ context.Context, _ uuid.UUID, _ entity.Progress) error {
	return nil
}
func (s *statusJobRepo) Retry(_ context.Context, _ *entity.ProcessingJob, _ time.Duration, _ string) (*entity.ProcessingJob, error) {
	return nil, errors.New("not used")
}
func (s *statusJobRepo) MarkDone(_ context.Context, _ uuid.UUID) error             { return nil }
func (s *statusJobRepo) MarkFailed(_ context.Context, _ uuid.UUID, _ string) error { return nil }

func TestStatusProcessingReportsCheckpoint(t *testing.T) {
	jobID := uuid.New()
	doc := &entity.Document{
		ID:               uuid.New(),
		ProcessingStatus: constants.StatusProcessing,
		CurrentJobID:     &jobID,
		Tags:             []string{"contract_lease", "validated_contract"},
	}
	jobs := &statusJobRepo{progress: &entity.Progress{
		Stage:   constants.StageSummarizing,
		Percent: 50,
		Message: "summary generated",
	}}
	svc := NewStatusService(&statusDocRepo{doc: doc}, jobs)

	resp, err := svc.Status(context.Background(), doc.ID)
	require.NoError(t, err)

	assert.Equal(t, constants.StatusProcessing, resp.ProcessingStatus)
	assert.Equal(t, resp.ProcessingStatus, resp.AnalysisStatus)
	assert.Equal(t, constants.StageSummarizing, resp.Stage)
	assert.Equal(t, 50, resp.ProgressPercent)
	assert.False(t, resp.Artifacts.HasEmbedding)
}

func TestStatusCompletedExposesArtifacts(t *testing.T) {
	summary := "done"
	doc := &entity.Document{
		ID:               uuid.New(),
		ProcessingStatus: constants.StatusCompleted,
		Summary:          &summary,
		Embedding:        []float32{0.1},
		Classification:   []byte(`{"document_type":"lease"}`),
	}
	svc := NewStatusService(&statusDocRepo{doc: doc}, &statusJobRepo{})

	resp, err := svc.Status(context.Background(), doc.ID)
	require.NoError(t, err)

	assert.Equal(t, constants.StageDone, resp.Stage)
	assert.Equal(t, 100, resp.ProgressPercent)
	require.NotNil(t, resp.Artifacts.Summary)
	assert.True(t, resp.Artifacts.HasEmbedding)
}

func TestStatusUnknownDocument(t *testing.T) {
	svc := NewStatusService(&statusDocRepo{}, &statusJobRepo{})
	_, err := svc.Status(context.Background(), uuid.New())
	assert.ErrorIs(t, err, common.ErrDocumentNotFound)
}
