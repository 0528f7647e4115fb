package ingest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/amara-nwosu/lexvault/constants"
	"github.com/amara-nwosu/lexvault/internal/repository"
)

// StatusResponse is the status-poll snapshot for one document. Readers see
// one consistent lifecycle state; artifacts appear together once the
// pipeline finalizes. analysis_status mirrors processing_status for older
// clients that still read the previous field name.
type StatusResponse struct {
	DocumentID       uuid.UUID                  `json:"document_id"`
	ProcessingStatus constants.ProcessingStatus `json:"processing_status"`
	AnalysisStatus   constants.ProcessingStatus `json:"analysis_status"`
	ProgressPercent  int                        `json:"progress_percent"`
	Stage            constants.JobStage         `json:"stage"`
	Message          string                     `json:"message,omitempty"`
	LastError        *string                    `json:"last_error,omitempty"`
	Artifacts        ArtifactsView              `json:"artifacts_so_far"`
}

// ArtifactsView exposes whatever artifacts exist at poll time.
type ArtifactsView struct {
	Summary        *string         `json:"summary,omitempty"`
	Tags           []string        `json:"tags,omitempty"`
	Classification json.RawMessage `json:"classification,omitempty"`
	ClauseOverview json.RawMessage `json:"clause_overview,omitempty"`
	HasEmbedding   bool            `json:"has_embedding"`
}

// StatusService answers status polls. It reads the same rows the pipeline
// writes, so a poll during processing reflects the latest checkpoint.
type StatusService struct {
	docs repository.DocumentRepository
	jobs repository.JobRepository
}

func NewStatusService(docs repository.DocumentRepository, jobs repository.JobRepository) *StatusService {
	return &StatusService{docs: docs, jobs: jobs}
}

func (s *StatusService) Status(ctx context.Context, documentID uuid.UUID) (*StatusResponse, error) {
	doc, err := s.docs.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("document status: %w", err)
	}

	resp := &StatusResponse{
		DocumentID:       doc.ID,
		ProcessingStatus: doc.ProcessingStatus,
		AnalysisStatus:   doc.ProcessingStatus,
		LastError:        doc.LastError,
		Artifacts: ArtifactsView{
			Summary:        doc.Summary,
			Tags:           doc.Tags,
			Classification: doc.Classification,
			ClauseOverview: doc.ClauseOverview,
			HasEmbedding:   len(doc.Embedding) > 0,
		},
	}

	switch doc.ProcessingStatus {
	case constants.StatusPending:
		resp.Stage = constants.StageQueued
	case constants.StatusCompleted:
		resp.Stage = constants.StageDone
		resp.ProgressPercent = 100
	case constants.StatusFailed:
		resp.Stage = constants.StageFailed
	case constants.StatusProcessing:
		resp.Stage = constants.StageClassifying
		if doc.CurrentJobID != nil {
			if p, err := s.jobs.GetProgress(ctx, *doc.CurrentJobID); err == nil {
				resp.Stage = p.Stage
				resp.ProgressPercent = p.Percent
				resp.Message = p.Message
			}
		}
	}
	return resp, nil
}
