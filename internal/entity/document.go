package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/amara-nwosu/lexvault/constants"
)

// Document represents an accepted document for data transfer between layers.
// RawText is set once at admission and never mutated afterwards; everything
// under "artifacts" is written by the enrichment pipeline.
type Document struct {
	ID               uuid.UUID                  `json:"id"`
	OwnerID          string                     `json:"owner_id"`
	Filename         string                     `json:"filename"`
	FileType         string                     `json:"file_type"`
	RawText          string                     `json:"-"`
	ProcessingStatus constants.ProcessingStatus `json:"processing_status"`
	CurrentJobID     *uuid.UUID                 `json:"current_job_id,omitempty"`
	LastError        *string                    `json:"last_error,omitempty"`

	UploadedAt  time.Time  `json:"uploaded_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	FailedAt    *time.Time `json:"failed_at,omitempty"`

	// Artifacts, independently nullable until the pipeline finalizes.
	Summary        *string         `json:"summary,omitempty"`
	Tags           []string        `json:"tags,omitempty"`
	Classification json.RawMessage `json:"classification,omitempty"`
	Embedding      []float32       `json:"embedding,omitempty"`
	ClauseOverview json.RawMessage `json:"clause_overview,omitempty"`

	ContractType       constants.ContractType `json:"contract_type"`
	ContractConfidence float64                `json:"contract_confidence"`
}

// RejectedDocument records an upload the validator turned away, for
// admission auditing and review UX.
type RejectedDocument struct {
	ID                uuid.UUID       `json:"id"`
	OwnerID           string          `json:"owner_id"`
	Filename          string          `json:"filename"`
	FileType          string          `json:"file_type"`
	Reason            string          `json:"reason"`
	ValidationDetails json.RawMessage `json:"validation_details,omitempty"`
	UploadedAt        time.Time       `json:"uploaded_at"`
}

// ArtifactBundle is the single final write the orchestrator performs.
type ArtifactBundle struct {
	Summary        string          `json:"summary"`
	Tags           []string        `json:"tags"`
	Classification json.RawMessage `json:"classification"`
	Embedding      []float32       `json:"embedding"`
	ClauseOverview json.RawMessage `json:"clause_overview"`
}
