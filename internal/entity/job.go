package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/amara-nwosu/lexvault/constants"
)

// ProcessingJob is one asynchronous execution attempt of the enrichment
// pipeline for a document. A retry is a fresh job bound to the same
// document ID, never a resurrected row.
type ProcessingJob struct {
	ID           uuid.UUID          `json:"id"`
	DocumentID   uuid.UUID          `json:"document_id"`
	OwnerID      string             `json:"owner_id"`
	AttemptCount int32              `json:"attempt_count"`
	MaxAttempts  int32              `json:"max_attempts"`
	Stage        constants.JobStage `json:"stage"`
	LastError    *string            `json:"last_error,omitempty"`
	VisibleAfter time.Time          `json:"visible_after"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// Progress is a point-in-time checkpoint the orchestrator emits while a job
// runs. Emission is best-effort; a lost update never fails the job.
type Progress struct {
	Stage   constants.JobStage `json:"stage"`
	Percent int                `json:"percent"`
	Message string             `json:"message"`
}
