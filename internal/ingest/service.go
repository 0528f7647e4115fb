// Package ingest implements admission control: the synchronous decision,
// made before the upload response returns, of whether a document is a
// genuine legal contract. Accepted documents are persisted and queued for
// enrichment; rejected ones are recorded with the reason.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"log/slog"

	"github.com/google/uuid"

	"github.com/amara-nwosu/lexvault/internal/async"
	"github.com/amara-nwosu/lexvault/internal/entity"
	"github.com/amara-nwosu/lexvault/internal/extract"
	"github.com/amara-nwosu/lexvault/internal/repository"
	"github.com/amara-nwosu/lexvault/internal/validator"
)

// AdmissionResult is the synchronous upload outcome. Exactly one of
// Document or Rejection is set.
type AdmissionResult struct {
	Accepted  bool                     `json:"accepted"`
	Document  *entity.Document         `json:"document,omitempty"`
	JobID     *uuid.UUID               `json:"job_id,omitempty"`
	Rejection *entity.RejectedDocument `json:"rejection,omitempty"`
	Message   string                   `json:"message"`
}

type Service struct {
	docs      repository.DocumentRepository
	rejected  repository.RejectedDocumentRepository
	queue     async.Queue
	validator *validator.Validator
	extractor extract.TextExtractor
	logger    *slog.Logger
}

func NewService(
	docs repository.DocumentRepository,
	rejected repository.RejectedDocumentRepository,
	queue async.Queue,
	v *validator.Validator,
	extractor extract.TextExtractor,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		docs:      docs,
		rejected:  rejected,
		queue:     queue,
		validator: v,
		extractor: extractor,
		logger:    logger,
	}
}

// Admit runs the full admission sequence for one upload: text extraction,
// contract validation, then persist-and-enqueue. Rejections are recorded
// and returned as a normal outcome, not an error; the error return is for
// system failures only.
func (s *Service) Admit(ctx context.Context, ownerID, filename string, content []byte) (*AdmissionResult, error) {
	log := s.logger.With("owner_id", ownerID, "filename", filename)

	extracted, err := s.extractor.Extract(ctx, filename, content)
	if err != nil {
		if errors.Is(err, extract.ErrEmptyFile) || errors.Is(err, extract.ErrUnsupportedFormat) {
			return s.reject(ctx, log, ownerID, filename, err.Error(), nil)
		}
		return nil, fmt.Errorf("extract text: %w", err)
	}
	for _, w := range extracted.Warnings {
		log.Warn("ingest.extract_warning", "warning", w)
	}

	result := s.validator.Validate(ctx, extracted.Text)
	if !result.IsValid {
		details, _ := json.Marshal(result)
		return s.reject(ctx, log, ownerID, filename, result.Message, details)
	}

	doc := &entity.Document{
		OwnerID:            ownerID,
		Filename:           filename,
		FileType:           fileType(filename),
		RawText:            extracted.Text,
		ContractType:       result.ContractType,
		ContractConfidence: result.Confidence,
		Tags:               admissionTags(result),
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("persist document: %w", err)
	}

	job, err := s.queue.Enqueue(ctx, doc.ID, ownerID)
	if err != nil {
		// The document stays pending; a later sweep or manual requeue can
		// recover it, so the upload still succeeds.
		log.Error("ingest.enqueue_failed", "document_id", doc.ID, "err", err)
		return &AdmissionResult{
			Accepted: true,
			Document: doc,
			Message:  "document accepted; enrichment is delayed",
		}, nil
	}
	doc.CurrentJobID = &job.ID

	log.Info("ingest.admitted",
		"document_id", doc.ID,
		"job_id", job.ID,
		"contract_type", result.ContractType,
		"confidence", result.Confidence,
		"borderline", result.Borderline,
	)
	return &AdmissionResult{
		Accepted: true,
		Document: doc,
		JobID:    &job.ID,
		Message:  result.Message,
	}, nil
}

func (s *Service) reject(ctx context.Context, log *slog.Logger, ownerID, filename, reason string, details json.RawMessage) (*AdmissionResult, error) {
	rej := &entity.RejectedDocument{
		OwnerID:           ownerID,
		Filename:          filename,
		FileType:          fileType(filename),
		Reason:            reason,
		ValidationDetails: details,
	}
	if err := s.rejected.Create(ctx, rej); err != nil {
		// Admission outcome stands even if the audit record is lost.
		log.Error("ingest.rejection_record_failed", "err", err)
	}
	log.Info("ingest.rejected", "reason", reason)
	return &AdmissionResult{
		Accepted:  false,
		Rejection: rej,
		Message:   reason,
	}, nil
}

func (s *Service) ListRejected(ctx context.Context, ownerID string, limit int32) ([]*entity.RejectedDocument, error) {
	return s.rejected.ListByOwner(ctx, ownerID, limit)
}

// admissionTags are the baseline tags every accepted document starts with;
// the pipeline merges classification tags on top.
func admissionTags(result entity.ValidationResult) []string {
	return []string{
		"contract_" + string(result.ContractType),
		"validated_contract",
	}
}

func fileType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "text/plain"
}
