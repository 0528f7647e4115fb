package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/amara-nwosu/lexvault/constants"
	"github.com/amara-nwosu/lexvault/internal/common"
	"github.com/amara-nwosu/lexvault/internal/entity"
)

// DocumentRepository persists accepted documents and their lifecycle.
// Status-changing writes are conditional on the current status so the
// lifecycle can never regress, no matter how often a job is redelivered.
type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	// GetByID always reads the latest row; callers must not cache results
	// across job boundaries.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Document, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.Document, error)
	// MarkProcessing moves pending (or a prior failed attempt) to processing
	// and records the owning job. A document already completed is left
	// untouched and reported via the bool.
	MarkProcessing(ctx context.Context, id, jobID uuid.UUID) (bool, error)
	// FinalizeArtifacts writes all artifacts and the completed status in a
	// single update.
	FinalizeArtifacts(ctx context.Context, id uuid.UUID, bundle *entity.ArtifactBundle) error
	MarkFailed(ctx context.Context, id uuid.UUID, message string) error
	CountByStatus(ctx context.Context, ownerID string) (map[constants.ProcessingStatus]int, error)
	CountByContractType(ctx context.Context, ownerID string) (map[constants.ContractType]int, error)
}

type documentRepo struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewDocumentRepository(pool *pgxpool.Pool, log *slog.Logger) DocumentRepository {
	if log == nil {
		log = slog.Default()
	}
	return &documentRepo{pool: pool, log: log}
}

const qInsertDocument = `
insert into documents (
    id, owner_id, filename, file_type, raw_text, processing_status,
    contract_type, contract_confidence, tags, uploaded_at
) values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

func (r *documentRepo) Create(ctx context.Context, doc *entity.Document) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now().UTC()
	}
	doc.ProcessingStatus = constants.StatusPending

	_, err := r.pool.Exec(ctx, qInsertDocument,
		doc.ID, doc.OwnerID, doc.Filename, doc.FileType, doc.RawText,
		string(doc.ProcessingStatus), string(doc.ContractType), doc.ContractConfidence,
		doc.Tags, doc.UploadedAt,
	)
	if err != nil {
		r.log.Error("document insert failed", "document_id", doc.ID, "err", err)
		return fmt.Errorf("%w: insert document: %v", common.ErrPersistence, err)
	}
	r.log.Info("document created", "document_id", doc.ID, "owner_id", doc.OwnerID, "contract_type", doc.ContractType)
	return nil
}

const qSelectDocument = `
select id, owner_id, filename, file_type, raw_text, processing_status,
       current_job_id, last_error, uploaded_at, started_at, completed_at, failed_at,
       summary, tags, classification, embedding, clause_overview,
       contract_type, contract_confidence
from documents
where id = $1
`

func (r *documentRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	row := r.pool.QueryRow(ctx, qSelectDocument, id)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", common.ErrDocumentNotFound, id)
		}
		return nil, fmt.Errorf("%w: get document: %v", common.ErrPersistence, err)
	}
	return doc, nil
}

const qListDocuments = `
select id, owner_id, filename, file_type, raw_text, processing_status,
       current_job_id, last_error, uploaded_at, started_at, completed_at, failed_at,
       summary, tags, classification, embedding, clause_overview,
       contract_type, contract_confidence
from documents
where owner_id = $1
order by uploaded_at desc
`

func (r *documentRepo) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Document, error) {
	rows, err := r.pool.Query(ctx, qListDocuments, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: list documents: %v", common.ErrPersistence, err)
	}
	defer rows.Close()

	var docs []*entity.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan document: %v", common.ErrPersistence, err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

const qMarkProcessing = `
update documents
set processing_status = $3, started_at = coalesce(started_at, now()), current_job_id = $2, last_error = null
where id = $1 and processing_status <> $4
`

func (r *documentRepo) MarkProcessing(ctx context.Context, id, jobID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, qMarkProcessing, id, jobID,
		string(constants.StatusProcessing), string(constants.StatusCompleted))
	if err != nil {
		r.log.Error("mark processing failed", "document_id", id, "job_id", jobID, "err", err)
		return false, fmt.Errorf("%w: mark processing: %v", common.ErrPersistence, err)
	}
	if tag.RowsAffected() == 0 {
		// Either missing or already completed; caller distinguishes via GetByID.
		return false, nil
	}
	r.log.Info("document processing started", "document_id", id, "job_id", jobID)
	return true, nil
}

const qFinalize = `
update documents
set processing_status = $2, completed_at = now(), last_error = null,
    summary = $3, tags = $4, classification = $5, embedding = $6, clause_overview = $7
where id = $1 and processing_status <> $8
`

func (r *documentRepo) FinalizeArtifacts(ctx context.Context, id uuid.UUID, bundle *entity.ArtifactBundle) error {
	var embedding any
	if len(bundle.Embedding) > 0 {
		embedding = pgvector.NewVector(bundle.Embedding)
	}
	tag, err := r.pool.Exec(ctx, qFinalize,
		id, string(constants.StatusCompleted),
		bundle.Summary, bundle.Tags, bundle.Classification, embedding, bundle.ClauseOverview,
		string(constants.StatusFailed),
	)
	if err != nil {
		r.log.Error("finalize artifacts failed", "document_id", id, "err", err)
		return fmt.Errorf("%w: finalize artifacts: %v", common.ErrPersistence, err)
	}
	if tag.RowsAffected() == 0 {
		// The guard skipped the write. A missing row is terminal; a row parked
		// in failed is a conflict the next attempt clears through MarkProcessing.
		doc, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		return fmt.Errorf("%w: finalize conflict: document %s is %s", common.ErrPersistence, id, doc.ProcessingStatus)
	}
	r.log.Info("document completed", "document_id", id, "tags", len(bundle.Tags))
	return nil
}

const qMarkFailed = `
update documents
set processing_status = $2, failed_at = now(), last_error = $3
where id = $1 and processing_status = $4
`

func (r *documentRepo) MarkFailed(ctx context.Context, id uuid.UUID, message string) error {
	_, err := r.pool.Exec(ctx, qMarkFailed, id,
		string(constants.StatusFailed), message, string(constants.StatusProcessing))
	if err != nil {
		r.log.Error("mark failed write failed", "document_id", id, "err", err)
		return fmt.Errorf("%w: mark failed: %v", common.ErrPersistence, err)
	}
	r.log.Warn("document failed", "document_id", id, "error", message)
	return nil
}

const qCountByStatus = `
select processing_status, count(*) from documents where owner_id = $1 group by processing_status
`

func (r *documentRepo) CountByStatus(ctx context.Context, ownerID string) (map[constants.ProcessingStatus]int, error) {
	rows, err := r.pool.Query(ctx, qCountByStatus, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: count by status: %v", common.ErrPersistence, err)
	}
	defer rows.Close()

	counts := make(map[constants.ProcessingStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("%w: scan count: %v", common.ErrPersistence, err)
		}
		counts[constants.ProcessingStatus(status)] = n
	}
	return counts, rows.Err()
}

const qCountByType = `
select contract_type, count(*) from documents where owner_id = $1 group by contract_type
`

func (r *documentRepo) CountByContractType(ctx context.Context, ownerID string) (map[constants.ContractType]int, error) {
	rows, err := r.pool.Query(ctx, qCountByType, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: count by contract type: %v", common.ErrPersistence, err)
	}
	defer rows.Close()

	counts := make(map[constants.ContractType]int)
	for rows.Next() {
		var ct string
		var n int
		if err := rows.Scan(&ct, &n); err != nil {
			return nil, fmt.Errorf("%w: scan count: %v", common.ErrPersistence, err)
		}
		counts[constants.ContractType(ct)] = n
	}
	return counts, rows.Err()
}

func scanDocument(row pgx.Row) (*entity.Document, error) {
	var (
		doc            entity.Document
		status         string
		contractType   string
		classification []byte
		clauseOverview []byte
		embedding      *pgvector.Vector
	)
	err := row.Scan(
		&doc.ID, &doc.OwnerID, &doc.Filename, &doc.FileType, &doc.RawText, &status,
		&doc.CurrentJobID, &doc.LastError, &doc.UploadedAt, &doc.StartedAt, &doc.CompletedAt, &doc.FailedAt,
		&doc.Summary, &doc.Tags, &classification, &embedding, &clauseOverview,
		&contractType, &doc.ContractConfidence,
	)
	if err != nil {
		return nil, err
	}
	doc.ProcessingStatus = constants.ProcessingStatus(status)
	doc.ContractType = constants.ContractType(contractType)
	doc.Classification = json.RawMessage(classification)
	doc.ClauseOverview = json.RawMessage(clauseOverview)
	if embedding != nil {
		doc.Embedding = embedding.Slice()
	}
	return &doc, nil
}
