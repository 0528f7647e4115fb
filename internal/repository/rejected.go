package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amara-nwosu/lexvault/internal/common"
	"github.com/amara-nwosu/lexvault/internal/entity"
)

// RejectedDocumentRepository records uploads that failed admission so the
// owner can review why a file never entered the pipeline.
type RejectedDocumentRepository interface {
	Create(ctx context.Context, rej *entity.RejectedDocument) error
	ListByOwner(ctx context.Context, ownerID string, limit int32) ([]*entity.RejectedDocument, error)
}

type rejectedRepo struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewRejectedDocumentRepository(pool *pgxpool.Pool, log *slog.Logger) RejectedDocumentRepository {
	if log == nil {
		log = slog.Default()
	}
	return &rejectedRepo{pool: pool, log: log}
}

const qInsertRejected = `
insert into rejected_documents (
    id, owner_id, filename, file_type, reason, validation_details, uploaded_at
) values ($1, $2, $3, $4, $5, $6, now())
returning uploaded_at
`

func (r *rejectedRepo) Create(ctx context.Context, rej *entity.RejectedDocument) error {
	if rej.ID == uuid.Nil {
		rej.ID = uuid.New()
	}
	err := r.pool.QueryRow(ctx, qInsertRejected,
		rej.ID, rej.OwnerID, rej.Filename, rej.FileType, rej.Reason, rej.ValidationDetails,
	).Scan(&rej.UploadedAt)
	if err != nil {
		return fmt.Errorf("%w: insert rejected document: %v", common.ErrPersistence, err)
	}
	r.log.Info("document rejected", "rejected_id", rej.ID, "owner_id", rej.OwnerID, "reason", rej.Reason)
	return nil
}

const qListRejected = `
select id, owner_id, filename, file_type, reason, validation_details, uploaded_at
from rejected_documents
where owner_id = $1
order by uploaded_at desc
limit $2
`

func (r *rejectedRepo) ListByOwner(ctx context.Context, ownerID string, limit int32) ([]*entity.RejectedDocument, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, qListRejected, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: list rejected documents: %v", common.ErrPersistence, err)
	}
	defer rows.Close()

	var out []*entity.RejectedDocument
	for rows.Next() {
		var rej entity.RejectedDocument
		if err := rows.Scan(&rej.ID, &rej.OwnerID, &rej.Filename, &rej.FileType, &rej.Reason, &rej.ValidationDetails, &rej.UploadedAt); err != nil {
			return nil, fmt.Errorf("%w: scan rejected document: %v", common.ErrPersistence, err)
		}
		out = append(out, &rej)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list rejected documents: %v", common.ErrPersistence, err)
	}
	return out, nil
}
