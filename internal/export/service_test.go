package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/amara-nwosu/lexvault/constants"
	"github.com/amara-nwosu/lexvault/internal/common"
	"github.com/amara-nwosu/lexvault/internal/entity"
)

type stubDocRepo struct {
	docs   []*entity.Document
	counts map[constants.ProcessingStatus]int
	byType map[constants.ContractType]int
}

func (s *stubDocRepo) Create(_ context.Context, _ *entity.Document) error { return nil }
func (s *stubDocRepo) GetByID(_ context.Context, _ uuid.UUID) (*entity.Document, error) {
	return nil, common.ErrDocumentNotFound
}
func (s *stubDocRepo) ListByOwner(_ context.Context, _ string) ([]*entity.Document, error) {
	return s.docs, nil
}
func (s *stubDocRepo) MarkProcessing(_ context.Context, _, _ uuid.UUID) (bool, error) {
	return false, nil
}
func (s *stubDocRepo) FinalizeArtifacts(_ context.Context, _ uuid.UUID, _ *entity.ArtifactBundle) error {
	return nil
}
func (s *stubDocRepo) MarkFailed(_ context.Context, _ uuid.UUID, _ string) error { return nil }
func (s *stubDocRepo) CountByStatus(_ context.Context, _ string) (map[constants.ProcessingStatus]int, error) {
	return s.counts, nil
}
func (s *stubDocRepo) CountByContractType(_ context.Context, _ string) (map[constants.ContractType]int, error) {
	return s.byType, nil
}

func TestExportRegisterXLSX(t *testing.T) {
	summary := "Lease at $2,400/month for 12 months."
	repo := &stubDocRepo{docs: []*entity.Document{
		{
			ID:                 uuid.New(),
			OwnerID:            "owner-1",
			Filename:           "lease.txt",
			ContractType:       constants.ContractLease,
			ContractConfidence: 0.82,
			ProcessingStatus:   constants.StatusCompleted,
			Tags:               []string{"contract_lease", "validated_contract", "lease"},
			Summary:            &summary,
			UploadedAt:         time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:               uuid.New(),
			OwnerID:          "owner-1",
			Filename:         "offer.txt",
			ContractType:     constants.ContractEmployment,
			ProcessingStatus: constants.StatusPending,
			UploadedAt:       time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC),
		},
	}}
	svc := NewService(repo, nil)

	data, err := svc.ExportRegisterXLSX(context.Background(), "owner-1")
	require.NoError(t, err)
	require.NotEmpty(t, data)

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("Documents")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Uploaded", rows[0][0])
	assert.Equal(t, "lease.txt", rows[1][1])
	assert.Equal(t, "lease", rows[1][2])
	assert.Equal(t, "completed", rows[1][4])
	assert.Contains(t, rows[1][6], "Lease at $2,400")
	assert.Equal(t, "offer.txt", rows[2][1])
	assert.Equal(t, "pending", rows[2][4])
}

func TestOwnerStats(t *testing.T) {
	repo := &stubDocRepo{
		counts: map[constants.ProcessingStatus]int{
			constants.StatusCompleted:  5,
			constants.StatusFailed:     1,
			constants.StatusProcessing: 2,
		},
		byType: map[constants.ContractType]int{
			constants.ContractLease:      4,
			constants.ContractEmployment: 3,
			constants.ContractGeneral:    1,
		},
	}
	svc := NewService(repo, nil)

	stats, err := svc.OwnerStats(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 8, stats.Total)
	assert.Equal(t, 5, stats.Completed)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 4, stats.ByType[constants.ContractLease])
	assert.Equal(t, 3, stats.ByType[constants.ContractEmployment])
}
