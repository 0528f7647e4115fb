// Package export produces XLSX register workbooks for an owner's documents.
package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/amara-nwosu/lexvault/constants"
	"github.com/amara-nwosu/lexvault/internal/repository"
)

// Service is a tiny façade over the document repository that produces XLSX
// bytes for exports.
type Service struct {
	docs   repository.DocumentRepository
	logger *slog.Logger
}

func NewService(docs repository.DocumentRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{docs: docs, logger: logger}
}

// ExportRegisterXLSX returns an XLSX workbook (as bytes) listing every
// document the owner has, newest first, with lifecycle and enrichment
// columns.
func (s *Service) ExportRegisterXLSX(ctx context.Context, ownerID string) ([]byte, error) {
	start := time.Now()

	docs, err := s.docs.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Documents"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if defaultIndex, _ := f.GetSheetIndex("Sheet1"); defaultIndex != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{
		"Uploaded",
		"Filename",
		"Contract Type",
		"Confidence",
		"Status",
		"Tags",
		"Summary",
		"Last Error",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, d := range docs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, d.UploadedAt.Format("2006-01-02"))
		write(2, d.Filename)
		write(3, string(d.ContractType))
		write(4, d.ContractConfidence)
		write(5, string(d.ProcessingStatus))
		write(6, strings.Join(d.Tags, ", "))
		if d.Summary != nil {
			write(7, *d.Summary)
		}
		if d.LastError != nil {
			write(8, *d.LastError)
		}
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("export.register.ok",
		"owner_id", ownerID,
		"rows", row-2,
		"duration", time.Since(start),
	)
	return buf.Bytes(), nil
}

// Stats is the per-owner lifecycle summary surfaced alongside exports.
type Stats struct {
	Total     int                                `json:"total"`
	ByStatus  map[constants.ProcessingStatus]int `json:"by_status"`
	ByType    map[constants.ContractType]int     `json:"by_contract_type"`
	Completed int                                `json:"completed"`
	Failed    int                                `json:"failed"`
}

func (s *Service) OwnerStats(ctx context.Context, ownerID string) (*Stats, error) {
	counts, err := s.docs.CountByStatus(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}
	byType, err := s.docs.CountByContractType(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}
	stats := &Stats{ByStatus: counts, ByType: byType}
	for status, n := range counts {
		stats.Total += n
		switch status {
		case constants.StatusCompleted:
			stats.Completed = n
		case constants.StatusFailed:
			stats.Failed = n
		}
	}
	return stats, nil
}
