package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/document-intake/internal/entity"
	"github.com/joseph-ayodele/document-intake/internal/repository"
	"github.com/joseph-ayodele/document-intake/internal/utils"
)

const (
	SheetDocuments = "Documents"
	SheetItems     = "Items"
)

// Service produces XLSX bytes of the session's documents for the rendering layer.
type Service struct {
	store  repository.DocumentRepository
	logger *slog.Logger
}

func NewService(store repository.DocumentRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// ExportXLSX writes the current store contents, newest document first.
func (s *Service) ExportXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()
	docs := s.store.All()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := WriteItemsXLSX(docs)
	if err != nil {
		s.logger.Error("export.xlsx.failed", "error", err)
		return nil, err
	}
	s.logger.Info("export.xlsx.ok",
		"documents", len(docs),
		"bytes", len(b),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return b, nil
}

// WriteItemsXLSX returns a workbook with one row per document on the Documents
// sheet and one row per (document, item) on the Items sheet.
func WriteItemsXLSX(docs []entity.Document) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetDocuments); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetItems); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}

	docHeaders := []string{
		"Upload Date",
		"File",
		"Type",
		"Document Number",
		"Counterparty",
		"Reference Number",
		"Document Date",
		"Total Items",
		"Status",
		"Source",
		"Needs Review",
	}
	writeRow(f, SheetDocuments, 1, toAny(docHeaders))
	for i, d := range docs {
		writeRow(f, SheetDocuments, i+2, []any{
			d.UploadDate.Format("2006-01-02 15:04"),
			d.FileName,
			string(d.Type),
			d.DocumentNumber,
			d.CounterpartyName,
			d.ReferenceNumber,
			d.DocumentDate,
			d.TotalItemCount,
			string(d.Status),
			string(d.Source),
			d.NeedsReview,
		})
	}

	itemHeaders := []string{
		"Document Number",
		"Counterparty",
		"Item Code",
		"Description",
		"Quantity",
		"Unit",
		"Unit Price",
		"Total",
		"Status",
		"Reason",
	}
	writeRow(f, SheetItems, 1, toAny(itemHeaders))
	row := 2
	for _, d := range docs {
		for _, it := range d.Items {
			writeRow(f, SheetItems, row, []any{
				d.DocumentNumber,
				d.CounterpartyName,
				it.ItemCode,
				utils.Truncate(it.Description, 140),
				it.Quantity,
				it.Unit,
				it.UnitPrice.InexactFloat64(),
				it.Total.InexactFloat64(),
				string(it.Status),
				it.Reason,
			})
			row++
		}
	}

	// Widen a few columns
	_ = f.SetColWidth(SheetDocuments, "A", "A", 18) // upload date
	_ = f.SetColWidth(SheetDocuments, "B", "B", 32) // file
	_ = f.SetColWidth(SheetDocuments, "D", "F", 24) // numbers, counterparty
	_ = f.SetColWidth(SheetItems, "A", "B", 24)
	_ = f.SetColWidth(SheetItems, "D", "D", 48) // description
	_ = f.SetColWidth(SheetItems, "G", "H", 16) // amounts

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
