// Package dataset reads raw contract sheets into records and owns the
// "currently loaded" state a driver shares between its load and generate
// actions. Readers return untyped string records; all value parsing belongs
// to the cleaning package.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"

	"floodctl/pkg/contracts/domain"
)

// Reader loads raw rows from one source sheet.
type Reader interface {
	Read(ctx context.Context, path string) ([]domain.RawRecord, error)
}

// ReadFile loads a source sheet, selecting the reader by file extension.
func ReadFile(ctx context.Context, path string, logger *slog.Logger) ([]domain.RawRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return NewCSVReader(logger).Read(ctx, path)
	case ".xlsx":
		return NewXLSXReader(logger).Read(ctx, path)
	default:
		return nil, NewFormatError(path)
	}
}

// CSVReader reads comma-separated sheets with a header row.
type CSVReader struct {
	logger *slog.Logger
}

// NewCSVReader creates a CSVReader.
func NewCSVReader(logger *slog.Logger) *CSVReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVReader{logger: logger}
}

// Read loads every data row of the sheet at path. Rows with a deviating
// column count are tolerated; rows the csv decoder cannot recover are skipped
// and counted rather than failing the load.
func (r *CSVReader) Read(ctx context.Context, path string) ([]domain.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, NewIOError(path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, NewEmptyError(path)
	}
	if err != nil {
		return nil, NewParseError(path, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	if err := checkColumns(path, header); err != nil {
		return nil, err
	}

	records := make([]domain.RawRecord, 0, 1024)
	skipped := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		records = append(records, mapRow(header, row))
	}

	r.logger.InfoContext(ctx, "csv sheet read",
		slog.String("path", path),
		slog.Int("rows", len(records)),
		slog.Int("skipped", skipped))

	return records, nil
}

// XLSXReader reads workbook sheets with a header row. Only the first sheet
// of the workbook is consulted.
type XLSXReader struct {
	logger *slog.Logger
}

// NewXLSXReader creates an XLSXReader.
func NewXLSXReader(logger *slog.Logger) *XLSXReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXReader{logger: logger}
}

// Read loads every data row of the workbook's first sheet.
func (r *XLSXReader) Read(ctx context.Context, path string) ([]domain.RawRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, NewIOError(path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, NewSchemaError(path, "workbook has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, NewParseError(path, err)
	}
	if len(rows) == 0 {
		return nil, NewEmptyError(path)
	}

	header := rows[0]
	if err := checkColumns(path, header); err != nil {
		return nil, err
	}

	records := make([]domain.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, mapRow(header, row))
	}

	r.logger.InfoContext(ctx, "xlsx sheet read",
		slog.String("path", path),
		slog.String("sheet", sheet),
		slog.Int("rows", len(records)))

	return records, nil
}

// mapRow pairs header names with row cells. Short rows leave trailing
// columns absent from the record, which the cleaner treats as empty.
func mapRow(header, row []string) domain.RawRecord {
	record := make(domain.RawRecord, len(header))
	for i, col := range header {
		if i < len(row) {
			record[col] = row[i]
		}
	}
	return record
}

// checkColumns verifies the header carries every required column.
func checkColumns(path string, header []string) error {
	seen := make(map[string]bool, len(header))
	for _, col := range header {
		seen[strings.TrimSpace(col)] = true
	}
	missing := lo.Filter(domain.RequiredColumns, func(col string, _ int) bool {
		return !seen[col]
	})
	if len(missing) > 0 {
		return &ReadError{
			Type:    ErrorTypeSchema,
			Path:    path,
			Message: "missing required columns: " + strings.Join(missing, ", "),
			Cause:   ErrMissingColumns,
		}
	}
	return nil
}
