package excel

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sheetchat/domain/core"
	"sheetchat/domain/dataset"
	"sheetchat/internal"
	"sheetchat/internal/errors"

	"github.com/xuri/excelize/v2"
)

// DataReader turns uploaded spreadsheets into datasets. Workbooks are read
// from their first sheet only.
type DataReader struct {
	config ReaderConfig
	logger *internal.Logger
}

// NewDataReader creates a reader with the given limits
func NewDataReader(config ReaderConfig) *DataReader {
	if config.MaxFileSize <= 0 {
		config.MaxFileSize = DefaultReaderConfig().MaxFileSize
	}
	if len(config.AllowedExtensions) == 0 {
		config.AllowedExtensions = DefaultReaderConfig().AllowedExtensions
	}
	return &DataReader{
		config: config,
		logger: internal.DefaultLogger.With("DataReader"),
	}
}

// ReadFile loads a spreadsheet from disk
func (r *DataReader) ReadFile(ctx context.Context, path string) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.ParseFailed(filepath.Base(path), err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.ParseFailed(filepath.Base(path), err)
	}
	return r.ReadUpload(ctx, filepath.Base(path), f, info.Size())
}

// ReadUpload validates and parses an uploaded file. size may be -1 when unknown.
func (r *DataReader) ReadUpload(ctx context.Context, filename string, src io.Reader, size int64) (*dataset.Dataset, error) {
	kind, err := r.kindFor(filename)
	if err != nil {
		return nil, err
	}
	if size > r.config.MaxFileSize {
		return nil, errors.InvalidInput(fmt.Sprintf("file size (%.1f MB) exceeds the %.0f MB limit",
			float64(size)/(1024*1024), float64(r.config.MaxFileSize)/(1024*1024)))
	}

	data, err := io.ReadAll(io.LimitReader(src, r.config.MaxFileSize+1))
	if err != nil {
		return nil, errors.ParseFailed(filename, err)
	}
	if int64(len(data)) > r.config.MaxFileSize {
		return nil, errors.InvalidInput(fmt.Sprintf("file exceeds the %.0f MB limit", float64(r.config.MaxFileSize)/(1024*1024)))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	var (
		sheet string
		rows  [][]string
	)
	switch kind {
	case kindCSV:
		sheet = strings.TrimSuffix(filename, filepath.Ext(filename))
		rows, err = readCSVRows(data)
	default:
		sheet, rows, err = readFirstSheet(data)
	}
	if err != nil {
		r.logger.Warn("FAILED - %s: %v", filename, err)
		return nil, errors.ParseFailed(filename, err)
	}
	if len(rows) == 0 {
		return nil, errors.ParseFailed(filename, fmt.Errorf("sheet %q is empty", sheet))
	}

	ds, err := dataset.New(filename, sheet, rows[0], rows[1:], core.NewHash(data))
	if err != nil {
		return nil, errors.ParseFailed(filename, err)
	}

	r.logger.Info("%s parsed in %.2fms (sheet=%q, %d columns, %d rows)",
		filename, float64(time.Since(start).Nanoseconds())/1e6, sheet, ds.ColumnCount(), ds.RowCount())
	return ds, nil
}

func (r *DataReader) kindFor(filename string) (fileKind, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range r.config.AllowedExtensions {
		if ext == allowed {
			if ext == ".csv" {
				return kindCSV, nil
			}
			return kindWorkbook, nil
		}
	}
	return "", errors.InvalidInput(fmt.Sprintf("unsupported file type %q: expected one of %s",
		ext, strings.Join(r.config.AllowedExtensions, ", ")))
}

// readFirstSheet returns the first sheet in workbook order. Cells keep their
// stored values rather than the displayed number format, except that date
// cells are rendered as timestamps. Fully blank rows are skipped.
func readFirstSheet(data []byte) (string, [][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", nil, fmt.Errorf("workbook has no sheets")
	}

	sheet := sheets[0]
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return "", nil, fmt.Errorf("failed to read %s: %w", sheet, err)
	}

	formatter := newCellFormatter(f, sheet)
	for r, row := range rows {
		for c, raw := range row {
			row[c] = formatter.format(r, c, raw)
		}
	}
	return sheet, dropBlankRows(rows), nil
}

func readCSVRows(data []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return rows, nil
}
