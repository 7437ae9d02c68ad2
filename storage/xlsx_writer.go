package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"creator-dashboard/models"
)

const exportSheet = "Export"

// XLSXWriter exports filtered rows as a single-sheet workbook, mirroring the
// CSV layout. Every cell is written as text so values keep their sheet
// formatting.
type XLSXWriter struct {
	out    io.Writer
	closer io.Closer
}

// NewXLSXWriter creates (or truncates) the workbook at path.
func NewXLSXWriter(path string) (*XLSXWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("xlsx: create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("xlsx: create file %q: %w", path, err)
	}
	return &XLSXWriter{out: f, closer: f}, nil
}

// NewXLSXStream writes the workbook to w. Close does not close w.
func NewXLSXStream(w io.Writer) *XLSXWriter {
	return &XLSXWriter{out: w}
}

// Export builds the workbook and writes it out.
func (x *XLSXWriter) Export(headers []string, rows []*models.Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("xlsx: rename sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(exportSheet)
	if err != nil {
		return fmt.Errorf("xlsx: stream writer: %w", err)
	}

	if len(headers) > 0 {
		if err := sw.SetRow("A1", toCells(headers)); err != nil {
			return fmt.Errorf("xlsx: write header: %w", err)
		}
		values := make([]string, len(headers))
		for i, r := range rows {
			for j, h := range headers {
				values[j] = r.Get(h).String
			}
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return fmt.Errorf("xlsx: cell name: %w", err)
			}
			if err := sw.SetRow(cell, toCells(values)); err != nil {
				return fmt.Errorf("xlsx: write row %d: %w", i+1, err)
			}
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("xlsx: flush: %w", err)
	}
	if _, err := f.WriteTo(x.out); err != nil {
		return fmt.Errorf("xlsx: write: %w", err)
	}
	return nil
}

// Close closes the underlying file, if any.
func (x *XLSXWriter) Close() error {
	if x.closer == nil {
		return nil
	}
	return x.closer.Close()
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
