package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"creator-dashboard/models"
)

// CSVWriter exports filtered rows as CSV. Columns follow the sheet's header
// order; absent cells are written as empty fields.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	closer io.Closer
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path.
// Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	c := NewCSVStream(f)
	c.closer = f
	return c, nil
}

// NewCSVStream writes to w, e.g. an HTTP response. Close does not close w.
func NewCSVStream(w io.Writer) *CSVWriter {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	return &CSVWriter{writer: cw}
}

// Export writes the header row followed by one record per row.
func (c *CSVWriter) Export(headers []string, rows []*models.Row) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(headers) == 0 {
		return nil
	}

	if err := c.writer.Write(headers); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	record := make([]string, len(headers))
	for _, r := range rows {
		for i, h := range headers {
			record[i] = r.Get(h).String
		}
		if err := c.writer.Write(record); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	if c.closer == nil {
		return c.writer.Error()
	}
	return c.closer.Close()
}
