package workbook

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"creator-dashboard/models"
	"creator-dashboard/utils"
)

// Source reads a sheet from an .xlsx file downloaded from the spreadsheet.
type Source struct {
	path   string
	sheet  string
	logger *utils.Logger
}

// New creates a workbook Source. An empty sheet name means the first sheet.
func New(path, sheet string, logger *utils.Logger) *Source {
	return &Source{path: path, sheet: sheet, logger: logger}
}

func (s *Source) Name() string { return "workbook:" + s.path }

// Fetch returns the sheet's rows as displayed (formatted) text.
func (s *Source) Fetch(ctx context.Context) (*models.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("workbook: open %q: %w", s.path, err)
	}
	defer f.Close()

	sheet := s.sheet
	if sheet == "" || !hasSheet(f, sheet) {
		list := f.GetSheetList()
		if len(list) == 0 {
			return nil, fmt.Errorf("workbook: %q has no sheets", s.path)
		}
		if sheet != "" {
			s.logger.Warn("[workbook] Sheet %q not found, using %q", sheet, list[0])
		}
		sheet = list[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("workbook: read sheet %q: %w", sheet, err)
	}

	s.logger.Debug("[workbook] %s!%s has %d rows", s.path, sheet, len(rows))
	return &models.RawTable{Values: rows}, nil
}

func hasSheet(f *excelize.File, name string) bool {
	idx, err := f.GetSheetIndex(name)
	return err == nil && idx >= 0
}
