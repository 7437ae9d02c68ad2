package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"creator-dashboard/models"
	"creator-dashboard/utils"
)

// Config selects the spreadsheet range and how to authenticate.
type Config struct {
	SpreadsheetID   string
	Range           string
	APIKey          string
	CredentialsFile string
}

// Source reads a range through the Google Sheets v4 API.
type Source struct {
	cfg     Config
	service *sheets.Service
	retry   *utils.RetryConfig
	logger  *utils.Logger
}

// New creates the Sheets service. An API key is enough for sheets shared by
// link; a credentials file is needed for private ones.
func New(ctx context.Context, cfg Config, retry *utils.RetryConfig, logger *utils.Logger, extra ...option.ClientOption) (*Source, error) {
	opts := append([]option.ClientOption{}, extra...)
	switch {
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	case cfg.APIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: create service: %w", err)
	}

	return &Source{cfg: cfg, service: service, retry: retry, logger: logger}, nil
}

func (s *Source) Name() string { return "sheets:" + s.cfg.Range }

// Fetch reads the configured range with formatted values, so cells come back
// exactly as they are displayed in the sheet.
func (s *Source) Fetch(ctx context.Context) (*models.RawTable, error) {
	var resp *sheets.ValueRange

	err := s.retry.Do(ctx, "sheets-values-get", func(ctx context.Context) error {
		r, err := s.service.Spreadsheets.Values.Get(s.cfg.SpreadsheetID, s.cfg.Range).
			ValueRenderOption("FORMATTED_VALUE").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("values.get %s: %w", s.cfg.Range, err)
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("[sheets] %s returned %d rows", s.cfg.Range, len(resp.Values))
	return &models.RawTable{Values: toStrings(resp.Values)}, nil
}

func toStrings(values [][]interface{}) [][]string {
	out := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			switch c := v.(type) {
			case nil:
			case string:
				cells[j] = c
			default:
				cells[j] = fmt.Sprint(c)
			}
		}
		out[i] = cells
	}
	return out
}
