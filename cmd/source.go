package cmd

import (
	"context"
	"fmt"

	"creator-dashboard/config"
	"creator-dashboard/services"
	"creator-dashboard/source"
	"creator-dashboard/source/published"
	"creator-dashboard/source/sheets"
	"creator-dashboard/source/workbook"
	"creator-dashboard/storage"
	"creator-dashboard/utils"
)

// newLoader builds the configured row source. The returned cleanup closes
// any connection the source holds.
func newLoader(ctx context.Context, c *config.Config) (*source.Loader, func(), error) {
	retry := &utils.RetryConfig{
		MaxAttempts: c.MaxRetries,
		BaseDelay:   c.RetryBaseDelay,
		Logger:      logger,
	}
	cleanup := func() {}

	var fetcher source.Fetcher
	switch c.Source {
	case config.SourceSheets:
		s, err := sheets.New(ctx, sheets.Config{
			SpreadsheetID:   c.SpreadsheetID,
			Range:           c.SheetRange,
			APIKey:          c.SheetsAPIKey,
			CredentialsFile: c.GoogleCredentialsFile,
		}, retry, logger)
		if err != nil {
			return nil, nil, err
		}
		fetcher = s
	case config.SourcePublished:
		fetcher = published.New(c.PublishedURL, c.ChromeBin, retry, logger)
	case config.SourceWorkbook:
		fetcher = workbook.New(c.WorkbookPath, c.WorkbookSheet, logger)
	case config.SourcePostgres:
		store, err := storage.NewPostgresStore(ctx, c.DSN())
		if err != nil {
			return nil, nil, err
		}
		cleanup = func() { _ = store.Close() }
		fetcher = &source.Stored{Store: store}
	default:
		return nil, nil, fmt.Errorf("unknown source %q", c.Source)
	}

	return &source.Loader{
		Fetcher: fetcher,
		Cleaner: services.NewCleaner(logger),
		Metrics: stats,
		Logger:  logger,
		Timeout: c.FetchTimeout,
	}, cleanup, nil
}

// openMirror connects to Postgres when mirroring is enabled. It returns nil
// when the source already is the mirror.
func openMirror(ctx context.Context, c *config.Config) (storage.SnapshotStore, error) {
	if !c.MirrorToPostgres || c.Source == config.SourcePostgres {
		return nil, nil
	}
	store, err := storage.NewPostgresStore(ctx, c.DSN())
	if err != nil {
		return nil, err
	}
	return store, nil
}
