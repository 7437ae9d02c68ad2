// Package source loads the raw creator sheet from wherever it is published
// and turns it into a complete snapshot for the dashboard.
package source

import (
	"context"
	"fmt"
	"time"

	"creator-dashboard/metrics"
	"creator-dashboard/models"
	"creator-dashboard/services"
	"creator-dashboard/utils"
)

// Fetcher returns the sheet as a values matrix with the header row first.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) (*models.RawTable, error)
}

// Loader fetches, times and cleans one snapshot.
type Loader struct {
	Fetcher Fetcher
	Cleaner *services.Cleaner
	Metrics *metrics.Metrics
	Logger  *utils.Logger
	Timeout time.Duration
}

// Load returns a whole snapshot or an error; a failed fetch never produces a
// partial snapshot.
func (l *Loader) Load(ctx context.Context) (*models.Snapshot, error) {
	if l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}

	name := l.Fetcher.Name()
	l.Logger.Info("[source] Fetching rows from %s", name)

	start := time.Now()
	table, err := l.Fetcher.Fetch(ctx)
	l.Metrics.ObserveFetch(name, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("source: fetch %s: %w", name, err)
	}

	snap := l.Cleaner.Clean(table, name)
	l.Metrics.SetSnapshot(len(snap.Rows), snap.FetchedAt)
	return snap, nil
}

// Static serves a fixed table. Used for tests and for piping a table that
// was obtained elsewhere.
type Static struct {
	Label string
	Table *models.RawTable
	Err   error
}

func (s *Static) Name() string { return s.Label }

func (s *Static) Fetch(ctx context.Context) (*models.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Table, nil
}
