package source

import (
	"context"
	"fmt"

	"creator-dashboard/models"
	"creator-dashboard/storage"
)

// Stored replays the latest mirrored snapshot as a values matrix, so a
// dashboard can run from the Postgres mirror when the sheet is unreachable.
type Stored struct {
	Store storage.SnapshotStore
}

func (s *Stored) Name() string { return "postgres" }

func (s *Stored) Fetch(ctx context.Context) (*models.RawTable, error) {
	snap, err := s.Store.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("stored: latest: %w", err)
	}
	return ToTable(snap), nil
}

// ToTable flattens a snapshot back into its header row and value rows.
// Absent cells become empty strings.
func ToTable(snap *models.Snapshot) *models.RawTable {
	if len(snap.Headers) == 0 {
		return &models.RawTable{}
	}
	values := make([][]string, 0, len(snap.Rows)+1)
	values = append(values, append([]string(nil), snap.Headers...))
	for _, r := range snap.Rows {
		line := make([]string, len(snap.Headers))
		for i, h := range snap.Headers {
			line[i] = r.Get(h).String
		}
		values = append(values, line)
	}
	return &models.RawTable{Values: values}
}
