package storage

import (
	"context"

	"creator-dashboard/models"
)

// Exporter is the interface any export format must satisfy.
type Exporter interface {
	Export(headers []string, rows []*models.Row) error
	Close() error
}

// SnapshotStore persists complete snapshots and hands back the latest one.
type SnapshotStore interface {
	Save(ctx context.Context, snap *models.Snapshot) error
	Latest(ctx context.Context) (*models.Snapshot, error)
	Close() error
}
