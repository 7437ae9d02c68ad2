package source

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creator-dashboard/models"
	"creator-dashboard/storage"
)

type memoryStore struct {
	snap *models.Snapshot
}

func (m *memoryStore) Save(_ context.Context, snap *models.Snapshot) error {
	m.snap = snap
	return nil
}

func (m *memoryStore) Latest(context.Context) (*models.Snapshot, error) {
	if m.snap == nil {
		return nil, storage.ErrNoSnapshot
	}
	return m.snap, nil
}

func (m *memoryStore) Close() error { return nil }

func TestStoredReplaysLatestSnapshot(t *testing.T) {
	store := &memoryStore{}
	require.NoError(t, store.Save(context.Background(), &models.Snapshot{
		Headers: []string{models.ColAccount, models.ColViews},
		Rows: []*models.Row{
			models.NewRow(map[string]sql.NullString{
				models.ColAccount: models.Present("alice"),
				models.ColViews:   models.Present("1,200"),
			}),
			models.NewRow(map[string]sql.NullString{models.ColAccount: models.Present("bob")}),
		},
	}))

	snap, err := newLoader(&Stored{Store: store}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "postgres", snap.Source)
	require.Len(t, snap.Rows, 2)
	assert.Equal(t, "1,200", snap.Rows[0].Views.String)
	assert.False(t, snap.Rows[1].Views.Valid)
}

func TestStoredWithoutSnapshotFails(t *testing.T) {
	_, err := newLoader(&Stored{Store: &memoryStore{}}).Load(context.Background())
	assert.ErrorIs(t, err, storage.ErrNoSnapshot)
}

func TestToTableEmptySnapshot(t *testing.T) {
	assert.Empty(t, ToTable(&models.Snapshot{}).Values)
}
