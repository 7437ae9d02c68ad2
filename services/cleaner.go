package services

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"creator-dashboard/models"
	"creator-dashboard/utils"
)

// Cleaner turns a raw values matrix into an immutable Snapshot.
type Cleaner struct {
	logger *utils.Logger
	now    func() time.Time
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger, now: time.Now}
}

// Clean maps every data row onto the header row. Missing and empty cells
// become absent values; every row carries every header. When a header repeats,
// the right-most column wins but the first position is kept.
func (c *Cleaner) Clean(table *models.RawTable, source string) *models.Snapshot {
	snap := &models.Snapshot{
		ID:        uuid.NewString(),
		Source:    source,
		Headers:   []string{},
		Rows:      []*models.Row{},
		FetchedAt: c.now(),
	}

	if table == nil || len(table.Values) == 0 {
		c.logger.Warn("[cleaner] No data found in %s", source)
		return snap
	}

	headerRow := table.Values[0]
	headers := utils.NewOrderedSet()
	for _, h := range headerRow {
		headers.Add(h)
	}
	snap.Headers = headers.Values()

	var missing []string
	for _, col := range models.Columns {
		if !headers.Contains(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		c.logger.Warn("[cleaner] %s is missing columns %v — they will read as empty", source, missing)
	}

	blank := 0
	snap.Rows = make([]*models.Row, 0, len(table.Values)-1)
	for _, values := range table.Values[1:] {
		cells := make(map[string]sql.NullString, len(headerRow))
		empty := true
		for i, h := range headerRow {
			v := models.Present(safeGet(values, i))
			if v.Valid {
				empty = false
			}
			cells[h] = v
		}
		if empty {
			blank++
		}
		snap.Rows = append(snap.Rows, models.NewRow(cells))
	}

	if blank > 0 {
		c.logger.Debug("[cleaner] %d blank rows kept from %s", blank, source)
	}
	c.logger.Info("[cleaner] Loaded %d rows × %d columns from %s", len(snap.Rows), len(snap.Headers), source)
	return snap
}

func safeGet(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
