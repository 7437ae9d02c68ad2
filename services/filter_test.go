package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creator-dashboard/models"
)

// video builds a Row from column → value pairs; "" leaves the column absent.
func video(kv ...string) *models.Row {
	cells := make(map[string]sql.NullString, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		cells[kv[i]] = models.Present(kv[i+1])
	}
	return models.NewRow(cells)
}

func sampleRows() []*models.Row {
	return []*models.Row{
		video(models.ColAccount, "Alice", models.ColProductName, "Serum Glow", models.ColDate, "02-Jan-2024"),
		video(models.ColAccount, "Bob", models.ColProductName, "Lip Tint", models.ColDate, "15-Jan-2024"),
		video(models.ColAccount, "alice", models.ColProductName, "Sunscreen", models.ColDate, "01-Feb-2024"),
		video(models.ColAccount, "Carol", models.ColProductName, "Serum Night", models.ColDate, "bad-date"),
		video(models.ColProductName, "Toner", models.ColDate, "20-Jan-2024"),
		video(models.ColAccount, "Bob", models.ColDate, "31-Jan-2024"),
	}
}

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func accounts(rows []*models.Row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Account.String)
	}
	return out
}

func TestFilterNoStatePassesEverything(t *testing.T) {
	rows := sampleRows()
	res := Filter(rows, models.FilterState{})
	assert.Equal(t, rows, res.Filtered)
	assert.Equal(t, []string{"Alice", "Bob", "alice", "Carol"}, res.Creators)
}

func TestFilterSearchIsCaseInsensitiveOnAccountAndProduct(t *testing.T) {
	res := Filter(sampleRows(), models.FilterState{Search: "ALICE"})
	assert.Equal(t, []string{"Alice", "alice"}, accounts(res.Filtered))

	res = Filter(sampleRows(), models.FilterState{Search: "serum"})
	assert.Equal(t, []string{"Alice", "Carol"}, accounts(res.Filtered))

	res = Filter(sampleRows(), models.FilterState{Search: "toner"})
	require.Len(t, res.Filtered, 1)
	assert.False(t, res.Filtered[0].Account.Valid)
}

func TestFilterDateRangeInclusiveDays(t *testing.T) {
	state := models.FilterState{Start: day(2024, time.January, 2), End: day(2024, time.January, 31)}
	res := Filter(sampleRows(), state)
	assert.Equal(t, []string{"Alice", "Bob", "", "Bob"}, accounts(res.Filtered))
}

func TestFilterDateRangeEndBoundCoversWholeDay(t *testing.T) {
	end := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	res := Filter(sampleRows(), models.FilterState{End: &end})
	assert.Equal(t, []string{"Alice", "Bob"}, accounts(res.Filtered))
}

func TestFilterDateRangeStartOnly(t *testing.T) {
	res := Filter(sampleRows(), models.FilterState{Start: day(2024, time.February, 1)})
	assert.Equal(t, []string{"alice"}, accounts(res.Filtered))
}

func TestFilterUnparseableDatesOnlyDroppedWithABound(t *testing.T) {
	open := Filter(sampleRows(), models.FilterState{})
	assert.Contains(t, accounts(open.Filtered), "Carol")

	bounded := Filter(sampleRows(), models.FilterState{Start: day(2000, time.January, 1)})
	assert.NotContains(t, accounts(bounded.Filtered), "Carol")
}

func TestFilterCreatorIsExactMatch(t *testing.T) {
	res := Filter(sampleRows(), models.FilterState{Creator: "Alice"})
	assert.Equal(t, []string{"Alice"}, accounts(res.Filtered))

	res = Filter(sampleRows(), models.FilterState{Creator: "Ali"})
	assert.Empty(t, res.Filtered)
}

func TestFilterCreatorsComputedBeforeCreatorStage(t *testing.T) {
	res := Filter(sampleRows(), models.FilterState{Creator: "Bob"})
	assert.Equal(t, []string{"Bob", "Bob"}, accounts(res.Filtered))
	assert.Equal(t, []string{"Alice", "Bob", "alice", "Carol"}, res.Creators)
}

func TestFilterIsOrderPreservingSubsequence(t *testing.T) {
	rows := sampleRows()
	state := models.FilterState{Search: "b", Start: day(2024, time.January, 1)}
	res := Filter(rows, state)

	pos := -1
	for _, r := range res.Filtered {
		idx := -1
		for i := pos + 1; i < len(rows); i++ {
			if rows[i] == r {
				idx = i
				break
			}
		}
		require.NotEqual(t, -1, idx, "filtered row out of order or not from input")
		pos = idx
	}
}

func TestFilterIsIdempotent(t *testing.T) {
	rows := sampleRows()
	state := models.FilterState{Search: "a", End: day(2024, time.January, 31)}
	first := Filter(rows, state)
	second := Filter(rows, state)
	assert.Equal(t, first, second)
}

func TestNormalizeStateClearsVanishedCreator(t *testing.T) {
	state := models.FilterState{Creator: "alice", End: day(2024, time.January, 31)}
	got, res := NormalizeState(sampleRows(), state)
	assert.Empty(t, got.Creator)
	assert.Equal(t, res.Dated, res.Filtered)
	assert.NotContains(t, res.Creators, "alice")
}

func TestNormalizeStateKeepsPresentCreator(t *testing.T) {
	state := models.FilterState{Creator: "Bob"}
	got, res := NormalizeState(sampleRows(), state)
	assert.Equal(t, "Bob", got.Creator)
	assert.Len(t, res.Filtered, 2)
}
