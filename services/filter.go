package services

import (
	"slices"
	"strings"
	"time"

	"creator-dashboard/models"
	"creator-dashboard/utils"
)

// FilterResult keeps the output of every stage. Creators is derived from
// Dated, before the creator stage, so selecting a creator never narrows the
// list of creators that can be picked.
type FilterResult struct {
	Searched []*models.Row
	Dated    []*models.Row
	Filtered []*models.Row
	Creators []string
}

// Filter runs search, then date range, then creator over rows. It never
// reorders rows and never mutates them.
func Filter(rows []*models.Row, state models.FilterState) FilterResult {
	var res FilterResult
	res.Searched = filterBySearch(rows, state.Search)
	res.Dated = filterByDate(res.Searched, state.Start, state.End)
	res.Creators = distinctCreators(res.Dated)
	res.Filtered = filterByCreator(res.Dated, state.Creator)
	return res
}

// NormalizeState drops a selected creator that is no longer among the
// date-filtered creators and returns the result for the corrected state.
func NormalizeState(rows []*models.Row, state models.FilterState) (models.FilterState, FilterResult) {
	res := Filter(rows, state)
	if state.Creator == "" || slices.Contains(res.Creators, state.Creator) {
		return state, res
	}
	state.Creator = ""
	res.Filtered = res.Dated
	return state, res
}

func filterBySearch(rows []*models.Row, term string) []*models.Row {
	if term == "" {
		return rows
	}
	needle := strings.ToLower(term)
	out := make([]*models.Row, 0, len(rows))
	for _, r := range rows {
		if containsFold(r.Account.String, r.Account.Valid, needle) ||
			containsFold(r.ProductName.String, r.ProductName.Valid, needle) {
			out = append(out, r)
		}
	}
	return out
}

func containsFold(s string, valid bool, needle string) bool {
	return valid && strings.Contains(strings.ToLower(s), needle)
}

// DayStart floors t to midnight of its calendar day.
func DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayEnd ceils t to the last instant of its calendar day.
func DayEnd(t time.Time) time.Time {
	return DayStart(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func filterByDate(rows []*models.Row, start, end *time.Time) []*models.Row {
	if start == nil && end == nil {
		return rows
	}

	var from, to time.Time
	if start != nil {
		from = DayStart(*start)
	}
	if end != nil {
		to = DayEnd(*end)
	}

	out := make([]*models.Row, 0, len(rows))
	for _, r := range rows {
		d, ok := ParseRowDate(r.Date)
		if !ok {
			continue
		}
		if start != nil && d.Before(from) {
			continue
		}
		if end != nil && d.After(to) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func filterByCreator(rows []*models.Row, creator string) []*models.Row {
	if creator == "" {
		return rows
	}
	out := make([]*models.Row, 0, len(rows))
	for _, r := range rows {
		if r.Account.Valid && r.Account.String == creator {
			out = append(out, r)
		}
	}
	return out
}

func distinctCreators(rows []*models.Row) []string {
	set := utils.NewOrderedSet()
	for _, r := range rows {
		if r.Account.Valid && r.Account.String != "" {
			set.Add(r.Account.String)
		}
	}
	return set.Values()
}
