package services

import (
	"time"

	"creator-dashboard/models"
	"creator-dashboard/utils"
)

// DefaultPageSize is the number of rows shown per table page.
const DefaultPageSize = 20

// Evaluate runs the whole pipeline for one filter state: filter, drop a
// stale creator selection, aggregate and paginate. It holds no state.
func Evaluate(insights *InsightService, snap *models.Snapshot, state models.FilterState, pageSize, page int) *models.View {
	state, res := NormalizeState(snap.Rows, state)
	return &models.View{
		State:      state,
		Headers:    snap.Headers,
		Filtered:   res.Filtered,
		Creators:   res.Creators,
		Page:       Paginate(res.Filtered, pageSize, page),
		PageNumber: page,
		TotalPages: TotalPages(len(res.Filtered), pageSize),
		Report:     insights.Generate(res.Filtered, res.Creators),
	}
}

// Dashboard is one session over a snapshot. Every filter change replaces the
// state, moves back to page 1 and recomputes the view from scratch.
type Dashboard struct {
	snapshot *models.Snapshot
	insights *InsightService
	logger   *utils.Logger
	pageSize int

	state models.FilterState
	page  int
	view  *models.View
}

// NewDashboard starts a session with no filters on page 1.
func NewDashboard(snap *models.Snapshot, pageSize int, logger *utils.Logger) *Dashboard {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	d := &Dashboard{
		snapshot: snap,
		insights: NewInsightService(logger),
		logger:   logger,
		pageSize: pageSize,
		page:     1,
	}
	d.recompute()
	return d
}

// View returns the current view. It must be treated as read-only.
func (d *Dashboard) View() *models.View { return d.view }

// State returns the effective filter state.
func (d *Dashboard) State() models.FilterState { return d.state }

// SetSearch replaces the free-text search term.
func (d *Dashboard) SetSearch(term string) *models.View {
	next := d.state
	next.Search = term
	return d.apply(next)
}

// SetDateRange replaces both date bounds. A nil bound is open.
func (d *Dashboard) SetDateRange(start, end *time.Time) *models.View {
	next := d.state
	next.Start = copyTime(start)
	next.End = copyTime(end)
	return d.apply(next)
}

// SetCreator selects an account by exact name; "" clears the selection.
func (d *Dashboard) SetCreator(name string) *models.View {
	next := d.state
	next.Creator = name
	return d.apply(next)
}

// ClearFilters drops every filter.
func (d *Dashboard) ClearFilters() *models.View {
	return d.apply(models.FilterState{})
}

// SetPage moves to another page of the current filtered rows. Out-of-range
// pages yield an empty page.
func (d *Dashboard) SetPage(page int) *models.View {
	d.page = page
	next := *d.view
	next.PageNumber = page
	next.Page = Paginate(d.view.Filtered, d.pageSize, page)
	d.view = &next
	return d.view
}

func (d *Dashboard) apply(next models.FilterState) *models.View {
	d.state = next
	d.page = 1
	d.recompute()
	return d.view
}

func (d *Dashboard) recompute() {
	v := Evaluate(d.insights, d.snapshot, d.state, d.pageSize, d.page)
	if v.State.Creator != d.state.Creator {
		d.logger.Info("[dashboard] Creator %q not in the current date range — selection cleared", d.state.Creator)
		d.state = v.State
	}
	d.view = v
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
