package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/render"

	"creator-dashboard/models"
	"creator-dashboard/services"
	"creator-dashboard/storage"
)

const (
	dateLayout = "2006-01-02"
	formatCSV  = "csv"
	formatXLSX = "xlsx"
)

type errorResponse struct {
	Error string `json:"error"`
}

type filtersResponse struct {
	Search  string `json:"search"`
	Start   string `json:"start,omitempty"`
	End     string `json:"end,omitempty"`
	Creator string `json:"creator"`
}

type dashboardResponse struct {
	SnapshotID string               `json:"snapshot_id"`
	FetchedAt  time.Time            `json:"fetched_at"`
	Filters    filtersResponse      `json:"filters"`
	Headers    []string             `json:"headers"`
	Creators   []string             `json:"creators"`
	TotalRows  int                  `json:"total_rows"`
	Page       int                  `json:"page"`
	TotalPages int                  `json:"total_pages"`
	Rows       []map[string]*string `json:"rows"`
	Report     *models.Report       `json:"report"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.Snapshot()
	if snap == nil {
		s.fail(w, r, http.StatusServiceUnavailable, ErrNotReady)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status":     "ok",
		"snapshot":   snap.ID,
		"rows":       len(snap.Rows),
		"fetched_at": snap.FetchedAt,
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	view, snap, ok := s.evaluate(w, r)
	if !ok {
		return
	}

	rows := make([]map[string]*string, len(view.Page))
	for i, row := range view.Page {
		rows[i] = rowJSON(view.Headers, row)
	}

	render.JSON(w, r, dashboardResponse{
		SnapshotID: snap.ID,
		FetchedAt:  snap.FetchedAt,
		Filters:    filtersJSON(view.State),
		Headers:    view.Headers,
		Creators:   view.Creators,
		TotalRows:  len(view.Filtered),
		Page:       view.PageNumber,
		TotalPages: view.TotalPages,
		Rows:       rows,
		Report:     view.Report,
	})
}

func (s *Server) handleExport(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, _, ok := s.evaluate(w, r)
		if !ok {
			return
		}

		var exporter storage.Exporter
		switch format {
		case formatXLSX:
			w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
			exporter = storage.NewXLSXStream(w)
		default:
			w.Header().Set("Content-Type", "text/csv; charset=utf-8")
			exporter = storage.NewCSVStream(w)
		}
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="dashboard_export.%s"`, format))

		if err := exporter.Export(view.Headers, view.Filtered); err != nil {
			s.logger.Error("[server] %s export failed: %v", format, err)
			return
		}
		_ = exporter.Close()
		s.opts.Metrics.ObserveExport(format)
	}
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.Refresh(r.Context()); err != nil {
		s.logger.Warn("[server] Manual refresh failed: %v", err)
		s.fail(w, r, http.StatusBadGateway, err)
		return
	}
	snap := s.Snapshot()
	render.JSON(w, r, map[string]interface{}{
		"snapshot":   snap.ID,
		"rows":       len(snap.Rows),
		"fetched_at": snap.FetchedAt,
	})
}

// evaluate runs the pipeline for the request's query. It writes the error
// response itself and reports whether the caller should continue.
func (s *Server) evaluate(w http.ResponseWriter, r *http.Request) (*models.View, *models.Snapshot, bool) {
	snap := s.Snapshot()
	if snap == nil {
		s.fail(w, r, http.StatusServiceUnavailable, ErrNotReady)
		return nil, nil, false
	}

	state, page, err := parseQuery(r)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return nil, nil, false
	}

	view := services.Evaluate(s.insights, snap, state, s.opts.PageSize, page)
	s.opts.Metrics.ObserveEvaluation(len(view.Filtered))
	return view, snap, true
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: err.Error()})
}

// parseQuery reads search, start, end, creator and page. Dates are calendar
// days in YYYY-MM-DD form; page defaults to 1.
func parseQuery(r *http.Request) (models.FilterState, int, error) {
	q := r.URL.Query()
	state := models.FilterState{
		Search:  q.Get("search"),
		Creator: q.Get("creator"),
	}

	var err error
	if state.Start, err = parseDay(q.Get("start")); err != nil {
		return state, 0, fmt.Errorf("invalid start date: %w", err)
	}
	if state.End, err = parseDay(q.Get("end")); err != nil {
		return state, 0, fmt.Errorf("invalid end date: %w", err)
	}

	page := 1
	if raw := strings.TrimSpace(q.Get("page")); raw != "" {
		if page, err = strconv.Atoi(raw); err != nil {
			return state, 0, fmt.Errorf("invalid page %q", raw)
		}
	}
	return state, page, nil
}

func parseDay(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func filtersJSON(state models.FilterState) filtersResponse {
	f := filtersResponse{Search: state.Search, Creator: state.Creator}
	if state.Start != nil {
		f.Start = state.Start.Format(dateLayout)
	}
	if state.End != nil {
		f.End = state.End.Format(dateLayout)
	}
	return f
}

// rowJSON renders a row keyed by header; absent cells are null.
func rowJSON(headers []string, row *models.Row) map[string]*string {
	out := make(map[string]*string, len(headers))
	for _, h := range headers {
		if v := row.Get(h); v.Valid {
			s := v.String
			out[h] = &s
		} else {
			out[h] = nil
		}
	}
	return out
}
