package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"creator-dashboard/metrics"
	"creator-dashboard/models"
	"creator-dashboard/services"
	"creator-dashboard/utils"
)

type stubLoader struct {
	table *models.RawTable
	err   error
	calls int
}

func (l *stubLoader) Load(context.Context) (*models.Snapshot, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return services.NewCleaner(utils.NewLoggerTo(&bytes.Buffer{})).Clean(l.table, "stub"), nil
}

func masterTable() *models.RawTable {
	return &models.RawTable{Values: [][]string{
		{"Tanggal", "Nama Akun", "Nama Produk", "Konten", "Views", "PAYMENT", "Bulan", "Lolos/Tidak"},
		{"01-Jan-2024", "alice", "Serum", "Review", "1,000", "Rp 500.000", "Jan", "Lolos"},
		{"15-Jan-2024", "bob", "Toner", "Unboxing", "300", "Rp 250.000", "Jan", "Tidak"},
		{"03-Feb-2024", "alice", "Toner", "Review", "2,000", "Rp 750.000", "Feb", "Lolos"},
		{"tanggal?", "carol", "Serum", "", "50"},
	}}
}

func newTestServer(t *testing.T, loader *stubLoader) *Server {
	t.Helper()
	reg := prometheus.NewRegistry()
	s := New(Options{
		Loader:   loader,
		Metrics:  metrics.New(reg),
		Gatherer: reg,
		Logger:   utils.NewLoggerTo(&bytes.Buffer{}),
		PageSize: 2,
	})
	return s
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decodeDashboard(t *testing.T, rec *httptest.ResponseRecorder) dashboardResponse {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp dashboardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestNotReadyBeforeFirstLoad(t *testing.T) {
	s := newTestServer(t, &stubLoader{table: masterTable()})
	h := s.Routes()

	assert.Equal(t, http.StatusServiceUnavailable, get(t, h, "/healthz").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, h, "/api/dashboard").Code)
}

func TestDashboardUnfiltered(t *testing.T) {
	s := newTestServer(t, &stubLoader{table: masterTable()})
	require.NoError(t, s.Refresh(context.Background()))

	resp := decodeDashboard(t, get(t, s.Routes(), "/api/dashboard"))
	assert.Equal(t, 4, resp.TotalRows)
	assert.Equal(t, 2, resp.TotalPages)
	assert.Equal(t, 1, resp.Page)
	require.Len(t, resp.Rows, 2)
	assert.Equal(t, "alice", *resp.Rows[0]["Nama Akun"])
	assert.Equal(t, []string{"alice", "bob", "carol"}, resp.Creators)
	assert.Equal(t, int64(1500000), resp.Report.TotalPayment)
}

func TestDashboardAbsentCellsAreNull(t *testing.T) {
	s := newTestServer(t, &stubLoader{table: masterTable()})
	require.NoError(t, s.Refresh(context.Background()))

	resp := decodeDashboard(t, get(t, s.Routes(), "/api/dashboard?page=2"))
	require.Len(t, resp.Rows, 2)
	carol := resp.Rows[1]
	assert.Equal(t, "carol", *carol["Nama Akun"])
	assert.Nil(t, carol["Konten"])
	assert.Nil(t, carol["PAYMENT"])
}

func TestDashboardFilters(t *testing.T) {
	s := newTestServer(t, &stubLoader{table: masterTable()})
	require.NoError(t, s.Refresh(context.Background()))

	resp := decodeDashboard(t, get(t, s.Routes(), "/api/dashboard?start=2024-01-01&end=2024-01-31&search=TONER"))
	assert.Equal(t, 1, resp.TotalRows)
	assert.Equal(t, "bob", *resp.Rows[0]["Nama Akun"])
	assert.Equal(t, "2024-01-01", resp.Filters.Start)
	assert.Equal(t, "TONER", resp.Filters.Search)
}

func TestDashboardClearsCreatorOutsideDateRange(t *testing.T) {
	s := newTestServer(t, &stubLoader{table: masterTable()})
	require.NoError(t, s.Refresh(context.Background()))

	resp := decodeDashboard(t, get(t, s.Routes(), "/api/dashboard?start=2024-02-01&creator=bob"))
	assert.Empty(t, resp.Filters.Creator)
	assert.Equal(t, []string{"alice"}, resp.Creators)
	assert.Equal(t, 1, resp.TotalRows)
}

func TestDashboardRejectsBadQuery(t *testing.T) {
	s := newTestServer(t, &stubLoader{table: masterTable()})
	require.NoError(t, s.Refresh(context.Background()))
	h := s.Routes()

	for _, target := range []string{
		"/api/dashboard?start=01-01-2024",
		"/api/dashboard?end=2024-13-01",
		"/api/dashboard?page=two",
	} {
		rec := get(t, h, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Contains(t, rec.Body.String(), `"error"`, target)
	}
}

func TestDashboardPageOutOfRangeIsEmpty(t *testing.T) {
	s := newTestServer(t, &stubLoader{table: masterTable()})
	require.NoError(t, s.Refresh(context.Background()))

	resp := decodeDashboard(t, get(t, s.Routes(), "/api/dashboard?page=9"))
	assert.Empty(t, resp.Rows)
	assert.Equal(t, 2, resp.TotalPages)
}

func TestExportCSVUsesFilteredRows(t *testing.T) {
	s := newTestServer(t, &stubLoader{table: masterTable()})
	require.NoError(t, s.Refresh(context.Background()))

	rec := get(t, s.Routes(), "/api/export.csv?creator=alice")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "dashboard_export.csv")

	lines := strings.Split(strings.TrimSuffix(rec.Body.String(), "\r\n"), "\r\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Tanggal,Nama Akun,Nama Produk,Konten,Views,PAYMENT,Bulan,Lolos/Tidak", lines[0])
	assert.True(t, strings.HasPrefix(lines[2], "03-Feb-2024,alice,Toner"))

	metricsRec := get(t, s.Routes(), "/metrics")
	assert.Contains(t, metricsRec.Body.String(), `dashboard_exports_total{format="csv"} 1`)
}

func TestExportXLSX(t *testing.T) {
	s := newTestServer(t, &stubLoader{table: masterTable()})
	require.NoError(t, s.Refresh(context.Background()))

	rec := get(t, s.Routes(), "/api/export.xlsx?search=serum")
	require.Equal(t, http.StatusOK, rec.Code)

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Export")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestRefreshFailureKeepsPreviousSnapshot(t *testing.T) {
	loader := &stubLoader{table: masterTable()}
	s := newTestServer(t, loader)
	require.NoError(t, s.Refresh(context.Background()))
	first := s.Snapshot()

	loader.err = errors.New("sheet unreachable")
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/refresh", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Same(t, first, s.Snapshot())
	assert.Equal(t, http.StatusOK, get(t, s.Routes(), "/healthz").Code)
}

type recordingStore struct {
	saved []*models.Snapshot
}

func (r *recordingStore) Save(_ context.Context, snap *models.Snapshot) error {
	r.saved = append(r.saved, snap)
	return nil
}
func (r *recordingStore) Latest(context.Context) (*models.Snapshot, error) { return nil, nil }
func (r *recordingStore) Close() error                                     { return nil }

func TestRefreshMirrorsSnapshot(t *testing.T) {
	store := &recordingStore{}
	s := New(Options{
		Loader: &stubLoader{table: masterTable()},
		Mirror: store,
		Logger: utils.NewLoggerTo(&bytes.Buffer{}),
	})
	require.NoError(t, s.Refresh(context.Background()))
	require.Len(t, store.saved, 1)
	assert.Same(t, s.Snapshot(), store.saved[0])
}

func TestRunRefusesToStartWithoutSnapshot(t *testing.T) {
	s := newTestServer(t, &stubLoader{err: errors.New("quota exceeded")})
	err := s.Run(context.Background())
	assert.ErrorContains(t, err, "initial load")
}
