// Package server exposes the dashboard pipeline over HTTP and keeps the
// snapshot fresh in the background.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"creator-dashboard/metrics"
	"creator-dashboard/models"
	"creator-dashboard/services"
	"creator-dashboard/storage"
	"creator-dashboard/utils"
)

// ErrNotReady is returned while no snapshot has been loaded.
var ErrNotReady = errors.New("server: no snapshot loaded")

// SnapshotLoader produces a complete snapshot or an error.
type SnapshotLoader interface {
	Load(ctx context.Context) (*models.Snapshot, error)
}

// Options configures a Server. Mirror, Metrics and Gatherer are optional.
type Options struct {
	Loader   SnapshotLoader
	Mirror   storage.SnapshotStore
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Logger   *utils.Logger

	Addr            string
	PageSize        int
	RefreshInterval time.Duration
	RequestTimeout  time.Duration
}

// Server serves the current snapshot. Refreshes swap the snapshot pointer
// only after a complete successful load.
type Server struct {
	opts     Options
	insights *services.InsightService
	logger   *utils.Logger
	snapshot atomic.Pointer[models.Snapshot]
}

func New(opts Options) *Server {
	if opts.PageSize < 1 {
		opts.PageSize = services.DefaultPageSize
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	return &Server{
		opts:     opts,
		insights: services.NewInsightService(opts.Logger),
		logger:   opts.Logger,
	}
}

// Snapshot returns the snapshot currently served, or nil.
func (s *Server) Snapshot() *models.Snapshot {
	return s.snapshot.Load()
}

// Refresh loads a new snapshot and swaps it in. On failure the previous
// snapshot stays in place.
func (s *Server) Refresh(ctx context.Context) error {
	snap, err := s.opts.Loader.Load(ctx)
	if err != nil {
		return err
	}
	s.snapshot.Store(snap)
	s.logger.Info("[server] Serving snapshot %s (%d rows from %s)", snap.ID, len(snap.Rows), snap.Source)

	if s.opts.Mirror != nil {
		if err := s.opts.Mirror.Save(ctx, snap); err != nil {
			s.logger.Warn("[server] Mirroring snapshot %s failed: %v", snap.ID, err)
		} else {
			s.logger.Debug("[server] Snapshot %s mirrored to PostgreSQL", snap.ID)
		}
	}
	return nil
}

// Routes builds the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(s.opts.RequestTimeout))
		r.Get("/dashboard", s.handleDashboard)
		r.Get("/export.csv", s.handleExport(formatCSV))
		r.Get("/export.xlsx", s.handleExport(formatXLSX))
		r.Post("/refresh", s.handleRefresh)
	})
	return r
}

// Run loads the first snapshot, then serves until ctx is cancelled. It
// refuses to start without a snapshot.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Refresh(ctx); err != nil {
		return fmt.Errorf("server: initial load: %w", err)
	}

	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.refreshLoop(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("[server] Listening on %s", s.opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: listen: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("[server] Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

func (s *Server) refreshLoop(ctx context.Context) {
	if s.opts.RefreshInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.opts.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil {
				s.logger.Warn("[server] Refresh failed, keeping previous snapshot: %v", err)
			}
		}
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("[http] %s %s → %d (%s)", r.Method, r.URL.Path, ww.Status(), time.Since(start).Round(time.Millisecond))
	})
}
