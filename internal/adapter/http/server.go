// Package http serves the festival API alongside health, readiness, and
// metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/festival-guide/internal/catalog"
	"github.com/couchcryptid/festival-guide/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Catalog is the read and reload surface the API needs.
type Catalog interface {
	sharedobs.ReadinessChecker
	Current() *catalog.Snapshot
	Reload(ctx context.Context) (*catalog.Snapshot, error)
	Filter(ctx context.Context, c domain.Criteria) ([]domain.Festival, error)
	Ranking(ctx context.Context, n int) ([]domain.Festival, error)
	Seasonal(ctx context.Context, n int) ([]domain.SeasonPicks, error)
	Regions(ctx context.Context) ([]string, error)
	Categories(ctx context.Context) ([]string, error)
}

// Defaults fills query parameters the client leaves out.
type Defaults struct {
	Month         int
	RankingLimit  int
	SeasonalLimit int
}

// Server exposes the festival API plus /healthz, /readyz, and /metrics.
type Server struct {
	httpServer *http.Server
	catalog    Catalog
	defaults   Defaults
	logger     *slog.Logger
}

// NewServer creates an HTTP server with all routes registered.
func NewServer(addr string, cat Catalog, defaults Defaults, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		catalog:  cat,
		defaults: defaults,
		logger:   logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(cat))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/festivals", s.handleFestivals)
	mux.HandleFunc("GET /api/ranking", s.handleRanking)
	mux.HandleFunc("GET /api/seasonal", s.handleSeasonal)
	mux.HandleFunc("GET /api/regions", s.handleRegions)
	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("GET /api/snapshot", s.handleSnapshot)
	mux.HandleFunc("POST /api/reload", s.handleReload)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
