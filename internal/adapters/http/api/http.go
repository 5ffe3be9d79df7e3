// Package api exposes the wave artifacts over HTTP.
//
// Routes:
//
//	GET /api/v1/pendulo/{client}/waves
//	GET /api/v1/pendulo/{client}/overview/{wave}
//	GET /api/v1/pendulo/{client}/radar/{wave}
//	GET /api/v1/pendulo/{client}/metrics/{wave}
//	GET /healthz
//	GET /stats
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/pendulolabs/pendulo/internal/adapters/artifacts"
	service "github.com/pendulolabs/pendulo/internal/app"
	"github.com/pendulolabs/pendulo/internal/domain/ingest"
	"github.com/pendulolabs/pendulo/internal/domain/model"
	"github.com/pendulolabs/pendulo/pkg/logger"
)

// Default response cache lifetime handed to shared caches.
const defaultCacheMaxAgeSecs = 120

// Dependencies is what the handlers need from the orchestrator.
type Dependencies interface {
	GetOverview(ctx context.Context, client, wave string) (*model.Overview, error)
	GetRadar(ctx context.Context, client, wave string) (*model.Radar, error)
	GetMetrics(ctx context.Context, client, wave string) (*model.Metrics, error)
	ListWaves(ctx context.Context, client string) ([]string, error)
	GetStats(ctx context.Context) service.Stats
}

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	deps            Dependencies
	cacheMaxAgeSecs int
	logger          logger.Logger
}

// NewServer creates a Server with configuration options.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		deps:            deps,
		cacheMaxAgeSecs: defaultCacheMaxAgeSecs,
		logger:          logger.Get().Named("api"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register mounts every route on mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.Handle("GET /api/v1/pendulo/{client}/waves", MetricsMiddleware("waves", http.HandlerFunc(s.handleWaves)))
	mux.Handle("GET /api/v1/pendulo/{client}/overview/{wave}", MetricsMiddleware("overview", http.HandlerFunc(s.handleOverview)))
	mux.Handle("GET /api/v1/pendulo/{client}/radar/{wave}", MetricsMiddleware("radar", http.HandlerFunc(s.handleRadar)))
	mux.Handle("GET /api/v1/pendulo/{client}/metrics/{wave}", MetricsMiddleware("metrics", http.HandlerFunc(s.handleMetrics)))
	mux.Handle("GET /healthz", http.HandlerFunc(s.handleHealth))
	mux.Handle("GET /stats", MetricsMiddleware("stats", http.HandlerFunc(s.handleStats)))
}

// handleArtifact runs one artifact fetch and writes the response according
// to the error taxonomy: a wave whose input was never uploaded is not an
// error for the caller, it is an empty state.
func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request, fetch func(ctx context.Context, client, wave string) (any, error)) {
	client := r.PathValue("client")
	wave := r.PathValue("wave")

	out, err := fetch(r.Context(), client, wave)
	if err != nil {
		switch {
		case errors.Is(err, artifacts.ErrInputNotFound), errors.Is(err, ingest.ErrInputNotFound):
			s.writeJSON(w, http.StatusOK, map[string]string{"status": "no_data"})
		case errors.Is(err, model.ErrBadWave), errors.Is(err, ingest.ErrMalformedInput):
			s.writeError(w, r, http.StatusUnprocessableEntity, err)
		default:
			s.writeError(w, r, http.StatusInternalServerError, err)
		}
		return
	}

	w.Header().Set("Cache-Control", "public, s-maxage="+strconv.Itoa(s.cacheMaxAgeSecs))
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(context.Background(), "encoding response", logger.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.logger.Error(r.Context(), "request failed",
		logger.String("path", r.URL.Path),
		logger.Int("status", status),
		logger.Error(err),
	)
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
