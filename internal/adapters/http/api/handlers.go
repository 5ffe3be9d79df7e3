package api

import (
	"context"
	"net/http"
)

// handleWaves lists the computed waves of a client.
func (s *Server) handleWaves(w http.ResponseWriter, r *http.Request) {
	client := r.PathValue("client")
	waves, err := s.deps.ListWaves(r.Context(), client)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"waves": waves})
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	s.handleArtifact(w, r, func(ctx context.Context, client, wave string) (any, error) {
		return s.deps.GetOverview(ctx, client, wave)
	})
}

func (s *Server) handleRadar(w http.ResponseWriter, r *http.Request) {
	s.handleArtifact(w, r, func(ctx context.Context, client, wave string) (any, error) {
		return s.deps.GetRadar(ctx, client, wave)
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	s.handleArtifact(w, r, func(ctx context.Context, client, wave string) (any, error) {
		return s.deps.GetMetrics(ctx, client, wave)
	})
}

// handleStats exposes the orchestrator counters for operators.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.deps.GetStats(r.Context()))
}
