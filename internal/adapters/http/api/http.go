// Package api declares the operational HTTP surface: health/metrics and
// service stats. The lifecycle core has no business REST API.
package api

import (
	"context"
	"encoding/json"
	"net/http"
)

// Server wires the ops routes.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
}

// NewServer creates the ops server around a stats provider.
func NewServer(statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
	}
}

// Register attaches all routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
