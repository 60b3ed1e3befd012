package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hackdesk/hackdesk/pkg/metrics"
)

// HealthHandler serves liveness plus Prometheus exposition.
type HealthHandler struct{}

// NewHealthHandler creates a new health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// HandleHealth handles GET /healthz by serving the metrics registry; a
// scrape doubles as the liveness probe.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
}
