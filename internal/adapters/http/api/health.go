package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pendulolabs/pendulo/pkg/metrics"
)

// handleHealth serves the Prometheus registry. A scrapeable process is a
// live process, so the same endpoint doubles as the liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
}
