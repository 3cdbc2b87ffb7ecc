package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/fixturepick/pkg/metrics"
)

// ReadyProvider reports whether the catalog has been loaded.
type ReadyProvider interface {
	Ready() bool
}

// HealthHandler handles health check and metrics requests.
type HealthHandler struct {
	ready   ReadyProvider
	metrics http.Handler
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(ready ReadyProvider) *HealthHandler {
	return &HealthHandler{
		ready:   ready,
		metrics: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	}
}

type healthResponse struct {
	Status        string `json:"status"`
	CatalogLoaded bool   `json:"catalog_loaded"`
}

// HandleHealth handles GET /healthz requests. The process is healthy while it
// serves; catalog_loaded tells whether lookups will succeed without a load.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", CatalogLoaded: h.ready.Ready()})
}

// HandleMetrics handles GET /metrics requests.
func (h *HealthHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	// Use our custom metrics registry to serve metrics
	h.metrics.ServeHTTP(w, r)
}
