package http

import (
	"net/http"

	apierrors "idwrcli/internal/errors"
)

// MetricsHandler exposes the Prometheus scrape endpoint when metrics are
// enabled.
type MetricsHandler struct {
	exporter     http.Handler
	errorHandler *apierrors.ErrorHandler
}

// NewMetricsHandler wraps the Prometheus exporter handler. A nil exporter
// answers 404.
func NewMetricsHandler(exporter http.Handler, errorHandler *apierrors.ErrorHandler) *MetricsHandler {
	return &MetricsHandler{exporter: exporter, errorHandler: errorHandler}
}

// ServeHTTP handles GET /metrics
func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		h.errorHandler.HandleError(w, r, apierrors.NotFoundError("metrics"))
		return
	}
	h.exporter.ServeHTTP(w, r)
}
