package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/statline/nginx-exporter/internal/upstream"
)

type HealthHandler struct {
	fetcher upstream.Fetcher
	service string
}

func NewHealthHandler(fetcher upstream.Fetcher, service string) *HealthHandler {
	return &HealthHandler{fetcher: fetcher, service: service}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)
	healthy := true

	// Check upstream
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if _, err := h.fetcher.Fetch(ctx); err != nil {
		checks["upstream"] = "error: " + err.Error()
		healthy = false
	} else {
		checks["upstream"] = "ok"
	}

	status := "healthy"
	statusCode := http.StatusOK
	if !healthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, map[string]interface{}{
		"status":  status,
		"service": h.service,
		"checks":  checks,
	})
}

func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
