package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/statline/nginx-exporter/internal/pkg/metrics"
	"github.com/statline/nginx-exporter/internal/status"
	"github.com/statline/nginx-exporter/internal/upstream"
)

// MetricsHandler runs the poll-parse-encode pipeline for each scrape.
// Requests share nothing mutable; the descriptor table is read-only.
type MetricsHandler struct {
	fetcher     upstream.Fetcher
	table       *status.Table
	selfMetrics bool
}

func NewMetricsHandler(fetcher upstream.Fetcher, table *status.Table, selfMetrics bool) *MetricsHandler {
	return &MetricsHandler{
		fetcher:     fetcher,
		table:       table,
		selfMetrics: selfMetrics,
	}
}

func (h *MetricsHandler) Scrape(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	metrics.ScrapesTotal.Inc()

	raw, err := h.fetcher.Fetch(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	snap, err := status.Parse(raw)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.table.Encode(&buf, snap); err != nil {
		h.fail(w, r, err)
		return
	}

	if h.selfMetrics {
		metrics.ScrapeDuration.Observe(time.Since(start).Seconds())
		if err := metrics.WriteText(&buf); err != nil {
			log.Error().Err(err).Msg("failed to append exporter telemetry")
		}
	}

	w.Header().Set("Content-Type", status.ContentType)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *MetricsHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	reason, code := classifyFailure(err)
	metrics.ScrapeErrorsTotal.WithLabelValues(reason).Inc()

	log.Warn().
		Err(err).
		Str("reason", reason).
		Str("request_id", chimiddleware.GetReqID(r.Context())).
		Msg("scrape failed")

	http.Error(w, "scrape failed: "+reason, code)
}

func classifyFailure(err error) (reason string, code int) {
	switch {
	case errors.Is(err, upstream.ErrTimeout):
		return "timeout", http.StatusBadGateway
	case errors.Is(err, upstream.ErrUnreachable):
		return "unreachable", http.StatusBadGateway
	case errors.Is(err, upstream.ErrBadStatus):
		return "bad_status", http.StatusBadGateway
	case errors.Is(err, status.ErrMalformed):
		return "malformed", http.StatusBadGateway
	default:
		return "internal", http.StatusInternalServerError
	}
}
