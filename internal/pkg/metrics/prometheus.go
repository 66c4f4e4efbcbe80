package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

// Self-telemetry for the exporter itself, kept on a dedicated registry
// so it can be appended after the nginx metric families without
// disturbing their declaration order.
var (
	registry = prometheus.NewRegistry()
	factory  = promauto.With(registry)

	ScrapesTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "nginx_exporter_scrapes_total",
			Help: "Total number of scrapes handled by the exporter",
		},
	)

	ScrapeErrorsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nginx_exporter_scrape_errors_total",
			Help: "Total number of failed scrapes by failure reason",
		},
		[]string{"reason"},
	)

	ScrapeDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nginx_exporter_scrape_duration_seconds",
			Help:    "Duration of the upstream poll-parse-encode cycle in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)
)

// WriteText renders the self-telemetry registry in exposition text format.
func WriteText(w io.Writer) error {
	families, err := registry.Gather()
	if err != nil {
		return err
	}
	for _, fam := range families {
		if _, err := expfmt.MetricFamilyToText(w, fam); err != nil {
			return err
		}
	}
	return nil
}
