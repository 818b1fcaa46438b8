// Package metrics exposes the service's Prometheus instrumentation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Custom registry to avoid the default Go collectors.
var registry = prometheus.NewRegistry()

var (
	ScoresComputed = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: "scoring",
		Name:      "scores_computed_total",
		Help:      "Number of activity scores successfully resolved.",
	})

	ScoreFailures = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: "scoring",
		Name:      "score_failures_total",
		Help:      "Score resolutions that failed, by error class.",
	}, []string{"class"})

	BatchesIngested = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: "scoring",
		Name:      "event_batches_ingested_total",
		Help:      "Raw achievement event batches appended to the event log.",
	})

	BatchFailures = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: "scoring",
		Name:      "batch_failures_total",
		Help:      "Event batches whose scoring failed after ingestion.",
	})
)

// Handler serves the /metrics endpoint for this registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
