// Package metrics holds the Prometheus collectors for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Resolution outcome label values.
const (
	OutcomeResolved = "resolved"
	OutcomeNotFound = "not_found"
	OutcomeGone     = "gone"
	OutcomeError    = "error"
)

// Metrics bundles the service collectors. Construct one per process with a
// registry (or prometheus.DefaultRegisterer) and share it by reference.
type Metrics struct {
	URLsCreated   prometheus.Counter
	Resolutions   *prometheus.CounterVec
	HTTPDurations *prometheus.HistogramVec
}

// New creates and registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		URLsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "urlshortener_urls_created_total",
			Help: "Total number of short URL mappings created.",
		}),
		Resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "urlshortener_resolutions_total",
			Help: "Total resolution attempts by outcome.",
		}, []string{"outcome"}),
		HTTPDurations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "urlshortener_http_request_duration_seconds",
			Help:    "HTTP request latency by method and status code.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "code"}),
	}
}
