package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric family.
const Namespace = "relay"

// Collector owns the Prometheus registry and the relay's metric families.
type Collector struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	upstreamErrors  *prometheus.CounterVec
}

// NewCollector creates a collector with its own registry, including the
// standard Go runtime and process collectors.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	c := &Collector{
		registry: registry,

		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "requests_total",
				Help:      "Total number of proxied requests by service, method, and response status.",
			},
			[]string{"service", "method", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "request_duration_seconds",
				Help:      "End-to-end duration of proxied requests in seconds.",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
			},
			[]string{"service"},
		),

		upstreamErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "upstream_errors_total",
				Help:      "Total number of normalized upstream errors by service and error kind.",
			},
			[]string{"service", "kind"},
		),
	}

	registry.MustRegister(c.requestsTotal, c.requestDuration, c.upstreamErrors)
	return c
}

// RecordRequest records one completed proxied request.
func (c *Collector) RecordRequest(service, method string, status int, duration time.Duration) {
	c.requestsTotal.WithLabelValues(service, method, statusLabel(status)).Inc()
	c.requestDuration.WithLabelValues(service).Observe(duration.Seconds())
}

// RecordUpstreamError records one normalized upstream error.
func (c *Collector) RecordUpstreamError(service, kind string) {
	c.upstreamErrors.WithLabelValues(service, kind).Inc()
}

// Registry exposes the underlying registry, mainly for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns the HTTP handler for the scrape endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}

// statusLabel buckets a status code into its class ("2xx", "4xx"). Raw
// codes would explode the label cardinality for no dashboarding benefit.
func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "other"
	}
}
