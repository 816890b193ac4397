package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the launcher's Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vibestation",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vibestation",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "route"},
	)

	storeOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vibestation",
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Record store operations by backend, operation and result.",
		},
		[]string{"backend", "op", "result"},
	)

	enrichCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vibestation",
			Subsystem: "enrich",
			Name:      "calls_total",
			Help:      "Description generation attempts by result.",
		},
		[]string{"result"},
	)

	enrichDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "vibestation",
			Subsystem: "enrich",
			Name:      "call_duration_seconds",
			Help:      "Duration of description generation calls.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		},
	)

	persistFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "vibestation",
			Subsystem: "catalog",
			Name:      "persist_failures_total",
			Help:      "Mutations whose write-through to the record store failed.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		storeOps,
		enrichCalls,
		enrichDuration,
		persistFailures,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records one handled request.
func RecordHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordStoreOp records a record store operation outcome.
func RecordStoreOp(backend, op string, err error) {
	storeOps.WithLabelValues(backend, op, result(err)).Inc()
}

// RecordEnrichment records the outcome of a description generation call.
func RecordEnrichment(outcome string, elapsed time.Duration) {
	enrichCalls.WithLabelValues(outcome).Inc()
	enrichDuration.Observe(elapsed.Seconds())
}

// RecordPersistFailure counts a failed catalog write-through.
func RecordPersistFailure() {
	persistFailures.Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
