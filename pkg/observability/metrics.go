// Package observability exposes the Prometheus metrics for the HTTP surface
// and the seeding pipeline.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripgennie_http_requests_total",
			Help: "Total HTTP requests by method, route pattern, and status.",
		},
		[]string{"method", "pattern", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tripgennie_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route pattern.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "pattern"},
	)

	seedRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripgennie_seed_runs_total",
			Help: "Seeding runs by outcome.",
		},
		[]string{"outcome"},
	)

	seedDestinationsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tripgennie_seed_destinations_created_total",
			Help: "Destinations created by seeding runs.",
		},
	)
)

// RecordSeedRun counts one finished seeding run.
func RecordSeedRun(outcome string, destinationsCreated int) {
	seedRunsTotal.WithLabelValues(outcome).Inc()
	if destinationsCreated > 0 {
		seedDestinationsCreated.Add(float64(destinationsCreated))
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Metrics records request counts and latency. Route patterns rather than raw
// paths keep the label cardinality bounded; the mux resolves the pattern
// before the request is served.
func Metrics(mux *http.ServeMux) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			_, pattern := mux.Handler(r)
			if pattern == "" {
				pattern = "unmatched"
			}

			httpRequestsTotal.WithLabelValues(r.Method, pattern, strconv.Itoa(sw.status)).Inc()
			httpRequestDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
		})
	}
}
