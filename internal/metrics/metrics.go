// Package metrics exposes the Prometheus collectors of the API and AI services.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ai4local_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ai4local_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	aiUpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ai4local_ai_upstream_duration_seconds",
		Help:    "Duration of calls to the AI service or the model provider",
		Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	}, []string{"operation", "result"})

	csvImportRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ai4local_csv_import_rows_total",
		Help: "Rows processed by customer CSV imports",
	}, []string{"result"})

	rateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ai4local_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	}, []string{"scope"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	s := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, route, s).Inc()
	httpRequestDuration.WithLabelValues(method, route, s).Observe(duration.Seconds())
}

// ObserveAICall records one upstream AI call. result is "ok" or "error".
func ObserveAICall(operation, result string, duration time.Duration) {
	aiUpstreamDuration.WithLabelValues(operation, result).Observe(duration.Seconds())
}

// ObserveCSVImport counts imported and rejected rows.
func ObserveCSVImport(imported, rejected int) {
	csvImportRows.WithLabelValues("imported").Add(float64(imported))
	csvImportRows.WithLabelValues("rejected").Add(float64(rejected))
}

// IncRateLimited counts a rejected request.
func IncRateLimited(scope string) {
	rateLimited.WithLabelValues(scope).Inc()
}
