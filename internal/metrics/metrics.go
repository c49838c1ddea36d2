// Package metrics provides Prometheus instrumentation for the listing engine.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ValuationsTotal counts valuations performed, partitioned by how the
	// subject was supplied ("stored" or "adhoc").
	ValuationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "propfolio_valuations_total",
		Help: "Total number of property valuations performed",
	}, []string{"mode"})

	// ValuationLatency tracks valuation pipeline latency.
	ValuationLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "propfolio_valuation_latency_seconds",
		Help:    "Valuation pipeline latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// MortgageCalculationsTotal counts mortgage engine invocations by
	// operation ("calculate" or "eligibility").
	MortgageCalculationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "propfolio_mortgage_calculations_total",
		Help: "Total number of mortgage calculations",
	}, []string{"operation"})

	// PropertiesCreated counts listings created.
	PropertiesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "propfolio_properties_created_total",
		Help: "Total number of listings created",
	})

	// WebSocketClients tracks connected WebSocket clients.
	WebSocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "propfolio_websocket_clients",
		Help: "Number of connected WebSocket clients",
	})

	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "propfolio_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "propfolio_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "path"})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware returns an HTTP middleware that records request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start).Seconds()

		// Use the raw path for the label; route cardinality is low.
		path := r.URL.Path
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
