package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Task operation labels
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpToggle = "toggle"
	OpMove   = "move"
	OpDelete = "delete"
)

// Recorder counts task mutations. A nil *Metrics is a valid no-op Recorder.
type Recorder interface {
	RecordTaskOperation(operation string)
}

// Metrics owns a private registry so tests can create as many as they like
type Metrics struct {
	registry       *prometheus.Registry
	requests       *prometheus.CounterVec
	latency        *prometheus.HistogramVec
	taskOperations *prometheus.CounterVec
}

// New creates the collectors and registers them, plus the Go and process collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		}, []string{"method", "endpoint", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
		taskOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "task_operations_total",
			Help: "Total task operations",
		}, []string{"operation"}),
	}

	m.registry.MustRegister(
		m.requests,
		m.latency,
		m.taskOperations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordTaskOperation increments task_operations_total for the operation
func (m *Metrics) RecordTaskOperation(operation string) {
	if m == nil {
		return
	}
	m.taskOperations.WithLabelValues(operation).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and latency. endpoint maps a request to a
// low-cardinality label, normally the matched route pattern.
func (m *Metrics) Middleware(endpoint func(*http.Request) string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		label := endpoint(r)
		if label == "" {
			label = "unknown"
		}
		m.latency.WithLabelValues(r.Method, label).Observe(time.Since(start).Seconds())
		m.requests.WithLabelValues(r.Method, label, strconv.Itoa(rec.status)).Inc()
	})
}
