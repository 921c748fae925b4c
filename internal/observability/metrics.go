package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects the Prometheus metrics of the API, the CLI and the worker.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry          *prometheus.Registry
	handler           http.Handler
	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	solverNonConverge prometheus.Counter
	consolidations    *prometheus.CounterVec
	duplicateGroups   prometheus.Gauge
	pendingGenerated  prometheus.Counter
}

// NewMetrics initializes the registry and every metric.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lawfirm_http_requests_total",
		Help: "HTTP requests by route and status.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lawfirm_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	solver := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lawfirm_prolabore_solver_nonconvergence_total",
		Help: "Pro-labore solves that exhausted the iteration budget.",
	})
	consolidations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lawfirm_consolidations_total",
		Help: "Consolidation attempts by outcome.",
	}, []string{"outcome"})
	duplicates := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lawfirm_ledger_duplicate_groups",
		Help: "Automatic posting keys currently held by more than one posting.",
	})
	pending := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lawfirm_pending_payments_generated_total",
		Help: "Pending payment records written by generate.",
	})
	registry.MustRegister(requests, duration, solver, consolidations, duplicates, pending)
	return &Metrics{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:     requests,
		requestDuration:   duration,
		solverNonConverge: solver,
		consolidations:    consolidations,
		duplicateGroups:   duplicates,
		pendingGenerated:  pending,
	}
}

// Handler returns the http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// GinMiddleware records request count and latency per matched route.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// Registerer exposes the registry for custom metrics.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

// SolverDidNotConverge counts a pro-labore solve that ran out of iterations.
func (m *Metrics) SolverDidNotConverge() {
	if m == nil {
		return
	}
	m.solverNonConverge.Inc()
}

// Consolidation counts a consolidation outcome ("consolidated", "unchanged", "failed").
func (m *Metrics) Consolidation(outcome string) {
	if m == nil {
		return
	}
	m.consolidations.WithLabelValues(outcome).Inc()
}

// DuplicateGroups sets the number of automatic keys found duplicated by the last integrity check.
func (m *Metrics) DuplicateGroups(n int) {
	if m == nil {
		return
	}
	m.duplicateGroups.Set(float64(n))
}

// PendingPaymentsGenerated adds n generated records.
func (m *Metrics) PendingPaymentsGenerated(n int) {
	if m == nil {
		return
	}
	m.pendingGenerated.Add(float64(n))
}
