package app

import (
	"net/http"
	"strconv"
	"time"

	"vrme/cmd/internal/auth"
	"vrme/cmd/internal/workpool"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "vrme"

// Metrics owns a private registry so tests can build as many Apps as they like.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	reg *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	authOutcomes *prometheus.CounterVec
	hashDuration *prometheus.HistogramVec

	poolWait *prometheus.HistogramVec
}

// NewMetrics registers the service collectors plus the Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		authOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "auth",
			Name:      "operations_total",
			Help:      "Auth operations by name and outcome.",
		}, []string{"op", "outcome"}),
		hashDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "auth",
			Name:      "hash_duration_seconds",
			Help:      "Key derivation latency including queueing.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"op"}),
		poolWait: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "workpool",
			Name:      "task_seconds",
			Help:      "Worker pool task time by phase (wait or run).",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"phase"}),
	}

	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.authOutcomes,
		m.hashDuration,
		m.poolWait,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

// ObserveHTTP records one finished request.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Outcome implements auth.Metrics.
func (m *Metrics) Outcome(op string, kind auth.Kind) {
	if m == nil {
		return
	}
	outcome := "ok"
	if kind != 0 {
		outcome = kind.String()
	}
	m.authOutcomes.WithLabelValues(op, outcome).Inc()
}

// HashDuration implements auth.Metrics.
func (m *Metrics) HashDuration(op string, d time.Duration) {
	if m == nil {
		return
	}
	m.hashDuration.WithLabelValues(op).Observe(d.Seconds())
}

// ObservePool is a workpool.Observer.
func (m *Metrics) ObservePool(wait, run time.Duration) {
	if m == nil {
		return
	}
	m.poolWait.WithLabelValues("wait").Observe(wait.Seconds())
	m.poolWait.WithLabelValues("run").Observe(run.Seconds())
}

// RegisterPool exports the pool's queue depth and size as gauges.
func (m *Metrics) RegisterPool(p *workpool.Pool) {
	if m == nil || p == nil {
		return
	}
	m.reg.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "workpool",
			Name:      "queued_tasks",
			Help:      "Tasks waiting for a worker.",
		}, func() float64 { return float64(p.Queued()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "workpool",
			Name:      "workers",
			Help:      "Configured worker goroutines.",
		}, func() float64 { return float64(p.Size()) }),
	)
}

var _ auth.Metrics = (*Metrics)(nil)
