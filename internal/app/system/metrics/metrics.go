// Package metrics exposes Prometheus collectors for HTTP traffic and for
// dashboard assembly.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Assembly outcomes.
const (
	OutcomePresented = "presented"
	OutcomeFailed    = "failed"
	OutcomeDiscarded = "discarded"
)

// Config holds configuration for the collectors.
type Config struct {
	// Namespace is the prefix for all metrics (default: "repairhub").
	Namespace string
	// SkipPaths are request paths that are not tracked.
	SkipPaths []string
	// Buckets defines the histogram buckets for durations.
	Buckets []float64
}

// DefaultConfig returns the default metrics configuration.
func DefaultConfig() Config {
	return Config{
		Namespace: "repairhub",
		SkipPaths: []string{"/health", "/metrics", "/static"},
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}
}

// Metrics holds the collectors and the registry they are registered in.
type Metrics struct {
	reg *prometheus.Registry
	cfg Config

	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight prometheus.Gauge

	assemblies       *prometheus.CounterVec
	assemblyDuration prometheus.Histogram
	repairsFolded    prometheus.Counter
}

// New creates collectors in a fresh registry, together with the Go runtime
// and process collectors.
func New(cfg Config) *Metrics {
	def := DefaultConfig()
	if cfg.Namespace == "" {
		cfg.Namespace = def.Namespace
	}
	if len(cfg.Buckets) == 0 {
		cfg.Buckets = def.Buckets
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		cfg: cfg,
		requestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests processed.",
		}, []string{"method", "route", "status"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Request latency in seconds.",
			Buckets:   cfg.Buckets,
		}, []string{"method", "route"}),
		requestsInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Current number of requests being served.",
		}),
		assemblies: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: "dashboard",
			Name:      "assemblies_total",
			Help:      "Dashboard assemblies by outcome.",
		}, []string{"outcome"}),
		assemblyDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: "dashboard",
			Name:      "assembly_duration_seconds",
			Help:      "Time to fetch and aggregate one dashboard payload.",
			Buckets:   cfg.Buckets,
		}),
		repairsFolded: f.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: "dashboard",
			Name:      "repairs_folded_total",
			Help:      "Repair records folded into dashboard facets.",
		}),
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// ObserveAssembly records one dashboard assembly. A nil receiver is a no-op
// so callers need not check whether metrics are enabled.
func (m *Metrics) ObserveAssembly(outcome string, took time.Duration, repairs int) {
	if m == nil {
		return
	}
	m.assemblies.WithLabelValues(outcome).Inc()
	m.assemblyDuration.Observe(took.Seconds())
	if repairs > 0 {
		m.repairsFolded.Add(float64(repairs))
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

// Middleware records request counts and latency, labelled by the chi route
// pattern so IDs in paths do not explode cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, p := range m.cfg.SkipPaths {
			if r.URL.Path == p || (len(r.URL.Path) > len(p) && r.URL.Path[:len(p)+1] == p+"/") {
				next.ServeHTTP(w, r)
				return
			}
		}

		m.requestsInFlight.Inc()
		defer m.requestsInFlight.Dec()

		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		m.requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Inc()
		m.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
