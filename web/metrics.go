package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/robinvdvleuten/spendlog/telemetry"
)

// metrics holds the Prometheus collectors of one server. Each server has its own
// registry so several servers (and tests) can coexist in one process.
type metrics struct {
	registry *prometheus.Registry

	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	stepDuration *prometheus.HistogramVec
	entries      prometheus.Gauge
	sseClients   prometheus.Gauge
	reloads      prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),

		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spendlog_http_requests_total",
				Help: "Total number of API requests by route and status code",
			},
			[]string{"route", "method", "code"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "spendlog_http_request_duration_seconds",
				Help:    "Duration of API requests in seconds",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
			},
			[]string{"route"},
		),

		stepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "spendlog_step_duration_seconds",
				Help:    "Duration of tracker pipeline steps in seconds",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"step"},
		),

		entries: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "spendlog_ledger_entries",
				Help: "Number of entries in the ledger",
			},
		),

		sseClients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "spendlog_sse_clients",
				Help: "Number of connected event stream clients",
			},
		),

		reloads: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "spendlog_ledger_reloads_total",
				Help: "Total number of reloads triggered by external file changes",
			},
		),
	}

	m.registry.MustRegister(
		m.requests,
		m.duration,
		m.stepDuration,
		m.entries,
		m.sseClients,
		m.reloads,
	)

	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument records request counts and durations for route, and feeds the tracker
// step timings collected during the request into the step histogram.
func (s *Server) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		collector := telemetry.NewTimingCollector()
		r = r.WithContext(telemetry.WithCollector(r.Context(), collector))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)

		s.metrics.requests.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		s.metrics.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		for _, step := range collector.Steps() {
			s.metrics.stepDuration.WithLabelValues(step.Name).Observe(step.Duration.Seconds())
		}

		s.Logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	}
}
