package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/huangsam/xmr/schema"
)

// Group outcome label values.
const (
	outcomeOK     = "ok"
	outcomeFailed = "failed"
)

// Metrics holds the Prometheus collectors of the HTTP API.
// Each server owns its registry so tests never share global state.
type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	groups          *prometheus.CounterVec
	phases          prometheus.Counter
}

// NewMetrics creates the collectors and registers them, with Go runtime and
// process metrics, on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "xmr",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests by route and status code",
			},
			[]string{"route", "code"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "xmr",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		groups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "xmr",
				Name:      "groups_processed_total",
				Help:      "Total number of (entity, metric) groups processed by outcome",
			},
			[]string{"outcome"},
		),
		phases: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "xmr",
				Name:      "phases_detected_total",
				Help:      "Total number of individuals chart phases detected",
			},
		),
	}

	m.registry.MustRegister(
		m.requests,
		m.requestDuration,
		m.groups,
		m.phases,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// ObserveResult counts the groups and phases of a processing result.
func (m *Metrics) ObserveResult(result schema.ProcessingResult) {
	m.groups.WithLabelValues(outcomeOK).Add(float64(len(result.Groups)))
	m.groups.WithLabelValues(outcomeFailed).Add(float64(len(result.Failures)))
	for _, grp := range result.Groups {
		if grp.X != nil {
			m.phases.Add(float64(len(grp.X.Phases)))
		}
	}
}

// Middleware records request count and latency under the matched route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
