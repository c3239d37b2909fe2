package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/forgespace/idea-analyzer/internal/application/analyzer"
)

const namespace = "forgespace"

// Collector owns a private registry so several instances (one per test) can
// coexist without duplicate-registration panics.
type Collector struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	analyses     *prometheus.CounterVec
	fallbacks    *prometheus.CounterVec
	suggestions  *prometheus.CounterVec
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "idea_analyses_total",
			Help:      "Idea analyses served, by strategy",
		}, []string{"strategy"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "idea_ai_fallbacks_total",
			Help:      "Requests answered by the heuristic, by reason",
		}, []string{"reason"}),
		suggestions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "phase_suggestions_total",
			Help:      "Phase suggestion requests served, by strategy",
		}, []string{"strategy"}),
	}
	c.registry.MustRegister(
		c.httpRequests, c.httpDuration, c.analyses, c.fallbacks, c.suggestions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

func (c *Collector) AnalysisCompleted(strategy analyzer.Strategy, reason analyzer.FallbackReason) {
	c.analyses.WithLabelValues(string(strategy)).Inc()
	c.fallback(reason)
}

func (c *Collector) SuggestionsCompleted(strategy analyzer.Strategy, reason analyzer.FallbackReason) {
	c.suggestions.WithLabelValues(string(strategy)).Inc()
	c.fallback(reason)
}

func (c *Collector) fallback(reason analyzer.FallbackReason) {
	if reason != analyzer.ReasonNone {
		c.fallbacks.WithLabelValues(string(reason)).Inc()
	}
}

// Middleware records request count and latency labelled by the chi route
// pattern, which keeps label cardinality bounded.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry is exposed for tests.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }
