package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the Prometheus metrics of the planner
type Registry struct {
	registry *prometheus.Registry

	// HTTP Metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Planner Metrics
	RouteEditsTotal *prometheus.CounterVec
	OpenRoutes      prometheus.Gauge
	BriefsTotal     *prometheus.CounterVec

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec
}

// NewRegistry creates the planner metrics on a private registry
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Registry{
		registry: reg,

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightplanner_http_requests_total",
				Help: "Total HTTP requests processed by route pattern, method and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "flightplanner_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),

		RouteEditsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightplanner_route_edits_total",
				Help: "Route edits by operation and result",
			},
			[]string{"op", "result"},
		),
		OpenRoutes: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "flightplanner_open_routes",
				Help: "Number of routes currently open for editing",
			},
		),
		BriefsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightplanner_briefs_total",
				Help: "Sortie briefs generated, by whether a narrative was drafted",
			},
			[]string{"drafted"},
		),

		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightplanner_cache_hits_total",
				Help: "Cache hits by cache name",
			},
			[]string{"cache"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightplanner_cache_misses_total",
				Help: "Cache misses by cache name",
			},
			[]string{"cache"},
		),
	}
}

// Handler serves the registry in the Prometheus text format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one served HTTP request
func (r *Registry) ObserveRequest(endpoint, method string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.HTTPRequestsTotal.WithLabelValues(endpoint, method, strconv.Itoa(status)).Inc()
	r.HTTPRequestDuration.WithLabelValues(endpoint, method).Observe(elapsed.Seconds())
}

// ObserveEdit counts a route edit; a nil registry records nothing
func (r *Registry) ObserveEdit(op string, err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "rejected"
	}
	r.RouteEditsTotal.WithLabelValues(op, result).Inc()
}

// SetOpenRoutes records the number of open routes
func (r *Registry) SetOpenRoutes(n int) {
	if r == nil {
		return
	}
	r.OpenRoutes.Set(float64(n))
}

// ObserveCache counts a cache lookup
func (r *Registry) ObserveCache(name string, hit bool) {
	if r == nil {
		return
	}
	if hit {
		r.CacheHitsTotal.WithLabelValues(name).Inc()
		return
	}
	r.CacheMissesTotal.WithLabelValues(name).Inc()
}

// ObserveBrief counts a generated brief
func (r *Registry) ObserveBrief(drafted bool) {
	if r == nil {
		return
	}
	label := "false"
	if drafted {
		label = "true"
	}
	r.BriefsTotal.WithLabelValues(label).Inc()
}
