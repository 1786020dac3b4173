package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRequestSize     *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Analysis metrics
	AnalysisTotal    *prometheus.CounterVec
	AnalysisDuration *prometheus.HistogramVec

	// Cache metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Graph metrics
	GraphNodes   prometheus.Histogram
	GraphEdges   prometheus.Histogram
	GraphDensity prometheus.Gauge
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "research_analytics_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "research_analytics_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPRequestSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "research_analytics_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 8),
			},
			[]string{"method", "path"},
		),
		HTTPResponseSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "research_analytics_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 8),
			},
			[]string{"method", "path"},
		),

		AnalysisTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "research_analytics_analysis_total",
				Help: "Total number of analyses by kind and outcome",
			},
			[]string{"kind", "status"},
		),
		AnalysisDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "research_analytics_analysis_duration_seconds",
				Help:    "Analysis duration in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"kind"},
		),

		CacheHitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "research_analytics_cache_hits_total",
				Help: "Total number of metric cache hits",
			},
			[]string{"backend"},
		),
		CacheMissesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "research_analytics_cache_misses_total",
				Help: "Total number of metric cache misses",
			},
			[]string{"backend"},
		),

		GraphNodes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "research_analytics_graph_nodes",
				Help:    "Number of nodes per network analysis",
				Buckets: prometheus.LinearBuckets(20, 20, 10),
			},
		),
		GraphEdges: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "research_analytics_graph_edges",
				Help:    "Number of edges per network analysis",
				Buckets: prometheus.ExponentialBuckets(10, 4, 8),
			},
		),
		GraphDensity: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "research_analytics_graph_density",
				Help: "Density of the most recent network analysis",
			},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestSize,
		m.HTTPResponseSize,
		m.AnalysisTotal,
		m.AnalysisDuration,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.GraphNodes,
		m.GraphEdges,
		m.GraphDensity,
	)

	return m
}

// RecordAnalysis counts a finished analysis and observes its duration
func (m *Metrics) RecordAnalysis(kind, status string, duration time.Duration) {
	m.AnalysisTotal.WithLabelValues(kind, status).Inc()
	m.AnalysisDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordCacheLookup counts a metric cache hit or miss
func (m *Metrics) RecordCacheLookup(backend string, hit bool) {
	if hit {
		m.CacheHitsTotal.WithLabelValues(backend).Inc()
		return
	}
	m.CacheMissesTotal.WithLabelValues(backend).Inc()
}

// RecordGraph observes the size of a generated collaboration graph
func (m *Metrics) RecordGraph(nodes, edges int, density float64) {
	m.GraphNodes.Observe(float64(nodes))
	m.GraphEdges.Observe(float64(edges))
	m.GraphDensity.Set(density)
}

// responseWriter wraps http.ResponseWriter to capture status code and size
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += n
	return n, err
}

// routeLabel keeps label cardinality bounded by using the route template
func routeLabel(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

// HTTPMetricsMiddleware instruments HTTP requests with Prometheus metrics.
// Use it as gorilla/mux middleware so the matched route is known.
func HTTPMetricsMiddleware(metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			path := routeLabel(r)
			if r.ContentLength > 0 {
				metrics.HTTPRequestSize.WithLabelValues(r.Method, path).Observe(float64(r.ContentLength))
			}

			next.ServeHTTP(rw, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(rw.statusCode)

			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
			metrics.HTTPResponseSize.WithLabelValues(r.Method, path).Observe(float64(rw.bytesWritten))
		})
	}
}

// RegisterMetricsEndpoint registers the /metrics endpoint
func RegisterMetricsEndpoint(router *mux.Router, registry *prometheus.Registry) {
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
}
