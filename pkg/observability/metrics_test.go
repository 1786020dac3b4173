package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, registry *prometheus.Registry) string {
	t.Helper()
	router := mux.NewRouter()
	RegisterMetricsEndpoint(router, registry)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestNewMetrics_RegistersOnce(t *testing.T) {
	registry := prometheus.NewRegistry()
	NewMetrics(registry)

	assert.Panics(t, func() { NewMetrics(registry) }, "duplicate registration must panic")
}

func TestMetrics_Recorder(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	metrics.RecordAnalysis("trends", "success", 3*time.Millisecond)
	metrics.RecordAnalysis("network", "error", time.Millisecond)
	metrics.RecordCacheLookup("memory", false)
	metrics.RecordCacheLookup("memory", true)
	metrics.RecordCacheLookup("memory", true)
	metrics.RecordGraph(40, 230, 0.29)

	body := scrape(t, registry)
	assert.Contains(t, body, `research_analytics_analysis_total{kind="trends",status="success"} 1`)
	assert.Contains(t, body, `research_analytics_analysis_total{kind="network",status="error"} 1`)
	assert.Contains(t, body, `research_analytics_cache_hits_total{backend="memory"} 2`)
	assert.Contains(t, body, `research_analytics_cache_misses_total{backend="memory"} 1`)
	assert.Contains(t, body, `research_analytics_graph_density 0.29`)
	assert.Contains(t, body, `research_analytics_graph_nodes_count 1`)
}

func TestHTTPMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	router := mux.NewRouter()
	router.Use(HTTPMetricsMiddleware(metrics))
	router.HandleFunc("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	for _, id := range []string{"1", "2", "3"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/"+id, nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}

	body := scrape(t, registry)
	assert.Contains(t, body, `research_analytics_http_requests_total{method="GET",path="/items/{id}",status="204"} 3`)
	assert.NotContains(t, body, `path="/items/1"`)
}

func TestRouteLabel_Unmatched(t *testing.T) {
	assert.Equal(t, "unmatched", routeLabel(httptest.NewRequest(http.MethodGet, "/nowhere", nil)))
}
