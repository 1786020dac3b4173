package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/houstonoilairs/research-analytics/pkg/httputil"
	"github.com/houstonoilairs/research-analytics/pkg/observability"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ServerOptions tunes the HTTP stack around the handlers
type ServerOptions struct {
	// Metrics instruments every route when set
	Metrics *observability.Metrics
	// MaxBodyBytes limits request bodies; zero means 1 MiB
	MaxBodyBytes int64
	// AllowedOrigins enables CORS for these origins when non-empty
	AllowedOrigins []string
}

// Server represents our API server
type Server struct {
	router  *mux.Router
	handler http.Handler
}

// NewServer creates the API server for analyzer
func NewServer(analyzer Analyzer, logger *observability.Logger, opts ServerOptions) *Server {
	s := &Server{router: mux.NewRouter()}

	if opts.Metrics != nil {
		s.router.Use(observability.HTTPMetricsMiddleware(opts.Metrics))
	}
	s.RegisterRoutes(NewAnalyticsHandlers(analyzer))

	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 1 << 20
	}

	middlewares := []func(http.Handler) http.Handler{
		httputil.RequestIDMiddleware(logger),
		httputil.LoggingMiddleware,
		httputil.RecoveryMiddleware,
	}
	if len(opts.AllowedOrigins) > 0 {
		middlewares = append(middlewares, httputil.CORSMiddleware(opts.AllowedOrigins))
	}
	middlewares = append(middlewares,
		httputil.MaxBytesMiddleware(maxBody),
		httputil.ContentTypeMiddleware,
	)

	s.handler = otelhttp.NewHandler(httputil.Chain(middlewares...)(s.router), "research-analytics",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Router exposes the route table, mainly for route matching in tests
func (s *Server) Router() *mux.Router {
	return s.router
}

// RouteRegistrar is an interface for types that can register routes
type RouteRegistrar interface {
	RegisterRoutes(router *mux.Router)
}

// RegisterRoutes registers routes from a RouteRegistrar
func (s *Server) RegisterRoutes(registrar RouteRegistrar) {
	registrar.RegisterRoutes(s.router)
}
