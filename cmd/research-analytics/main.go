package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/houstonoilairs/research-analytics/pkg/api"
	"github.com/houstonoilairs/research-analytics/pkg/async"
	"github.com/houstonoilairs/research-analytics/pkg/cache"
	"github.com/houstonoilairs/research-analytics/pkg/config"
	"github.com/houstonoilairs/research-analytics/pkg/observability"
	"github.com/houstonoilairs/research-analytics/pkg/research"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var version = "dev"

func main() {
	configPath := flag.String("config", os.Getenv(config.FileEnvVar), "Path to a YAML configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.Fatalf("research-analytics: %v", err)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := observability.NewLogger(cfg.Observability.Level(), os.Stdout).
		WithField("service", cfg.Observability.OTelServiceName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	providers, err := observability.InitOTel(ctx, cfg.Observability.OTel(), logger)
	if err != nil {
		logger.WithError(err).Warn("tracing disabled")
		providers = nil
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(registry)

	store, redisClient, err := newMetricsStore(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	logger.WithField("backend", store.Backend()).Info("metric cache ready")

	pool := async.NewWorkerPool(ctx, logger, cfg.Analysis.Workers, "research analysis", cfg.Analysis.TaskTimeout)
	go logPoolErrors(ctx, logger, pool)

	analyzer := research.NewAnalyzer(store, research.NewSource(cfg.Analysis.Seed), pool,
		research.WithRecorder(metrics),
	)

	apiServer := &http.Server{
		Addr: net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler: api.NewServer(analyzer, logger, api.ServerOptions{
			Metrics:        metrics,
			MaxBodyBytes:   cfg.Server.MaxBodyBytes,
			AllowedOrigins: cfg.Server.AllowedOrigins,
		}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	opsServer := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.HealthPort),
		Handler:           newOpsRouter(cfg, registry, redisClient),
		ReadHeaderTimeout: 5 * time.Second,
	}

	if cfg.Analysis.WarmOnStartup && len(cfg.Analysis.WarmCategories) > 0 {
		async.SafeGo(ctx, logger, cfg.Warmer.RunTimeout, "startup cache warm-up", func(ctx context.Context) error {
			return analyzer.WarmCategories(ctx, cfg.Analysis.WarmCategories)
		})
	}

	if configPath != "" {
		err := config.Watch(ctx, configPath, logger, func(c *config.Config) {
			logger.SetLevel(c.Observability.Level())
		})
		if err != nil {
			logger.WithError(err).Warn("configuration reload disabled")
		}
	}

	shutdown := observability.NewShutdownManager(logger, cfg.Server.ShutdownTimeout, apiServer, opsServer)
	shutdown.RegisterShutdownFunc(func(ctx context.Context) error {
		return pool.Shutdown(timeUntil(ctx, cfg.Server.ShutdownTimeout))
	})
	shutdown.RegisterShutdownFunc(func(ctx context.Context) error {
		return observability.ShutdownOTel(ctx, providers, logger)
	})
	if redisClient != nil {
		shutdown.RegisterShutdownFunc(func(context.Context) error {
			return redisClient.Close()
		})
	}

	waitCtx, stopWaiting := context.WithCancel(ctx)
	defer stopWaiting()

	serveErrs := make(chan error, 2)
	for _, srv := range []*http.Server{apiServer, opsServer} {
		go func(srv *http.Server) {
			logger.WithField("addr", srv.Addr).Info("HTTP server listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErrs <- fmt.Errorf("server %s: %w", srv.Addr, err)
				stopWaiting()
			}
		}(srv)
	}

	err = shutdown.WaitForShutdown(waitCtx)
	select {
	case serveErr := <-serveErrs:
		return errors.Join(serveErr, err)
	default:
		return err
	}
}

// newMetricsStore selects the cache backend. The redis client is returned so
// it can be probed for readiness and closed on shutdown.
func newMetricsStore(ctx context.Context, cfg config.CacheConfig) (research.MetricsStore, *redis.Client, error) {
	if cfg.Backend != cache.BackendRedis {
		return cache.NewMemoryStore[[]research.ResearchMetric](cfg.StoreConfig()), nil, nil
	}

	redisCfg := cfg.RedisStoreConfig()
	client, err := cache.NewRedisClient(ctx, redisCfg)
	if err != nil {
		return nil, nil, err
	}
	return cache.NewRedisStore[[]research.ResearchMetric](client, redisCfg), client, nil
}

func newOpsRouter(cfg *config.Config, registry *prometheus.Registry, redisClient *redis.Client) *mux.Router {
	router := mux.NewRouter()
	if cfg.Observability.MetricsEnabled {
		observability.RegisterMetricsEndpoint(router, registry)
	}
	observability.RegisterHealthRoutes(router, observability.NewHealthChecker(redisClient, version))
	return router
}

func logPoolErrors(ctx context.Context, logger *observability.Logger, pool *async.WorkerPool) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-pool.Errors():
			// callers that hang up or time out are routine
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				logger.WithError(err).Debug("analysis abandoned")
				continue
			}
			logger.WithError(err).Error("analysis worker failed")
		}
	}
}

// timeUntil returns the time left before ctx expires, or fallback without a deadline
func timeUntil(ctx context.Context, fallback time.Duration) time.Duration {
	if deadline, ok := ctx.Deadline(); ok {
		return time.Until(deadline)
	}
	return fallback
}
