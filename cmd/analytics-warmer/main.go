package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/houstonoilairs/research-analytics/pkg/cache"
	"github.com/houstonoilairs/research-analytics/pkg/config"
	"github.com/houstonoilairs/research-analytics/pkg/observability"
	"github.com/houstonoilairs/research-analytics/pkg/research"
	"github.com/robfig/cron/v3"
)

var (
	configPath = flag.String("config", os.Getenv(config.FileEnvVar), "Path to a YAML configuration file")
	schedule   = flag.String("schedule", "", "Cron schedule for warm-up runs (overrides the configured schedule)")
	categories = flag.String("categories", "", "Comma-separated categories to warm (overrides the configured list)")
	runOnce    = flag.Bool("run-once", false, "Warm the cache once and exit")
)

// errMemoryBackend is returned when the warmer would fill a cache no other
// process can read
var errMemoryBackend = errors.New("analytics-warmer requires the redis cache backend")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *schedule != "" {
		cfg.Warmer.Schedule = *schedule
	}
	if *categories != "" {
		cfg.Analysis.WarmCategories = splitCategories(*categories)
	}
	if cfg.Cache.Backend != cache.BackendRedis {
		log.Fatal(errMemoryBackend)
	}

	logger := observability.NewLogger(cfg.Observability.Level(), os.Stdout).
		WithField("service", "analytics-warmer")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisCfg := cfg.Cache.RedisStoreConfig()
	client, err := cache.NewRedisClient(ctx, redisCfg)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to redis")
		os.Exit(1)
	}
	defer client.Close()

	store := cache.NewRedisStore[[]research.ResearchMetric](client, redisCfg)
	w := &warmer{
		analyzer:   research.NewAnalyzer(store, research.NewSource(cfg.Analysis.Seed), nil),
		store:      store,
		categories: cfg.Analysis.WarmCategories,
		timeout:    cfg.Warmer.RunTimeout,
		logger:     logger,
	}

	if *runOnce {
		if err := w.run(ctx); err != nil {
			logger.WithError(err).Error("Warm-up failed")
			os.Exit(1)
		}
		return
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{logger})))
	if _, err := c.AddFunc(cfg.Warmer.Schedule, func() {
		if err := w.run(ctx); err != nil {
			logger.WithError(err).Error("Scheduled warm-up failed")
		}
	}); err != nil {
		logger.WithError(err).Error("Failed to schedule warm-up")
		os.Exit(1)
	}

	c.Start()
	logger.WithField("schedule", cfg.Warmer.Schedule).
		WithField("categories", strings.Join(w.categories, ",")).
		Info("Analytics warmer started")

	<-ctx.Done()
	logger.Info("Shutting down analytics warmer...")
	<-c.Stop().Done()
	logger.Info("Analytics warmer stopped")
}

type warmer struct {
	analyzer   *research.Analyzer
	store      research.MetricsStore
	categories []string
	timeout    time.Duration
	logger     *observability.Logger
}

// run warms every configured category once within the run timeout
func (w *warmer) run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	start := time.Now()
	if err := w.analyzer.WarmCategories(ctx, w.categories); err != nil {
		return fmt.Errorf("warm %d categories: %w", len(w.categories), err)
	}

	logger := w.logger.WithField("duration", time.Since(start).String())
	if stats, err := w.store.Stats(ctx); err == nil {
		logger = logger.WithFields(map[string]interface{}{
			"hits":       stats.Hits,
			"misses":     stats.Misses,
			"item_count": stats.ItemCount,
		})
	}
	logger.Info("Warm-up completed")
	return nil
}

func splitCategories(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// cronLogger routes scheduler messages to the structured logger
type cronLogger struct {
	logger *observability.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.WithFields(fields(keysAndValues)).Debug(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.WithError(err).WithFields(fields(keysAndValues)).Error(msg)
}

func fields(keysAndValues []interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		out[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return out
}
