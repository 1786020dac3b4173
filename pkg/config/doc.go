// Package config loads service configuration from defaults, an optional YAML
// file and ANALYTICS_* environment variables, in that order.
//
// # Configuration Structure
//
// Server settings:
//
//	ANALYTICS_HOST="0.0.0.0"
//	ANALYTICS_PORT="8080"
//	ANALYTICS_HEALTH_PORT="9090"
//	ANALYTICS_READ_TIMEOUT="15s"
//	ANALYTICS_CORS_ORIGINS="https://dashboard.example"
//
// Cache settings:
//
//	ANALYTICS_CACHE_BACKEND="memory"  # memory, redis
//	ANALYTICS_CACHE_MAX_ENTRIES="0"   # 0 keeps every category
//	ANALYTICS_REDIS_URL="redis://localhost:6379/0"
//	ANALYTICS_REDIS_TTL="0s"
//
// Analysis settings:
//
//	ANALYTICS_SEED="0"  # 0 seeds from the runtime
//	ANALYTICS_WORKERS="8"
//	ANALYTICS_WARM_CATEGORIES="alignment,fairness"
//	ANALYTICS_WARMER_SCHEDULE="@every 15m"
//
// Observability settings:
//
//	ANALYTICS_LOG_LEVEL="info"  # debug, info, warn, error
//	ANALYTICS_METRICS_ENABLED="true"
//	ANALYTICS_OTEL_ENABLED="false"
//	ANALYTICS_OTEL_ENDPOINT="otel-collector:4317"
//
// # Usage Example
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//	if path := os.Getenv(config.FileEnvVar); path != "" {
//		_ = config.Watch(ctx, path, logger, func(c *config.Config) {
//			logger.SetLevel(c.Observability.Level())
//		})
//	}
package config
