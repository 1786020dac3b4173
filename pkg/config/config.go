package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/houstonoilairs/research-analytics/pkg/cache"
	"github.com/houstonoilairs/research-analytics/pkg/observability"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// FileEnvVar names the optional YAML file applied beneath environment overrides
const FileEnvVar = "ANALYTICS_CONFIG_FILE"

// Config holds all application configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Cache         CacheConfig         `yaml:"cache"`
	Analysis      AnalysisConfig      `yaml:"analysis"`
	Warmer        WarmerConfig        `yaml:"warmer"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`

	// Health/metrics server (separate port for k8s probes)
	HealthPort string `yaml:"health_port"`
}

// CacheConfig selects and tunes the metric series cache
type CacheConfig struct {
	Backend    string      `yaml:"backend"`
	MaxEntries int         `yaml:"max_entries"`
	Redis      RedisConfig `yaml:"redis"`
}

// RedisConfig holds Redis connection settings for the redis backend
type RedisConfig struct {
	URL        string        `yaml:"url"`
	Password   string        `yaml:"password"`
	DB         int           `yaml:"db"`
	MaxRetries int           `yaml:"max_retries"`
	PoolSize   int           `yaml:"pool_size"`
	KeyPrefix  string        `yaml:"key_prefix"`
	TTL        time.Duration `yaml:"ttl"`

	// ComputeTimeout bounds generating and storing one series
	ComputeTimeout time.Duration `yaml:"compute_timeout"`
}

// AnalysisConfig tunes the analyzer and its worker pool
type AnalysisConfig struct {
	// Seed for the random source; 0 seeds from the runtime
	Seed           uint64        `yaml:"seed"`
	Workers        int           `yaml:"workers"`
	TaskTimeout    time.Duration `yaml:"task_timeout"`
	WarmCategories []string      `yaml:"warm_categories"`
	WarmOnStartup  bool          `yaml:"warm_on_startup"`
}

// WarmerConfig drives the cache warmer binary
type WarmerConfig struct {
	Schedule   string        `yaml:"schedule"`
	RunTimeout time.Duration `yaml:"run_timeout"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	LogLevel string `yaml:"log_level"`

	MetricsEnabled bool `yaml:"metrics_enabled"`

	OTelEnabled        bool    `yaml:"otel_enabled"`
	OTelEndpoint       string  `yaml:"otel_endpoint"`
	OTelServiceName    string  `yaml:"otel_service_name"`
	OTelServiceVersion string  `yaml:"otel_service_version"`
	OTelInsecure       bool    `yaml:"otel_insecure"`
	OTelSampleRatio    float64 `yaml:"otel_sample_ratio"`
}

// Level returns the parsed log level
func (o ObservabilityConfig) Level() observability.LogLevel {
	return observability.ParseLogLevel(o.LogLevel)
}

// OTel returns the tracing settings in the form InitOTel expects
func (o ObservabilityConfig) OTel() observability.OTelConfig {
	return observability.OTelConfig{
		Enabled:        o.OTelEnabled,
		Endpoint:       o.OTelEndpoint,
		ServiceName:    o.OTelServiceName,
		ServiceVersion: o.OTelServiceVersion,
		Insecure:       o.OTelInsecure,
		SampleRatio:    o.OTelSampleRatio,
	}
}

// StoreConfig returns the in-memory store settings
func (c CacheConfig) StoreConfig() cache.Config {
	return cache.Config{MaxEntries: c.MaxEntries}
}

// RedisStoreConfig returns the redis store settings
func (c CacheConfig) RedisStoreConfig() cache.RedisConfig {
	return cache.RedisConfig{
		URL:        c.Redis.URL,
		Password:   c.Redis.Password,
		DB:         c.Redis.DB,
		MaxRetries: c.Redis.MaxRetries,
		PoolSize:   c.Redis.PoolSize,
		KeyPrefix:  c.Redis.KeyPrefix,
		TTL:        c.Redis.TTL,

		ComputeTimeout: c.Redis.ComputeTimeout,
	}
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			MaxBodyBytes:    1 << 20,
			HealthPort:      "9090",
		},
		Cache: CacheConfig{
			Backend: cache.BackendMemory,
			Redis: RedisConfig{
				URL:        "redis://localhost:6379/0",
				MaxRetries: 3,
				PoolSize:   10,
				KeyPrefix:  "research-analytics:metrics:",

				ComputeTimeout: cache.DefaultComputeTimeout,
			},
		},
		Analysis: AnalysisConfig{
			Workers:        8,
			TaskTimeout:    30 * time.Second,
			WarmCategories: []string{"alignment", "fairness", "robustness", "interpretability"},
		},
		Warmer: WarmerConfig{
			Schedule:   "@every 15m",
			RunTimeout: 5 * time.Minute,
		},
		Observability: ObservabilityConfig{
			LogLevel:           "info",
			MetricsEnabled:     true,
			OTelEndpoint:       "localhost:4317",
			OTelServiceName:    "research-analytics",
			OTelServiceVersion: "1.0.0",
			OTelInsecure:       true,
			OTelSampleRatio:    1,
		},
	}
}

// LoadConfig loads configuration from the file named by ANALYTICS_CONFIG_FILE
// (when set) and environment variables
func LoadConfig() (*Config, error) {
	return Load(os.Getenv(FileEnvVar))
}

// Load builds configuration from defaults, then the YAML file at path (skipped
// when empty), then environment variables, and validates the result
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	s := &c.Server
	s.Host = getEnv("ANALYTICS_HOST", s.Host)
	s.Port = getEnv("ANALYTICS_PORT", s.Port)
	s.HealthPort = getEnv("ANALYTICS_HEALTH_PORT", s.HealthPort)
	s.ReadTimeout = getEnvDuration("ANALYTICS_READ_TIMEOUT", s.ReadTimeout)
	s.WriteTimeout = getEnvDuration("ANALYTICS_WRITE_TIMEOUT", s.WriteTimeout)
	s.IdleTimeout = getEnvDuration("ANALYTICS_IDLE_TIMEOUT", s.IdleTimeout)
	s.ShutdownTimeout = getEnvDuration("ANALYTICS_SHUTDOWN_TIMEOUT", s.ShutdownTimeout)
	s.MaxBodyBytes = getEnvInt64("ANALYTICS_MAX_BODY_BYTES", s.MaxBodyBytes)
	s.AllowedOrigins = getEnvList("ANALYTICS_CORS_ORIGINS", s.AllowedOrigins)

	cc := &c.Cache
	cc.Backend = strings.ToLower(getEnv("ANALYTICS_CACHE_BACKEND", cc.Backend))
	cc.MaxEntries = getEnvInt("ANALYTICS_CACHE_MAX_ENTRIES", cc.MaxEntries)
	cc.Redis.URL = getEnv("ANALYTICS_REDIS_URL", cc.Redis.URL)
	cc.Redis.Password = getEnv("ANALYTICS_REDIS_PASSWORD", cc.Redis.Password)
	cc.Redis.DB = getEnvInt("ANALYTICS_REDIS_DB", cc.Redis.DB)
	cc.Redis.MaxRetries = getEnvInt("ANALYTICS_REDIS_MAX_RETRIES", cc.Redis.MaxRetries)
	cc.Redis.PoolSize = getEnvInt("ANALYTICS_REDIS_POOL_SIZE", cc.Redis.PoolSize)
	cc.Redis.KeyPrefix = getEnv("ANALYTICS_REDIS_KEY_PREFIX", cc.Redis.KeyPrefix)
	cc.Redis.TTL = getEnvDuration("ANALYTICS_REDIS_TTL", cc.Redis.TTL)
	cc.Redis.ComputeTimeout = getEnvDuration("ANALYTICS_REDIS_COMPUTE_TIMEOUT", cc.Redis.ComputeTimeout)

	a := &c.Analysis
	a.Seed = getEnvUint64("ANALYTICS_SEED", a.Seed)
	a.Workers = getEnvInt("ANALYTICS_WORKERS", a.Workers)
	a.TaskTimeout = getEnvDuration("ANALYTICS_TASK_TIMEOUT", a.TaskTimeout)
	a.WarmCategories = getEnvList("ANALYTICS_WARM_CATEGORIES", a.WarmCategories)
	a.WarmOnStartup = getEnvBool("ANALYTICS_WARM_ON_STARTUP", a.WarmOnStartup)

	c.Warmer.Schedule = getEnv("ANALYTICS_WARMER_SCHEDULE", c.Warmer.Schedule)
	c.Warmer.RunTimeout = getEnvDuration("ANALYTICS_WARMER_RUN_TIMEOUT", c.Warmer.RunTimeout)

	o := &c.Observability
	o.LogLevel = getEnv("ANALYTICS_LOG_LEVEL", o.LogLevel)
	o.MetricsEnabled = getEnvBool("ANALYTICS_METRICS_ENABLED", o.MetricsEnabled)
	o.OTelEnabled = getEnvBool("ANALYTICS_OTEL_ENABLED", o.OTelEnabled)
	o.OTelEndpoint = getEnv("ANALYTICS_OTEL_ENDPOINT", o.OTelEndpoint)
	o.OTelServiceName = getEnv("ANALYTICS_OTEL_SERVICE_NAME", o.OTelServiceName)
	o.OTelServiceVersion = getEnv("ANALYTICS_OTEL_SERVICE_VERSION", o.OTelServiceVersion)
	o.OTelInsecure = getEnvBool("ANALYTICS_OTEL_INSECURE", o.OTelInsecure)
	o.OTelSampleRatio = getEnvFloat("ANALYTICS_OTEL_SAMPLE_RATIO", o.OTelSampleRatio)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port == "" {
		errs = append(errs, errors.New("server port is required"))
	}
	if c.Server.HealthPort == "" {
		errs = append(errs, errors.New("health port is required"))
	}
	if c.Server.Port != "" && c.Server.Port == c.Server.HealthPort {
		errs = append(errs, errors.New("server port and health port must be different"))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("max body bytes must be positive"))
	}

	switch c.Cache.Backend {
	case cache.BackendMemory:
	case cache.BackendRedis:
		if c.Cache.Redis.URL == "" {
			errs = append(errs, errors.New("redis URL is required for the redis cache backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid cache backend: %s (must be memory or redis)", c.Cache.Backend))
	}
	if c.Cache.MaxEntries < 0 {
		errs = append(errs, errors.New("cache max entries must not be negative"))
	}

	if c.Analysis.Workers < 1 {
		errs = append(errs, errors.New("analysis workers must be at least 1"))
	}
	if c.Analysis.TaskTimeout <= 0 {
		errs = append(errs, errors.New("analysis task timeout must be positive"))
	}

	if _, err := cron.ParseStandard(c.Warmer.Schedule); err != nil {
		errs = append(errs, fmt.Errorf("invalid warmer schedule %q: %w", c.Warmer.Schedule, err))
	}

	if c.Observability.OTelEnabled {
		if c.Observability.OTelEndpoint == "" {
			errs = append(errs, errors.New("OpenTelemetry endpoint is required when OTel is enabled"))
		}
		if c.Observability.OTelServiceName == "" {
			errs = append(errs, errors.New("OpenTelemetry service name is required when OTel is enabled"))
		}
	}
	if r := c.Observability.OTelSampleRatio; r < 0 || r > 1 {
		errs = append(errs, fmt.Errorf("OpenTelemetry sample ratio %v must be within [0, 1]", r))
	}

	return errors.Join(errs...)
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvInt64 returns an int64 environment variable or a default
func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvUint64 returns a uint64 environment variable or a default
func getEnvUint64(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseUint(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat returns a float64 environment variable or a default
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvList returns a comma separated environment variable or a default
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
