package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/jonwraymond/lazyops/observe"
)

// Backend names.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// ValidBackends lists accepted LAZYOPS_BACKEND values.
var ValidBackends = []string{BackendMemory, BackendPostgres, BackendRedis}

// Config is the full lazyops configuration.
type Config struct {
	// Backend selects the loader: memory, postgres or redis.
	Backend  string
	Postgres PostgresConfig
	Redis    RedisConfig
	Pool     PoolConfig
	Guard    GuardConfig
	Observe  observe.Config
}

// PostgresConfig configures the postgres loader.
type PostgresConfig struct {
	DSN string
}

// RedisConfig configures the redis loader.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// PoolConfig configures shared instance pools.
type PoolConfig struct {
	// TTL expires pooled entries. Zero keeps them for the process lifetime.
	TTL time.Duration
}

// GuardConfig configures the guards around loader calls.
type GuardConfig struct {
	Attempts        int
	Deadline        time.Duration
	BreakerFailures int
}

// Default returns the configuration used when no variables are set.
func Default() Config {
	return Config{
		Backend: BackendMemory,
		Redis:   RedisConfig{Prefix: "lazyops"},
		Guard: GuardConfig{
			Attempts:        3,
			Deadline:        5 * time.Second,
			BreakerFailures: 5,
		},
		Observe: observe.Config{
			ServiceName: "lazyops",
			Logging:     observe.LoggingConfig{Enabled: true, Level: "info"},
			Tracing:     observe.TracingConfig{Exporter: "none", SamplePct: 1.0},
			Metrics:     observe.MetricsConfig{Exporter: "none"},
		},
	}
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return LoadFrom(os.LookupEnv)
}

// LoadFrom reads the configuration through lookup.
func LoadFrom(lookup LookupFunc) (Config, error) {
	cfg := Default()
	r := reader{lookup: lookup}

	r.str("LAZYOPS_BACKEND", &cfg.Backend)
	r.str("LAZYOPS_POSTGRES_DSN", &cfg.Postgres.DSN)
	r.str("LAZYOPS_REDIS_ADDR", &cfg.Redis.Addr)
	r.str("LAZYOPS_REDIS_PASSWORD", &cfg.Redis.Password)
	r.integer("LAZYOPS_REDIS_DB", &cfg.Redis.DB)
	r.str("LAZYOPS_REDIS_PREFIX", &cfg.Redis.Prefix)
	r.duration("LAZYOPS_POOL_TTL", &cfg.Pool.TTL)
	r.integer("LAZYOPS_RETRY_ATTEMPTS", &cfg.Guard.Attempts)
	r.duration("LAZYOPS_LOAD_DEADLINE", &cfg.Guard.Deadline)
	r.integer("LAZYOPS_BREAKER_FAILURES", &cfg.Guard.BreakerFailures)

	r.str("LAZYOPS_SERVICE_NAME", &cfg.Observe.ServiceName)
	r.str("LAZYOPS_LOG_LEVEL", &cfg.Observe.Logging.Level)
	r.str("LAZYOPS_TRACING_EXPORTER", &cfg.Observe.Tracing.Exporter)
	r.float("LAZYOPS_TRACING_SAMPLE_PCT", &cfg.Observe.Tracing.SamplePct)
	r.str("LAZYOPS_METRICS_EXPORTER", &cfg.Observe.Metrics.Exporter)

	cfg.Observe.Tracing.Enabled = cfg.Observe.Tracing.Exporter != "none"
	cfg.Observe.Metrics.Enabled = cfg.Observe.Metrics.Exporter != "none"

	if err := errors.Join(r.errs...); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if !slices.Contains(ValidBackends, c.Backend) {
		return fmt.Errorf("%w: %q", ErrInvalidBackend, c.Backend)
	}
	if c.Backend == BackendPostgres && c.Postgres.DSN == "" {
		return ErrMissingDSN
	}
	if c.Backend == BackendRedis && c.Redis.Addr == "" {
		return ErrMissingAddr
	}
	if c.Pool.TTL < 0 {
		return fmt.Errorf("%w: LAZYOPS_POOL_TTL must not be negative", ErrInvalidValue)
	}
	if c.Guard.Attempts < 1 {
		return fmt.Errorf("%w: LAZYOPS_RETRY_ATTEMPTS must be at least 1", ErrInvalidValue)
	}
	return c.Observe.Validate()
}

// reader collects parse errors so every bad variable is reported at once.
type reader struct {
	lookup LookupFunc
	errs   []error
}

func (r *reader) raw(key string) (string, bool) {
	v, ok := r.lookup(key)
	if !ok || v == "" {
		return "", false
	}
	expanded, err := ExpandStrict(v, r.lookup)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return "", false
	}
	return expanded, true
}

func (r *reader) str(key string, dst *string) {
	if v, ok := r.raw(key); ok {
		*dst = v
	}
}

func (r *reader) integer(key string, dst *int) {
	v, ok := r.raw(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, v))
		return
	}
	*dst = n
}

func (r *reader) float(key string, dst *float64) {
	v, ok := r.raw(key)
	if !ok {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, v))
		return
	}
	*dst = f
}

func (r *reader) duration(key string, dst *time.Duration) {
	v, ok := r.raw(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, v))
		return
	}
	*dst = d
}
