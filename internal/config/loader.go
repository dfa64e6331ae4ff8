package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "prismgate.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "PRISMGATE_PORT")
	setString(&cfg.Server.CORSOrigin, "PRISMGATE_CORS_ORIGIN")
	setString(&cfg.Postgres.DSN, "DATABASE_URL")
	setInt32(&cfg.Postgres.MaxConns, "PRISMGATE_PG_MAX_CONNS")
	setInt32(&cfg.Postgres.MinConns, "PRISMGATE_PG_MIN_CONNS")
	setDuration(&cfg.Postgres.MaxConnLifetime, "PRISMGATE_PG_MAX_CONN_LIFETIME")
	setDuration(&cfg.Postgres.MaxConnIdleTime, "PRISMGATE_PG_MAX_CONN_IDLE_TIME")
	setDuration(&cfg.Postgres.HealthCheck, "PRISMGATE_PG_HEALTH_CHECK")
	setString(&cfg.NATS.URL, "NATS_URL")
	setInt64(&cfg.Cache.MaxSizeMB, "PRISMGATE_CACHE_SIZE_MB")
	setDuration(&cfg.TTL.Dashboard, "PRISMGATE_TTL_DASHBOARD")
	setDuration(&cfg.TTL.Stats, "PRISMGATE_TTL_STATS")
	setDuration(&cfg.TTL.Exports, "PRISMGATE_TTL_EXPORTS")
	setDuration(&cfg.TTL.Quotas, "PRISMGATE_TTL_QUOTAS")
	setFloat64(&cfg.Quota.WarningThreshold, "PRISMGATE_QUOTA_WARNING_PCT")
	setFloat64(&cfg.Quota.CriticalThreshold, "PRISMGATE_QUOTA_CRITICAL_PCT")
	setFloat64(&cfg.Quota.DailyCostLimitUSD, "PRISMGATE_QUOTA_DAILY_COST")
	setFloat64(&cfg.Quota.MonthlyCostLimit, "PRISMGATE_QUOTA_MONTHLY_COST")
	setInt64(&cfg.Quota.DailyTokenLimit, "PRISMGATE_QUOTA_DAILY_TOKENS")
	setInt64(&cfg.Quota.DailyMessageLimit, "PRISMGATE_QUOTA_DAILY_MESSAGES")
	setFloat64(&cfg.Derived.GrowthRate, "PRISMGATE_DERIVED_GROWTH_RATE")
	setString(&cfg.Logging.Level, "PRISMGATE_LOG_LEVEL")
	setString(&cfg.Logging.Service, "PRISMGATE_LOG_SERVICE")
	setBool(&cfg.Logging.Async, "PRISMGATE_LOG_ASYNC")
	setInt(&cfg.Breaker.MaxFailures, "PRISMGATE_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "PRISMGATE_BREAKER_TIMEOUT")
	setString(&cfg.Admin.TokenHash, "PRISMGATE_ADMIN_TOKEN_HASH")
	setBool(&cfg.Telemetry.Enabled, "PRISMGATE_OTEL_ENABLED")
	setString(&cfg.Telemetry.Endpoint, "PRISMGATE_OTEL_ENDPOINT")
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.Postgres.DSN == "" {
		return errors.New("postgres.dsn is required")
	}
	if cfg.NATS.URL == "" {
		return errors.New("nats.url is required")
	}
	if cfg.Postgres.MaxConns < 1 {
		return errors.New("postgres.max_conns must be >= 1")
	}
	if cfg.Cache.MaxSizeMB < 1 {
		return errors.New("cache.max_size_mb must be >= 1")
	}
	if cfg.TTL.Dashboard <= 0 || cfg.TTL.Stats <= 0 || cfg.TTL.Exports <= 0 || cfg.TTL.Quotas <= 0 {
		return errors.New("ttl values must be positive")
	}
	if cfg.Quota.WarningThreshold <= 0 || cfg.Quota.WarningThreshold >= cfg.Quota.CriticalThreshold {
		return errors.New("quota.warning_threshold must be positive and below critical_threshold")
	}
	if cfg.Quota.CriticalThreshold > 100 {
		return errors.New("quota.critical_threshold must be <= 100")
	}
	if cfg.Breaker.MaxFailures < 1 {
		return errors.New("breaker.max_failures must be >= 1")
	}
	if cfg.Derived.ReliabilityFloor < 0 || cfg.Derived.ReliabilityFloor > 1 {
		return errors.New("derived.reliability_floor must be in [0, 1]")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(n)
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
