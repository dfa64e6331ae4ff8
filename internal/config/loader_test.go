package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.TTL.Dashboard != 60*time.Second {
		t.Errorf("expected dashboard TTL 60s, got %v", cfg.TTL.Dashboard)
	}
	if cfg.TTL.Stats != 300*time.Second {
		t.Errorf("expected stats TTL 300s, got %v", cfg.TTL.Stats)
	}
	if cfg.TTL.Exports != time.Hour {
		t.Errorf("expected exports TTL 1h, got %v", cfg.TTL.Exports)
	}
	if cfg.TTL.Quotas != 30*time.Second {
		t.Errorf("expected quotas TTL 30s, got %v", cfg.TTL.Quotas)
	}
	if cfg.Quota.WarningThreshold != 80 || cfg.Quota.CriticalThreshold != 95 {
		t.Errorf("expected default thresholds 80/95, got %v/%v",
			cfg.Quota.WarningThreshold, cfg.Quota.CriticalThreshold)
	}
	if cfg.Breaker.Timeout != 30*time.Second {
		t.Errorf("expected breaker timeout 30s, got %v", cfg.Breaker.Timeout)
	}
}

func TestLoadYAMLOverride(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "test.yaml")

	content := `
server:
  port: "9090"
  cors_origin: "http://example.com"
ttl:
  dashboard: 2m
quota:
  warning_threshold: 70
logging:
  level: "debug"
`
	if err := os.WriteFile(yamlPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Defaults()
	if err := loadYAML(&cfg, yamlPath); err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Server.CORSOrigin != "http://example.com" {
		t.Errorf("expected cors http://example.com, got %s", cfg.Server.CORSOrigin)
	}
	if cfg.TTL.Dashboard != 2*time.Minute {
		t.Errorf("expected dashboard TTL 2m, got %v", cfg.TTL.Dashboard)
	}
	if cfg.Quota.WarningThreshold != 70 {
		t.Errorf("expected warning threshold 70, got %v", cfg.Quota.WarningThreshold)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}
	// Unchanged fields keep defaults
	if cfg.NATS.URL != "nats://localhost:4222" {
		t.Errorf("expected default NATS URL, got %s", cfg.NATS.URL)
	}
}

func TestLoadYAMLMissing(t *testing.T) {
	cfg := Defaults()
	err := loadYAML(&cfg, "/nonexistent/path.yaml")
	if err != nil {
		t.Errorf("missing YAML should not error, got %v", err)
	}
}

func TestEnvOverride(t *testing.T) {
	cfg := Defaults()

	t.Setenv("PRISMGATE_PORT", "7070")
	t.Setenv("DATABASE_URL", "postgres://test:test@db:5432/test")
	t.Setenv("PRISMGATE_TTL_QUOTAS", "45s")
	t.Setenv("PRISMGATE_LOG_LEVEL", "warn")
	t.Setenv("PRISMGATE_QUOTA_CRITICAL_PCT", "90")

	loadEnv(&cfg)

	if cfg.Server.Port != "7070" {
		t.Errorf("expected port 7070, got %s", cfg.Server.Port)
	}
	if cfg.Postgres.DSN != "postgres://test:test@db:5432/test" {
		t.Errorf("expected test DSN, got %s", cfg.Postgres.DSN)
	}
	if cfg.TTL.Quotas != 45*time.Second {
		t.Errorf("expected quotas TTL 45s, got %v", cfg.TTL.Quotas)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected log level warn, got %s", cfg.Logging.Level)
	}
	if cfg.Quota.CriticalThreshold != 90 {
		t.Errorf("expected critical threshold 90, got %v", cfg.Quota.CriticalThreshold)
	}
}

func TestValidateRequired(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{
			name:   "empty port",
			modify: func(c *Config) { c.Server.Port = "" },
			errMsg: "server.port is required",
		},
		{
			name:   "empty DSN",
			modify: func(c *Config) { c.Postgres.DSN = "" },
			errMsg: "postgres.dsn is required",
		},
		{
			name:   "empty NATS URL",
			modify: func(c *Config) { c.NATS.URL = "" },
			errMsg: "nats.url is required",
		},
		{
			name:   "zero max_conns",
			modify: func(c *Config) { c.Postgres.MaxConns = 0 },
			errMsg: "postgres.max_conns must be >= 1",
		},
		{
			name:   "zero cache size",
			modify: func(c *Config) { c.Cache.MaxSizeMB = 0 },
			errMsg: "cache.max_size_mb must be >= 1",
		},
		{
			name:   "zero dashboard TTL",
			modify: func(c *Config) { c.TTL.Dashboard = 0 },
			errMsg: "ttl values must be positive",
		},
		{
			name:   "warning above critical",
			modify: func(c *Config) { c.Quota.WarningThreshold = 96 },
			errMsg: "quota.warning_threshold",
		},
		{
			name:   "critical above 100",
			modify: func(c *Config) { c.Quota.CriticalThreshold = 120 },
			errMsg: "quota.critical_threshold",
		},
		{
			name:   "zero breaker failures",
			modify: func(c *Config) { c.Breaker.MaxFailures = 0 },
			errMsg: "breaker.max_failures must be >= 1",
		},
		{
			name:   "reliability floor out of range",
			modify: func(c *Config) { c.Derived.ReliabilityFloor = 1.5 },
			errMsg: "derived.reliability_floor",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(&cfg)
			err := validate(&cfg)
			if err == nil {
				t.Fatalf("expected error %q, got nil", tt.errMsg)
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("expected error containing %q, got %q", tt.errMsg, err.Error())
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Defaults()
	if err := validate(&cfg); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}
