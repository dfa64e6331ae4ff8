package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	pghttp "github.com/prismgate/analytics/internal/adapter/http"
	pgnats "github.com/prismgate/analytics/internal/adapter/nats"
	"github.com/prismgate/analytics/internal/adapter/natskv"
	otelx "github.com/prismgate/analytics/internal/adapter/otel"
	"github.com/prismgate/analytics/internal/adapter/postgres"
	"github.com/prismgate/analytics/internal/adapter/ristretto"
	"github.com/prismgate/analytics/internal/adapter/tiered"
	"github.com/prismgate/analytics/internal/adapter/ws"
	"github.com/prismgate/analytics/internal/config"
	"github.com/prismgate/analytics/internal/logger"
	"github.com/prismgate/analytics/internal/middleware"
	"github.com/prismgate/analytics/internal/port/bus"
	"github.com/prismgate/analytics/internal/port/cache"
	"github.com/prismgate/analytics/internal/resilience"
	"github.com/prismgate/analytics/internal/service"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "admin" {
		if err := runAdmin(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		return
	}

	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, logCloser := logger.New(cfg.Logging)
	defer logCloser.Close()
	slog.SetDefault(log)

	log.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"pg_max_conns", cfg.Postgres.MaxConns,
		"telemetry", cfg.Telemetry.Enabled,
	)

	ctx := context.Background()

	// --- Telemetry ---
	var telemetry *otelx.Metrics
	if cfg.Telemetry.Enabled {
		shutdown, err := otelx.Setup(ctx, cfg.Logging.Service, cfg.Telemetry.Endpoint)
		if err != nil {
			return fmt.Errorf("telemetry: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.Warn("telemetry shutdown failed", "error", err)
			}
		}()

		telemetry, err = otelx.NewMetrics()
		if err != nil {
			return fmt.Errorf("telemetry instruments: %w", err)
		}
	}

	// --- Infrastructure ---

	// PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()
	log.Info("postgres connected")

	if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	log.Info("migrations applied")

	// NATS invalidation bus and L2 cache (optional)
	var msgBus bus.Bus
	var natsBus *pgnats.Bus
	if cfg.NATS.URL != "" {
		natsBus, err = pgnats.Connect(ctx, cfg.NATS.URL)
		if err != nil {
			return fmt.Errorf("nats: %w", err)
		}
		defer func() { _ = natsBus.Close() }()
		msgBus = natsBus
		log.Info("nats connected")
	} else {
		msgBus = noopBus{}
	}

	// L1 result cache; when NATS is available, layer the shared
	// JetStream KV bucket behind it.
	l1, err := ristretto.New(cfg.Cache.MaxSizeMB << 20)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer l1.Close()

	var store cache.Cache = l1
	if natsBus != nil {
		kv, err := natsBus.ResultsKV(ctx, cfg.TTL.Exports)
		if err != nil {
			return fmt.Errorf("results kv: %w", err)
		}
		store = tiered.New(l1, natskv.New(kv), cfg.TTL.Dashboard)
	}

	// --- Services ---
	hub := ws.NewHub(log)
	source := postgres.NewSource(pool)
	quotaStore := postgres.NewQuotaStore(pool)
	breaker := resilience.NewBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Timeout)
	orch := service.NewOrchestrator(store, cfg.TTL, log, telemetry)
	derived := service.NewDerivedEngine(cfg.Derived, nil)

	statsSvc := service.NewStatsService(source, source, source, source, orch, derived, breaker, log)
	costSvc := service.NewCostService(source, source, orch, derived, breaker, log)
	perfSvc := service.NewPerformanceService(source, orch, derived, breaker, hub, log)
	quotaSvc := service.NewQuotaService(quotaStore, source, orch, msgBus, breaker, hub, cfg.Quota, log)
	exportSvc := service.NewExportService(statsSvc, log, telemetry)
	usageSvc := service.NewUsageService(source, orch, breaker, log)

	// Quota invalidation fan-in from other instances.
	if natsBus != nil {
		cancelInvalidation, err := msgBus.Subscribe(ctx, bus.SubjectInvalidateQuota, quotaSvc.HandleInvalidation)
		if err != nil {
			return fmt.Errorf("invalidation subscriber: %w", err)
		}
		defer cancelInvalidation()
	}

	// --- HTTP ---
	handlers := &pghttp.Handlers{
		Stats:       statsSvc,
		Costs:       costSvc,
		Performance: perfSvc,
		Quotas:      quotaSvc,
		Exports:     exportSvc,
		Usage:       usageSvc,
		Hub:         hub,
		Checks:      componentChecks(pool, natsBus),
	}

	r := chi.NewRouter()

	r.Use(pghttp.CORS(cfg.Server.CORSOrigin))
	r.Use(pghttp.Logger)
	r.Use(middleware.RequestID)
	r.Use(middleware.TenantID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	if cfg.Telemetry.Enabled {
		r.Use(otelx.HTTPMiddleware(cfg.Logging.Service))
	}

	pghttp.MountRoutes(r, handlers, cfg.Admin.TokenHash)

	addr := ":" + cfg.Server.Port

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "error", err)
		}
	}()

	<-done
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// componentChecks builds the health check set for the backing components.
func componentChecks(pool *pgxpool.Pool, natsBus *pgnats.Bus) map[string]pghttp.ComponentCheck {
	checks := map[string]pghttp.ComponentCheck{
		"postgres": pool.Ping,
	}
	if natsBus != nil {
		checks["nats"] = func(context.Context) error {
			return natsBus.HealthCheck()
		}
	}
	return checks
}

// noopBus satisfies the bus port when NATS is not configured; invalidation
// then only takes effect on the local instance.
type noopBus struct{}

func (noopBus) Publish(context.Context, string, []byte) error { return nil }
func (noopBus) Subscribe(context.Context, string, bus.Handler) (func(), error) {
	return func() {}, nil
}
func (noopBus) Close() error { return nil }
