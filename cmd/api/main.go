// Package main is the entry point for the Zypool API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/ravitejamarri/zypool/internal/config"
	"github.com/ravitejamarri/zypool/internal/handler"
	"github.com/ravitejamarri/zypool/internal/metrics"
	"github.com/ravitejamarri/zypool/internal/middleware"
	"github.com/ravitejamarri/zypool/internal/repo"
	"github.com/ravitejamarri/zypool/internal/seed"
	"github.com/ravitejamarri/zypool/internal/service"
	"github.com/ravitejamarri/zypool/internal/session"
	"github.com/ravitejamarri/zypool/internal/telemetry"
	"github.com/ravitejamarri/zypool/migrations"
)

const serviceName = "zypool-api"

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Tracing ----------------------------------------------------------
	shutdownTracing, err := telemetry.Setup(ctx, serviceName, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			slog.Error("tracer shutdown", "error", err)
		}
	}()

	// --- Metrics ----------------------------------------------------------
	// A private registry keeps /metrics to this process's own series plus
	// the standard Go and process collectors.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewCollector(reg)

	// --- Store ------------------------------------------------------------
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	// --- Services ---------------------------------------------------------
	deps := service.Deps{Logger: logger, Metrics: recorder}
	notes := service.NewNotificationService(store, deps)
	trips := service.NewTripService(store, notes, deps)
	users := service.NewUserService(store, deps)

	if cfg.SeedDemoData {
		if cfg.StoreBackend != config.BackendMemory {
			slog.Warn("SEED_DEMO_DATA ignored for non-memory store", "backend", cfg.StoreBackend)
		} else if err := seed.Demo(ctx, users, trips); err != nil {
			return err
		} else {
			slog.Info("demo data seeded")
		}
	}

	// --- Router -----------------------------------------------------------
	limiter := middleware.NewRateLimiter(middleware.PerMinute(cfg.RateLimitPerMinute))
	defer limiter.Stop()

	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionTTL, nil)
	srvImpl := handler.NewServer(trips, notes, users, sessions)
	r := handler.NewRouter(srvImpl, handler.RouterConfig{
		Logger:       logger,
		CORSOrigins:  cfg.CORSOrigins,
		MaxBodyBytes: cfg.MaxBodyBytes,
		Limiter:      limiter,
		Metrics:      metrics.Handler(reg),
	})

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr, "store", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-stop:
	}
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	slog.Info("server stopped")
	return nil
}

// openStore builds the Entity Store selected by cfg. The returned close
// function releases whatever the store holds.
func openStore(ctx context.Context, cfg config.Config) (repo.Store, func(), error) {
	if cfg.StoreBackend == config.BackendMemory {
		slog.Info("using in-memory store")
		return repo.NewMemoryStore(), func() {}, nil
	}

	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections immediately; the first query does.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	slog.Info("database connection established")

	if cfg.MigrateOnStart {
		// goose speaks database/sql; OpenDBFromPool shares the pool's connections.
		db := stdlib.OpenDBFromPool(pool)
		n, err := migrations.Up(ctx, db)
		_ = db.Close()
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		slog.Info("migrations applied", "count", n)
	}

	return repo.NewPostgresStore(pool), pool.Close, nil
}
