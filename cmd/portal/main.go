// Package main - entry point for the Intern Portal Hub backend.
//
// The process holds the entire portal state in memory, snapshots it to a
// pluggable backend after every mutation, and fans change events out to
// the dashboard projection and the audit recorder. An optional HTTP server
// exposes read-only list endpoints and operational stats.
//
// The layering follows Clean Architecture:
// - Domain: entities and event contracts without external dependencies
// - Application: event handlers reacting to store mutations
// - Infrastructure: snapshot backends, event bus, projections
// - Interface: HTTP read API
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/intern-hub/intern-portal-hub/config"
	"github.com/intern-hub/intern-portal-hub/internal/application/eventhandler"
	"github.com/intern-hub/intern-portal-hub/internal/infrastructure/messaging"
	"github.com/intern-hub/intern-portal-hub/internal/infrastructure/persistence/postgres"
	"github.com/intern-hub/intern-portal-hub/internal/infrastructure/persistence/projections"
	"github.com/intern-hub/intern-portal-hub/internal/infrastructure/persistence/redis"
	"github.com/intern-hub/intern-portal-hub/internal/infrastructure/persistence/snapshot"
	httpserver "github.com/intern-hub/intern-portal-hub/internal/interface/http"
	"github.com/intern-hub/intern-portal-hub/internal/store"
	"github.com/intern-hub/intern-portal-hub/pkg/circuitbreaker"
	"github.com/intern-hub/intern-portal-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting Intern Portal Hub",
		"env", cfg.App.Environment,
		"version", cfg.App.Version,
		"snapshot_backend", cfg.Snapshot.Backend,
		"timezone", cfg.App.Timezone,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. SNAPSHOT BACKEND
	// ─────────────────────────────────────────────────────────────────────────
	backend, err := buildBackend(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize snapshot backend: %w", err)
	}
	defer func() {
		log.Info("closing snapshot backend...")
		if err := backend.Close(); err != nil {
			log.Warn("snapshot backend close failed", "error", err)
		}
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 4. EVENT BUS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing event bus...")
	busCfg := messaging.DefaultConfig()
	busCfg.Logger = log
	bus := messaging.NewSyncEventBus(busCfg)
	defer func() {
		log.Info("closing event bus...")
		_ = bus.Close()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 5. STORE
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("opening store...")
	st, err := store.Open(ctx, store.Options{
		Backend:      backend,
		Bus:          bus,
		Logger:       log,
		SeedOnEmpty:  cfg.Features.IsEnabled(config.FeatureStoreSeedOnEmpty, nil),
		SaveAttempts: cfg.Snapshot.SaveAttempts,
		SaveTimeout:  cfg.Snapshot.SaveTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	log.Info("store opened", "counts", st.Stats().Counts)

	// ─────────────────────────────────────────────────────────────────────────
	// 6. DASHBOARD PROJECTION
	// ─────────────────────────────────────────────────────────────────────────
	// Prime before subscribing so the view starts from the loaded snapshot
	// and then tracks every event the store publishes after it.
	view := projections.NewDashboardView()
	view.Prime(st.Snapshot())
	unsubscribeView := bus.Subscribe(view.Apply)
	defer unsubscribeView()

	// ─────────────────────────────────────────────────────────────────────────
	// 7. AUDIT RECORDER
	// ─────────────────────────────────────────────────────────────────────────
	var audit *eventhandler.AuditRecorder
	if cfg.Features.IsEnabled(config.FeatureStoreAuditLog, nil) {
		log.Info("starting audit recorder...")
		audit = eventhandler.NewAuditRecorder(st, log, eventhandler.DefaultAuditConfig())
		audit.Start(ctx)
		unsubscribeAudit := bus.Subscribe(audit.Handle)
		defer unsubscribeAudit()
	} else {
		log.Info("audit recorder disabled by feature flag")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 8. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	errCh := make(chan error, 1)
	var httpServer *httpserver.Server

	if cfg.HTTP.Enabled && cfg.Features.IsEnabled(config.FeatureOpsHTTPServer, nil) {
		httpCfg := httpserver.DefaultConfig()
		httpCfg.Host = cfg.HTTP.Host
		httpCfg.Port = cfg.HTTP.Port
		httpCfg.ReadTimeout = cfg.HTTP.ReadTimeout
		httpCfg.WriteTimeout = cfg.HTTP.WriteTimeout

		httpServer = httpserver.NewServer(httpCfg, httpserver.Dependencies{
			Store:      st,
			View:       view,
			BusMetrics: busMetricsFunc(bus),
			Logger:     logger.Default(),
			Version:    cfg.App.Version,
		})

		go func() {
			log.Info("starting HTTP server", "address", httpServer.Address())
			if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("http server error: %w", err)
			}
		}()
	} else {
		log.Info("HTTP server disabled")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 9. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("Intern Portal Hub is running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		log.Error("service error", "error", err)
		return err
	}

	log.Info("starting graceful shutdown...", "timeout", cfg.App.ShutdownTimeout.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	var shutdownErr error

	// 1. Stop accepting reads.
	if httpServer != nil {
		log.Info("stopping HTTP server...")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("failed to stop HTTP server gracefully", "error", err)
			shutdownErr = err
		}
	}

	// 2. Drain the audit queue while the store still accepts writes.
	if audit != nil {
		log.Info("stopping audit recorder...")
		audit.Stop()
	}

	// 3. Close the store. A final snapshot is written here.
	log.Info("closing store...")
	if err := st.Close(shutdownCtx); err != nil {
		log.Error("failed to close store gracefully", "error", err)
		shutdownErr = err
	}

	// 4. Bus and backend close via defer.

	if shutdownErr != nil {
		log.Warn("shutdown completed with errors")
	} else {
		log.Info("shutdown completed successfully")
	}

	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// setupLogger configures structured logging from observability settings.
func setupLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Observability.LogLevel),
	}
	if cfg.App.Debug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.Observability.LogFormat == "json" || cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)

	return log
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// buildBackend constructs the snapshot backend selected by configuration.
// Remote backends are wrapped in a circuit breaker so a flapping Redis or
// Postgres does not stall every mutation with repeated timeouts.
func buildBackend(ctx context.Context, cfg *config.Config, log *slog.Logger) (snapshot.Backend, error) {
	switch cfg.Snapshot.Backend {
	case config.BackendFile:
		log.Info("using file snapshot backend", "path", cfg.Snapshot.FilePath)
		return snapshot.NewFileBackend(cfg.Snapshot.FilePath)

	case config.BackendMemory:
		log.Info("using in-memory snapshot backend (state is lost on exit)")
		return snapshot.NewMemoryBackend(), nil

	case config.BackendRedis:
		log.Info("connecting to Redis...", "host", cfg.Redis.Host, "port", cfg.Redis.Port)
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.Key = cfg.Redis.SnapshotKey
		backend, err := redis.NewSnapshotBackend(redisCfg)
		if err != nil {
			return nil, err
		}
		cb := circuitbreaker.RedisBreaker(snapshot.StateChangeLogger(log))
		return snapshot.WithBreaker(backend, cb), nil

	case config.BackendPostgres:
		log.Info("connecting to database...")
		conn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		backend, err := postgres.NewSnapshotBackend(ctx, conn)
		if err != nil {
			conn.Close()
			return nil, err
		}
		cb := circuitbreaker.PostgresBreaker(snapshot.StateChangeLogger(log))
		return snapshot.WithBreaker(backend, cb), nil

	default:
		return nil, fmt.Errorf("unknown snapshot backend: %q", cfg.Snapshot.Backend)
	}
}

// busMetricsFunc adapts the bus metrics to the shape /stats reads. The bus
// returns a nil collector when metrics are disabled.
func busMetricsFunc(bus *messaging.SyncEventBus) func() messaging.BusMetricsSnapshot {
	return func() messaging.BusMetricsSnapshot {
		m := bus.Metrics()
		if m == nil {
			return messaging.BusMetricsSnapshot{}
		}
		return m.Snapshot()
	}
}
