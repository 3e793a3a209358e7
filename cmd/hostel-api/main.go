// main is the entry point of the Hostel API.
//
// STARTUP SEQUENCE:
//  1. Load configuration (.env, then YAML, then env overrides)
//  2. Initialise the logger
//  3. Open the record store selected by storage_backend
//  4. Build the domain services on top of it
//  5. Schedule the periodic jobs
//  6. Register all HTTP routes and start the server in a goroutine
//  7. Block until an OS signal (Ctrl+C / kill) arrives
//  8. Gracefully shut down: finish in-flight requests, stop jobs, close the store
//
// RUNNING THE SERVER:
//
//	go run ./cmd/hostel-api --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/hostel-api
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
	"time"

	"github.com/aanand-mishra/hostel-api/internal/config"
	"github.com/aanand-mishra/hostel-api/internal/fees"
	"github.com/aanand-mishra/hostel-api/internal/http/routes"
	"github.com/aanand-mishra/hostel-api/internal/jobs"
	"github.com/aanand-mishra/hostel-api/internal/leaves"
	"github.com/aanand-mishra/hostel-api/internal/ledger"
	"github.com/aanand-mishra/hostel-api/internal/metrics"
	"github.com/aanand-mishra/hostel-api/internal/records"
	"github.com/aanand-mishra/hostel-api/internal/storage"
	"github.com/aanand-mishra/hostel-api/internal/storage/memory"
	"github.com/aanand-mishra/hostel-api/internal/storage/redis"
	"github.com/aanand-mishra/hostel-api/internal/storage/sqlite"
	"github.com/aanand-mishra/hostel-api/internal/workflow"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	// Packages that log through the slog default (the handlers) pick up
	// the same handler via SetDefault.
	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting hostel-api",
		slog.String("env", cfg.Env),
		slog.String("backend", cfg.StorageBackend),
		slog.String("version", "1.0.0"),
	)

	// ── 3. Metrics + Storage ──────────────────────────────────────────────
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	backend, err := openStore(cfg)
	if err != nil {
		log.Error("failed to initialise storage",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Every caller sees the retrying wrapper, never the raw backend.
	store := storage.NewRetrying(backend, storage.RetryPolicy{
		Attempts:  cfg.StoreRetry.Attempts,
		BaseDelay: cfg.StoreRetry.BaseDelay,
	}, log, m.StoreRetry)

	log.Info("storage initialised", slog.String("backend", cfg.StorageBackend))

	// ── 4. Domain Services ────────────────────────────────────────────────
	tables := records.NewTables(store, log)
	feeSvc := fees.NewService(tables.Fees, log, m)

	deps := routes.Deps{
		Tables:     tables,
		Ledger:     ledger.New(tables, log, m),
		Complaints: workflow.NewService(tables.Complaints, log, m),
		Fees:       feeSvc,
		Leaves:     leaves.NewService(tables.Leaves, log, m),
		Gatherer:   reg,
	}

	// ── 5. Jobs ───────────────────────────────────────────────────────────
	scheduler := jobs.NewScheduler(log)
	if err := scheduler.Add("fees-overdue", cfg.Fees.OverdueSweep, feeSvc.SweepOverdue); err != nil {
		log.Error("failed to schedule jobs", slog.String("error", err.Error()))
		os.Exit(1)
	}
	scheduler.Start()

	// ── 6. HTTP Server ────────────────────────────────────────────────────
	server := &http.Server{
		Addr:    cfg.HTTPServer.Addr,
		Handler: routes.New(deps),

		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second, // the xlsx report can take a while on big hostels
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		if err := server.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			log.Error("server encountered an error",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// ── 7. Wait for Shutdown Signal ───────────────────────────────────────
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
	}
	scheduler.Stop(ctx)

	if err := store.Close(); err != nil {
		log.Error("failed to close storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

// openStore opens the backend named by cfg.StorageBackend.
func openStore(cfg *config.Config) (storage.Storage, error) {
	switch cfg.StorageBackend {
	case config.BackendSQLite:
		return sqlite.New(cfg)
	case config.BackendRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return redis.New(ctx, cfg)
	case config.BackendMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default:
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}
