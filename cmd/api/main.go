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

	"github.com/mrioja/parkpass/internal/app"
	"github.com/mrioja/parkpass/internal/clock"
	"github.com/mrioja/parkpass/internal/platform/config"
	"github.com/mrioja/parkpass/internal/platform/metrics"
	"github.com/mrioja/parkpass/internal/storage/postgres"
	transporthttp "github.com/mrioja/parkpass/internal/transport/http"
	"github.com/mrioja/parkpass/migrations"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("connect to db", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		logger.Error("db ping", "error", err)
		os.Exit(1)
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		logger.Error("apply migrations", "error", err)
		os.Exit(1)
	}

	m := metrics.New()
	enrollRepo := postgres.NewEnrollmentRepository(pool)
	enrollSvc := app.NewEnrollService(enrollRepo, clock.NewSystem(),
		app.WithLogger(logger),
		app.WithMetrics(m),
		app.WithMaxRetries(cfg.EnrollMaxRetries),
	)
	catalogRepo := postgres.NewCatalogRepository(pool)
	catalogSvc := app.NewCatalogService(catalogRepo, clock.NewSystem())
	listingSvc := app.NewListingService(enrollRepo)

	handler := transporthttp.NewRouter(transporthttp.RouterDeps{
		Enroll:      enrollSvc,
		Listing:     listingSvc,
		Catalog:     catalogSvc,
		Logger:      logger,
		CORSOrigins: cfg.CORSOrigins,
	})

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	logger.Info("api listening", "addr", cfg.Addr)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
		}
	case <-stopCtx.Done():
		logger.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server shutdown error", "error", err)
	}
	logger.Info("server stopped")
}
