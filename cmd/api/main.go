package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/freshnest/insights-backend/api/routes"
	"github.com/freshnest/insights-backend/internal/convo"
	"github.com/freshnest/insights-backend/internal/cron"
	"github.com/freshnest/insights-backend/internal/insights"
	"github.com/freshnest/insights-backend/internal/records"
	"github.com/freshnest/insights-backend/pkg/config"
	"github.com/freshnest/insights-backend/pkg/logger"
	"github.com/freshnest/insights-backend/pkg/metrics"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "insights-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "insights-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	recs, err := records.LoadFile(cfg.Dataset.Path)
	if err != nil && len(recs) == 0 {
		ctx := logg.WithField(context.Background(), "path", cfg.Dataset.Path)
		logg.Error(ctx, "failed to load campaign dataset", err)
		os.Exit(1)
	}
	if err != nil {
		ctx := logg.WithFields(context.Background(), map[string]any{
			"path":  cfg.Dataset.Path,
			"error": err.Error(),
		})
		logg.Warn(ctx, "dataset loaded with row errors")
	}
	provider := records.NewStaticProvider(recs)

	store := convo.NewMemoryStore(convo.MemoryStoreParams{
		TTL:         cfg.Session.TTL,
		MaxMessages: cfg.Session.MaxMessages,
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	queryMetrics := metrics.NewQueryMetrics(registry)

	queryService, err := insights.NewService(insights.ServiceParams{
		Provider: provider,
		Store:    store,
		Logger:   logg,
		Metrics:  queryMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create query service", err)
		os.Exit(1)
	}

	sweepJob, err := cron.NewSessionSweepJob(cron.SessionSweepJobParams{
		Logger: logg,
		Store:  store,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create session sweep job", err)
		os.Exit(1)
	}
	jobRegistry := cron.NewRegistry()
	jobRegistry.Register(sweepJob)

	cronService, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: jobRegistry,
		Metrics:  metrics.NewCronJobMetrics(registry),
		Interval: cfg.Session.SweepInterval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := cronService.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logg.Error(ctx, "session sweeper stopped unexpectedly", err)
		}
	}()

	handler := routes.NewRouter(cfg, logg, provider, queryService, registry)
	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	startCtx := logg.WithFields(ctx, map[string]any{
		"env":     cfg.App.Env,
		"port":    cfg.App.Port,
		"records": len(recs),
	})
	logg.Info(startCtx, "starting insights api")

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(shutdownCtx, "server shutdown failed", err)
		os.Exit(1)
	}

	logg.Info(ctx, "insights api shut down gracefully")
}
