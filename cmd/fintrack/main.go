package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"fintrack/internal/cli"
	apphttp "fintrack/internal/http"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, applog.ComponentApp)

	result := cli.OpenBackend(context.Background(), logger, cfg)
	opts := result.ServiceOptions()

	if cfg.SeedDemoData {
		if _, err := services.SeedDemoAccounts(context.Background(), result.Store, opts...); err != nil {
			logger.Error("Demo seed failed", applog.FieldError, err.Error())
		}
	}

	svc := apphttp.Services{
		Ledger:      services.NewLedger(result.Store, opts...),
		Recorder:    services.NewRecorder(result.Store, opts...),
		Obligations: services.NewObligations(result.Store, opts...),
		Aggregator:  services.NewAggregator(result.Store, opts...),
		Store:       result.Store,
	}
	srv, err := apphttp.NewServer(":"+cfg.Port, svc, apphttp.Options{
		Logger:             logger,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		SummaryCacheTTL:    cfg.SummaryCacheTTL,
	})
	if err != nil {
		logger.Error("Failed to build server", applog.FieldError, err.Error())
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err.Error())
		}
		if err := result.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", applog.FieldError, err.Error())
		}
	})

	logger.Info("Starting fintrack server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"events", result.Publisher != nil,
		"summary_cache_ttl", cfg.SummaryCacheTTL)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err.Error(), "port", cfg.Port)
		_ = result.Cleanup()
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
