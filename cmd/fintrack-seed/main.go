package main

import (
	"context"
	"os"

	"fintrack/internal/cli"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, applog.ComponentLedger)

	result := cli.OpenBackend(context.Background(), logger, cfg)
	defer result.Cleanup()

	n, err := services.SeedDemoAccounts(context.Background(), result.Store, result.ServiceOptions()...)
	if err != nil {
		logger.Error("Demo seed failed", applog.FieldError, err.Error(), applog.FieldOperation, applog.OpSeed)
		result.Cleanup()
		os.Exit(1)
	}
	logger.Info("Seed finished", "accounts_created", n, "backend", cfg.DataBackend)
}
