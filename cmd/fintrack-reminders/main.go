package main

import (
	"context"
	"os"
	"time"

	"github.com/robfig/cron/v3"

	"fintrack/internal/cli"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, applog.ComponentReminders)

	logger.Info("Starting fintrack-reminders",
		"schedule", cfg.ReminderSchedule,
		"lookahead", cfg.ReminderLookahead)

	result := cli.OpenBackend(context.Background(), logger, cfg)
	processor := services.NewReminderProcessor(result.Store, cfg.ReminderLookahead, result.ServiceOptions()...)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	run := func() {
		n, err := processor.ProcessPendingReminders(ctx)
		if err != nil {
			logger.Error("Reminder run failed", applog.FieldError, err.Error())
			return
		}
		logger.Info("Reminder run complete", "reminders", n)
	}

	// Run once on startup, then on schedule.
	run()

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.ReminderSchedule, run); err != nil {
		logger.Error("Invalid reminder schedule", applog.FieldError, err.Error(), "schedule", cfg.ReminderSchedule)
		_ = result.Cleanup()
		os.Exit(1)
	}
	scheduler.Start()

	cli.WaitForShutdown(ctx, done)

	// Wait for a running job before closing the store.
	<-scheduler.Stop().Done()
	if err := result.Cleanup(); err != nil {
		logger.Error("Backend cleanup error", applog.FieldError, err.Error())
	}
	logger.Info("Reminders stopped")
}
