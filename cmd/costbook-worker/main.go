package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"costbook/internal/amqp"
	"costbook/internal/config"
	applog "costbook/internal/log"
	"costbook/internal/worker"
)

func main() {
	// Load .env for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		applog.New(applog.ComponentWorker, 0).Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	level, _ := applog.ParseLevel(cfg.LogLevel)
	logger := applog.New(applog.ComponentWorker, level)
	applog.SetDefault(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the audit worker")
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	auditLog, err := worker.OpenAuditLog(cfg.AuditLogPath)
	if err != nil {
		logger.Error("Failed to open audit log", "error", err, "path", cfg.AuditLogPath)
		os.Exit(1)
	}
	defer auditLog.Close()

	auditWorker := worker.NewAuditWorker(auditLog)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting costbook-worker",
		"queue", cfg.AMQPQueue, "audit_log", cfg.AuditLogPath)

	if err := client.ConsumeEvents(ctx, auditWorker.HandleEvent); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Event consumption failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker stopped")
}
