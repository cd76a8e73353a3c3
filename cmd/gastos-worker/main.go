package main

import (
	"context"
	"errors"
	"os"
	"time"

	"gastos/internal/amqp"
	"gastos/internal/backend"
	"gastos/internal/cli"
	"gastos/internal/core"
	applog "gastos/internal/log"
	"gastos/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.MustLoadConfig()
	logger := cli.SetupLogger(os.Stdout, cfg, applog.ComponentWorker)

	logger.Info("Starting gastos-worker", applog.FieldOperation, applog.OpStartup)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the replication worker")
		os.Exit(1)
	}

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := cli.SignalContext(context.Background(), logger)
	defer cancel()

	remote, err := backend.NewFactory(logger).CreateRemote(ctx, bcfg)
	if err != nil {
		logger.Error("Failed to initialize remote", "error", err, "remote", cfg.SyncRemote)
		os.Exit(1)
	}
	if remote == nil {
		logger.Error("SYNC_REMOTE must name a remote for the replication worker")
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	replicator := worker.NewReplicationWorker(remote, core.DefaultCategoryTable())

	done := make(chan error, 1)
	go func() {
		done <- amqpClient.ConsumeExpenseCreated(ctx, replicator.HandleExpenseCreated)
	}()

	logger.Info("Consuming replication queue", "queue", cfg.AMQPQueue, "remote", cfg.SyncRemote)

	var consumeErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutting down worker...", applog.FieldOperation, applog.OpShutdown)
		select {
		case consumeErr = <-done:
		case <-time.After(30 * time.Second):
			logger.Warn("Shutdown timeout reached")
		}
	case consumeErr = <-done:
	}

	pushed, dropped := replicator.Stats()
	if consumeErr != nil && !errors.Is(consumeErr, context.Canceled) {
		logger.Error("Message consumption failed", "error", consumeErr, "pushed", pushed, "dropped", dropped)
		amqpClient.Close()
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete", "pushed", pushed, "dropped", dropped)
}
