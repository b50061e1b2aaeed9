package main

import (
	"os"
	"time"

	"lapak/internal/amqp"
	"lapak/internal/cli"
	"lapak/internal/services"
	"lapak/internal/worker"
)

const refreshInterval = 15 * time.Minute

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	logger := cli.SetupLogger("lapak-worker")
	logger.Info("Starting lapak-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	store := cli.InitStore(logger, cfg)
	defer store.Close()

	catalog, err := cfg.LoadCatalog()
	if err != nil {
		logger.Error("Failed to load product catalog", "error", err, "path", cfg.CatalogPath)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	service := services.NewLedgerService(store, nil, catalog, cfg.Rates())
	refreshWorker := worker.NewRefreshWorker(service)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	// Run returns nil on a signal-driven cancel and an error when
	// consumption dies; only the clean path waits out the shutdown.
	if err := refreshWorker.Run(ctx, amqpClient.ConsumeChanges, refreshInterval); err != nil {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
