package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"report-dashboard/internal/app"
	"report-dashboard/internal/config"
	"report-dashboard/internal/logging"
)

// @title Report Dashboard API
// @version 1.0
// @description Snapshot store and KPI engine behind the reporting dashboard.
// @host localhost:8080
// @BasePath /api/v1
func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	a, err := app.Initialize(cfg, logger)
	if err != nil {
		logger.Fatal("Unable to initialize app", zap.Error(err))
	}
	if err := a.Start(ctx); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}
