package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pickline/aggregator/internal/app"
	"github.com/pickline/aggregator/internal/config"
	"github.com/pickline/aggregator/internal/observability"
	"github.com/pickline/aggregator/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(zapLevel(cfg.LogLevel))
	logging.SetDefault(logger)
	defer logger.Sync()

	shutdownUptrace, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}
	defer shutdownUptrace(context.Background())

	graph, err := app.NewWorkerGraph(cfg, logger)
	if err != nil {
		logger.Error("build worker graph", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go graph.Worker.Run(ctx)

	logger.Info("scheduler starting")
	if err := graph.Scheduler.Start(ctx); err != nil {
		logger.Error("scheduler start failed", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	graph.Scheduler.Stop()
	logger.Info("worker stopped")
}

func zapLevel(level slog.Level) logging.Level {
	switch {
	case level <= slog.LevelDebug:
		return logging.LevelDebug
	case level <= slog.LevelInfo:
		return logging.LevelInfo
	case level <= slog.LevelWarn:
		return logging.LevelWarn
	default:
		return logging.LevelError
	}
}
