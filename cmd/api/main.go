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

	stopPyroscope, err := observability.InitPyroscope(cfg, slog.Default())
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		os.Exit(1)
	}
	defer stopPyroscope()

	pprofSrv, err := observability.StartPprofServer(cfg, slog.Default())
	if err != nil {
		logger.Error("start pprof server", "error", err)
		os.Exit(1)
	}
	defer observability.StopPprofServer(pprofSrv, slog.Default(), 5*time.Second)

	srv, err := app.NewHTTPServer(cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}

	go func() {
		logger.Info("http server starting", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	logger.Info("http server stopped")
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
