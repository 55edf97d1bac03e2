package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"compass/internal/config"
	"compass/internal/fred"
	"compass/internal/infrastructure"
	"compass/internal/services"
	"compass/internal/store"
)

func main() {
	timeout := flag.Duration("timeout", 10*time.Minute, "overall deadline for the refresh run")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, closeLogger, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer closeLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, *timeout)
	defer cancelTimeout()

	st, err := store.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to open series store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer st.Close()

	client, err := fred.NewClient(cfg.FRED, logger)
	if err != nil {
		logger.Error("failed to create FRED client", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fetcher := services.NewFetchService(client, st, cfg.FRED.MaxConcurrent, logger)
	refreshed, err := fetcher.RefreshAll(ctx)
	if err != nil {
		logger.Error("refresh run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("refresh run complete", slog.Int("series_refreshed", refreshed))
}
