package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"compass/internal/config"
	"compass/internal/frame"
	"compass/internal/history"
	"compass/internal/infrastructure"
	"compass/internal/mlmodel"
	"compass/internal/store"
)

func main() {
	out := flag.String("out", "", "output path for the history artifact (defaults to the configured history path)")
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

	st, err := store.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to open series store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer st.Close()

	model, err := mlmodel.NewContext(cfg.Model.Path, logger)
	if err != nil {
		logger.Error("failed to load model", slog.String("error", err.Error()))
		os.Exit(1)
	}

	outputPath := cfg.Model.HistoryPath
	if *out != "" {
		outputPath = *out
	}

	generator := history.NewGenerator(
		st,
		frame.NewShaper(config.LevelSeries, logger),
		model,
		cfg.Pipeline.RecessionSeries,
		outputPath,
		logger,
	)
	if err := generator.Run(ctx); err != nil {
		logger.Error("history generation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("history artifact written", slog.String("path", outputPath))
}
