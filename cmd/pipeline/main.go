package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/avolkov/tourcal/internal/app"
	"github.com/avolkov/tourcal/internal/config"
	"github.com/avolkov/tourcal/internal/observability"
	"github.com/avolkov/tourcal/internal/platform/logging"
	"github.com/avolkov/tourcal/internal/usecase"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	defer logger.Sync()
	logging.SetDefault(logger)

	shutdownUptrace, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}

	stopPyroscope, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		os.Exit(1)
	}

	services, err := app.BuildServices(cfg, logger)
	if err != nil {
		logger.Error("build services", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("pipeline starting",
		"leagues", len(cfg.Leagues),
		"interval", cfg.PipelineInterval.String(),
		"workers", cfg.PipelineWorkers,
	)

	runOnce(ctx, services.Pipeline, logger)

	ticker := time.NewTicker(cfg.PipelineInterval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			runOnce(ctx, services.Pipeline, logger)
		}
	}

	if err := services.Close(); err != nil {
		logger.Error("close services", "error", err)
	}
	if err := stopPyroscope(); err != nil {
		logger.Error("stop pyroscope", "error", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := shutdownUptrace(shutdownCtx); err != nil {
		logger.Error("shutdown uptrace", "error", err)
	}

	logger.Info("pipeline stopped")
}

func runOnce(ctx context.Context, pipeline *usecase.PipelineService, logger *logging.Logger) {
	report, err := pipeline.RunAll(ctx)
	if err != nil {
		logger.WarnContext(ctx, "pipeline run interrupted", "error", err)
	}

	logger.InfoContext(ctx, "pipeline run finished",
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"duration", report.Duration.String(),
	)
	for _, row := range report.Leagues {
		if row.Err == "" {
			continue
		}
		logger.WarnContext(ctx, "league run failed", "league_id", row.LeagueID, "error", row.Err)
	}
}
