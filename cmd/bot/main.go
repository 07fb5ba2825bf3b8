package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/avolkov/tourcal/internal/app"
	"github.com/avolkov/tourcal/internal/config"
	"github.com/avolkov/tourcal/internal/interfaces/telegram"
	"github.com/avolkov/tourcal/internal/platform/logging"
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

	if !cfg.TelegramEnabled {
		logger.Error("telegram bot is disabled, set TELEGRAM_ENABLED=true")
		os.Exit(1)
	}

	services, err := app.BuildServices(cfg, logger)
	if err != nil {
		logger.Error("build services", "error", err)
		os.Exit(1)
	}

	bot, err := telegram.NewBot(cfg.TelegramBotToken, services.Query, logger)
	if err != nil {
		logger.Error("build telegram bot", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("telegram bot starting")
	if err := bot.Run(ctx); err != nil {
		logger.Error("telegram bot failed", "error", err)
	}

	if err := services.Close(); err != nil {
		logger.Error("close services", "error", err)
	}

	logger.Info("telegram bot stopped")
}
