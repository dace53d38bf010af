// cmd/bot/main.go
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"card-optimizer/internal/app"
	"card-optimizer/internal/config"
	"card-optimizer/internal/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {
	cfg := config.MustLoad()
	if err := config.SetupLogging(os.Stdout, cfg.LogLevel, cfg.LogFormat); err != nil {
		slog.Error("Invalid logging configuration", "error", err)
		os.Exit(1)
	}
	if cfg.TelegramToken == "" {
		slog.Error("TELEGRAM_BOT_TOKEN not set")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, app.Options{SeedDemo: true})
	if err != nil {
		slog.Error("Failed to start", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		slog.Error("Failed to connect to Telegram", "error", err)
		os.Exit(1)
	}
	// long polling does not work while a webhook is registered
	if _, err := api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		slog.Warn("Failed to remove webhook", "error", err)
	}

	slog.Info("Bot started", "username", api.Self.UserName)
	telegram.New(api, a.Service).Run(ctx, api)
	slog.Info("Bot stopped")
}
