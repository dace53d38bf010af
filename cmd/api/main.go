// cmd/api/main.go
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

	"card-optimizer/internal/app"
	"card-optimizer/internal/auth"
	"card-optimizer/internal/config"
	"card-optimizer/internal/handler"
	"card-optimizer/internal/telegram"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {
	cfg := config.MustLoad()
	if err := config.SetupLogging(os.Stdout, cfg.LogLevel, cfg.LogFormat); err != nil {
		slog.Error("Invalid logging configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, app.Options{SeedDemo: true})
	if err != nil {
		slog.Error("Failed to start", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Error("Failed to close storage", "error", err)
		}
	}()

	routes := handler.Routes{
		Service: a.Service,
		Cards:   a.Store,
		Tokens:  auth.NewTokenService(cfg),
	}

	// Telegram webhook
	if cfg.TelegramToken != "" {
		bot, err := setupWebhook(cfg)
		if err != nil {
			slog.Error("Failed to initialize Telegram bot", "error", err)
			os.Exit(1)
		}
		routes.Bot = telegram.New(bot, a.Service)
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              cfg.ServerPort,
		Handler:           handler.NewRouter(routes),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("🚀 Server started", "addr", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server stopped with error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
	slog.Info("Server stopped")
}

func setupWebhook(cfg config.Config) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, err
	}
	if cfg.WebhookBaseURL == "" {
		slog.Warn("WEBHOOK_BASE_URL not set, Telegram webhook not registered")
		return bot, nil
	}

	webhookURL := cfg.WebhookBaseURL + "/telegram"
	wh, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return nil, err
	}
	if _, err := bot.Request(wh); err != nil {
		return nil, err
	}
	slog.Info("Telegram webhook registered", "url", webhookURL, "bot", bot.Self.UserName)
	return bot, nil
}
