package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// UpdateHandler processes one Telegram update.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update)
}

// TelegramWebhook accepts updates pushed by Telegram.
func TelegramWebhook(bot UpdateHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var update tgbotapi.Update
		if err := c.ShouldBindJSON(&update); err != nil {
			slog.Error("Failed to parse Telegram update", "error", err)
			c.Status(http.StatusBadRequest)
			return
		}
		if update.Message != nil {
			bot.HandleUpdate(c.Request.Context(), update)
		}
		c.Status(http.StatusOK)
	}
}
