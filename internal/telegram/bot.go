// Package telegram answers purchase questions over a Telegram bot.
package telegram

import (
	"context"
	"log/slog"
	"strings"

	"card-optimizer/internal/domain"
	"card-optimizer/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the part of *tgbotapi.BotAPI the bot uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Optimizer interface {
	Optimize(ctx context.Context, query string) service.Response
	Cards(ctx context.Context) ([]domain.Card, error)
}

type Bot struct {
	api Sender
	svc Optimizer
}

func New(api Sender, svc Optimizer) *Bot {
	return &Bot{api: api, svc: svc}
}

// HandleUpdate answers one incoming message. Updates without a message are ignored.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil || update.Message.Chat == nil {
		return
	}
	chatID := update.Message.Chat.ID
	text := sanitizeInput(fixEncoding(update.Message.Text))
	slog.Info("📥 Telegram message", "chat_id", chatID, "text", text)

	msg := tgbotapi.NewMessage(chatID, b.reply(ctx, text))
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		slog.Error("Failed to send Telegram reply", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) reply(ctx context.Context, text string) string {
	command, _, _ := strings.Cut(text, " ")
	// "/cards@MyBot" in group chats
	command, _, _ = strings.Cut(command, "@")

	switch {
	case text == "":
		return "Send me a purchase, e.g. `$45 groceries at Whole Foods`"
	case command == "/start" || command == "/help":
		return helpText
	case command == "/cards":
		cards, err := b.svc.Cards(ctx)
		if err != nil {
			slog.Error("Failed to list cards", "error", err)
			return "❌ Could not load the card catalog"
		}
		return formatCards(cards)
	case strings.HasPrefix(text, "/"):
		return "Unknown command. Try /help"
	default:
		return formatResponse(b.svc.Optimize(ctx, text))
	}
}

// Run long-polls Telegram until ctx is cancelled.
func (b *Bot) Run(ctx context.Context, api *tgbotapi.BotAPI) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)
	defer api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.HandleUpdate(ctx, update)
		}
	}
}
