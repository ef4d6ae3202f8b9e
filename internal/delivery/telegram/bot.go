package telegram

import (
	"context"
	"strings"

	"github.com/emrekrt/pandabot/internal/usecase"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Bot struct {
	api         *tgbotapi.BotAPI
	handlers    *Handlers
	pollTimeout int
}

func NewAPI(token string) (*tgbotapi.BotAPI, error) {
	return tgbotapi.NewBotAPI(token)
}

func NewBot(api *tgbotapi.BotAPI, handlers *Handlers, pollTimeout int) *Bot {
	return &Bot{api: api, handlers: handlers, pollTimeout: pollTimeout}
}

// Start consumes the long-poll channel until ctx is cancelled. Every
// update is handled in its own goroutine so one slow feed call does not
// stall the queue.
func (b *Bot) Start(ctx context.Context) error {
	config := tgbotapi.NewUpdate(0)
	config.Timeout = b.pollTimeout
	updates := b.api.GetUpdatesChan(config)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handlers.HandleUpdate(ctx, b.api, update)
		}
	}
}

type Notifier struct {
	api    *tgbotapi.BotAPI
	logger *zap.Logger
}

func NewNotifier(api *tgbotapi.BotAPI, logger *zap.Logger) *Notifier {
	return &Notifier{api: api, logger: logger}
}

func (n *Notifier) Notify(ctx context.Context, telegramUserID int64, text string) error {
	msg := tgbotapi.NewMessage(telegramUserID, text)
	if _, err := n.api.Send(msg); err != nil {
		if strings.Contains(err.Error(), "bot was blocked by the user") ||
			strings.Contains(err.Error(), "user is deactivated") {
			return usecase.ErrRecipientBlocked
		}
		n.logger.Warn("failed to notify", zap.Int64("telegram_user_id", telegramUserID), zap.Error(err))
		return err
	}
	return nil
}
