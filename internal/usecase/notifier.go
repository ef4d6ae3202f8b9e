package usecase

import "context"

// Notifier pushes a message to a user outside the request/response flow
// of a command. Implementations return ErrRecipientBlocked when the
// transport reports the user has blocked the bot.
type Notifier interface {
	Notify(ctx context.Context, telegramUserID int64, text string) error
}
