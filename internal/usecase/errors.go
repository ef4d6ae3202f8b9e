package usecase

import "errors"

var (
	ErrInvalidThreshold  = errors.New("threshold must be a non-zero percentage")
	ErrDuplicateAlert    = errors.New("an identical active alert already exists")
	ErrTimeNotRecognized = errors.New("no time expression recognized")
	ErrEmptyReminder     = errors.New("reminder has no message")
	ErrEmptyNote         = errors.New("note has no content")
	ErrMessageTooLong    = errors.New("message exceeds the allowed length")
	ErrRecipientBlocked  = errors.New("recipient has blocked the bot")
	ErrRateLimited       = errors.New("rate limit exceeded")
	ErrEmptyWatchlist    = errors.New("watchlist has no tickers")
)
