package domain

import "time"

type User struct {
	ID             uint
	TelegramUserID int64
	Username       string
	FirstName      string
	LastName       string
	LanguageCode   string
	IsBlocked      bool
	LastActiveAt   time.Time
	TotalCommands  int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
