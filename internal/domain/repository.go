package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrInsufficientHoldings rejects reducing a position by more than
	// is held.
	ErrInsufficientHoldings = errors.New("insufficient holdings")
)

type UserRepository interface {
	// Upsert creates or refreshes the user row from the latest Telegram
	// profile and bumps the command counter. Reports whether the row was
	// newly created.
	Upsert(ctx context.Context, user *User) (bool, error)
	GetByTelegramID(ctx context.Context, telegramUserID int64) (*User, error)
	GetByID(ctx context.Context, userID uint) (*User, error)
	SetBlocked(ctx context.Context, telegramUserID int64, blocked bool) error
	List(ctx context.Context, offset, limit int) ([]User, error)
	ListTelegramIDs(ctx context.Context) ([]int64, error)
	Count(ctx context.Context) (int64, error)
	CountActiveSince(ctx context.Context, since time.Time) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	CountBlocked(ctx context.Context) (int64, error)
}

type AlertRepository interface {
	Create(ctx context.Context, alert *Alert) error
	ListActive(ctx context.Context) ([]Alert, error)
	ListActiveByUser(ctx context.Context, userID uint, limit int) ([]Alert, error)
	// FindActiveDuplicate returns the user's active alert with the same
	// symbol and threshold, or nil, nil when none exists.
	FindActiveDuplicate(ctx context.Context, userID uint, symbol string, thresholdPct decimal.Decimal) (*Alert, error)
	GetByShortID(ctx context.Context, userID uint, shortID int) (*Alert, error)
	SetStatus(ctx context.Context, userID uint, shortID int, status AlertStatus) error
	DeleteBySymbol(ctx context.Context, userID uint, symbol string) (int64, error)
	// UpdateObservation persists the latest observed price and, when the
	// alert fired, the trigger timestamp.
	UpdateObservation(ctx context.Context, alertID uint, currentPrice decimal.Decimal, triggeredAt *time.Time) error
	CountByStatus(ctx context.Context, status AlertStatus) (int64, error)
}

type ReminderRepository interface {
	Create(ctx context.Context, reminder *Reminder) error
	// Get looks a reminder up by primary key alone; the queue worker has
	// no user scope.
	Get(ctx context.Context, reminderID uint) (*Reminder, error)
	GetByID(ctx context.Context, userID uint, reminderID uint) (*Reminder, error)
	ListActiveByUser(ctx context.Context, userID uint, limit int) ([]Reminder, error)
	SetJobID(ctx context.Context, reminderID uint, jobID string) error
	MarkCompleted(ctx context.Context, reminderID uint) error
	MarkCancelled(ctx context.Context, reminderID uint) error
	CountByStatus(ctx context.Context, status ReminderStatus) (int64, error)
	CountCompletedSince(ctx context.Context, since time.Time) (int64, error)
}

type NoteRepository interface {
	Create(ctx context.Context, note *Note) error
	ListByUser(ctx context.Context, userID uint, limit int) ([]Note, error)
	Search(ctx context.Context, userID uint, term string, limit int) ([]Note, error)
	GetByShortID(ctx context.Context, userID uint, shortID int) (*Note, error)
	UpdateContent(ctx context.Context, userID uint, shortID int, content string) error
	Delete(ctx context.Context, userID uint, shortID int) error
	Count(ctx context.Context) (int64, error)
}

type WatchlistRepository interface {
	// Replace creates the list or overwrites its ticker set.
	Replace(ctx context.Context, list *Watchlist) error
	GetByName(ctx context.Context, userID uint, listName string) (*Watchlist, error)
	ListByUser(ctx context.Context, userID uint) ([]Watchlist, error)
	AddTickers(ctx context.Context, userID uint, listName string, symbols []string) (added []string, err error)
	RemoveTicker(ctx context.Context, userID uint, listName string, symbol string) error
	Delete(ctx context.Context, userID uint, listName string) error
	Count(ctx context.Context) (int64, error)
}

type PortfolioRepository interface {
	GetByName(ctx context.Context, userID uint, name string) (*Portfolio, error)
	ListByUser(ctx context.Context, userID uint) ([]Portfolio, error)
	// AddItem creates the portfolio on first use and accumulates amount,
	// recomputing the weighted average price.
	AddItem(ctx context.Context, userID uint, name, symbol string, amount, price decimal.Decimal) error
	// ReduceItem subtracts amount, removing the item when it reaches zero.
	// Reducing past the held amount fails with ErrInsufficientHoldings.
	ReduceItem(ctx context.Context, userID uint, name, symbol string, amount decimal.Decimal) error
	Delete(ctx context.Context, userID uint, name string) error
	Count(ctx context.Context) (int64, error)
}
