package db

import (
	"time"
)

type userModel struct {
	ID             uint   `gorm:"primaryKey"`
	TelegramUserID int64  `gorm:"uniqueIndex;not null"`
	Username       string `gorm:""`
	FirstName      string `gorm:""`
	LastName       string `gorm:""`
	LanguageCode   string `gorm:""`
	IsBlocked      bool   `gorm:"index"`
	LastActiveAt   time.Time `gorm:"index"`
	TotalCommands  int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Prices and thresholds are stored as strings and parsed with
// shopspring/decimal at the boundary; numeric columns would lose
// precision round-tripping through float64.
type alertModel struct {
	ID            uint   `gorm:"primaryKey"`
	UserID        uint   `gorm:"index:idx_alerts_user_status,priority:1;not null"`
	Symbol        string `gorm:"index:idx_alerts_symbol_status,priority:1;not null"`
	ThresholdPct  string `gorm:"not null"`
	BasePrice     string `gorm:"not null"`
	CurrentPrice  string `gorm:"not null"`
	LastTriggered *time.Time
	Status        string `gorm:"index:idx_alerts_user_status,priority:2;index:idx_alerts_symbol_status,priority:2;not null"`
	ShortID       int    `gorm:"uniqueIndex;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type reminderModel struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"index:idx_reminders_user_status,priority:1;not null"`
	Message     string    `gorm:"size:500;not null"`
	RemindAt    time.Time `gorm:"index;not null"`
	Status      string    `gorm:"index:idx_reminders_user_status,priority:2;not null"`
	JobID       string    `gorm:""`
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type noteModel struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;not null"`
	Content   string `gorm:"size:1000;not null"`
	ShortID   int    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type watchlistModel struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"uniqueIndex:idx_watchlists_user_name,priority:1;not null"`
	ListName  string `gorm:"uniqueIndex:idx_watchlists_user_name,priority:2;size:50;not null"`
	Type      string `gorm:"not null"`
	Tickers   []watchlistTickerModel `gorm:"constraint:OnDelete:CASCADE;foreignKey:WatchlistID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type watchlistTickerModel struct {
	ID          uint   `gorm:"primaryKey"`
	WatchlistID uint   `gorm:"uniqueIndex:idx_watchlist_tickers,priority:1;not null"`
	Symbol      string `gorm:"uniqueIndex:idx_watchlist_tickers,priority:2;not null"`
	AddedAt     time.Time
}

type portfolioModel struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"uniqueIndex:idx_portfolios_user_name,priority:1;not null"`
	Name      string `gorm:"uniqueIndex:idx_portfolios_user_name,priority:2;size:50;not null"`
	Items     []portfolioItemModel `gorm:"constraint:OnDelete:CASCADE;foreignKey:PortfolioID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type portfolioItemModel struct {
	ID           uint   `gorm:"primaryKey"`
	PortfolioID  uint   `gorm:"uniqueIndex:idx_portfolio_items,priority:1;not null"`
	Symbol       string `gorm:"uniqueIndex:idx_portfolio_items,priority:2;not null"`
	Amount       string `gorm:"not null"`
	AveragePrice string `gorm:""`
	AddedAt      time.Time
}
