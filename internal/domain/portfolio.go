package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PortfolioItem struct {
	Symbol       string
	Amount       decimal.Decimal
	AveragePrice decimal.Decimal
	AddedAt      time.Time
}

type Portfolio struct {
	ID        uint
	UserID    uint
	Name      string
	Items     []PortfolioItem
	CreatedAt time.Time
	UpdatedAt time.Time
}
