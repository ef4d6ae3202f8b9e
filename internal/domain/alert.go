package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type AlertStatus string

const (
	AlertStatusActive AlertStatus = "active"
	AlertStatusPaused AlertStatus = "paused"
)

// Alert fires when a symbol's price moves by ThresholdPct from the
// BasePrice captured at creation. The sign of ThresholdPct encodes the
// direction: positive triggers on a rise, negative on a fall. A zero
// threshold has no direction and never triggers; creation rejects it.
type Alert struct {
	ID            uint
	UserID        uint
	Symbol        string
	ThresholdPct  decimal.Decimal
	BasePrice     decimal.Decimal
	CurrentPrice  decimal.Decimal
	LastTriggered *time.Time
	Status        AlertStatus
	ShortID       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ChangePercent returns the signed percent move from the base price.
func (a Alert) ChangePercent(current decimal.Decimal) decimal.Decimal {
	if a.BasePrice.IsZero() {
		return decimal.Zero
	}
	return current.Sub(a.BasePrice).Div(a.BasePrice).Mul(decimal.NewFromInt(100))
}
