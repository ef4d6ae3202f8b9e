package usecase

import (
	"context"

	"github.com/emrekrt/pandabot/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type AlertUsecase struct {
	alerts domain.AlertRepository
	prices *PriceUsecase
	logger *zap.Logger
}

func NewAlertUsecase(alerts domain.AlertRepository, prices *PriceUsecase, logger *zap.Logger) *AlertUsecase {
	return &AlertUsecase{alerts: alerts, prices: prices, logger: logger}
}

// Create registers a price alert anchored at the symbol's current price.
// A zero threshold has no direction and is rejected; an identical active
// alert for the same user is rejected as a duplicate.
func (a *AlertUsecase) Create(ctx context.Context, userID uint, symbol string, thresholdPct decimal.Decimal) (*domain.Alert, error) {
	if thresholdPct.IsZero() {
		return nil, ErrInvalidThreshold
	}

	if existing, err := a.alerts.FindActiveDuplicate(ctx, userID, symbol, thresholdPct); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrDuplicateAlert
	}

	quote, err := a.prices.basicQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	alert := &domain.Alert{
		UserID:       userID,
		Symbol:       symbol,
		ThresholdPct: thresholdPct,
		BasePrice:    quote.Price,
		CurrentPrice: quote.Price,
		Status:       domain.AlertStatusActive,
	}
	if err := a.alerts.Create(ctx, alert); err != nil {
		return nil, err
	}

	a.logger.Info(
		"alert created",
		zap.Uint("user_id", userID),
		zap.String("symbol", symbol),
		zap.String("threshold_pct", thresholdPct.String()),
		zap.Int("short_id", alert.ShortID),
	)
	return alert, nil
}

// List returns the user's active alerts with live prices keyed by
// symbol. The price lookup is best-effort; a feed outage still lists
// the alerts, just without fresh prices.
func (a *AlertUsecase) List(ctx context.Context, userID uint, limit int) ([]domain.Alert, map[string]decimal.Decimal, error) {
	alerts, err := a.alerts.ListActiveByUser(ctx, userID, limit)
	if err != nil {
		return nil, nil, err
	}
	if len(alerts) == 0 {
		return alerts, nil, nil
	}

	seen := make(map[string]bool, len(alerts))
	symbols := make([]string, 0, len(alerts))
	for _, alert := range alerts {
		if !seen[alert.Symbol] {
			seen[alert.Symbol] = true
			symbols = append(symbols, alert.Symbol)
		}
	}

	live := make(map[string]decimal.Decimal, len(symbols))
	quotes, err := a.prices.CryptoPrices(ctx, symbols)
	if err != nil {
		a.logger.Warn("live prices unavailable for alert listing", zap.Error(err))
		return alerts, live, nil
	}
	for _, quote := range quotes {
		live[quote.Symbol] = quote.Price
	}
	return alerts, live, nil
}

// Cancel pauses an alert by its short id.
func (a *AlertUsecase) Cancel(ctx context.Context, userID uint, shortID int) error {
	return a.alerts.SetStatus(ctx, userID, shortID, domain.AlertStatusPaused)
}

// DeleteBySymbol removes every alert the user holds on a symbol and
// returns how many went away.
func (a *AlertUsecase) DeleteBySymbol(ctx context.Context, userID uint, symbol string) (int64, error) {
	return a.alerts.DeleteBySymbol(ctx, userID, symbol)
}
