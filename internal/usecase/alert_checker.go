package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/emrekrt/pandabot/internal/domain"
	"github.com/emrekrt/pandabot/internal/infra/metrics"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AlertChecker runs the periodic evaluation cycle over every active
// alert. Quotes come from the live stream table where fresh and one
// REST batch call for the rest; a symbol whose price cannot be
// determined is skipped for this cycle without touching its alerts or
// the other symbols.
type AlertChecker struct {
	alerts   domain.AlertRepository
	users    domain.UserRepository
	stream   QuoteStream
	quotes   domain.QuoteProvider
	notifier Notifier
	cooldown time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

func NewAlertChecker(
	alerts domain.AlertRepository,
	users domain.UserRepository,
	stream QuoteStream,
	quotes domain.QuoteProvider,
	notifier Notifier,
	cooldown time.Duration,
	logger *zap.Logger,
) *AlertChecker {
	return &AlertChecker{
		alerts:   alerts,
		users:    users,
		stream:   stream,
		quotes:   quotes,
		notifier: notifier,
		cooldown: cooldown,
		logger:   logger,
		now:      time.Now,
	}
}

func (c *AlertChecker) RunCycle(ctx context.Context) {
	alerts, err := c.alerts.ListActive(ctx)
	if err != nil {
		c.logger.Error("alert cycle aborted, listing failed", zap.Error(err))
		return
	}
	if len(alerts) == 0 {
		return
	}

	bySymbol := make(map[string][]domain.Alert)
	for _, alert := range alerts {
		bySymbol[alert.Symbol] = append(bySymbol[alert.Symbol], alert)
	}
	symbols := make([]string, 0, len(bySymbol))
	for symbol := range bySymbol {
		symbols = append(symbols, symbol)
	}

	prices := c.fetchPrices(ctx, symbols)

	evaluated, triggered := 0, 0
	for symbol, group := range bySymbol {
		price, ok := prices[symbol]
		if !ok {
			c.logger.Warn("alert symbol skipped this cycle", zap.String("symbol", symbol))
			continue
		}
		for _, alert := range group {
			evaluated++
			if c.evaluate(ctx, alert, price) {
				triggered++
			}
		}
	}

	c.logger.Info(
		"alert cycle complete",
		zap.Int("active", len(alerts)),
		zap.Int("evaluated", evaluated),
		zap.Int("triggered", triggered),
	)
}

func (c *AlertChecker) fetchPrices(ctx context.Context, symbols []string) map[string]decimal.Decimal {
	prices := make(map[string]decimal.Decimal, len(symbols))

	fresh, missing := c.stream.Lookup(symbols)
	for _, quote := range fresh {
		prices[quote.Symbol] = quote.Price
	}

	if len(missing) > 0 {
		quotes, err := c.quotes.Quotes(ctx, missing)
		if err != nil {
			c.logger.Error("alert cycle batch quote failed", zap.Int("symbols", len(missing)), zap.Error(err))
		} else {
			for _, quote := range quotes {
				prices[quote.Symbol] = quote.Price
			}
		}
	}
	return prices
}

// evaluate applies the signed threshold to one alert and reports whether
// it fired. The observed price is persisted regardless of the outcome,
// and a notification failure does not block persisting the trigger.
func (c *AlertChecker) evaluate(ctx context.Context, alert domain.Alert, price decimal.Decimal) bool {
	change := alert.ChangePercent(price)
	now := c.now()

	fired := c.crossed(alert.ThresholdPct, change)
	if fired && alert.LastTriggered != nil && now.Sub(*alert.LastTriggered) < c.cooldown {
		fired = false
	}

	var triggeredAt *time.Time
	if fired {
		triggeredAt = &now
		metrics.AlertsTriggeredTotal.Inc()
		c.notify(ctx, alert, price, change)
	}

	if err := c.alerts.UpdateObservation(ctx, alert.ID, price, triggeredAt); err != nil {
		c.logger.Error("alert observation not persisted", zap.Uint("alert_id", alert.ID), zap.Error(err))
	}
	return fired
}

// crossed: a positive threshold fires when the change has risen at least
// that far, a negative one when it has fallen at least that far. Zero
// never fires.
func (c *AlertChecker) crossed(threshold, change decimal.Decimal) bool {
	switch threshold.Sign() {
	case 1:
		return change.GreaterThanOrEqual(threshold)
	case -1:
		return change.LessThanOrEqual(threshold)
	default:
		return false
	}
}

func (c *AlertChecker) notify(ctx context.Context, alert domain.Alert, price, change decimal.Decimal) {
	user, err := c.users.GetByID(ctx, alert.UserID)
	if err != nil {
		c.logger.Error("alert owner lookup failed", zap.Uint("alert_id", alert.ID), zap.Error(err))
		return
	}

	direction := "📈"
	if change.Sign() < 0 {
		direction = "📉"
	}
	text := fmt.Sprintf(
		"🚨 %s %s alarm #%d\n%s: $%s (%s%%)\nBaşlangıç: $%s | Eşik: %s%%",
		direction, alert.Symbol, alert.ShortID,
		alert.Symbol, price.StringFixed(4), change.StringFixed(2),
		alert.BasePrice.StringFixed(4), alert.ThresholdPct.String(),
	)

	if err := c.notifier.Notify(ctx, user.TelegramUserID, text); err != nil {
		if errors.Is(err, ErrRecipientBlocked) {
			c.logger.Warn("alert recipient blocked the bot", zap.Int64("telegram_user_id", user.TelegramUserID))
			return
		}
		c.logger.Error(
			"alert notification failed",
			zap.Uint("alert_id", alert.ID),
			zap.Int64("telegram_user_id", user.TelegramUserID),
			zap.Error(err),
		)
	}
}
