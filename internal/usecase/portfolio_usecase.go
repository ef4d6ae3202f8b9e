package usecase

import (
	"context"

	"github.com/emrekrt/pandabot/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Position is one holding valued at the current market price.
type Position struct {
	Symbol       string
	Amount       decimal.Decimal
	AveragePrice decimal.Decimal
	CurrentPrice decimal.Decimal
	Value        decimal.Decimal
	PnL          decimal.Decimal
	PnLPct       decimal.Decimal
}

// PortfolioValuation is a portfolio priced against the market. Holdings
// whose symbol no feed answered for keep a zero current price and are
// listed in Unpriced.
type PortfolioValuation struct {
	Portfolio  domain.Portfolio
	Positions  []Position
	TotalValue decimal.Decimal
	TotalCost  decimal.Decimal
	TotalPnL   decimal.Decimal
	Unpriced   []string
}

type PortfolioUsecase struct {
	portfolios domain.PortfolioRepository
	prices     *PriceUsecase
	logger     *zap.Logger
}

func NewPortfolioUsecase(portfolios domain.PortfolioRepository, prices *PriceUsecase, logger *zap.Logger) *PortfolioUsecase {
	return &PortfolioUsecase{portfolios: portfolios, prices: prices, logger: logger}
}

// Add buys into a position. When the caller gives no price the current
// market price is used, so "bought just now" is the default.
func (p *PortfolioUsecase) Add(ctx context.Context, userID uint, name, symbol string, amount, price decimal.Decimal) error {
	if price.IsZero() {
		quote, err := p.prices.basicQuote(ctx, symbol)
		if err != nil {
			return err
		}
		price = quote.Price
	}
	return p.portfolios.AddItem(ctx, userID, name, symbol, amount, price)
}

func (p *PortfolioUsecase) Reduce(ctx context.Context, userID uint, name, symbol string, amount decimal.Decimal) error {
	return p.portfolios.ReduceItem(ctx, userID, name, symbol, amount)
}

func (p *PortfolioUsecase) Delete(ctx context.Context, userID uint, name string) error {
	return p.portfolios.Delete(ctx, userID, name)
}

func (p *PortfolioUsecase) ListByUser(ctx context.Context, userID uint) ([]domain.Portfolio, error) {
	return p.portfolios.ListByUser(ctx, userID)
}

// Value prices every holding and computes P&L against the weighted
// average purchase price.
func (p *PortfolioUsecase) Value(ctx context.Context, userID uint, name string) (*PortfolioValuation, error) {
	portfolio, err := p.portfolios.GetByName(ctx, userID, name)
	if err != nil {
		return nil, err
	}

	symbols := make([]string, 0, len(portfolio.Items))
	for _, item := range portfolio.Items {
		symbols = append(symbols, item.Symbol)
	}

	live := make(map[string]decimal.Decimal, len(symbols))
	if len(symbols) > 0 {
		quotes, err := p.prices.CryptoPrices(ctx, symbols)
		if err != nil {
			p.logger.Warn("portfolio pricing degraded", zap.String("portfolio", name), zap.Error(err))
		}
		for _, quote := range quotes {
			live[quote.Symbol] = quote.Price
		}
	}

	valuation := &PortfolioValuation{Portfolio: *portfolio}
	for _, item := range portfolio.Items {
		position := Position{
			Symbol:       item.Symbol,
			Amount:       item.Amount,
			AveragePrice: item.AveragePrice,
		}
		cost := item.Amount.Mul(item.AveragePrice)
		valuation.TotalCost = valuation.TotalCost.Add(cost)

		current, ok := live[item.Symbol]
		if !ok {
			valuation.Unpriced = append(valuation.Unpriced, item.Symbol)
			valuation.Positions = append(valuation.Positions, position)
			continue
		}

		position.CurrentPrice = current
		position.Value = item.Amount.Mul(current)
		position.PnL = position.Value.Sub(cost)
		if !cost.IsZero() {
			position.PnLPct = position.PnL.Div(cost).Mul(decimal.NewFromInt(100))
		}

		valuation.TotalValue = valuation.TotalValue.Add(position.Value)
		valuation.TotalPnL = valuation.TotalPnL.Add(position.PnL)
		valuation.Positions = append(valuation.Positions, position)
	}
	return valuation, nil
}
