package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrSymbolNotFound = errors.New("symbol not found")

// Quote is the normalized shape every price feed maps into.
type Quote struct {
	Symbol       string
	Name         string
	Price        decimal.Decimal
	ChangePct24h decimal.Decimal
	Volume24h    decimal.Decimal
	MarketCap    decimal.Decimal
	Supply       decimal.Decimal
	UpdatedAt    time.Time
}

// QuoteProvider is the unauthenticated crypto feed (Binance).
type QuoteProvider interface {
	Quote(ctx context.Context, symbol string) (*Quote, error)
	Quotes(ctx context.Context, symbols []string) ([]Quote, error)
}

// DetailProvider is the keyed feed with richer market data (CMC).
type DetailProvider interface {
	Quote(ctx context.Context, symbol string) (*Quote, error)
	Quotes(ctx context.Context, symbols []string) ([]Quote, error)
	TopCryptos(ctx context.Context, limit int) ([]Quote, error)
}

type StockQuote struct {
	Symbol       string
	Name         string
	Price        decimal.Decimal
	Change       decimal.Decimal
	ChangePct    decimal.Decimal
	Currency     string
	MarketState  string
	MarketClosed bool
}

type StockProvider interface {
	Quote(ctx context.Context, symbol string) (*StockQuote, error)
}

type RateProvider interface {
	USDTRY(ctx context.Context) (decimal.Decimal, error)
}

// Completion is one answer from the AI provider, with token counts for
// the cost line appended to replies.
type Completion struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

type AIProvider interface {
	Complete(ctx context.Context, prompt string) (*Completion, error)
}
