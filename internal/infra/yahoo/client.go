package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/emrekrt/pandabot/internal/domain"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Client fetches stock quotes from the Yahoo Finance v7 endpoint.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Client{http: httpClient, logger: logger}
}

type quoteResult struct {
	Symbol                     string  `json:"symbol"`
	ShortName                  string  `json:"shortName"`
	Currency                   string  `json:"currency"`
	MarketState                string  `json:"marketState"`
	RegularMarketPrice         float64 `json:"regularMarketPrice"`
	RegularMarketPreviousClose float64 `json:"regularMarketPreviousClose"`
	RegularMarketChange        float64 `json:"regularMarketChange"`
	RegularMarketChangePercent float64 `json:"regularMarketChangePercent"`
}

type quoteResponse struct {
	QuoteResponse struct {
		Result []quoteResult `json:"result"`
	} `json:"quoteResponse"`
}

// Quote resolves a symbol, retrying with the .IS suffix for plain 4-5
// letter tickers so BIST stocks work without the suffix while US symbols
// like TSLA still resolve as-is.
func (c *Client) Quote(ctx context.Context, symbol string) (*domain.StockQuote, error) {
	quote, err := c.fetch(ctx, symbol)
	if err == nil {
		return quote, nil
	}

	if errors.Is(err, domain.ErrSymbolNotFound) && !strings.Contains(symbol, ".") && len(symbol) >= 4 && len(symbol) <= 5 {
		return c.fetch(ctx, symbol+".IS")
	}
	return nil, err
}

func (c *Client) fetch(ctx context.Context, symbol string) (*domain.StockQuote, error) {
	var payload quoteResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("symbols", symbol).
		SetResult(&payload).
		Get("/v7/finance/quote")
	if err != nil {
		c.logger.Error("yahoo request failed", zap.String("symbol", symbol), zap.Error(err))
		return nil, err
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, domain.ErrSymbolNotFound
	}
	if resp.IsError() {
		return nil, fmt.Errorf("yahoo error: status %d", resp.StatusCode())
	}

	for _, result := range payload.QuoteResponse.Result {
		price := result.RegularMarketPrice
		if price == 0 {
			price = result.RegularMarketPreviousClose
		}
		if price == 0 {
			continue
		}

		name := result.ShortName
		if name == "" {
			name = symbol
		}
		currency := result.Currency
		if currency == "" {
			currency = "USD"
		}

		return &domain.StockQuote{
			Symbol:       result.Symbol,
			Name:         name,
			Price:        decimal.NewFromFloat(price),
			Change:       decimal.NewFromFloat(result.RegularMarketChange),
			ChangePct:    decimal.NewFromFloat(result.RegularMarketChangePercent),
			Currency:     currency,
			MarketState:  result.MarketState,
			MarketClosed: result.MarketState == "CLOSED",
		}, nil
	}
	return nil, domain.ErrSymbolNotFound
}
