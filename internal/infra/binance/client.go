package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/emrekrt/pandabot/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Client is the free, unauthenticated quote feed. Symbols are bare
// tickers (BTC); Binance trades them against USDT, so the pair suffix is
// appended on the way out and stripped on the way back.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type ticker24h struct {
	Symbol             string `json:"symbol"`
	LastPrice          string `json:"lastPrice"`
	PriceChangePercent string `json:"priceChangePercent"`
}

func (c *Client) Quote(ctx context.Context, symbol string) (*domain.Quote, error) {
	endpoint := fmt.Sprintf("%s/api/v3/ticker/24hr?symbol=%s", c.baseURL, url.QueryEscape(symbol+"USDT"))
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	response, err := c.client.Do(request)
	if err != nil {
		c.logger.Error("binance request failed", zap.String("symbol", symbol), zap.Error(err))
		return nil, err
	}
	defer response.Body.Close()

	c.logger.Debug(
		"binance request complete",
		zap.String("symbol", symbol),
		zap.Int("status", response.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if response.StatusCode == http.StatusBadRequest || response.StatusCode == http.StatusNotFound {
		return nil, domain.ErrSymbolNotFound
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, fmt.Errorf("binance error: status %d", response.StatusCode)
	}

	var payload ticker24h
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return nil, err
	}
	quote, err := mapTicker(payload)
	if err != nil {
		return nil, err
	}
	return quote, nil
}

// Quotes fetches the full 24h ticker table and filters for the requested
// symbols; one round trip regardless of how many symbols are asked for.
// Symbols with no USDT pair are simply absent from the result.
func (c *Client) Quotes(ctx context.Context, symbols []string) ([]domain.Quote, error) {
	endpoint := c.baseURL + "/api/v3/ticker/24hr"
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	response, err := c.client.Do(request)
	if err != nil {
		c.logger.Error("binance batch request failed", zap.Error(err))
		return nil, err
	}
	defer response.Body.Close()

	c.logger.Debug(
		"binance batch request complete",
		zap.Int("symbols", len(symbols)),
		zap.Int("status", response.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, fmt.Errorf("binance error: status %d", response.StatusCode)
	}

	var payload []ticker24h
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(symbols))
	for _, symbol := range symbols {
		wanted[symbol] = true
	}

	quotes := make([]domain.Quote, 0, len(symbols))
	for _, t := range payload {
		base := strings.TrimSuffix(t.Symbol, "USDT")
		if base == t.Symbol || !wanted[base] {
			continue
		}
		quote, err := mapTicker(t)
		if err != nil {
			c.logger.Warn("binance ticker ignored", zap.String("symbol", t.Symbol), zap.Error(err))
			continue
		}
		quotes = append(quotes, *quote)
	}
	return quotes, nil
}

func mapTicker(t ticker24h) (*domain.Quote, error) {
	price, err := decimal.NewFromString(t.LastPrice)
	if err != nil {
		return nil, err
	}
	change, err := decimal.NewFromString(t.PriceChangePercent)
	if err != nil {
		return nil, err
	}
	return &domain.Quote{
		Symbol:       strings.TrimSuffix(t.Symbol, "USDT"),
		Price:        price,
		ChangePct24h: change,
		UpdatedAt:    time.Now(),
	}, nil
}
