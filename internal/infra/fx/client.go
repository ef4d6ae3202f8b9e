package fx

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Client reads spot FX rates from the exchangerate-api free endpoint.
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

type ratesResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

func (c *Client) USDTRY(ctx context.Context) (decimal.Decimal, error) {
	var payload ratesResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&payload).
		Get("/v4/latest/USD")
	if err != nil {
		c.logger.Error("fx request failed", zap.Error(err))
		return decimal.Zero, err
	}
	if resp.IsError() {
		return decimal.Zero, fmt.Errorf("fx error: status %d", resp.StatusCode())
	}

	rate, ok := payload.Rates["TRY"]
	if !ok || rate == 0 {
		return decimal.Zero, fmt.Errorf("fx response missing TRY rate")
	}
	return decimal.NewFromFloat(rate), nil
}
