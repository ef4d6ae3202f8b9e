package cmc

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/emrekrt/pandabot/internal/domain"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Client wraps the CoinMarketCap pro API. Key selection, usage counting
// and block detection live in resty hooks so every call site gets them
// for free, mirroring how the key manager expects to be driven: the key
// is chosen per request, the counter bumps on every response, and a 429
// blocks the slot that sent it.
type Client struct {
	http   *resty.Client
	keys   *KeyManager
	logger *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, keys *KeyManager, logger *zap.Logger) *Client {
	c := &Client{keys: keys, logger: logger}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		req.SetHeader("X-CMC_PRO_API_KEY", keys.ActiveKey())
		return nil
	})
	httpClient.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		keys.IncrementRequestCount()
		if resp.StatusCode() == http.StatusTooManyRequests {
			keys.MarkAsBlocked()
			logger.Warn("cmc rate limit exceeded, key marked as blocked")
		}
		return nil
	})

	c.http = httpClient
	return c
}

type quoteUSD struct {
	Price            float64 `json:"price"`
	PercentChange24H float64 `json:"percent_change_24h"`
	Volume24H        float64 `json:"volume_24h"`
	MarketCap        float64 `json:"market_cap"`
	LastUpdated      string  `json:"last_updated"`
}

type symbolData struct {
	ID                int     `json:"id"`
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name"`
	CirculatingSupply float64 `json:"circulating_supply"`
	Quote             struct {
		USD quoteUSD `json:"USD"`
	} `json:"quote"`
}

type quotesResponse struct {
	Data map[string]symbolData `json:"data"`
}

type listingsResponse struct {
	Data []symbolData `json:"data"`
}

func (c *Client) Quote(ctx context.Context, symbol string) (*domain.Quote, error) {
	quotes, err := c.Quotes(ctx, []string{symbol})
	if err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, domain.ErrSymbolNotFound
	}
	return &quotes[0], nil
}

func (c *Client) Quotes(ctx context.Context, symbols []string) ([]domain.Quote, error) {
	var payload quotesResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("symbol", strings.Join(symbols, ",")).
		SetResult(&payload).
		Get("/cryptocurrency/quotes/latest")
	if err != nil {
		c.logger.Error("cmc quotes request failed", zap.Strings("symbols", symbols), zap.Error(err))
		return nil, err
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, domain.ErrSymbolNotFound
	}
	if resp.IsError() {
		return nil, fmt.Errorf("cmc error: status %d", resp.StatusCode())
	}

	quotes := make([]domain.Quote, 0, len(symbols))
	for _, symbol := range symbols {
		data, ok := payload.Data[symbol]
		if !ok {
			continue
		}
		quotes = append(quotes, mapQuote(data))
	}
	if len(quotes) == 0 {
		return nil, domain.ErrSymbolNotFound
	}
	return quotes, nil
}

func (c *Client) TopCryptos(ctx context.Context, limit int) ([]domain.Quote, error) {
	var payload listingsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"limit":    fmt.Sprintf("%d", limit),
			"sort":     "market_cap",
			"sort_dir": "desc",
		}).
		SetResult(&payload).
		Get("/cryptocurrency/listings/latest")
	if err != nil {
		c.logger.Error("cmc listings request failed", zap.Error(err))
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("cmc error: status %d", resp.StatusCode())
	}

	quotes := make([]domain.Quote, 0, len(payload.Data))
	for _, data := range payload.Data {
		quotes = append(quotes, mapQuote(data))
	}
	return quotes, nil
}

func mapQuote(data symbolData) domain.Quote {
	updated, _ := time.Parse(time.RFC3339, data.Quote.USD.LastUpdated)
	return domain.Quote{
		Symbol:       data.Symbol,
		Name:         data.Name,
		Price:        decimal.NewFromFloat(data.Quote.USD.Price),
		ChangePct24h: decimal.NewFromFloat(data.Quote.USD.PercentChange24H),
		Volume24h:    decimal.NewFromFloat(data.Quote.USD.Volume24H),
		MarketCap:    decimal.NewFromFloat(data.Quote.USD.MarketCap),
		Supply:       decimal.NewFromFloat(data.CirculatingSupply),
		UpdatedAt:    updated,
	}
}
