package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/emrekrt/pandabot/internal/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// QuoteCache fronts the keyed market-data feed with a redis TTL cache so
// repeated lookups of popular symbols do not burn API-key quota. Cache
// failures degrade to a direct fetch, never to an error.
type QuoteCache struct {
	next   domain.DetailProvider
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewQuoteCache(next domain.DetailProvider, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *QuoteCache {
	return &QuoteCache{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func quoteKey(symbol string) string {
	return "quote:" + symbol
}

func (c *QuoteCache) Quote(ctx context.Context, symbol string) (*domain.Quote, error) {
	if quote := c.get(ctx, symbol); quote != nil {
		return quote, nil
	}

	quote, err := c.next.Quote(ctx, symbol)
	if err != nil {
		return nil, err
	}
	c.put(ctx, *quote)
	return quote, nil
}

func (c *QuoteCache) Quotes(ctx context.Context, symbols []string) ([]domain.Quote, error) {
	cached := make([]domain.Quote, 0, len(symbols))
	var missing []string
	for _, symbol := range symbols {
		if quote := c.get(ctx, symbol); quote != nil {
			cached = append(cached, *quote)
			continue
		}
		missing = append(missing, symbol)
	}
	if len(missing) == 0 {
		return cached, nil
	}

	fetched, err := c.next.Quotes(ctx, missing)
	if err != nil {
		if len(cached) > 0 {
			c.logger.Warn("quote fetch failed, serving cached subset", zap.Error(err))
			return cached, nil
		}
		return nil, err
	}
	for _, quote := range fetched {
		c.put(ctx, quote)
	}
	return append(cached, fetched...), nil
}

// TopCryptos is not cached; the listing endpoint is only hit from the
// rankings command and its payload churns with every market move.
func (c *QuoteCache) TopCryptos(ctx context.Context, limit int) ([]domain.Quote, error) {
	return c.next.TopCryptos(ctx, limit)
}

func (c *QuoteCache) get(ctx context.Context, symbol string) *domain.Quote {
	data, err := c.rdb.Get(ctx, quoteKey(symbol)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("quote cache read failed", zap.String("symbol", symbol), zap.Error(err))
		}
		return nil
	}
	var quote domain.Quote
	if err := json.Unmarshal(data, &quote); err != nil {
		return nil
	}
	return &quote
}

func (c *QuoteCache) put(ctx context.Context, quote domain.Quote) {
	data, err := json.Marshal(quote)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, quoteKey(quote.Symbol), data, c.ttl).Err(); err != nil {
		c.logger.Warn("quote cache write failed", zap.String("symbol", quote.Symbol), zap.Error(err))
	}
}
