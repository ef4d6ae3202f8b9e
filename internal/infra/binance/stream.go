package binance

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/emrekrt/pandabot/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Stream keeps an in-memory table of the latest miniTicker for every
// USDT pair, fed by the Binance combined stream. Lookups that find a
// fresh entry save a REST round trip; stale or missing entries make the
// caller fall back to the REST client. The table is not authoritative
// for anything persisted.
type Stream struct {
	url       string
	dialer    *websocket.Dialer
	staleness time.Duration
	logger    *zap.Logger

	mu     sync.RWMutex
	latest map[string]domain.Quote
}

func NewStream(url string, staleness time.Duration, logger *zap.Logger) *Stream {
	return &Stream{
		url: url,
		dialer: &websocket.Dialer{
			Proxy: http.ProxyFromEnvironment,
		},
		staleness: staleness,
		logger:    logger,
		latest:    make(map[string]domain.Quote),
	}
}

// Run connects and consumes ticker frames until ctx is cancelled,
// redialing with a flat backoff after read or connect failures.
func (s *Stream) Run(ctx context.Context) {
	const redialDelay = 5 * time.Second

	for {
		if err := s.consume(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Warn("binance stream interrupted", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(redialDelay):
		}
	}
}

func (s *Stream) consume(ctx context.Context) error {
	s.logger.Info("binance stream connect", zap.String("url", s.url))
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		s.ingest(data)
	}
}

type miniTicker struct {
	Symbol string `json:"s"`
	Close  string `json:"c"`
	Open   string `json:"o"`
}

func (s *Stream) ingest(data []byte) {
	var tickers []miniTicker
	if err := json.Unmarshal(data, &tickers); err != nil {
		s.logger.Debug("binance stream frame ignored", zap.Error(err))
		return
	}

	now := time.Now()
	hundred := decimal.NewFromInt(100)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tickers {
		base := strings.TrimSuffix(t.Symbol, "USDT")
		if base == t.Symbol {
			continue
		}
		price, err := decimal.NewFromString(t.Close)
		if err != nil {
			continue
		}
		open, err := decimal.NewFromString(t.Open)
		if err != nil || open.IsZero() {
			continue
		}
		change := price.Sub(open).Div(open).Mul(hundred)
		s.latest[base] = domain.Quote{
			Symbol:       base,
			Price:        price,
			ChangePct24h: change,
			UpdatedAt:    now,
		}
	}
}

// Lookup returns the cached quotes that are still fresh, plus the
// symbols that need a REST fetch.
func (s *Stream) Lookup(symbols []string) (fresh []domain.Quote, missing []string) {
	cutoff := time.Now().Add(-s.staleness)

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, symbol := range symbols {
		quote, ok := s.latest[symbol]
		if !ok || quote.UpdatedAt.Before(cutoff) {
			missing = append(missing, symbol)
			continue
		}
		fresh = append(fresh, quote)
	}
	return fresh, missing
}
