package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/emrekrt/pandabot/internal/domain"
	"go.uber.org/zap"
)

func quoteServer(t *testing.T, known map[string]float64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		symbol := r.URL.Query().Get("symbols")
		price, ok := known[symbol]
		if !ok {
			fmt.Fprint(w, `{"quoteResponse":{"result":[]}}`)
			return
		}
		fmt.Fprintf(w, `{"quoteResponse":{"result":[{"symbol":%q,"shortName":"Test Co","currency":"TRY","marketState":"CLOSED","regularMarketPrice":%f,"regularMarketChange":1.5,"regularMarketChangePercent":0.7}]}}`, symbol, price)
	}))
}

func TestQuoteResolvesDirectly(t *testing.T) {
	server := quoteServer(t, map[string]float64{"TSLA": 250})
	defer server.Close()

	client := NewClient(server.URL, time.Second, zap.NewNop())
	quote, err := client.Quote(context.Background(), "TSLA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Symbol != "TSLA" {
		t.Fatalf("expected TSLA, got %s", quote.Symbol)
	}
	if !quote.MarketClosed {
		t.Fatal("expected market closed")
	}
}

func TestQuoteFallsBackToIstanbulSuffix(t *testing.T) {
	server := quoteServer(t, map[string]float64{"THYAO.IS": 300})
	defer server.Close()

	client := NewClient(server.URL, time.Second, zap.NewNop())
	quote, err := client.Quote(context.Background(), "THYAO")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Symbol != "THYAO.IS" {
		t.Fatalf("expected THYAO.IS, got %s", quote.Symbol)
	}
}

func TestQuoteNoFallbackForShortSymbols(t *testing.T) {
	server := quoteServer(t, map[string]float64{"BTC.IS": 1})
	defer server.Close()

	client := NewClient(server.URL, time.Second, zap.NewNop())
	if _, err := client.Quote(context.Background(), "BTC"); !errors.Is(err, domain.ErrSymbolNotFound) {
		t.Fatalf("expected ErrSymbolNotFound, got %v", err)
	}
}

func TestQuoteNoFallbackWhenSuffixGiven(t *testing.T) {
	server := quoteServer(t, nil)
	defer server.Close()

	client := NewClient(server.URL, time.Second, zap.NewNop())
	if _, err := client.Quote(context.Background(), "THYAO.IS"); !errors.Is(err, domain.ErrSymbolNotFound) {
		t.Fatalf("expected ErrSymbolNotFound, got %v", err)
	}
}
