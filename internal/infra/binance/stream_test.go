package binance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	value, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return value
}

func TestStreamIngestAndLookup(t *testing.T) {
	s := NewStream("", time.Minute, zap.NewNop())
	s.ingest([]byte(`[{"s":"BTCUSDT","c":"100","o":"80"},{"s":"ETHBTC","c":"0.05","o":"0.04"}]`))

	fresh, missing := s.Lookup([]string{"BTC", "ETH"})
	if len(fresh) != 1 || fresh[0].Symbol != "BTC" {
		t.Fatalf("expected only BTC fresh, got %v", fresh)
	}
	if !fresh[0].Price.Equal(decimalFromString(t, "100")) {
		t.Fatalf("expected price 100, got %s", fresh[0].Price)
	}
	// (100-80)/80 = 25%
	if !fresh[0].ChangePct24h.Equal(decimalFromString(t, "25")) {
		t.Fatalf("expected 25%% change, got %s", fresh[0].ChangePct24h)
	}
	if len(missing) != 1 || missing[0] != "ETH" {
		t.Fatalf("expected ETH missing, got %v", missing)
	}
}

func TestStreamLookupStaleEntryMissing(t *testing.T) {
	s := NewStream("", time.Nanosecond, zap.NewNop())
	s.ingest([]byte(`[{"s":"BTCUSDT","c":"100","o":"80"}]`))
	time.Sleep(time.Millisecond)

	fresh, missing := s.Lookup([]string{"BTC"})
	if len(fresh) != 0 {
		t.Fatalf("expected stale entry to miss, got %v", fresh)
	}
	if len(missing) != 1 || missing[0] != "BTC" {
		t.Fatalf("expected BTC missing, got %v", missing)
	}
}

func TestStreamIngestIgnoresBadFrames(t *testing.T) {
	s := NewStream("", time.Minute, zap.NewNop())
	s.ingest([]byte(`{"not":"an array"}`))
	s.ingest([]byte(`[{"s":"XUSDT","c":"bad","o":"80"}]`))
	s.ingest([]byte(`[{"s":"YUSDT","c":"10","o":"0"}]`))

	if fresh, _ := s.Lookup([]string{"X", "Y"}); len(fresh) != 0 {
		t.Fatalf("expected nothing ingested, got %v", fresh)
	}
}
