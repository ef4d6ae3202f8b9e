package cmc

import (
	"testing"

	"go.uber.org/zap"
)

func newTestManager(keys []string, active, limit int) *KeyManager {
	return NewKeyManager(keys, active, limit, zap.NewNop())
}

func TestActiveKeyReturnsConfiguredKey(t *testing.T) {
	m := newTestManager([]string{"k1", "k2", "k3"}, 2, 100)
	if got := m.ActiveKey(); got != "k2" {
		t.Fatalf("expected k2, got %s", got)
	}
}

func TestActiveKeyOutOfRangeFallsBackToFirst(t *testing.T) {
	m := newTestManager([]string{"k1", "k2"}, 9, 100)
	if got := m.ActiveKey(); got != "k1" {
		t.Fatalf("expected k1, got %s", got)
	}
}

func TestRotatesAtSoftCap(t *testing.T) {
	m := newTestManager([]string{"k1", "k2"}, 1, 10)
	// 9 of 10 is at the 90% cap, so k1 is disqualified.
	for i := 0; i < 9; i++ {
		m.IncrementRequestCount()
	}
	if got := m.ActiveKey(); got != "k2" {
		t.Fatalf("expected rotation to k2, got %s", got)
	}
}

func TestStaysBelowSoftCap(t *testing.T) {
	m := newTestManager([]string{"k1", "k2"}, 1, 10)
	for i := 0; i < 8; i++ {
		m.IncrementRequestCount()
	}
	if got := m.ActiveKey(); got != "k1" {
		t.Fatalf("expected k1 below cap, got %s", got)
	}
}

func TestBlockedKeySkipped(t *testing.T) {
	m := newTestManager([]string{"k1", "k2", "k3"}, 1, 100)
	m.MarkAsBlocked()
	if got := m.ActiveKey(); got != "k2" {
		t.Fatalf("expected k2 after block, got %s", got)
	}
}

func TestCircularScanWrapsAround(t *testing.T) {
	m := newTestManager([]string{"k1", "k2", "k3"}, 3, 100)
	m.MarkAsBlocked()
	if got := m.ActiveKey(); got != "k1" {
		t.Fatalf("expected wrap to k1, got %s", got)
	}
}

func TestAllExhaustedReturnsCurrentKey(t *testing.T) {
	m := newTestManager([]string{"k1", "k2"}, 1, 100)
	m.MarkAsBlocked()
	m.ActiveKey()
	m.MarkAsBlocked()
	if got := m.ActiveKey(); got == "" {
		t.Fatal("expected a key even with every slot blocked")
	}
}

func TestResetDailyClearsUsageAndBlocks(t *testing.T) {
	m := newTestManager([]string{"k1", "k2"}, 1, 10)
	for i := 0; i < 9; i++ {
		m.IncrementRequestCount()
	}
	m.MarkAsBlocked()
	m.ResetDaily()

	if got := m.ActiveKey(); got != "k1" {
		t.Fatalf("expected k1 usable after reset, got %s", got)
	}
	for _, stat := range m.Stats() {
		if stat.RequestsUsed != 0 || stat.Blocked {
			t.Fatalf("slot %d not reset: %+v", stat.KeyNumber, stat)
		}
	}
}

func TestStatsSnapshot(t *testing.T) {
	m := newTestManager([]string{"k1", "k2"}, 1, 100)
	m.IncrementRequestCount()
	m.IncrementRequestCount()

	stats := m.Stats()
	if len(stats) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(stats))
	}
	if stats[0].RequestsUsed != 2 {
		t.Fatalf("expected 2 requests on slot 1, got %d", stats[0].RequestsUsed)
	}
	if stats[1].RequestsUsed != 0 {
		t.Fatalf("expected 0 requests on slot 2, got %d", stats[1].RequestsUsed)
	}
}
