package cmc

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// A key is skipped for selection once it has consumed 90% of its soft
// request limit, leaving headroom for in-flight calls.
const usageCapRatio = 0.9

type keySlot struct {
	key          string
	requestsUsed int
	blocked      bool
	resetTime    time.Time
}

// KeyStats is a read-only snapshot of one slot, for reporting.
type KeyStats struct {
	KeyNumber     int
	RequestsUsed  int
	RequestsLimit int
	UsagePercent  float64
	Blocked       bool
	ResetTime     time.Time
}

// KeyManager rotates a pool of CoinMarketCap credentials. All state is
// in memory: a process restart resets usage counters and blocked flags,
// so a key blocked by the provider may be retried early after a crash.
type KeyManager struct {
	mu           sync.Mutex
	slots        []keySlot
	current      int
	requestLimit int
	logger       *zap.Logger
}

// NewKeyManager builds a manager over the configured key pool.
// activeKey is 1-based, matching the CMC_ACTIVE_KEY setting.
func NewKeyManager(keys []string, activeKey, requestLimit int, logger *zap.Logger) *KeyManager {
	slots := make([]keySlot, 0, len(keys))
	reset := time.Now().Add(24 * time.Hour)
	for _, key := range keys {
		slots = append(slots, keySlot{key: key, resetTime: reset})
	}

	current := activeKey - 1
	if current < 0 || current >= len(slots) {
		current = 0
	}

	logger.Info("cmc key manager initialized", zap.Int("keys", len(slots)), zap.Int("active", current+1))
	return &KeyManager{
		slots:        slots,
		current:      current,
		requestLimit: requestLimit,
		logger:       logger,
	}
}

// ActiveKey returns the key to use for the next request. If the current
// slot is blocked or at its usage cap it advances to the next usable
// slot, scanning circularly. When every slot is disqualified it logs and
// returns the current slot's key anyway; callers get the provider's own
// rejection rather than an error here.
func (m *KeyManager) ActiveKey() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.slots) == 0 {
		return ""
	}

	if m.usable(m.current) {
		return m.slots[m.current].key
	}

	for i := 1; i <= len(m.slots); i++ {
		candidate := (m.current + i) % len(m.slots)
		if m.usable(candidate) {
			m.current = candidate
			m.logger.Info("rotated to cmc api key", zap.Int("key", candidate+1))
			return m.slots[candidate].key
		}
	}

	m.logger.Error("all cmc api keys exhausted or blocked")
	return m.slots[m.current].key
}

func (m *KeyManager) usable(idx int) bool {
	slot := m.slots[idx]
	return !slot.blocked && float64(slot.requestsUsed) < usageCapRatio*float64(m.requestLimit)
}

// IncrementRequestCount bumps the active slot's usage. It is driven from
// the HTTP response hook, so calls that fail before a response comes
// back are not counted.
func (m *KeyManager) IncrementRequestCount() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.slots) == 0 {
		return
	}
	m.slots[m.current].requestsUsed++
}

// MarkAsBlocked flags the active slot after a rate-limit response.
func (m *KeyManager) MarkAsBlocked() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.slots) == 0 {
		return
	}
	m.slots[m.current].blocked = true
	m.logger.Error("cmc api key marked as blocked", zap.Int("key", m.current+1))
}

// ResetDaily zeroes usage and clears blocked flags on every slot. Run
// once per day by the cron scheduler.
func (m *KeyManager) ResetDaily() {
	m.mu.Lock()
	defer m.mu.Unlock()
	reset := time.Now().Add(24 * time.Hour)
	for i := range m.slots {
		m.slots[i].requestsUsed = 0
		m.slots[i].blocked = false
		m.slots[i].resetTime = reset
	}
	m.logger.Info("cmc api keys daily reset completed")
}

func (m *KeyManager) Stats() []KeyStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := make([]KeyStats, 0, len(m.slots))
	for i, slot := range m.slots {
		stats = append(stats, KeyStats{
			KeyNumber:     i + 1,
			RequestsUsed:  slot.requestsUsed,
			RequestsLimit: m.requestLimit,
			UsagePercent:  float64(slot.requestsUsed) / float64(m.requestLimit) * 100,
			Blocked:       slot.blocked,
			ResetTime:     slot.resetTime,
		})
	}
	return stats
}
