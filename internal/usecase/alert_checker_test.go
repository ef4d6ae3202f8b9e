package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/emrekrt/pandabot/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type observation struct {
	alertID     uint
	price       decimal.Decimal
	triggeredAt *time.Time
}

type fakeAlertRepo struct {
	domain.AlertRepository
	active       []domain.Alert
	observations []observation
}

func (f *fakeAlertRepo) ListActive(ctx context.Context) ([]domain.Alert, error) {
	return f.active, nil
}

func (f *fakeAlertRepo) UpdateObservation(ctx context.Context, alertID uint, price decimal.Decimal, triggeredAt *time.Time) error {
	f.observations = append(f.observations, observation{alertID: alertID, price: price, triggeredAt: triggeredAt})
	return nil
}

type fakeUserRepo struct {
	domain.UserRepository
}

func (f *fakeUserRepo) GetByID(ctx context.Context, userID uint) (*domain.User, error) {
	return &domain.User{ID: userID, TelegramUserID: int64(userID) * 100}, nil
}

type fakeStream struct {
	quotes map[string]decimal.Decimal
}

func (f *fakeStream) Lookup(symbols []string) ([]domain.Quote, []string) {
	var fresh []domain.Quote
	var missing []string
	for _, symbol := range symbols {
		price, ok := f.quotes[symbol]
		if !ok {
			missing = append(missing, symbol)
			continue
		}
		fresh = append(fresh, domain.Quote{Symbol: symbol, Price: price, UpdatedAt: time.Now()})
	}
	return fresh, missing
}

type fakeQuoteProvider struct {
	quotes map[string]decimal.Decimal
	err    error
}

func (f *fakeQuoteProvider) Quote(ctx context.Context, symbol string) (*domain.Quote, error) {
	if f.err != nil {
		return nil, f.err
	}
	price, ok := f.quotes[symbol]
	if !ok {
		return nil, domain.ErrSymbolNotFound
	}
	return &domain.Quote{Symbol: symbol, Price: price}, nil
}

func (f *fakeQuoteProvider) Quotes(ctx context.Context, symbols []string) ([]domain.Quote, error) {
	if f.err != nil {
		return nil, f.err
	}
	var quotes []domain.Quote
	for _, symbol := range symbols {
		if price, ok := f.quotes[symbol]; ok {
			quotes = append(quotes, domain.Quote{Symbol: symbol, Price: price})
		}
	}
	return quotes, nil
}

type fakeNotifier struct {
	sent []string
	err  error
}

func (f *fakeNotifier) Notify(ctx context.Context, telegramUserID int64, text string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, text)
	return nil
}

func dec(s string) decimal.Decimal {
	value, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return value
}

func testAlert(id uint, symbol, base, threshold string, lastTriggered *time.Time) domain.Alert {
	return domain.Alert{
		ID:            id,
		UserID:        1,
		Symbol:        symbol,
		ThresholdPct:  dec(threshold),
		BasePrice:     dec(base),
		Status:        domain.AlertStatusActive,
		LastTriggered: lastTriggered,
		ShortID:       int(id),
	}
}

func newTestChecker(repo *fakeAlertRepo, stream *fakeStream, quotes *fakeQuoteProvider, notifier *fakeNotifier) *AlertChecker {
	return NewAlertChecker(repo, &fakeUserRepo{}, stream, quotes, notifier, 30*time.Minute, zap.NewNop())
}

func TestAlertFiresOnRiseAboveThreshold(t *testing.T) {
	repo := &fakeAlertRepo{active: []domain.Alert{testAlert(1, "BTC", "100", "5", nil)}}
	notifier := &fakeNotifier{}
	checker := newTestChecker(repo, &fakeStream{}, &fakeQuoteProvider{quotes: map[string]decimal.Decimal{"BTC": dec("106")}}, notifier)

	checker.RunCycle(context.Background())

	require.Len(t, notifier.sent, 1)
	require.Len(t, repo.observations, 1)
	assert.True(t, repo.observations[0].price.Equal(dec("106")))
	assert.NotNil(t, repo.observations[0].triggeredAt)
}

func TestAlertDoesNotFireBelowThreshold(t *testing.T) {
	repo := &fakeAlertRepo{active: []domain.Alert{testAlert(1, "BTC", "100", "5", nil)}}
	notifier := &fakeNotifier{}
	checker := newTestChecker(repo, &fakeStream{}, &fakeQuoteProvider{quotes: map[string]decimal.Decimal{"BTC": dec("104")}}, notifier)

	checker.RunCycle(context.Background())

	assert.Empty(t, notifier.sent)
	require.Len(t, repo.observations, 1)
	assert.Nil(t, repo.observations[0].triggeredAt)
}

func TestAlertFiresOnFallBelowNegativeThreshold(t *testing.T) {
	repo := &fakeAlertRepo{active: []domain.Alert{testAlert(1, "ETH", "200", "-3", nil)}}
	notifier := &fakeNotifier{}
	checker := newTestChecker(repo, &fakeStream{}, &fakeQuoteProvider{quotes: map[string]decimal.Decimal{"ETH": dec("190")}}, notifier)

	checker.RunCycle(context.Background())

	require.Len(t, notifier.sent, 1)
	assert.NotNil(t, repo.observations[0].triggeredAt)
}

func TestNegativeThresholdIgnoresRise(t *testing.T) {
	repo := &fakeAlertRepo{active: []domain.Alert{testAlert(1, "ETH", "200", "-3", nil)}}
	notifier := &fakeNotifier{}
	checker := newTestChecker(repo, &fakeStream{}, &fakeQuoteProvider{quotes: map[string]decimal.Decimal{"ETH": dec("220")}}, notifier)

	checker.RunCycle(context.Background())

	assert.Empty(t, notifier.sent)
}

func TestZeroThresholdNeverFires(t *testing.T) {
	repo := &fakeAlertRepo{active: []domain.Alert{testAlert(1, "BTC", "100", "0", nil)}}
	notifier := &fakeNotifier{}
	checker := newTestChecker(repo, &fakeStream{}, &fakeQuoteProvider{quotes: map[string]decimal.Decimal{"BTC": dec("500")}}, notifier)

	checker.RunCycle(context.Background())

	assert.Empty(t, notifier.sent)
	require.Len(t, repo.observations, 1)
	assert.Nil(t, repo.observations[0].triggeredAt)
}

func TestCooldownSuppressesRetrigger(t *testing.T) {
	now := time.Now()
	recent := now.Add(-10 * time.Minute)
	repo := &fakeAlertRepo{active: []domain.Alert{testAlert(1, "BTC", "100", "5", &recent)}}
	notifier := &fakeNotifier{}
	checker := newTestChecker(repo, &fakeStream{}, &fakeQuoteProvider{quotes: map[string]decimal.Decimal{"BTC": dec("110")}}, notifier)
	checker.now = func() time.Time { return now }

	checker.RunCycle(context.Background())

	assert.Empty(t, notifier.sent)
	require.Len(t, repo.observations, 1, "price still persisted during cooldown")
	assert.Nil(t, repo.observations[0].triggeredAt)
}

func TestCooldownExpiryAllowsRetrigger(t *testing.T) {
	now := time.Now()
	old := now.Add(-31 * time.Minute)
	repo := &fakeAlertRepo{active: []domain.Alert{testAlert(1, "BTC", "100", "5", &old)}}
	notifier := &fakeNotifier{}
	checker := newTestChecker(repo, &fakeStream{}, &fakeQuoteProvider{quotes: map[string]decimal.Decimal{"BTC": dec("110")}}, notifier)
	checker.now = func() time.Time { return now }

	checker.RunCycle(context.Background())

	require.Len(t, notifier.sent, 1)
	assert.NotNil(t, repo.observations[0].triggeredAt)
}

func TestSymbolFailureDoesNotBlockOthers(t *testing.T) {
	repo := &fakeAlertRepo{active: []domain.Alert{
		testAlert(1, "BTC", "100", "5", nil),
		testAlert(2, "DOGE", "1", "5", nil),
	}}
	notifier := &fakeNotifier{}
	// BTC is fresh in the stream; the REST fallback for DOGE fails.
	stream := &fakeStream{quotes: map[string]decimal.Decimal{"BTC": dec("110")}}
	quotes := &fakeQuoteProvider{err: errors.New("feed down")}
	checker := newTestChecker(repo, stream, quotes, notifier)

	checker.RunCycle(context.Background())

	require.Len(t, notifier.sent, 1)
	require.Len(t, repo.observations, 1)
	assert.Equal(t, uint(1), repo.observations[0].alertID)
}

func TestNotifyFailureStillPersistsTrigger(t *testing.T) {
	repo := &fakeAlertRepo{active: []domain.Alert{testAlert(1, "BTC", "100", "5", nil)}}
	notifier := &fakeNotifier{err: errors.New("telegram down")}
	checker := newTestChecker(repo, &fakeStream{}, &fakeQuoteProvider{quotes: map[string]decimal.Decimal{"BTC": dec("110")}}, notifier)

	checker.RunCycle(context.Background())

	require.Len(t, repo.observations, 1)
	assert.NotNil(t, repo.observations[0].triggeredAt)
}
