package usecase

import (
	"context"
	"testing"

	"github.com/emrekrt/pandabot/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAlertWriter struct {
	domain.AlertRepository
	created   []domain.Alert
	duplicate *domain.Alert
}

// Mirrors the repository contract: nil, nil when the user has no
// matching active alert.
func (f *fakeAlertWriter) FindActiveDuplicate(ctx context.Context, userID uint, symbol string, thresholdPct decimal.Decimal) (*domain.Alert, error) {
	return f.duplicate, nil
}

func (f *fakeAlertWriter) Create(ctx context.Context, alert *domain.Alert) error {
	alert.ID = uint(len(f.created) + 1)
	alert.ShortID = len(f.created) + 1
	f.created = append(f.created, *alert)
	return nil
}

func newTestAlertUsecase(repo *fakeAlertWriter, price string) *AlertUsecase {
	prices := NewPriceUsecase(
		&fakeStream{},
		&fakeQuoteProvider{quotes: map[string]decimal.Decimal{"BTC": dec(price)}},
		&fakeDetailProvider{},
		nil, nil,
		zap.NewNop(),
	)
	return NewAlertUsecase(repo, prices, zap.NewNop())
}

type fakeDetailProvider struct{}

func (f *fakeDetailProvider) Quote(ctx context.Context, symbol string) (*domain.Quote, error) {
	return nil, domain.ErrSymbolNotFound
}

func (f *fakeDetailProvider) Quotes(ctx context.Context, symbols []string) ([]domain.Quote, error) {
	return nil, domain.ErrSymbolNotFound
}

func (f *fakeDetailProvider) TopCryptos(ctx context.Context, limit int) ([]domain.Quote, error) {
	return nil, domain.ErrSymbolNotFound
}

func TestAlertCreateAnchorsBasePrice(t *testing.T) {
	repo := &fakeAlertWriter{}
	uc := newTestAlertUsecase(repo, "42000")

	alert, err := uc.Create(context.Background(), 1, "BTC", dec("5"))
	require.NoError(t, err)
	assert.True(t, alert.BasePrice.Equal(dec("42000")))
	assert.Equal(t, domain.AlertStatusActive, alert.Status)
	require.Len(t, repo.created, 1)
}

func TestAlertCreateFirstAlertSucceeds(t *testing.T) {
	repo := &fakeAlertWriter{}
	uc := newTestAlertUsecase(repo, "42000")

	alert, err := uc.Create(context.Background(), 1, "BTC", dec("5"))
	require.NoError(t, err)
	require.NotNil(t, alert)
	require.Len(t, repo.created, 1)
	assert.Equal(t, domain.AlertStatusActive, repo.created[0].Status)
}

func TestAlertCreateRejectsZeroThreshold(t *testing.T) {
	uc := newTestAlertUsecase(&fakeAlertWriter{}, "42000")

	_, err := uc.Create(context.Background(), 1, "BTC", decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidThreshold)
}

func TestAlertCreateRejectsDuplicate(t *testing.T) {
	existing := testAlert(1, "BTC", "40000", "5", nil)
	uc := newTestAlertUsecase(&fakeAlertWriter{duplicate: &existing}, "42000")

	_, err := uc.Create(context.Background(), 1, "BTC", dec("5"))
	assert.ErrorIs(t, err, ErrDuplicateAlert)
}

func TestAlertCreateUnknownSymbol(t *testing.T) {
	uc := newTestAlertUsecase(&fakeAlertWriter{}, "42000")

	_, err := uc.Create(context.Background(), 1, "NOPE", dec("5"))
	assert.ErrorIs(t, err, domain.ErrSymbolNotFound)
}
