package usecase

import (
	"context"

	"github.com/emrekrt/pandabot/internal/domain"
	"go.uber.org/zap"
)

// WatchlistPrices is one list resolved against the matching feed.
// Failed carries symbols no feed could answer for.
type WatchlistPrices struct {
	List   domain.Watchlist
	Crypto []domain.Quote
	Stocks []domain.StockQuote
	Failed []string
}

type WatchlistUsecase struct {
	watchlists domain.WatchlistRepository
	prices     *PriceUsecase
	logger     *zap.Logger
}

func NewWatchlistUsecase(watchlists domain.WatchlistRepository, prices *PriceUsecase, logger *zap.Logger) *WatchlistUsecase {
	return &WatchlistUsecase{watchlists: watchlists, prices: prices, logger: logger}
}

// Create makes the list or overwrites an existing one of the same name
// with the new ticker set.
func (w *WatchlistUsecase) Create(ctx context.Context, userID uint, name string, listType domain.WatchlistType, symbols []string) (*domain.Watchlist, error) {
	tickers := make([]domain.WatchlistTicker, 0, len(symbols))
	for _, symbol := range symbols {
		tickers = append(tickers, domain.WatchlistTicker{Symbol: symbol})
	}
	list := &domain.Watchlist{
		UserID:   userID,
		ListName: name,
		Type:     listType,
		Tickers:  tickers,
	}
	if err := w.watchlists.Replace(ctx, list); err != nil {
		return nil, err
	}
	w.logger.Info(
		"watchlist created",
		zap.Uint("user_id", userID),
		zap.String("list", name),
		zap.Int("tickers", len(tickers)),
	)
	return list, nil
}

func (w *WatchlistUsecase) ListByUser(ctx context.Context, userID uint) ([]domain.Watchlist, error) {
	return w.watchlists.ListByUser(ctx, userID)
}

func (w *WatchlistUsecase) Get(ctx context.Context, userID uint, name string) (*domain.Watchlist, error) {
	return w.watchlists.GetByName(ctx, userID, name)
}

// ShowPrices resolves a list against the feed matching its type.
func (w *WatchlistUsecase) ShowPrices(ctx context.Context, userID uint, name string) (*WatchlistPrices, error) {
	list, err := w.watchlists.GetByName(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	symbols := list.Symbols()
	if len(symbols) == 0 {
		return nil, ErrEmptyWatchlist
	}

	result := &WatchlistPrices{List: *list}
	switch list.Type {
	case domain.WatchlistTypeStock:
		result.Stocks, result.Failed = w.prices.StockPrices(ctx, symbols)
	default:
		quotes, err := w.prices.CryptoPrices(ctx, symbols)
		if err != nil {
			return nil, err
		}
		result.Crypto = quotes
		answered := make(map[string]bool, len(quotes))
		for _, quote := range quotes {
			answered[quote.Symbol] = true
		}
		for _, symbol := range symbols {
			if !answered[symbol] {
				result.Failed = append(result.Failed, symbol)
			}
		}
	}
	return result, nil
}

func (w *WatchlistUsecase) AddTickers(ctx context.Context, userID uint, name string, symbols []string) ([]string, error) {
	return w.watchlists.AddTickers(ctx, userID, name, symbols)
}

func (w *WatchlistUsecase) RemoveTicker(ctx context.Context, userID uint, name, symbol string) error {
	return w.watchlists.RemoveTicker(ctx, userID, name, symbol)
}

func (w *WatchlistUsecase) Delete(ctx context.Context, userID uint, name string) error {
	return w.watchlists.Delete(ctx, userID, name)
}
