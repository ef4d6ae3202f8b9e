package domain

import "time"

type WatchlistType string

const (
	WatchlistTypeCrypto WatchlistType = "crypto"
	WatchlistTypeStock  WatchlistType = "stock"
)

type WatchlistTicker struct {
	Symbol  string
	AddedAt time.Time
}

type Watchlist struct {
	ID        uint
	UserID    uint
	ListName  string
	Type      WatchlistType
	Tickers   []WatchlistTicker
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (w Watchlist) Symbols() []string {
	symbols := make([]string, 0, len(w.Tickers))
	for _, t := range w.Tickers {
		symbols = append(symbols, t.Symbol)
	}
	return symbols
}

func (w Watchlist) HasSymbol(symbol string) bool {
	for _, t := range w.Tickers {
		if t.Symbol == symbol {
			return true
		}
	}
	return false
}
