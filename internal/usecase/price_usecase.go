package usecase

import (
	"context"
	"errors"

	"github.com/emrekrt/pandabot/internal/domain"
	"github.com/emrekrt/pandabot/internal/infra/metrics"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// QuoteStream is the in-memory live ticker table fed by the websocket
// stream. It answers what it knows freshly and reports the rest.
type QuoteStream interface {
	Lookup(symbols []string) (fresh []domain.Quote, missing []string)
}

// PriceInfo carries the basic quote plus the richer market detail when
// the keyed feed had it. Detail is nil when that feed was unavailable.
type PriceInfo struct {
	Quote  domain.Quote
	Detail *domain.Quote
}

type PriceUsecase struct {
	stream QuoteStream
	crypto domain.QuoteProvider
	detail domain.DetailProvider
	stocks domain.StockProvider
	rates  domain.RateProvider
	logger *zap.Logger
}

func NewPriceUsecase(
	stream QuoteStream,
	crypto domain.QuoteProvider,
	detail domain.DetailProvider,
	stocks domain.StockProvider,
	rates domain.RateProvider,
	logger *zap.Logger,
) *PriceUsecase {
	return &PriceUsecase{
		stream: stream,
		crypto: crypto,
		detail: detail,
		stocks: stocks,
		rates:  rates,
		logger: logger,
	}
}

// CryptoPrice resolves a symbol through the cheap feeds first: the live
// stream table, then Binance REST, then the keyed feed for symbols
// Binance does not trade. The keyed detail is fetched best-effort on top
// and its absence never fails the lookup.
func (p *PriceUsecase) CryptoPrice(ctx context.Context, symbol string) (*PriceInfo, error) {
	quote, err := p.basicQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	info := &PriceInfo{Quote: *quote}
	if detail, err := p.detail.Quote(ctx, symbol); err == nil {
		info.Detail = detail
	} else if !errors.Is(err, domain.ErrSymbolNotFound) {
		p.logger.Warn("market detail unavailable", zap.String("symbol", symbol), zap.Error(err))
	}
	return info, nil
}

func (p *PriceUsecase) basicQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	if fresh, _ := p.stream.Lookup([]string{symbol}); len(fresh) == 1 {
		return &fresh[0], nil
	}

	metrics.QuoteRequestsTotal.WithLabelValues("binance").Inc()
	quote, err := p.crypto.Quote(ctx, symbol)
	if err == nil {
		return quote, nil
	}
	if !errors.Is(err, domain.ErrSymbolNotFound) {
		return nil, err
	}

	metrics.QuoteRequestsTotal.WithLabelValues("cmc").Inc()
	return p.detail.Quote(ctx, symbol)
}

// CryptoPrices resolves a batch: stream first, one REST round trip for
// the rest. Symbols missing from both sources are absent from the
// result rather than failing the call.
func (p *PriceUsecase) CryptoPrices(ctx context.Context, symbols []string) ([]domain.Quote, error) {
	fresh, missing := p.stream.Lookup(symbols)
	if len(missing) == 0 {
		return fresh, nil
	}

	metrics.QuoteRequestsTotal.WithLabelValues("binance").Inc()
	rest, err := p.crypto.Quotes(ctx, missing)
	if err != nil {
		if len(fresh) > 0 {
			p.logger.Warn("batch quote fallback failed, serving stream subset", zap.Error(err))
			return fresh, nil
		}
		return nil, err
	}
	return append(fresh, rest...), nil
}

// StockPrices fetches each symbol independently so one bad ticker does
// not sink the rest; failed symbols are returned for the caller to list.
func (p *PriceUsecase) StockPrices(ctx context.Context, symbols []string) ([]domain.StockQuote, []string) {
	quotes := make([]domain.StockQuote, 0, len(symbols))
	var failed []string
	for _, symbol := range symbols {
		metrics.QuoteRequestsTotal.WithLabelValues("yahoo").Inc()
		quote, err := p.stocks.Quote(ctx, symbol)
		if err != nil {
			p.logger.Warn("stock quote failed", zap.String("symbol", symbol), zap.Error(err))
			failed = append(failed, symbol)
			continue
		}
		quotes = append(quotes, *quote)
	}
	return quotes, failed
}

func (p *PriceUsecase) USDTRY(ctx context.Context) (decimal.Decimal, error) {
	metrics.QuoteRequestsTotal.WithLabelValues("fx").Inc()
	return p.rates.USDTRY(ctx)
}

func (p *PriceUsecase) TopCryptos(ctx context.Context, limit int) ([]domain.Quote, error) {
	metrics.QuoteRequestsTotal.WithLabelValues("cmc").Inc()
	return p.detail.TopCryptos(ctx, limit)
}
