package usecase

import (
	"context"
	"time"

	"github.com/emrekrt/pandabot/internal/domain"
	"go.uber.org/zap"
)

// AIAnswer is a completion with the cost computed from token usage and
// the configured per-token rates.
type AIAnswer struct {
	Text        string
	TotalTokens int
	CostUSD     float64
}

type AIUsecase struct {
	provider      domain.AIProvider
	inputCostUSD  float64
	outputCostUSD float64
	logger        *zap.Logger
}

func NewAIUsecase(provider domain.AIProvider, inputCostUSD, outputCostUSD float64, logger *zap.Logger) *AIUsecase {
	return &AIUsecase{
		provider:      provider,
		inputCostUSD:  inputCostUSD,
		outputCostUSD: outputCostUSD,
		logger:        logger,
	}
}

func (a *AIUsecase) Ask(ctx context.Context, prompt string) (*AIAnswer, error) {
	start := time.Now()
	completion, err := a.provider.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	cost := float64(completion.PromptTokens)*a.inputCostUSD +
		float64(completion.CompletionTokens)*a.outputCostUSD

	a.logger.Info(
		"ai completion served",
		zap.Int("total_tokens", completion.TotalTokens),
		zap.Float64("cost_usd", cost),
		zap.Duration("duration", time.Since(start)),
	)

	return &AIAnswer{
		Text:        completion.Text,
		TotalTokens: completion.TotalTokens,
		CostUSD:     cost,
	}, nil
}
