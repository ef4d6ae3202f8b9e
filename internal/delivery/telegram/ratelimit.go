package telegram

import (
	"context"
	"fmt"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimiter budgets commands per user per minute. Redis trouble fails
// open so an infra hiccup does not mute the bot.
type RateLimiter struct {
	limiter   *redis_rate.Limiter
	perMinute int
	logger    *zap.Logger
}

func NewRateLimiter(rdb *redis.Client, perMinute int, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		limiter:   redis_rate.NewLimiter(rdb),
		perMinute: perMinute,
		logger:    logger,
	}
}

func (r *RateLimiter) Allow(ctx context.Context, telegramUserID int64) bool {
	key := fmt.Sprintf("ratelimit:%d", telegramUserID)
	result, err := r.limiter.Allow(ctx, key, redis_rate.PerMinute(r.perMinute))
	if err != nil {
		r.logger.Warn("rate limiter unavailable", zap.Error(err))
	}
	return allowDecision(result, err)
}

// allowDecision turns a limiter outcome into a pass/deny. A limiter
// error passes; only an explicit exhausted budget denies.
func allowDecision(result *redis_rate.Result, err error) bool {
	if err != nil {
		return true
	}
	return result.Allowed > 0
}
