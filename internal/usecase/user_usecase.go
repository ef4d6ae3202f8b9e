package usecase

import (
	"context"
	"time"

	"github.com/emrekrt/pandabot/internal/domain"
	"go.uber.org/zap"
)

type UserUsecase struct {
	users  domain.UserRepository
	logger *zap.Logger
}

func NewUserUsecase(users domain.UserRepository, logger *zap.Logger) *UserUsecase {
	return &UserUsecase{users: users, logger: logger}
}

// Register upserts the user from the latest Telegram profile and reports
// whether this is a first contact. Called on every incoming command so
// profile changes and activity tracking stay current.
func (u *UserUsecase) Register(ctx context.Context, user *domain.User) (bool, error) {
	user.LastActiveAt = time.Now()
	created, err := u.users.Upsert(ctx, user)
	if err != nil {
		return false, err
	}
	if created {
		u.logger.Info(
			"new user registered",
			zap.Int64("telegram_user_id", user.TelegramUserID),
			zap.String("username", user.Username),
		)
	}
	return created, nil
}

func (u *UserUsecase) Get(ctx context.Context, telegramUserID int64) (*domain.User, error) {
	return u.users.GetByTelegramID(ctx, telegramUserID)
}

func (u *UserUsecase) SetBlocked(ctx context.Context, telegramUserID int64, blocked bool) error {
	return u.users.SetBlocked(ctx, telegramUserID, blocked)
}
