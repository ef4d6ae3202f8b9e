package db

import (
	"context"
	"errors"
	"time"

	"github.com/emrekrt/pandabot/internal/domain"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Upsert(ctx context.Context, user *domain.User) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model userModel
		err := tx.Where("telegram_user_id = ?", user.TelegramUserID).First(&model).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			model = userModel{
				TelegramUserID: user.TelegramUserID,
				Username:       user.Username,
				FirstName:      user.FirstName,
				LastName:       user.LastName,
				LanguageCode:   user.LanguageCode,
				LastActiveAt:   time.Now(),
				TotalCommands:  1,
			}
			if err := tx.Create(&model).Error; err != nil {
				return err
			}
			created = true
		case err != nil:
			return err
		default:
			updates := map[string]interface{}{
				"username":       user.Username,
				"first_name":     user.FirstName,
				"last_name":      user.LastName,
				"language_code":  user.LanguageCode,
				"last_active_at": time.Now(),
				"total_commands": gorm.Expr("total_commands + 1"),
			}
			if err := tx.Model(&userModel{}).Where("id = ?", model.ID).Updates(updates).Error; err != nil {
				return err
			}
		}
		*user = *mapUserToDomain(model)
		return nil
	})
	return created, err
}

func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramUserID int64) (*domain.User, error) {
	var model userModel
	if err := r.db.WithContext(ctx).Where("telegram_user_id = ?", telegramUserID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return mapUserToDomain(model), nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID uint) (*domain.User, error) {
	var model userModel
	if err := r.db.WithContext(ctx).First(&model, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return mapUserToDomain(model), nil
}

func (r *UserRepository) SetBlocked(ctx context.Context, telegramUserID int64, blocked bool) error {
	result := r.db.WithContext(ctx).Model(&userModel{}).
		Where("telegram_user_id = ?", telegramUserID).
		Update("is_blocked", blocked)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, offset, limit int) ([]domain.User, error) {
	var models []userModel
	if err := r.db.WithContext(ctx).
		Order("last_active_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(models))
	for _, model := range models {
		users = append(users, *mapUserToDomain(model))
	}
	return users, nil
}

func (r *UserRepository) ListTelegramIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := r.db.WithContext(ctx).Model(&userModel{}).
		Where("is_blocked = ?", false).
		Pluck("telegram_user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&userModel{}).Count(&n).Error
	return n, err
}

func (r *UserRepository) CountActiveSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&userModel{}).Where("last_active_at >= ?", since).Count(&n).Error
	return n, err
}

func (r *UserRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&userModel{}).Where("created_at >= ?", since).Count(&n).Error
	return n, err
}

func (r *UserRepository) CountBlocked(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&userModel{}).Where("is_blocked = ?", true).Count(&n).Error
	return n, err
}

func mapUserToDomain(model userModel) *domain.User {
	return &domain.User{
		ID:             model.ID,
		TelegramUserID: model.TelegramUserID,
		Username:       model.Username,
		FirstName:      model.FirstName,
		LastName:       model.LastName,
		LanguageCode:   model.LanguageCode,
		IsBlocked:      model.IsBlocked,
		LastActiveAt:   model.LastActiveAt,
		TotalCommands:  model.TotalCommands,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}
