package db

import (
	"context"
	"errors"
	"time"

	"github.com/emrekrt/pandabot/internal/domain"
	"gorm.io/gorm"
)

type WatchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

func (r *WatchlistRepository) Replace(ctx context.Context, list *domain.Watchlist) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model watchlistModel
		err := tx.Where("user_id = ? AND list_name = ?", list.UserID, list.ListName).First(&model).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			model = watchlistModel{
				UserID:   list.UserID,
				ListName: list.ListName,
				Type:     string(list.Type),
			}
			if err := tx.Create(&model).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if err := tx.Model(&watchlistModel{}).Where("id = ?", model.ID).
				Update("type", string(list.Type)).Error; err != nil {
				return err
			}
			if err := tx.Where("watchlist_id = ?", model.ID).Delete(&watchlistTickerModel{}).Error; err != nil {
				return err
			}
		}

		now := time.Now()
		for _, ticker := range list.Tickers {
			row := watchlistTickerModel{WatchlistID: model.ID, Symbol: ticker.Symbol, AddedAt: now}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		list.ID = model.ID
		return nil
	})
}

func (r *WatchlistRepository) GetByName(ctx context.Context, userID uint, listName string) (*domain.Watchlist, error) {
	var model watchlistModel
	err := r.db.WithContext(ctx).
		Preload("Tickers").
		Where("user_id = ? AND list_name = ?", userID, listName).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	list := mapWatchlistToDomain(model)
	return &list, nil
}

func (r *WatchlistRepository) ListByUser(ctx context.Context, userID uint) ([]domain.Watchlist, error) {
	var models []watchlistModel
	if err := r.db.WithContext(ctx).
		Preload("Tickers").
		Where("user_id = ?", userID).
		Order("list_name").
		Find(&models).Error; err != nil {
		return nil, err
	}
	lists := make([]domain.Watchlist, 0, len(models))
	for _, model := range models {
		lists = append(lists, mapWatchlistToDomain(model))
	}
	return lists, nil
}

func (r *WatchlistRepository) AddTickers(ctx context.Context, userID uint, listName string, symbols []string) ([]string, error) {
	var added []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model watchlistModel
		err := tx.Preload("Tickers").
			Where("user_id = ? AND list_name = ?", userID, listName).
			First(&model).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		existing := make(map[string]bool, len(model.Tickers))
		for _, t := range model.Tickers {
			existing[t.Symbol] = true
		}

		now := time.Now()
		for _, symbol := range symbols {
			if existing[symbol] {
				continue
			}
			row := watchlistTickerModel{WatchlistID: model.ID, Symbol: symbol, AddedAt: now}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			existing[symbol] = true
			added = append(added, symbol)
		}
		return nil
	})
	return added, err
}

func (r *WatchlistRepository) RemoveTicker(ctx context.Context, userID uint, listName string, symbol string) error {
	var model watchlistModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND list_name = ?", userID, listName).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}

	result := r.db.WithContext(ctx).
		Where("watchlist_id = ? AND symbol = ?", model.ID, symbol).
		Delete(&watchlistTickerModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *WatchlistRepository) Delete(ctx context.Context, userID uint, listName string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model watchlistModel
		err := tx.Where("user_id = ? AND list_name = ?", userID, listName).First(&model).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if err := tx.Where("watchlist_id = ?", model.ID).Delete(&watchlistTickerModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model).Error
	})
}

func (r *WatchlistRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&watchlistModel{}).Count(&n).Error
	return n, err
}

func mapWatchlistToDomain(model watchlistModel) domain.Watchlist {
	tickers := make([]domain.WatchlistTicker, 0, len(model.Tickers))
	for _, t := range model.Tickers {
		tickers = append(tickers, domain.WatchlistTicker{Symbol: t.Symbol, AddedAt: t.AddedAt})
	}
	return domain.Watchlist{
		ID:        model.ID,
		UserID:    model.UserID,
		ListName:  model.ListName,
		Type:      domain.WatchlistType(model.Type),
		Tickers:   tickers,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
