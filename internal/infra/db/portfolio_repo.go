package db

import (
	"context"
	"errors"
	"time"

	"github.com/emrekrt/pandabot/internal/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PortfolioRepository struct {
	db *gorm.DB
}

func NewPortfolioRepository(db *gorm.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

func (r *PortfolioRepository) GetByName(ctx context.Context, userID uint, name string) (*domain.Portfolio, error) {
	var model portfolioModel
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ? AND name = ?", userID, name).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return mapPortfolioToDomain(model)
}

func (r *PortfolioRepository) ListByUser(ctx context.Context, userID uint) ([]domain.Portfolio, error) {
	var models []portfolioModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("name").
		Find(&models).Error; err != nil {
		return nil, err
	}
	portfolios := make([]domain.Portfolio, 0, len(models))
	for _, model := range models {
		p, err := mapPortfolioToDomain(model)
		if err != nil {
			return nil, err
		}
		portfolios = append(portfolios, *p)
	}
	return portfolios, nil
}

func (r *PortfolioRepository) AddItem(ctx context.Context, userID uint, name, symbol string, amount, price decimal.Decimal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model portfolioModel
		err := tx.Where("user_id = ? AND name = ?", userID, name).First(&model).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			model = portfolioModel{UserID: userID, Name: name}
			if err := tx.Create(&model).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		var item portfolioItemModel
		err = tx.Where("portfolio_id = ? AND symbol = ?", model.ID, symbol).First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			item = portfolioItemModel{
				PortfolioID:  model.ID,
				Symbol:       symbol,
				Amount:       amount.String(),
				AveragePrice: price.String(),
				AddedAt:      time.Now(),
			}
			return tx.Create(&item).Error
		} else if err != nil {
			return err
		}

		held, err := decimal.NewFromString(item.Amount)
		if err != nil {
			return err
		}
		avg := decimal.Zero
		if item.AveragePrice != "" {
			if avg, err = decimal.NewFromString(item.AveragePrice); err != nil {
				return err
			}
		}

		// Weighted average over the combined position.
		total := held.Add(amount)
		newAvg := held.Mul(avg).Add(amount.Mul(price)).Div(total)

		return tx.Model(&portfolioItemModel{}).Where("id = ?", item.ID).Updates(map[string]interface{}{
			"amount":        total.String(),
			"average_price": newAvg.String(),
		}).Error
	})
}

func (r *PortfolioRepository) ReduceItem(ctx context.Context, userID uint, name, symbol string, amount decimal.Decimal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model portfolioModel
		err := tx.Where("user_id = ? AND name = ?", userID, name).First(&model).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		var item portfolioItemModel
		err = tx.Where("portfolio_id = ? AND symbol = ?", model.ID, symbol).First(&item).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		held, err := decimal.NewFromString(item.Amount)
		if err != nil {
			return err
		}
		remaining := held.Sub(amount)
		if remaining.IsNegative() {
			return domain.ErrInsufficientHoldings
		}
		if remaining.IsZero() {
			return tx.Delete(&item).Error
		}
		return tx.Model(&portfolioItemModel{}).Where("id = ?", item.ID).
			Update("amount", remaining.String()).Error
	})
}

func (r *PortfolioRepository) Delete(ctx context.Context, userID uint, name string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model portfolioModel
		err := tx.Where("user_id = ? AND name = ?", userID, name).First(&model).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if err := tx.Where("portfolio_id = ?", model.ID).Delete(&portfolioItemModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model).Error
	})
}

func (r *PortfolioRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&portfolioModel{}).Count(&n).Error
	return n, err
}

func mapPortfolioToDomain(model portfolioModel) (*domain.Portfolio, error) {
	items := make([]domain.PortfolioItem, 0, len(model.Items))
	for _, item := range model.Items {
		amount, err := decimal.NewFromString(item.Amount)
		if err != nil {
			return nil, err
		}
		avg := decimal.Zero
		if item.AveragePrice != "" {
			if avg, err = decimal.NewFromString(item.AveragePrice); err != nil {
				return nil, err
			}
		}
		items = append(items, domain.PortfolioItem{
			Symbol:       item.Symbol,
			Amount:       amount,
			AveragePrice: avg,
			AddedAt:      item.AddedAt,
		})
	}
	return &domain.Portfolio{
		ID:        model.ID,
		UserID:    model.UserID,
		Name:      model.Name,
		Items:     items,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}, nil
}
