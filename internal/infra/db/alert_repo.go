package db

import (
	"context"
	"errors"
	"time"

	"github.com/emrekrt/pandabot/internal/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AlertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

// Create assigns the next short id inside the insert transaction; the
// unique index on short_id backs the invariant if two inserts race.
func (r *AlertRepository) Create(ctx context.Context, alert *domain.Alert) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxShortID int
		if err := tx.Model(&alertModel{}).
			Select("COALESCE(MAX(short_id), 0)").
			Scan(&maxShortID).Error; err != nil {
			return err
		}

		model := mapAlertToModel(*alert)
		model.ShortID = maxShortID + 1
		if err := tx.Create(&model).Error; err != nil {
			return err
		}

		alert.ID = model.ID
		alert.ShortID = model.ShortID
		alert.CreatedAt = model.CreatedAt
		alert.UpdatedAt = model.UpdatedAt
		return nil
	})
}

func (r *AlertRepository) ListActive(ctx context.Context) ([]domain.Alert, error) {
	var models []alertModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(domain.AlertStatusActive)).
		Order("id").
		Find(&models).Error; err != nil {
		return nil, err
	}
	return mapAlertsToDomain(models)
}

func (r *AlertRepository) ListActiveByUser(ctx context.Context, userID uint, limit int) ([]domain.Alert, error) {
	var models []alertModel
	query := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, string(domain.AlertStatusActive)).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return mapAlertsToDomain(models)
}

// FindActiveDuplicate reports nil, nil when the user has no matching
// active alert. Absence is the normal case here, not an error.
func (r *AlertRepository) FindActiveDuplicate(ctx context.Context, userID uint, symbol string, thresholdPct decimal.Decimal) (*domain.Alert, error) {
	var model alertModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND symbol = ? AND threshold_pct = ? AND status = ?",
			userID, symbol, thresholdPct.String(), string(domain.AlertStatusActive)).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mapAlertToDomain(model)
}

func (r *AlertRepository) GetByShortID(ctx context.Context, userID uint, shortID int) (*domain.Alert, error) {
	var model alertModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND short_id = ?", userID, shortID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return mapAlertToDomain(model)
}

func (r *AlertRepository) SetStatus(ctx context.Context, userID uint, shortID int, status domain.AlertStatus) error {
	result := r.db.WithContext(ctx).Model(&alertModel{}).
		Where("user_id = ? AND short_id = ?", userID, shortID).
		Update("status", string(status))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AlertRepository) DeleteBySymbol(ctx context.Context, userID uint, symbol string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND symbol = ?", userID, symbol).
		Delete(&alertModel{})
	return result.RowsAffected, result.Error
}

func (r *AlertRepository) UpdateObservation(ctx context.Context, alertID uint, currentPrice decimal.Decimal, triggeredAt *time.Time) error {
	updates := map[string]interface{}{"current_price": currentPrice.String()}
	if triggeredAt != nil {
		updates["last_triggered"] = *triggeredAt
	}
	return r.db.WithContext(ctx).Model(&alertModel{}).
		Where("id = ?", alertID).
		Updates(updates).Error
}

func (r *AlertRepository) CountByStatus(ctx context.Context, status domain.AlertStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&alertModel{}).
		Where("status = ?", string(status)).
		Count(&n).Error
	return n, err
}

func mapAlertsToDomain(models []alertModel) ([]domain.Alert, error) {
	alerts := make([]domain.Alert, 0, len(models))
	for _, model := range models {
		alert, err := mapAlertToDomain(model)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, *alert)
	}
	return alerts, nil
}

func mapAlertToDomain(model alertModel) (*domain.Alert, error) {
	threshold, err := decimal.NewFromString(model.ThresholdPct)
	if err != nil {
		return nil, err
	}
	base, err := decimal.NewFromString(model.BasePrice)
	if err != nil {
		return nil, err
	}
	current, err := decimal.NewFromString(model.CurrentPrice)
	if err != nil {
		return nil, err
	}
	return &domain.Alert{
		ID:            model.ID,
		UserID:        model.UserID,
		Symbol:        model.Symbol,
		ThresholdPct:  threshold,
		BasePrice:     base,
		CurrentPrice:  current,
		LastTriggered: model.LastTriggered,
		Status:        domain.AlertStatus(model.Status),
		ShortID:       model.ShortID,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}, nil
}

func mapAlertToModel(alert domain.Alert) alertModel {
	return alertModel{
		ID:            alert.ID,
		UserID:        alert.UserID,
		Symbol:        alert.Symbol,
		ThresholdPct:  alert.ThresholdPct.String(),
		BasePrice:     alert.BasePrice.String(),
		CurrentPrice:  alert.CurrentPrice.String(),
		LastTriggered: alert.LastTriggered,
		Status:        string(alert.Status),
		ShortID:       alert.ShortID,
	}
}
