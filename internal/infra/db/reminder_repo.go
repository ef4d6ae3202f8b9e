package db

import (
	"context"
	"errors"
	"time"

	"github.com/emrekrt/pandabot/internal/domain"
	"gorm.io/gorm"
)

type ReminderRepository struct {
	db *gorm.DB
}

func NewReminderRepository(db *gorm.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

func (r *ReminderRepository) Create(ctx context.Context, reminder *domain.Reminder) error {
	model := mapReminderToModel(*reminder)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	reminder.ID = model.ID
	reminder.CreatedAt = model.CreatedAt
	reminder.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *ReminderRepository) Get(ctx context.Context, reminderID uint) (*domain.Reminder, error) {
	var model reminderModel
	err := r.db.WithContext(ctx).First(&model, reminderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	reminder := mapReminderToDomain(model)
	return &reminder, nil
}

func (r *ReminderRepository) GetByID(ctx context.Context, userID uint, reminderID uint) (*domain.Reminder, error) {
	var model reminderModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", reminderID, userID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	reminder := mapReminderToDomain(model)
	return &reminder, nil
}

func (r *ReminderRepository) ListActiveByUser(ctx context.Context, userID uint, limit int) ([]domain.Reminder, error) {
	var models []reminderModel
	query := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, string(domain.ReminderStatusActive)).
		Order("remind_at")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	reminders := make([]domain.Reminder, 0, len(models))
	for _, model := range models {
		reminders = append(reminders, mapReminderToDomain(model))
	}
	return reminders, nil
}

func (r *ReminderRepository) SetJobID(ctx context.Context, reminderID uint, jobID string) error {
	return r.db.WithContext(ctx).Model(&reminderModel{}).
		Where("id = ?", reminderID).
		Update("job_id", jobID).Error
}

func (r *ReminderRepository) MarkCompleted(ctx context.Context, reminderID uint) error {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&reminderModel{}).
		Where("id = ? AND status = ?", reminderID, string(domain.ReminderStatusActive)).
		Updates(map[string]interface{}{
			"status":       string(domain.ReminderStatusCompleted),
			"completed_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ReminderRepository) MarkCancelled(ctx context.Context, reminderID uint) error {
	result := r.db.WithContext(ctx).Model(&reminderModel{}).
		Where("id = ? AND status = ?", reminderID, string(domain.ReminderStatusActive)).
		Update("status", string(domain.ReminderStatusCancelled))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ReminderRepository) CountByStatus(ctx context.Context, status domain.ReminderStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&reminderModel{}).
		Where("status = ?", string(status)).
		Count(&n).Error
	return n, err
}

func (r *ReminderRepository) CountCompletedSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&reminderModel{}).
		Where("status = ? AND completed_at >= ?", string(domain.ReminderStatusCompleted), since).
		Count(&n).Error
	return n, err
}

func mapReminderToDomain(model reminderModel) domain.Reminder {
	return domain.Reminder{
		ID:          model.ID,
		UserID:      model.UserID,
		Message:     model.Message,
		RemindAt:    model.RemindAt,
		Status:      domain.ReminderStatus(model.Status),
		JobID:       model.JobID,
		CompletedAt: model.CompletedAt,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func mapReminderToModel(reminder domain.Reminder) reminderModel {
	return reminderModel{
		ID:          reminder.ID,
		UserID:      reminder.UserID,
		Message:     reminder.Message,
		RemindAt:    reminder.RemindAt,
		Status:      string(reminder.Status),
		JobID:       reminder.JobID,
		CompletedAt: reminder.CompletedAt,
	}
}
