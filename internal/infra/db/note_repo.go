package db

import (
	"context"
	"errors"

	"github.com/emrekrt/pandabot/internal/domain"
	"gorm.io/gorm"
)

type NoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) Create(ctx context.Context, note *domain.Note) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxShortID int
		if err := tx.Model(&noteModel{}).
			Select("COALESCE(MAX(short_id), 0)").
			Scan(&maxShortID).Error; err != nil {
			return err
		}

		model := noteModel{
			UserID:  note.UserID,
			Content: note.Content,
			ShortID: maxShortID + 1,
		}
		if err := tx.Create(&model).Error; err != nil {
			return err
		}

		note.ID = model.ID
		note.ShortID = model.ShortID
		note.CreatedAt = model.CreatedAt
		note.UpdatedAt = model.UpdatedAt
		return nil
	})
}

func (r *NoteRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]domain.Note, error) {
	var models []noteModel
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return mapNotesToDomain(models), nil
}

func (r *NoteRepository) Search(ctx context.Context, userID uint, term string, limit int) ([]domain.Note, error) {
	var models []noteModel
	query := r.db.WithContext(ctx).
		Where("user_id = ? AND content ILIKE ?", userID, "%"+term+"%").
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return mapNotesToDomain(models), nil
}

func (r *NoteRepository) GetByShortID(ctx context.Context, userID uint, shortID int) (*domain.Note, error) {
	var model noteModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND short_id = ?", userID, shortID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	note := mapNoteToDomain(model)
	return &note, nil
}

func (r *NoteRepository) UpdateContent(ctx context.Context, userID uint, shortID int, content string) error {
	result := r.db.WithContext(ctx).Model(&noteModel{}).
		Where("user_id = ? AND short_id = ?", userID, shortID).
		Update("content", content)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *NoteRepository) Delete(ctx context.Context, userID uint, shortID int) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND short_id = ?", userID, shortID).
		Delete(&noteModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *NoteRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&noteModel{}).Count(&n).Error
	return n, err
}

func mapNotesToDomain(models []noteModel) []domain.Note {
	notes := make([]domain.Note, 0, len(models))
	for _, model := range models {
		notes = append(notes, mapNoteToDomain(model))
	}
	return notes
}

func mapNoteToDomain(model noteModel) domain.Note {
	return domain.Note{
		ID:        model.ID,
		UserID:    model.UserID,
		Content:   model.Content,
		ShortID:   model.ShortID,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
