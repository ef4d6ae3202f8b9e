package usecase

import (
	"context"
	"strings"

	"github.com/emrekrt/pandabot/internal/domain"
	"go.uber.org/zap"
)

type NoteUsecase struct {
	notes     domain.NoteRepository
	maxLength int
	logger    *zap.Logger
}

func NewNoteUsecase(notes domain.NoteRepository, maxLength int, logger *zap.Logger) *NoteUsecase {
	return &NoteUsecase{notes: notes, maxLength: maxLength, logger: logger}
}

func (n *NoteUsecase) Create(ctx context.Context, userID uint, content string) (*domain.Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyNote
	}
	if len(content) > n.maxLength {
		return nil, ErrMessageTooLong
	}

	note := &domain.Note{UserID: userID, Content: content}
	if err := n.notes.Create(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (n *NoteUsecase) List(ctx context.Context, userID uint, limit int) ([]domain.Note, error) {
	return n.notes.ListByUser(ctx, userID, limit)
}

func (n *NoteUsecase) Search(ctx context.Context, userID uint, term string, limit int) ([]domain.Note, error) {
	return n.notes.Search(ctx, userID, strings.TrimSpace(term), limit)
}

func (n *NoteUsecase) Get(ctx context.Context, userID uint, shortID int) (*domain.Note, error) {
	return n.notes.GetByShortID(ctx, userID, shortID)
}

func (n *NoteUsecase) Edit(ctx context.Context, userID uint, shortID int, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return ErrEmptyNote
	}
	if len(content) > n.maxLength {
		return ErrMessageTooLong
	}
	return n.notes.UpdateContent(ctx, userID, shortID, content)
}

func (n *NoteUsecase) Delete(ctx context.Context, userID uint, shortID int) error {
	return n.notes.Delete(ctx, userID, shortID)
}
