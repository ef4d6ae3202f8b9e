package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/emrekrt/pandabot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeNoteRepo struct {
	domain.NoteRepository
	created []domain.Note
	edited  map[int]string
}

func (f *fakeNoteRepo) Create(ctx context.Context, note *domain.Note) error {
	note.ID = uint(len(f.created) + 1)
	note.ShortID = len(f.created) + 1
	f.created = append(f.created, *note)
	return nil
}

func (f *fakeNoteRepo) UpdateContent(ctx context.Context, userID uint, shortID int, content string) error {
	if f.edited == nil {
		f.edited = make(map[int]string)
	}
	f.edited[shortID] = content
	return nil
}

func TestNoteCreateTrimsContent(t *testing.T) {
	repo := &fakeNoteRepo{}
	uc := NewNoteUsecase(repo, 1000, zap.NewNop())

	note, err := uc.Create(context.Background(), 1, "  süt al  ")
	require.NoError(t, err)
	assert.Equal(t, "süt al", note.Content)
	require.Len(t, repo.created, 1)
}

func TestNoteCreateRejectsEmptyContent(t *testing.T) {
	repo := &fakeNoteRepo{}
	uc := NewNoteUsecase(repo, 1000, zap.NewNop())

	_, err := uc.Create(context.Background(), 1, "   ")
	assert.ErrorIs(t, err, ErrEmptyNote)
	assert.Empty(t, repo.created)
}

func TestNoteCreateRejectsOverlongContent(t *testing.T) {
	uc := NewNoteUsecase(&fakeNoteRepo{}, 10, zap.NewNop())

	_, err := uc.Create(context.Background(), 1, strings.Repeat("a", 11))
	assert.ErrorIs(t, err, ErrMessageTooLong)
}

func TestNoteEditRejectsEmptyContent(t *testing.T) {
	repo := &fakeNoteRepo{}
	uc := NewNoteUsecase(repo, 1000, zap.NewNop())

	err := uc.Edit(context.Background(), 1, 3, "")
	assert.ErrorIs(t, err, ErrEmptyNote)
	assert.Empty(t, repo.edited)
}
