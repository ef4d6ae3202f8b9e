package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/emrekrt/pandabot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeReminderRepo struct {
	domain.ReminderRepository
	rows      map[uint]*domain.Reminder
	nextID    uint
	cancelled []uint
	completed []uint
}

func newFakeReminderRepo() *fakeReminderRepo {
	return &fakeReminderRepo{rows: make(map[uint]*domain.Reminder)}
}

func (f *fakeReminderRepo) Create(ctx context.Context, reminder *domain.Reminder) error {
	f.nextID++
	reminder.ID = f.nextID
	clone := *reminder
	f.rows[reminder.ID] = &clone
	return nil
}

func (f *fakeReminderRepo) Get(ctx context.Context, reminderID uint) (*domain.Reminder, error) {
	row, ok := f.rows[reminderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *row
	return &clone, nil
}

func (f *fakeReminderRepo) GetByID(ctx context.Context, userID, reminderID uint) (*domain.Reminder, error) {
	row, ok := f.rows[reminderID]
	if !ok || row.UserID != userID {
		return nil, domain.ErrNotFound
	}
	clone := *row
	return &clone, nil
}

func (f *fakeReminderRepo) SetJobID(ctx context.Context, reminderID uint, jobID string) error {
	f.rows[reminderID].JobID = jobID
	return nil
}

func (f *fakeReminderRepo) MarkCancelled(ctx context.Context, reminderID uint) error {
	f.rows[reminderID].Status = domain.ReminderStatusCancelled
	f.cancelled = append(f.cancelled, reminderID)
	return nil
}

func (f *fakeReminderRepo) MarkCompleted(ctx context.Context, reminderID uint) error {
	f.rows[reminderID].Status = domain.ReminderStatusCompleted
	f.completed = append(f.completed, reminderID)
	return nil
}

type fakeQueue struct {
	scheduled []uint
	removed   []string
	err       error
}

func (f *fakeQueue) Schedule(ctx context.Context, reminderID uint, at time.Time) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.scheduled = append(f.scheduled, reminderID)
	return "job-1", nil
}

func (f *fakeQueue) Cancel(ctx context.Context, jobID string) error {
	f.removed = append(f.removed, jobID)
	return nil
}

func newTestReminderUsecase(repo *fakeReminderRepo, queue *fakeQueue, notifier *fakeNotifier) *ReminderUsecase {
	return NewReminderUsecase(repo, &fakeUserRepo{}, queue, notifier, 500, zap.NewNop())
}

func TestReminderCreatePersistsRowThenJob(t *testing.T) {
	repo := newFakeReminderRepo()
	queue := &fakeQueue{}
	uc := newTestReminderUsecase(repo, queue, &fakeNotifier{})

	reminder, err := uc.Create(context.Background(), 1, "+30m çay demle")
	require.NoError(t, err)
	assert.Equal(t, "çay demle", reminder.Message)
	assert.Equal(t, "job-1", reminder.JobID)
	assert.Equal(t, []uint{reminder.ID}, queue.scheduled)
	assert.Equal(t, "job-1", repo.rows[reminder.ID].JobID)
}

func TestReminderCreateScheduleFailureCancelsRow(t *testing.T) {
	repo := newFakeReminderRepo()
	queue := &fakeQueue{err: errors.New("queue down")}
	uc := newTestReminderUsecase(repo, queue, &fakeNotifier{})

	_, err := uc.Create(context.Background(), 1, "+30m çay")
	require.Error(t, err)
	require.Len(t, repo.cancelled, 1)
}

func TestReminderCreateRejectsUnparsedTime(t *testing.T) {
	uc := newTestReminderUsecase(newFakeReminderRepo(), &fakeQueue{}, &fakeNotifier{})

	_, err := uc.Create(context.Background(), 1, "hiç zaman yok burada")
	assert.ErrorIs(t, err, ErrTimeNotRecognized)
}

func TestReminderCancelRemovesQueuedJob(t *testing.T) {
	repo := newFakeReminderRepo()
	queue := &fakeQueue{}
	uc := newTestReminderUsecase(repo, queue, &fakeNotifier{})

	reminder, err := uc.Create(context.Background(), 1, "+1h toplantı")
	require.NoError(t, err)

	require.NoError(t, uc.Cancel(context.Background(), 1, reminder.ID))
	assert.Equal(t, []string{"job-1"}, queue.removed)
	assert.Equal(t, domain.ReminderStatusCancelled, repo.rows[reminder.ID].Status)
}

func TestDeliverCompletesActiveReminder(t *testing.T) {
	repo := newFakeReminderRepo()
	notifier := &fakeNotifier{}
	uc := newTestReminderUsecase(repo, &fakeQueue{}, notifier)

	reminder, err := uc.Create(context.Background(), 1, "+1h toplantı")
	require.NoError(t, err)

	require.NoError(t, uc.Deliver(context.Background(), reminder.ID))
	require.Len(t, notifier.sent, 1)
	assert.Contains(t, notifier.sent[0], "toplantı")
	assert.Equal(t, domain.ReminderStatusCompleted, repo.rows[reminder.ID].Status)
}

func TestDeliverSkipsNonActiveReminder(t *testing.T) {
	repo := newFakeReminderRepo()
	notifier := &fakeNotifier{}
	uc := newTestReminderUsecase(repo, &fakeQueue{}, notifier)

	reminder, err := uc.Create(context.Background(), 1, "+1h toplantı")
	require.NoError(t, err)
	require.NoError(t, uc.Cancel(context.Background(), 1, reminder.ID))

	require.NoError(t, uc.Deliver(context.Background(), reminder.ID))
	assert.Empty(t, notifier.sent)
}

func TestDeliverBlockedRecipientCancelsReminder(t *testing.T) {
	repo := newFakeReminderRepo()
	notifier := &fakeNotifier{err: ErrRecipientBlocked}
	uc := newTestReminderUsecase(repo, &fakeQueue{}, notifier)

	reminder, err := uc.Create(context.Background(), 1, "+1h toplantı")
	require.NoError(t, err)

	require.NoError(t, uc.Deliver(context.Background(), reminder.ID))
	assert.Equal(t, domain.ReminderStatusCancelled, repo.rows[reminder.ID].Status)
}

func TestDeliverMissingRowIsDropped(t *testing.T) {
	uc := newTestReminderUsecase(newFakeReminderRepo(), &fakeQueue{}, &fakeNotifier{})
	assert.NoError(t, uc.Deliver(context.Background(), 999))
}
