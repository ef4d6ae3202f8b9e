package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/emrekrt/pandabot/internal/domain"
	"github.com/emrekrt/pandabot/internal/infra/metrics"
	"go.uber.org/zap"
)

// ReminderQueue is the persistent scheduling backend.
type ReminderQueue interface {
	Schedule(ctx context.Context, reminderID uint, at time.Time) (string, error)
	Cancel(ctx context.Context, jobID string) error
}

type ReminderUsecase struct {
	reminders domain.ReminderRepository
	users     domain.UserRepository
	queue     ReminderQueue
	notifier  Notifier
	maxLength int
	logger    *zap.Logger
	now       func() time.Time
}

func NewReminderUsecase(
	reminders domain.ReminderRepository,
	users domain.UserRepository,
	queue ReminderQueue,
	notifier Notifier,
	maxLength int,
	logger *zap.Logger,
) *ReminderUsecase {
	return &ReminderUsecase{
		reminders: reminders,
		users:     users,
		queue:     queue,
		notifier:  notifier,
		maxLength: maxLength,
		logger:    logger,
		now:       time.Now,
	}
}

// Create parses the free-text input, persists the reminder and schedules
// its delivery job. The row is written first so a delivered notification
// always has a backing record; the job id is attached after enqueueing.
func (r *ReminderUsecase) Create(ctx context.Context, userID uint, input string) (*domain.Reminder, error) {
	remindAt, message, err := ParseReminderInput(input, r.now())
	if err != nil {
		return nil, err
	}
	if len(message) > r.maxLength {
		return nil, ErrMessageTooLong
	}

	reminder := &domain.Reminder{
		UserID:   userID,
		Message:  message,
		RemindAt: remindAt,
		Status:   domain.ReminderStatusActive,
	}
	if err := r.reminders.Create(ctx, reminder); err != nil {
		return nil, err
	}

	jobID, err := r.queue.Schedule(ctx, reminder.ID, remindAt)
	if err != nil {
		if cancelErr := r.reminders.MarkCancelled(ctx, reminder.ID); cancelErr != nil {
			r.logger.Error("orphaned reminder row", zap.Uint("reminder_id", reminder.ID), zap.Error(cancelErr))
		}
		return nil, fmt.Errorf("scheduling reminder: %w", err)
	}
	if err := r.reminders.SetJobID(ctx, reminder.ID, jobID); err != nil {
		r.logger.Error("reminder job id not persisted", zap.Uint("reminder_id", reminder.ID), zap.Error(err))
	}
	reminder.JobID = jobID
	return reminder, nil
}

func (r *ReminderUsecase) List(ctx context.Context, userID uint, limit int) ([]domain.Reminder, error) {
	return r.reminders.ListActiveByUser(ctx, userID, limit)
}

// Cancel flips the reminder to cancelled and removes the queued job
// best-effort. A job that cannot be deleted will still find a
// non-active row when it fires and deliver nothing.
func (r *ReminderUsecase) Cancel(ctx context.Context, userID, reminderID uint) error {
	reminder, err := r.reminders.GetByID(ctx, userID, reminderID)
	if err != nil {
		return err
	}
	if err := r.reminders.MarkCancelled(ctx, reminder.ID); err != nil {
		return err
	}
	if reminder.JobID != "" {
		if err := r.queue.Cancel(ctx, reminder.JobID); err != nil {
			r.logger.Warn("reminder job not removed from queue", zap.String("job_id", reminder.JobID), zap.Error(err))
		}
	}
	return nil
}

// Deliver is the queue handler. A reminder that is no longer active is
// silently dropped. A recipient who blocked the bot moves the reminder
// to cancelled so the queue does not retry into a wall.
func (r *ReminderUsecase) Deliver(ctx context.Context, reminderID uint) error {
	reminder, err := r.reminders.Get(ctx, reminderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			r.logger.Warn("reminder job without a row", zap.Uint("reminder_id", reminderID))
			return nil
		}
		return err
	}
	if reminder.Status != domain.ReminderStatusActive {
		return nil
	}

	user, err := r.users.GetByID(ctx, reminder.UserID)
	if err != nil {
		return err
	}

	text := "⏰ Hatırlatma: " + reminder.Message
	if err := r.notifier.Notify(ctx, user.TelegramUserID, text); err != nil {
		if errors.Is(err, ErrRecipientBlocked) {
			r.logger.Warn("reminder recipient blocked the bot", zap.Int64("telegram_user_id", user.TelegramUserID))
			return r.reminders.MarkCancelled(ctx, reminder.ID)
		}
		return err
	}

	metrics.RemindersDeliveredTotal.Inc()
	return r.reminders.MarkCompleted(ctx, reminder.ID)
}
