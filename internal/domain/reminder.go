package domain

import "time"

type ReminderStatus string

const (
	ReminderStatusActive    ReminderStatus = "active"
	ReminderStatusCompleted ReminderStatus = "completed"
	ReminderStatusCancelled ReminderStatus = "cancelled"
)

// Reminder is a one-shot scheduled notification. JobID holds the queue
// handle once the job is enqueued; it stays empty if the process dies
// between persisting the row and scheduling the job, in which case the
// reminder never fires and remains visible as active.
type Reminder struct {
	ID          uint
	UserID      uint
	Message     string
	RemindAt    time.Time
	Status      ReminderStatus
	JobID       string
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
