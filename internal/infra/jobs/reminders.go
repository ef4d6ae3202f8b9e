package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	TypeReminderSend = "reminder:send"
	reminderQueue    = "reminders"
)

type reminderPayload struct {
	ReminderID uint `json:"reminder_id"`
}

// ReminderQueue schedules one-shot reminder deliveries through the
// redis-backed task queue so pending reminders survive restarts.
type ReminderQueue struct {
	client    *asynq.Client
	inspector *asynq.Inspector
	logger    *zap.Logger
}

func NewReminderQueue(redisOpt asynq.RedisClientOpt, logger *zap.Logger) *ReminderQueue {
	return &ReminderQueue{
		client:    asynq.NewClient(redisOpt),
		inspector: asynq.NewInspector(redisOpt),
		logger:    logger,
	}
}

// Schedule enqueues a delivery task for the given time and returns its
// task ID, which the caller persists so the task can be cancelled later.
func (q *ReminderQueue) Schedule(ctx context.Context, reminderID uint, at time.Time) (string, error) {
	payload, err := json.Marshal(reminderPayload{ReminderID: reminderID})
	if err != nil {
		return "", err
	}

	task := asynq.NewTask(TypeReminderSend, payload)
	info, err := q.client.EnqueueContext(ctx, task,
		asynq.ProcessAt(at),
		asynq.TaskID(uuid.NewString()),
		asynq.Queue(reminderQueue),
		asynq.MaxRetry(3),
	)
	if err != nil {
		return "", err
	}

	q.logger.Info(
		"reminder scheduled",
		zap.Uint("reminder_id", reminderID),
		zap.String("job_id", info.ID),
		zap.Time("at", at),
	)
	return info.ID, nil
}

// Cancel removes a scheduled task. A task that already ran or was never
// recorded is not an error; the reminder row is the source of truth.
func (q *ReminderQueue) Cancel(ctx context.Context, jobID string) error {
	err := q.inspector.DeleteTask(reminderQueue, jobID)
	if err != nil && !errors.Is(err, asynq.ErrTaskNotFound) && !errors.Is(err, asynq.ErrQueueNotFound) {
		return err
	}
	return nil
}

func (q *ReminderQueue) Close() error {
	return q.client.Close()
}

// ReminderDeliverer is implemented by the reminder usecase.
type ReminderDeliverer interface {
	Deliver(ctx context.Context, reminderID uint) error
}

// ReminderServer consumes the reminder queue.
type ReminderServer struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
}

func NewReminderServer(redisOpt asynq.RedisClientOpt, deliverer ReminderDeliverer, logger *zap.Logger) *ReminderServer {
	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 5,
		Queues:      map[string]int{reminderQueue: 1},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReminderSend, func(ctx context.Context, task *asynq.Task) error {
		var payload reminderPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			logger.Error("reminder task payload invalid", zap.Error(err))
			return nil
		}
		return deliverer.Deliver(ctx, payload.ReminderID)
	})

	return &ReminderServer{server: server, mux: mux, logger: logger}
}

func (s *ReminderServer) Start() error {
	return s.server.Start(s.mux)
}

func (s *ReminderServer) Shutdown() {
	s.server.Shutdown()
}
