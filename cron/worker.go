package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mindnest/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeBookingSchedule = "booking:schedule"

// BookingScheduler reruns the scheduling step of a booking.
type BookingScheduler interface {
	RunScheduling(ctx context.Context, bookingID string) (*models.Booking, error)
}

// NewScheduleTask builds a one-shot scheduling task. Failed attempts are not
// retried by the queue; the booking records the failure instead.
func NewScheduleTask(bookingID string) (*asynq.Task, error) {
	payload, err := json.Marshal(models.ScheduleTaskPayload{BookingID: bookingID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeBookingSchedule, payload, asynq.MaxRetry(0), asynq.Timeout(time.Minute)), nil
}

// ScheduleQueue enqueues scheduling tasks on redis.
type ScheduleQueue struct {
	client *asynq.Client
	logger *zap.Logger
}

func NewScheduleQueue(opts asynq.RedisClientOpt, logger *zap.Logger) *ScheduleQueue {
	return &ScheduleQueue{client: asynq.NewClient(opts), logger: logger}
}

func (q *ScheduleQueue) EnqueueSchedule(ctx context.Context, bookingID string) error {
	task, err := NewScheduleTask(bookingID)
	if err != nil {
		return err
	}
	info, err := q.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", TypeBookingSchedule, err)
	}
	q.logger.Info("Scheduling task enqueued",
		zap.String("bookingId", bookingID),
		zap.String("taskId", info.ID),
		zap.String("queue", info.Queue),
	)
	return nil
}

func (q *ScheduleQueue) Close() error {
	return q.client.Close()
}

// Worker processes scheduling tasks in the background.
type Worker struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
}

func NewWorker(opts asynq.RedisClientOpt, bookings BookingScheduler, logger *zap.Logger) *Worker {
	srv := asynq.NewServer(
		opts,
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
			ShutdownTimeout: 10 * time.Second,
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBookingSchedule, handleScheduleTask(bookings, logger))

	return &Worker{srv: srv, mux: mux, logger: logger}
}

// Start runs the worker in the background. Startup is retried with backoff
// while redis is unreachable.
func (w *Worker) Start() {
	go func() {
		w.logger.Info("Starting scheduling worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := w.srv.Start(w.mux)
			if err == nil {
				return
			}
			w.logger.Error("Scheduling worker failed to start",
				zap.Int("attempt", attempts),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err),
			)
			if attempts == maxAttempts {
				w.logger.Error("Scheduling worker gave up; recovery requests will stay queued")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
}

func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}

func handleScheduleTask(bookings BookingScheduler, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ScheduleTaskPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid scheduling payload", zap.Error(err))
			return fmt.Errorf("invalid payload: %v: %w", err, asynq.SkipRetry)
		}

		b, err := bookings.RunScheduling(ctx, p.BookingID)
		if err != nil {
			logger.Error("Scheduling task failed", zap.String("bookingId", p.BookingID), zap.Error(err))
			return err
		}
		logger.Info("Scheduling task finished",
			zap.String("bookingId", b.ID),
			zap.String("state", string(b.State)),
		)
		return nil
	}
}
