package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const TypeExpireCancellation = "cancellation:expire"

// ExpireCancellationPayload identifies the cancellation request to expire.
type ExpireCancellationPayload struct {
	BookingID string `json:"bookingId"`
	RequestID string `json:"requestId"`
}

func NewExpireCancellationTask(payload ExpireCancellationPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeExpireCancellation, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.MaxRetry(5),
		// One task per request even if creation is retried.
		asynq.TaskID(TypeExpireCancellation + ":" + payload.BookingID + ":" + payload.RequestID),
	}
	return task, opts, nil
}

// ParseExpireCancellationPayload decodes a task payload.
func ParseExpireCancellationPayload(task *asynq.Task) (ExpireCancellationPayload, error) {
	var p ExpireCancellationPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid %s payload: %w", TypeExpireCancellation, err)
	}
	if p.BookingID == "" {
		return p, fmt.Errorf("invalid %s payload: bookingId is empty", TypeExpireCancellation)
	}
	return p, nil
}

// Scheduler enqueues delayed background work.
type Scheduler interface {
	ScheduleCancellationExpiry(ctx context.Context, bookingID, requestID string, at time.Time) error
}

// AsynqScheduler enqueues tasks on an asynq client.
type AsynqScheduler struct {
	Client *asynq.Client
}

func NewAsynqScheduler(client *asynq.Client) *AsynqScheduler {
	return &AsynqScheduler{Client: client}
}

func (s *AsynqScheduler) ScheduleCancellationExpiry(ctx context.Context, bookingID, requestID string, at time.Time) error {
	task, opts, err := NewExpireCancellationTask(ExpireCancellationPayload{BookingID: bookingID, RequestID: requestID}, at)
	if err != nil {
		return err
	}
	if _, err := s.Client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", TypeExpireCancellation, err)
	}
	return nil
}
