package cron

import (
	"context"
	"time"

	"handyhub/config"
	"handyhub/services/tasks"
	"handyhub/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// CancellationExpirer persists the expiry of overdue cancellation requests.
type CancellationExpirer interface {
	ExpireCancellationRequests(ctx context.Context, bookingID string) (int, error)
}

// QueueRedisOpt is the asynq connection shared by the client and the worker.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitCancellationWorker starts the background worker that expires
// cancellation requests. The returned server must be shut down on exit.
func InitCancellationWorker(expirer CancellationExpirer) *asynq.Server {
	logger := utils.GetLogger()

	srv := asynq.NewServer(
		QueueRedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeExpireCancellation, HandleExpireCancellationTask(expirer))

	go func() {
		logger.Info("starting cancellation expiry worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			logger.Warn("failed to start cancellation worker",
				zap.Int("attempt", attempts),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("cancellation worker gave up; requests will expire lazily only")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()

	return srv
}

// HandleExpireCancellationTask decodes the task and expires what is due.
func HandleExpireCancellationTask(expirer CancellationExpirer) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseExpireCancellationPayload(task)
		if err != nil {
			utils.GetLogger().Error("dropping malformed task", zap.Error(err))
			// Retrying cannot fix a bad payload.
			return asynq.SkipRetry
		}
		n, err := expirer.ExpireCancellationRequests(ctx, p.BookingID)
		if err != nil {
			utils.GetLogger().Warn("failed to expire cancellation requests",
				zap.String("bookingID", p.BookingID),
				zap.String("requestID", p.RequestID),
				zap.Error(err))
			return err
		}
		utils.GetLogger().Debug("cancellation expiry task done",
			zap.String("bookingID", p.BookingID),
			zap.Int("expired", n))
		return nil
	}
}
