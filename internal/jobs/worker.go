package jobs

import (
	"context"
	"fmt"

	"taskboard/internal/config"
	"taskboard/internal/logging"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// NewClient returns an asynq client sharing the application's redis connection.
func NewClient(rdb redis.UniversalClient) *asynq.Client {
	return asynq.NewClientFromRedisClient(rdb)
}

// NewWorker builds the asynq server that runs queued notifications.
func NewWorker(rdb redis.UniversalClient, cfg config.QueueConfig, logger zerolog.Logger) *asynq.Server {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 5
	}

	return asynq.NewServerFromRedisClient(rdb, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			QueueNotifications: 6,
			QueueDefault:       1,
		},
		Logger: asynqLogger{logger.With().Str("component", "worker").Logger()},
		BaseContext: func() context.Context {
			return logging.WithContext(context.Background(), logger)
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)
			logger.Error().Err(err).
				Str("type", task.Type()).
				Int("retry", retried).
				Int("max_retry", maxRetry).
				Msg("queue task failed")
		}),
	})
}

// asynqLogger adapts zerolog to asynq.Logger.
type asynqLogger struct {
	l zerolog.Logger
}

func (a asynqLogger) Debug(args ...interface{}) { a.l.Debug().Msg(fmt.Sprint(args...)) }
func (a asynqLogger) Info(args ...interface{})  { a.l.Info().Msg(fmt.Sprint(args...)) }
func (a asynqLogger) Warn(args ...interface{})  { a.l.Warn().Msg(fmt.Sprint(args...)) }
func (a asynqLogger) Error(args ...interface{}) { a.l.Error().Msg(fmt.Sprint(args...)) }
func (a asynqLogger) Fatal(args ...interface{}) { a.l.Fatal().Msg(fmt.Sprint(args...)) }
