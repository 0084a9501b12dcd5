package worker

import (
	"context"
	"fmt"
	"time"

	"staybridge/config"
	"staybridge/models"
	"staybridge/services/booking"
	"staybridge/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// RedisOpt is the queue connection shared by the worker and the enqueuing client.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewServeMux routes booking tasks to svc.
func NewServeMux(svc booking.BookingService, logger *zap.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBookingExecute, HandleBookingTask(svc, logger))
	return mux
}

// HandleBookingTask runs one queued booking. The workflow reports its own failures through the
// session store, so only an unreadable payload is returned as an error.
func HandleBookingTask(svc booking.BookingService, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		req, err := tasks.ParseBookingTask(task)
		if err != nil {
			logger.Error("invalid booking task payload", zap.Error(err))
			return fmt.Errorf("decode booking task: %v: %w", err, asynq.SkipRetry)
		}

		logger.Info("executing queued booking", zap.String("partner_order_id", req.PartnerOrderID))
		out := svc.Book(ctx, req)
		logOutcome(logger, out)
		return nil
	}
}

func logOutcome(logger *zap.Logger, out models.BookingOutcome) {
	fields := []zap.Field{
		zap.String("partner_order_id", out.PartnerOrderID),
		zap.String("status", string(out.Status)),
		zap.Int("attempts", out.Attempts),
	}
	switch {
	case out.Confirmed():
		logger.Info("queued booking confirmed", fields...)
	case out.TimedOut():
		logger.Warn("queued booking timed out, needs reconciliation", fields...)
	default:
		logger.Error("queued booking failed", append(fields, zap.String("reason", out.Reason))...)
	}
}

// Worker processes queued bookings in the background.
type Worker struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
}

func New(svc booking.BookingService, logger *zap.Logger) *Worker {
	logger = logger.Named("worker")
	srv := asynq.NewServer(
		RedisOpt(),
		asynq.Config{
			Concurrency: config.AppConfig.WorkerConcurrency,
			Queues: map[string]int{
				tasks.BookingQueue: 1,
			},
			// Bookings in flight at shutdown keep polling up to the full window.
			ShutdownTimeout: config.AppConfig.BookingPollInterval*time.Duration(config.AppConfig.BookingMaxPollAttempts) + time.Minute,
			Logger:          logger.Sugar(),
		},
	)
	return &Worker{srv: srv, mux: NewServeMux(svc, logger), logger: logger}
}

// Start runs the worker in the background, retrying a failed start with backoff.
func (w *Worker) Start() {
	go func() {
		w.logger.Info("starting booking worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := w.srv.Start(w.mux)
			if err == nil {
				return
			}
			w.logger.Error("failed to start booking worker",
				zap.Int("attempt", attempts),
				zap.Int("max_attempts", maxAttempts),
				zap.Error(err),
			)
			if attempts == maxAttempts {
				w.logger.Fatal("max worker start attempts reached")
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
}

// Shutdown waits for in-flight bookings and stops the worker.
func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}
