package booking

import (
	"context"

	"staybridge/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// BookingService drives bookings on behalf of the HTTP layer and the queue worker.
type BookingService interface {
	// Book runs the full workflow and blocks until it reaches a terminal state.
	Book(ctx context.Context, req models.BookingRequest) models.BookingOutcome
	// Enqueue hands req to the worker and returns its partner order id.
	Enqueue(ctx context.Context, req models.BookingRequest) (string, error)
	// Progress returns the latest stored snapshot of a booking.
	Progress(ctx context.Context, partnerOrderID string) (*models.BookingSession, error)
}

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Orchestrator *Orchestrator
	Sessions     SessionStore
	Queue        TaskEnqueuer
	Logger       *zap.Logger
}
