package tasks

import (
	"encoding/json"
	"time"

	"staybridge/models"

	"github.com/hibiken/asynq"
)

const (
	TypeBookingExecute = "booking:execute"
	BookingQueue       = "bookings"

	// A timed-out booking spends 20 waits of 2s plus the supplier calls; leave ample headroom.
	bookingTaskTimeout   = 10 * time.Minute
	bookingTaskRetention = 24 * time.Hour
)

// NewBookingTask builds a task that runs the booking workflow for req in a worker.
// The task id is the partner order id, so the same order cannot be queued twice while
// the previous task is still retained. Tasks are never retried: start may have charged.
func NewBookingTask(req models.BookingRequest) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingExecute, b)
	opts := []asynq.Option{
		asynq.Queue(BookingQueue),
		asynq.MaxRetry(0),
		asynq.TaskID(req.PartnerOrderID),
		asynq.Timeout(bookingTaskTimeout),
		asynq.Retention(bookingTaskRetention),
	}
	return task, opts, nil
}

// ParseBookingTask decodes the request carried by a booking task.
func ParseBookingTask(task *asynq.Task) (models.BookingRequest, error) {
	var req models.BookingRequest
	err := json.Unmarshal(task.Payload(), &req)
	return req, err
}
