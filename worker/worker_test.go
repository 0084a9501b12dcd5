package worker

import (
	"context"
	"errors"
	"sync"
	"testing"

	"staybridge/models"
	"staybridge/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeBookingService struct {
	mu     sync.Mutex
	booked []models.BookingRequest
	out    models.BookingOutcome
}

func (f *fakeBookingService) Book(_ context.Context, req models.BookingRequest) models.BookingOutcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.booked = append(f.booked, req)
	out := f.out
	out.PartnerOrderID = req.PartnerOrderID
	return out
}

func (f *fakeBookingService) Enqueue(context.Context, models.BookingRequest) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeBookingService) Progress(context.Context, string) (*models.BookingSession, error) {
	return nil, errors.New("not used")
}

func TestHandleBookingTask_RunsBooking(t *testing.T) {
	for _, status := range []models.OutcomeStatus{models.OutcomeConfirmed, models.OutcomeFailed, models.OutcomeTimedOut} {
		t.Run(string(status), func(t *testing.T) {
			svc := &fakeBookingService{out: models.BookingOutcome{Status: status}}
			task, _, err := tasks.NewBookingTask(models.BookingRequest{BookHash: "h", PartnerOrderID: "ord_w"})
			require.NoError(t, err)

			err = HandleBookingTask(svc, zap.NewNop())(context.Background(), task)

			// Booking outcomes are never retried.
			assert.NoError(t, err)
			require.Len(t, svc.booked, 1)
			assert.Equal(t, "ord_w", svc.booked[0].PartnerOrderID)
		})
	}
}

func TestHandleBookingTask_BadPayloadSkipsRetry(t *testing.T) {
	svc := &fakeBookingService{}

	err := HandleBookingTask(svc, zap.NewNop())(context.Background(), asynq.NewTask(tasks.TypeBookingExecute, []byte("{")))

	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Empty(t, svc.booked)
}

func TestNewServeMux_RoutesBookingTasks(t *testing.T) {
	svc := &fakeBookingService{out: models.BookingOutcome{Status: models.OutcomeConfirmed}}
	task, _, err := tasks.NewBookingTask(models.BookingRequest{BookHash: "h", PartnerOrderID: "ord_mux"})
	require.NoError(t, err)

	err = NewServeMux(svc, zap.NewNop()).ProcessTask(context.Background(), task)

	assert.NoError(t, err)
	assert.Len(t, svc.booked, 1)
}
