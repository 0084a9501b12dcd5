package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"staybridge/models"
	"staybridge/services/supplier"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestOrchestrator(api OrderAPI, clock Clock) *Orchestrator {
	return NewOrchestrator(api, zap.NewNop(), WithClock(clock))
}

func TestExecute_ConfirmsWhenPercentReaches100(t *testing.T) {
	api := &fakeOrderAPI{statusFn: sequence("50", "80", "100")}
	clock := newFakeClock()
	rec := &recorder{}

	out := newTestOrchestrator(api, clock).Execute(context.Background(), validRequest("ord_1"), rec.record)

	assert.Equal(t, models.OutcomeConfirmed, out.Status)
	assert.Equal(t, "ord_1", out.PartnerOrderID)
	assert.Equal(t, 3, out.Attempts)
	require.NotNil(t, out.LastPercent)
	assert.Equal(t, 100, *out.LastPercent)

	creates, starts, polls := api.counts()
	assert.Equal(t, 1, creates)
	assert.Equal(t, 1, starts)
	assert.Equal(t, 3, polls)

	// No wait after the confirming poll.
	assert.Equal(t, []time.Duration{DefaultPollInterval, DefaultPollInterval}, clock.slept)

	assert.Equal(t, []models.Phase{
		models.PhaseCreating,
		models.PhaseStarting,
		models.PhasePolling,
		models.PhaseConfirmed,
	}, rec.phases())

	last := rec.last()
	assert.Equal(t, "Booking Confirmed!", last.Label)
	require.NotNil(t, last.Result)
	assert.Equal(t, out, *last.Result)
}

func TestExecute_ForwardsRequestToStart(t *testing.T) {
	api := &fakeOrderAPI{}
	req := validRequest("ord_fwd")

	out := newTestOrchestrator(api, newFakeClock()).Execute(context.Background(), req, nil)
	require.True(t, out.Confirmed())

	assert.Equal(t, "ord_fwd", api.lastStart.Partner.PartnerOrderID)
	assert.Equal(t, req.Payment, api.lastStart.PaymentType)
	assert.Equal(t, req.Rooms, api.lastStart.Rooms)
	assert.Equal(t, req.Contact, api.lastStart.User)
	assert.Equal(t, models.DefaultBookingLanguage, api.lastStart.Language)
}

func TestExecute_EmptyCreateAcknowledgementFails(t *testing.T) {
	api := &fakeOrderAPI{
		createFn: func(supplier.CreateOrderRequest) (*supplier.CreateOrderResult, error) {
			return &supplier.CreateOrderResult{}, nil
		},
	}
	rec := &recorder{}

	out := newTestOrchestrator(api, newFakeClock()).Execute(context.Background(), validRequest("ord_2"), rec.record)

	assert.Equal(t, models.OutcomeFailed, out.Status)
	assert.Equal(t, models.ReasonCreateRejected, out.Reason)
	assert.Equal(t, 0, out.Attempts)

	_, starts, polls := api.counts()
	assert.Zero(t, starts)
	assert.Zero(t, polls)
	assert.Equal(t, []models.Phase{models.PhaseCreating, models.PhaseFailed}, rec.phases())
}

func TestExecute_CreateEchoingAnotherOrderFails(t *testing.T) {
	api := &fakeOrderAPI{
		createFn: func(supplier.CreateOrderRequest) (*supplier.CreateOrderResult, error) {
			return &supplier.CreateOrderResult{PartnerOrderID: "ord_someone_else"}, nil
		},
	}

	out := newTestOrchestrator(api, newFakeClock()).Execute(context.Background(), validRequest("ord_3"), nil)

	assert.True(t, out.Failed())
	assert.Equal(t, models.ReasonCreateRejected, out.Reason)
	_, starts, _ := api.counts()
	assert.Zero(t, starts)
}

func TestExecute_CreateRejectedBySupplier(t *testing.T) {
	api := &fakeOrderAPI{
		createFn: func(supplier.CreateOrderRequest) (*supplier.CreateOrderResult, error) {
			return nil, &supplier.UpstreamError{Op: "create_order", StatusCode: 400, Code: "book_hash_expired"}
		},
	}

	out := newTestOrchestrator(api, newFakeClock()).Execute(context.Background(), validRequest("ord_4"), nil)

	assert.True(t, out.Failed())
	assert.Equal(t, models.ReasonCreateRejected, out.Reason)
	assert.Equal(t, "Error: booking failed (create_rejected)", out.Message())
}

func TestExecute_CreateTransportFailureReportsMessage(t *testing.T) {
	transportErr := &supplier.TransportError{Op: "create_order", Err: errors.New("connection refused")}
	api := &fakeOrderAPI{
		createFn: func(supplier.CreateOrderRequest) (*supplier.CreateOrderResult, error) {
			return nil, transportErr
		},
	}

	out := newTestOrchestrator(api, newFakeClock()).Execute(context.Background(), validRequest("ord_5"), nil)

	assert.True(t, out.Failed())
	assert.Equal(t, transportErr.Error(), out.Reason)
	_, starts, _ := api.counts()
	assert.Zero(t, starts)
}

func TestExecute_StartRejected(t *testing.T) {
	api := &fakeOrderAPI{
		startErr: &supplier.UpstreamError{Op: "start_order", StatusCode: 400, Code: "insufficient_b2b_balance"},
	}
	rec := &recorder{}

	out := newTestOrchestrator(api, newFakeClock()).Execute(context.Background(), validRequest("ord_6"), rec.record)

	assert.True(t, out.Failed())
	assert.Equal(t, models.ReasonStartRejected, out.Reason)
	_, _, polls := api.counts()
	assert.Zero(t, polls)
	assert.Equal(t, []models.Phase{models.PhaseCreating, models.PhaseStarting, models.PhaseFailed}, rec.phases())
}

func TestExecute_StartTransportFailureReportsMessage(t *testing.T) {
	transportErr := &supplier.TransportError{Op: "start_order", Err: errors.New("connection reset by peer")}
	api := &fakeOrderAPI{startErr: transportErr}

	out := newTestOrchestrator(api, newFakeClock()).Execute(context.Background(), validRequest("ord_6b"), nil)

	assert.True(t, out.Failed())
	assert.Equal(t, transportErr.Error(), out.Reason)
	assert.NotEqual(t, models.ReasonStartRejected, out.Reason)
	_, starts, polls := api.counts()
	assert.Equal(t, 1, starts)
	assert.Zero(t, polls)
}

func TestExecute_TimesOutAfterMaxAttempts(t *testing.T) {
	api := &fakeOrderAPI{statusFn: sequence("50")}
	clock := newFakeClock()
	rec := &recorder{}

	out := newTestOrchestrator(api, clock).Execute(context.Background(), validRequest("ord_7"), rec.record)

	assert.Equal(t, models.OutcomeTimedOut, out.Status)
	assert.Equal(t, DefaultMaxPollAttempts, out.Attempts)
	require.NotNil(t, out.LastPercent)
	assert.Equal(t, 50, *out.LastPercent)

	_, _, polls := api.counts()
	assert.Equal(t, 20, polls)
	assert.Len(t, clock.slept, 20)
	assert.Equal(t, 40*time.Second, clock.totalSlept())

	assert.Equal(t, models.PhaseTimedOut, rec.last().Phase)
	assert.Contains(t, out.Message(), "ord_7")
	assert.Contains(t, out.Message(), "check backoffice")
	assert.NotContains(t, out.Message(), "failed")
}

func TestExecute_StatusErrorsCountAsAttempts(t *testing.T) {
	api := &fakeOrderAPI{
		statusFn: func(n int) (*supplier.OrderStatus, error) {
			if n == 1 {
				return nil, &supplier.TransportError{Op: "order_status", Err: errors.New("i/o timeout")}
			}
			return percent("100"), nil
		},
	}
	clock := newFakeClock()

	out := newTestOrchestrator(api, clock).Execute(context.Background(), validRequest("ord_8"), nil)

	assert.True(t, out.Confirmed())
	assert.Equal(t, 2, out.Attempts)
	assert.Len(t, clock.slept, 1)
}

func TestExecute_StatusErrorsUntilBudgetSpentTimesOut(t *testing.T) {
	api := &fakeOrderAPI{
		statusFn: func(int) (*supplier.OrderStatus, error) {
			return nil, &supplier.UpstreamError{Op: "order_status", StatusCode: 404, Code: "order_not_found"}
		},
	}

	out := newTestOrchestrator(api, newFakeClock()).Execute(context.Background(), validRequest("ord_9"), nil)

	assert.True(t, out.TimedOut())
	assert.Equal(t, DefaultMaxPollAttempts, out.Attempts)
	assert.Nil(t, out.LastPercent)
}

func TestExecute_UnusablePercentIsPending(t *testing.T) {
	api := &fakeOrderAPI{statusFn: sequence(`"abc"`, `null`, `150`, ``, `"100"`)}
	clock := newFakeClock()

	out := newTestOrchestrator(api, clock).Execute(context.Background(), validRequest("ord_10"), nil)

	assert.True(t, out.Confirmed())
	assert.Equal(t, 5, out.Attempts)
	assert.Len(t, clock.slept, 4)
}

func TestExecute_EmptyStatusReplyIsPending(t *testing.T) {
	api := &fakeOrderAPI{
		statusFn: func(n int) (*supplier.OrderStatus, error) {
			if n < 3 {
				return nil, nil
			}
			return percent("100"), nil
		},
	}
	clock := newFakeClock()

	out := newTestOrchestrator(api, clock).Execute(context.Background(), validRequest("ord_10b"), nil)

	assert.True(t, out.Confirmed())
	assert.Equal(t, 3, out.Attempts)
	assert.Len(t, clock.slept, 2)
}

func TestExecute_EmptyStatusRepliesUntilBudgetSpentTimesOut(t *testing.T) {
	api := &fakeOrderAPI{
		statusFn: func(int) (*supplier.OrderStatus, error) { return nil, nil },
	}

	out := newTestOrchestrator(api, newFakeClock()).Execute(context.Background(), validRequest("ord_10c"), nil)

	assert.True(t, out.TimedOut())
	assert.Equal(t, DefaultMaxPollAttempts, out.Attempts)
	assert.Nil(t, out.LastPercent)
}

func TestExecute_InvalidRequestMakesNoCalls(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.BookingRequest)
	}{
		{"missing book hash", func(r *models.BookingRequest) { r.BookHash = "" }},
		{"missing partner order id", func(r *models.BookingRequest) { r.PartnerOrderID = "" }},
		{"no rooms", func(r *models.BookingRequest) { r.Rooms = nil }},
		{"empty room", func(r *models.BookingRequest) { r.Rooms = append(r.Rooms, models.Room{}) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeOrderAPI{}
			req := validRequest("ord_invalid")
			tt.mutate(&req)

			out := newTestOrchestrator(api, newFakeClock()).Execute(context.Background(), req, nil)

			assert.True(t, out.Failed())
			assert.Equal(t, models.ReasonInvalidRequest, out.Reason)
			creates, starts, polls := api.counts()
			assert.Zero(t, creates+starts+polls)
		})
	}
}

func TestExecute_CanceledBeforeCreate(t *testing.T) {
	api := &fakeOrderAPI{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := newTestOrchestrator(api, newFakeClock()).Execute(ctx, validRequest("ord_11"), nil)

	assert.True(t, out.Failed())
	assert.Equal(t, context.Canceled.Error(), out.Reason)
	creates, _, _ := api.counts()
	assert.Zero(t, creates)
}

func TestExecute_CancellationAfterCreateDoesNotStopWorkflow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	api := &fakeOrderAPI{
		onCreate: cancel,
		statusFn: sequence("30", "100"),
	}

	out := newTestOrchestrator(api, newFakeClock()).Execute(ctx, validRequest("ord_12"), nil)

	assert.True(t, out.Confirmed())
	assert.NoError(t, api.startCtxErr)
	for _, err := range api.pollCtxErrs {
		assert.NoError(t, err)
	}
}

func TestExecute_CustomPolicy(t *testing.T) {
	api := &fakeOrderAPI{statusFn: sequence("10")}
	clock := newFakeClock()
	o := NewOrchestrator(api, zap.NewNop(),
		WithClock(clock),
		WithPollInterval(500*time.Millisecond),
		WithMaxPollAttempts(3),
	)

	out := o.Execute(context.Background(), validRequest("ord_13"), nil)

	assert.True(t, out.TimedOut())
	assert.Equal(t, 3, out.Attempts)
	assert.Equal(t, 1500*time.Millisecond, clock.totalSlept())
}

func TestExecute_ConcurrentBookingsAreIndependent(t *testing.T) {
	api := &fakeOrderAPI{statusFn: sequence("40", "100")}
	o := newTestOrchestrator(api, newFakeClock())

	const n = 16
	outcomes := make([]models.BookingOutcome, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i] = o.Execute(context.Background(), validRequest(fmt.Sprintf("ord_c%d", i)), nil)
		}(i)
	}
	wg.Wait()

	for i, out := range outcomes {
		assert.Equal(t, fmt.Sprintf("ord_c%d", i), out.PartnerOrderID)
		assert.False(t, out.Failed())
	}
	creates, starts, _ := api.counts()
	assert.Equal(t, n, creates)
	assert.Equal(t, n, starts)
}
