package booking

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"staybridge/models"
	"staybridge/services/supplier"

	"github.com/hibiken/asynq"
)

type fakeClock struct {
	mu    sync.Mutex
	now   time.Time
	slept []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
	return ctx.Err()
}

func (c *fakeClock) totalSlept() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total time.Duration
	for _, d := range c.slept {
		total += d
	}
	return total
}

// fakeOrderAPI scripts supplier replies. By default create echoes the sent id, start succeeds
// and every status check reports 100%.
type fakeOrderAPI struct {
	mu sync.Mutex

	createFn func(req supplier.CreateOrderRequest) (*supplier.CreateOrderResult, error)
	startErr error
	statusFn func(n int) (*supplier.OrderStatus, error)

	onCreate func()

	creates, starts, polls int
	lastStart              supplier.StartOrderRequest
	startCtxErr            error
	pollCtxErrs            []error
}

func (f *fakeOrderAPI) CreateOrder(ctx context.Context, req supplier.CreateOrderRequest) (*supplier.CreateOrderResult, error) {
	f.mu.Lock()
	f.creates++
	createFn, onCreate := f.createFn, f.onCreate
	f.mu.Unlock()

	if onCreate != nil {
		onCreate()
	}
	if createFn != nil {
		return createFn(req)
	}
	return &supplier.CreateOrderResult{PartnerOrderID: req.PartnerOrderID}, nil
}

func (f *fakeOrderAPI) StartOrder(ctx context.Context, req supplier.StartOrderRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts++
	f.lastStart = req
	f.startCtxErr = ctx.Err()
	return f.startErr
}

func (f *fakeOrderAPI) OrderStatus(ctx context.Context, partnerOrderID string) (*supplier.OrderStatus, error) {
	f.mu.Lock()
	f.polls++
	n := f.polls
	f.pollCtxErrs = append(f.pollCtxErrs, ctx.Err())
	statusFn := f.statusFn
	f.mu.Unlock()

	if statusFn != nil {
		return statusFn(n)
	}
	return percent("100"), nil
}

func (f *fakeOrderAPI) counts() (creates, starts, polls int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creates, f.starts, f.polls
}

func percent(raw string) *supplier.OrderStatus {
	return &supplier.OrderStatus{RawPercent: json.RawMessage(raw)}
}

// sequence replies with the given percents in order and repeats the last one.
func sequence(raws ...string) func(n int) (*supplier.OrderStatus, error) {
	return func(n int) (*supplier.OrderStatus, error) {
		if n > len(raws) {
			n = len(raws)
		}
		return percent(raws[n-1]), nil
	}
}

type recorder struct {
	mu        sync.Mutex
	snapshots []models.BookingSession
}

func (r *recorder) record(s models.BookingSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, s)
}

// phases returns the distinct phases in the order they were first reported.
func (r *recorder) phases() []models.Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Phase
	for _, s := range r.snapshots {
		if len(out) == 0 || out[len(out)-1] != s.Phase {
			out = append(out, s.Phase)
		}
	}
	return out
}

func (r *recorder) last() models.BookingSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshots[len(r.snapshots)-1]
}

func validRequest(id string) models.BookingRequest {
	return models.BookingRequest{
		BookHash:       "h-abc123",
		PartnerOrderID: id,
		Rooms: []models.Room{
			{Guests: []models.Guest{{FirstName: "Test", LastName: "AdultOne"}}},
		},
		Contact: models.ContactInfo{Email: "test@example.com", Phone: "1234567890"},
		Payment: models.PaymentSelection{Type: "deposit", Amount: "120.00", CurrencyCode: "USD"},
	}
}

type fakeQueue struct {
	mu    sync.Mutex
	tasks []*asynq.Task
	opts  [][]asynq.Option
	err   error
}

func (q *fakeQueue) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return nil, q.err
	}
	q.tasks = append(q.tasks, task)
	q.opts = append(q.opts, opts)
	return &asynq.TaskInfo{ID: "task-" + task.Type(), Queue: "bookings"}, nil
}
