package booking

import (
	"context"
	"fmt"
	"time"

	"staybridge/models"
	"staybridge/services/supplier"

	"go.uber.org/zap"
)

const (
	DefaultPollInterval    = 2000 * time.Millisecond
	DefaultMaxPollAttempts = 20
	DefaultCallTimeout     = 30 * time.Second
)

// OrderAPI is the part of the supplier client the booking workflow drives.
type OrderAPI interface {
	CreateOrder(ctx context.Context, req supplier.CreateOrderRequest) (*supplier.CreateOrderResult, error)
	StartOrder(ctx context.Context, req supplier.StartOrderRequest) error
	OrderStatus(ctx context.Context, partnerOrderID string) (*supplier.OrderStatus, error)
}

// ProgressFunc receives a snapshot of the session after every transition and poll attempt.
type ProgressFunc func(models.BookingSession)

// Orchestrator runs the create → start → poll workflow. It holds no per-booking state, so one
// value serves any number of concurrent bookings.
type Orchestrator struct {
	api             OrderAPI
	clock           Clock
	pollInterval    time.Duration
	maxPollAttempts int
	callTimeout     time.Duration
	logger          *zap.Logger
}

type Option func(*Orchestrator)

func WithClock(c Clock) Option {
	return func(o *Orchestrator) { o.clock = c }
}

func WithPollInterval(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.pollInterval = d
		}
	}
}

func WithMaxPollAttempts(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxPollAttempts = n
		}
	}
}

// WithCallTimeout bounds every individual supplier call.
func WithCallTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.callTimeout = d
		}
	}
}

func NewOrchestrator(api OrderAPI, logger *zap.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		api:             api,
		clock:           RealClock(),
		pollInterval:    DefaultPollInterval,
		maxPollAttempts: DefaultMaxPollAttempts,
		callTimeout:     DefaultCallTimeout,
		logger:          logger.Named("booking"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Execute books req and returns once the workflow reaches a terminal state.
//
// Caller cancellation is honoured only until the start call is issued. From then on an order
// may be paid for, so the workflow runs to completion or until the polling budget is spent.
func (o *Orchestrator) Execute(ctx context.Context, req models.BookingRequest, progress ProgressFunc) models.BookingOutcome {
	req = req.WithDefaults()
	r := &run{
		o:        o,
		progress: progress,
		session:  &models.BookingSession{PartnerOrderID: req.PartnerOrderID},
		logger:   o.logger.With(zap.String("partner_order_id", req.PartnerOrderID)),
	}

	if err := validateRequest(req); err != nil {
		r.logger.Warn("rejecting booking request", zap.Error(err))
		return r.finish(models.OutcomeFailed, models.ReasonInvalidRequest)
	}
	if err := ctx.Err(); err != nil {
		return r.finish(models.OutcomeFailed, err.Error())
	}

	r.transition(models.PhaseCreating)
	if err := o.create(ctx, req); err != nil {
		r.logger.Error("create order failed", zap.Error(err))
		return r.finish(models.OutcomeFailed, failureReason(err, models.ReasonCreateRejected))
	}

	// No-cancel region.
	detached := context.WithoutCancel(ctx)

	r.transition(models.PhaseStarting)
	if err := o.start(detached, req); err != nil {
		r.logger.Error("start order failed", zap.Error(err))
		return r.finish(models.OutcomeFailed, failureReason(err, models.ReasonStartRejected))
	}

	r.transition(models.PhasePolling)
	return r.poll(detached)
}

func (o *Orchestrator) create(ctx context.Context, req models.BookingRequest) error {
	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()

	res, err := o.api.CreateOrder(callCtx, supplier.CreateOrderRequest{
		PartnerOrderID: req.PartnerOrderID,
		BookHash:       req.BookHash,
		Language:       req.Language,
		UserIP:         req.UserIP,
	})
	if err != nil {
		return err
	}
	if res == nil || res.PartnerOrderID == "" {
		return NewValidationError("partner_order_id", "create response did not acknowledge the order")
	}
	if res.PartnerOrderID != req.PartnerOrderID {
		return NewValidationError("partner_order_id", fmt.Sprintf("create response echoed %q, sent %q", res.PartnerOrderID, req.PartnerOrderID))
	}
	return nil
}

func (o *Orchestrator) start(ctx context.Context, req models.BookingRequest) error {
	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()

	return o.api.StartOrder(callCtx, supplier.StartOrderRequest{
		Partner:     supplier.PartnerRef{PartnerOrderID: req.PartnerOrderID},
		PaymentType: req.Payment,
		Rooms:       req.Rooms,
		User:        req.Contact,
		Language:    req.Language,
	})
}

func (o *Orchestrator) status(ctx context.Context, partnerOrderID string) (*supplier.OrderStatus, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()

	return o.api.OrderStatus(callCtx, partnerOrderID)
}

// run is the mutable state of a single Execute call.
type run struct {
	o        *Orchestrator
	progress ProgressFunc
	session  *models.BookingSession
	logger   *zap.Logger
}

func (r *run) poll(ctx context.Context) models.BookingOutcome {
	for r.session.Attempt < r.o.maxPollAttempts {
		st, err := r.o.status(ctx, r.session.PartnerOrderID)
		r.session.Attempt++

		if err != nil {
			r.logger.Warn("status check failed, will retry",
				zap.Int("attempt", r.session.Attempt),
				zap.Error(err),
			)
		} else if st == nil {
			r.logger.Warn("empty status reply, treating as pending", zap.Int("attempt", r.session.Attempt))
		} else if percent, ok := st.Percent(); ok {
			r.session.LastPercent = &percent
			if percent == 100 {
				return r.finish(models.OutcomeConfirmed, "")
			}
		} else {
			r.logger.Debug("status without a usable percent, treating as pending",
				zap.Int("attempt", r.session.Attempt),
				zap.ByteString("percent", st.RawPercent),
			)
		}

		r.notify()
		if err := r.o.clock.Sleep(ctx, r.o.pollInterval); err != nil {
			r.logger.Warn("poll wait interrupted", zap.Error(err))
			break
		}
	}
	return r.finish(models.OutcomeTimedOut, "")
}

func (r *run) transition(phase models.Phase) {
	r.session.Phase = phase
	r.session.Label = phase.Label()
	r.logger.Info("booking phase", zap.String("phase", string(phase)))
	r.notify()
}

func (r *run) notify() {
	r.session.UpdatedAt = r.o.clock.Now()
	if r.progress != nil {
		r.progress(r.session.Snapshot())
	}
}

func (r *run) finish(status models.OutcomeStatus, reason string) models.BookingOutcome {
	out := models.BookingOutcome{
		PartnerOrderID: r.session.PartnerOrderID,
		Status:         status,
		Reason:         reason,
		Attempts:       r.session.Attempt,
	}
	if r.session.LastPercent != nil {
		p := *r.session.LastPercent
		out.LastPercent = &p
	}
	r.session.Result = &out
	r.transition(out.Phase())
	return out
}

// failureReason keeps supplier rejections and malformed acknowledgements under the phase's
// rejection reason and reports anything else by its message.
func failureReason(err error, rejected string) string {
	if supplier.IsRejection(err) || IsValidation(err) {
		return rejected
	}
	return err.Error()
}

func validateRequest(req models.BookingRequest) error {
	if req.BookHash == "" {
		return NewValidationError("book_hash", "is required")
	}
	if req.PartnerOrderID == "" {
		return NewValidationError("partner_order_id", "is required")
	}
	if len(req.Rooms) == 0 {
		return NewValidationError("rooms", "at least one room is required")
	}
	for i, room := range req.Rooms {
		if len(room.Guests) == 0 {
			return NewValidationError("rooms", fmt.Sprintf("room %d has no guests", i+1))
		}
	}
	return nil
}
