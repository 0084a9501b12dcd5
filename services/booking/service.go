package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"staybridge/models"
	"staybridge/services/tasks"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const sessionSaveTimeout = 5 * time.Second

// NewPartnerOrderID returns a fresh idempotency key for one booking attempt.
func NewPartnerOrderID() string {
	return "ord_" + uuid.New().String()
}

func (s *DefaultBookingService) Book(ctx context.Context, req models.BookingRequest) models.BookingOutcome {
	if req.PartnerOrderID == "" {
		req.PartnerOrderID = NewPartnerOrderID()
	}
	return s.Orchestrator.Execute(ctx, req, s.persist(ctx))
}

func (s *DefaultBookingService) Enqueue(ctx context.Context, req models.BookingRequest) (string, error) {
	if s.Queue == nil {
		return "", errors.New("booking queue is not configured")
	}
	if req.PartnerOrderID == "" {
		req.PartnerOrderID = NewPartnerOrderID()
	}
	id := req.PartnerOrderID
	logger := s.Logger.With(zap.String("partner_order_id", id))

	task, opts, err := tasks.NewBookingTask(req)
	if err != nil {
		return id, fmt.Errorf("failed to build booking task: %w", err)
	}

	if s.Sessions != nil {
		if _, err := s.Sessions.Get(ctx, id); err == nil {
			return id, ErrDuplicateBooking
		} else if !errors.Is(err, ErrSessionNotFound) {
			return id, fmt.Errorf("failed to check existing booking: %w", err)
		}

		pending := models.BookingSession{
			PartnerOrderID: id,
			Phase:          models.PhasePending,
			Label:          models.PhasePending.Label(),
			UpdatedAt:      time.Now(),
		}
		if err := s.Sessions.Save(ctx, pending); err != nil {
			return id, fmt.Errorf("failed to store booking session: %w", err)
		}
	}

	info, err := s.Queue.EnqueueContext(ctx, task, opts...)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
			return id, ErrDuplicateBooking
		}
		logger.Error("failed to enqueue booking", zap.Error(err))
		s.forget(ctx, id)
		return id, fmt.Errorf("failed to enqueue booking: %w", err)
	}

	logger.Info("booking enqueued", zap.String("task_id", info.ID), zap.String("queue", info.Queue))
	return id, nil
}

func (s *DefaultBookingService) Progress(ctx context.Context, partnerOrderID string) (*models.BookingSession, error) {
	if s.Sessions == nil {
		return nil, ErrSessionNotFound
	}
	return s.Sessions.Get(ctx, partnerOrderID)
}

// persist stores every snapshot the orchestrator reports. Saving outlives the caller's context
// because the workflow itself does, and a failed save never interrupts the booking.
func (s *DefaultBookingService) persist(ctx context.Context) ProgressFunc {
	if s.Sessions == nil {
		return nil
	}
	detached := context.WithoutCancel(ctx)
	return func(session models.BookingSession) {
		saveCtx, cancel := context.WithTimeout(detached, sessionSaveTimeout)
		defer cancel()
		if err := s.Sessions.Save(saveCtx, session); err != nil {
			s.Logger.Warn("failed to store booking progress",
				zap.String("partner_order_id", session.PartnerOrderID),
				zap.String("phase", string(session.Phase)),
				zap.Error(err),
			)
		}
	}
}

// forget drops the pending session of a booking that never reached the queue, so the same
// partner order id can be submitted again.
func (s *DefaultBookingService) forget(ctx context.Context, partnerOrderID string) {
	if s.Sessions == nil {
		return
	}
	delCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sessionSaveTimeout)
	defer cancel()
	if err := s.Sessions.Delete(delCtx, partnerOrderID); err != nil {
		s.Logger.Warn("failed to drop unqueued booking session",
			zap.String("partner_order_id", partnerOrderID),
			zap.Error(err),
		)
	}
}
