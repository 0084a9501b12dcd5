package models

import "time"

// Phase is a step of the create → start → poll booking workflow.
type Phase string

const (
	PhasePending   Phase = "PENDING"
	PhaseCreating  Phase = "CREATING"
	PhaseStarting  Phase = "STARTING"
	PhasePolling   Phase = "POLLING"
	PhaseConfirmed Phase = "CONFIRMED"
	PhaseFailed    Phase = "FAILED"
	PhaseTimedOut  Phase = "TIMED_OUT"
)

// Terminal reports whether no further transition can happen.
func (p Phase) Terminal() bool {
	switch p {
	case PhaseConfirmed, PhaseFailed, PhaseTimedOut:
		return true
	}
	return false
}

// Label is the progress text shown to the guest.
func (p Phase) Label() string {
	switch p {
	case PhasePending:
		return "Queued..."
	case PhaseCreating:
		return "Creating booking..."
	case PhaseStarting:
		return "Starting booking..."
	case PhasePolling:
		return "Processing booking..."
	case PhaseConfirmed:
		return "Booking Confirmed!"
	case PhaseFailed:
		return "Booking failed"
	case PhaseTimedOut:
		return "Booking timed out (check backoffice)"
	default:
		return string(p)
	}
}

// BookingSession tracks one in-flight booking.
type BookingSession struct {
	PartnerOrderID string          `json:"partner_order_id"`
	Phase          Phase           `json:"phase"`
	Label          string          `json:"label"`
	Attempt        int             `json:"attempt"`
	LastPercent    *int            `json:"last_percent,omitempty"`
	Result         *BookingOutcome `json:"result,omitempty"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Snapshot returns a deep copy safe to hand to other goroutines.
func (s *BookingSession) Snapshot() BookingSession {
	cp := *s
	if s.LastPercent != nil {
		p := *s.LastPercent
		cp.LastPercent = &p
	}
	if s.Result != nil {
		r := *s.Result
		if s.Result.LastPercent != nil {
			p := *s.Result.LastPercent
			r.LastPercent = &p
		}
		cp.Result = &r
	}
	return cp
}
