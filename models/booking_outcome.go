package models

import "fmt"

// OutcomeStatus is the terminal disposition of a booking attempt.
type OutcomeStatus string

const (
	OutcomeConfirmed OutcomeStatus = "confirmed"
	OutcomeFailed    OutcomeStatus = "failed"
	OutcomeTimedOut  OutcomeStatus = "timed_out"
)

// Failure reasons reported by the orchestrator. Unexpected errors use their message instead.
const (
	ReasonCreateRejected = "create_rejected"
	ReasonStartRejected  = "start_rejected"
	ReasonInvalidRequest = "invalid_request"
)

// BookingOutcome is what a finished booking workflow reports to its caller.
type BookingOutcome struct {
	PartnerOrderID string        `json:"partner_order_id"`
	Status         OutcomeStatus `json:"status"`
	Reason         string        `json:"reason,omitempty"`
	Attempts       int           `json:"attempts"`
	LastPercent    *int          `json:"last_percent,omitempty"`
}

func (o BookingOutcome) Confirmed() bool { return o.Status == OutcomeConfirmed }
func (o BookingOutcome) Failed() bool    { return o.Status == OutcomeFailed }
func (o BookingOutcome) TimedOut() bool  { return o.Status == OutcomeTimedOut }

// Phase maps the outcome onto its terminal workflow phase.
func (o BookingOutcome) Phase() Phase {
	switch o.Status {
	case OutcomeConfirmed:
		return PhaseConfirmed
	case OutcomeTimedOut:
		return PhaseTimedOut
	default:
		return PhaseFailed
	}
}

// Message is the user-visible text. A timeout is never worded as success or failure.
func (o BookingOutcome) Message() string {
	switch o.Status {
	case OutcomeConfirmed:
		return "Booking Confirmed!"
	case OutcomeTimedOut:
		return fmt.Sprintf("Booking %s status unknown after %d checks: requires manual reconciliation (check backoffice)", o.PartnerOrderID, o.Attempts)
	default:
		return fmt.Sprintf("Error: booking failed (%s)", o.Reason)
	}
}
