package booking

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound is returned when no progress has been stored for a partner order id.
	ErrSessionNotFound = errors.New("booking session not found or expired")
	// ErrDuplicateBooking is returned when a partner order id was already submitted.
	ErrDuplicateBooking = errors.New("booking already submitted for this partner order id")
)

// ValidationError reports a missing or malformed field, either in the caller's request or in a
// supplier response the workflow depends on.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func NewValidationError(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}
