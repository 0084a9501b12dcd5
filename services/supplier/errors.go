package supplier

import (
	"errors"
	"fmt"
)

// UpstreamError is a business rejection from the supplier: an HTTP 4xx or an envelope with
// status "error" (expired book hash, payment failure, validation error and so on).
type UpstreamError struct {
	Op         string
	StatusCode int
	Code       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: supplier rejected request (status %d): %s", e.Op, e.StatusCode, e.Code)
}

// TransportError covers everything that says nothing about the order itself: network failures,
// deadlines, HTTP 5xx and undecodable bodies.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport error: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsRejection reports whether err carries a supplier business rejection.
func IsRejection(err error) bool {
	var upstreamErr *UpstreamError
	return errors.As(err, &upstreamErr)
}

// IsTransport reports whether err is a transient transport failure.
func IsTransport(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

// RejectionCode extracts the supplier error code, or "" when err is not a rejection.
func RejectionCode(err error) string {
	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr.Code
	}
	return ""
}
