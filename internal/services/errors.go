// Package services contains the booking ledger and service catalog logic.
//
// Every operation reports failures through the sentinel errors below (or a
// *ValidationError). They propagate verbatim to the handler layer, which
// maps them onto HTTP statuses; nothing in this package swallows or retries
// them.
package services

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates a referenced service, booking or account is absent
var ErrNotFound = errors.New("not found")

// ErrForbidden indicates the actor is authenticated but not authorized for
// this resource or action
var ErrForbidden = errors.New("forbidden")

// ErrUnauthenticated indicates there is no valid session
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrServiceInactive indicates the referenced service has been deactivated
var ErrServiceInactive = errors.New("service is inactive")

// ErrSlotTaken indicates a non-cancelled booking already occupies the
// requested (service, date, time slot) tuple. Callers should re-query the
// available slots and pick another one rather than retry the same slot.
var ErrSlotTaken = errors.New("time slot already booked")

// ErrInvalidTransition indicates a booking status change that the lifecycle
// graph does not permit, or a rating attempt outside the rating rules
var ErrInvalidTransition = errors.New("invalid booking transition")

// ErrTransient indicates a store or timeout failure; the whole operation is
// safe to retry
var ErrTransient = errors.New("transient storage failure")

// ValidationError reports malformed or missing input. Fields lists the
// offending field names so the caller can fix and resubmit.
type ValidationError struct {
	Fields []string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Fields, ", "))
}

// NewValidationError creates a ValidationError for the given fields
func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// IsValidationError reports whether err is a *ValidationError and returns it
func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
