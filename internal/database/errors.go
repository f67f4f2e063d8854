// Sentinel errors shared by the repositories in this package. Higher layers
// match on these with errors.Is to distinguish failure scenarios without
// parsing driver error strings.
package database

import (
	"errors"

	"github.com/lib/pq"
)

// ErrNotFound is returned when a referenced row does not exist
var ErrNotFound = errors.New("record not found")

// ErrDuplicateEmail is returned when an insert violates the accounts email
// uniqueness constraint
var ErrDuplicateEmail = errors.New("email already registered")

// ErrSlotConflict is returned when a booking insert loses the race on the
// active-slot unique index, i.e. a non-cancelled booking already occupies
// the (service, date, time slot) tuple
var ErrSlotConflict = errors.New("slot already booked")

// uniqueViolation is the PostgreSQL error code for unique_violation
const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a unique violation on the named
// constraint. An empty constraint matches any unique violation.
func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if pqErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}
