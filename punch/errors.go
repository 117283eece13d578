/*
errors.go - Error types for the punch clock

ERROR CATEGORIES:
  1. Parse errors - malformed persisted blobs, dates, clock strings
  2. Clock state errors - clocking in twice, clocking out while out
  3. Lookup errors - unknown employee

Parse errors of persisted data never leave the storage boundary: the
record store maps them to an empty Database or a nil Active pointer.
They exist so that the mapping is an explicit decision in code.

USAGE:
  if errors.Is(err, punch.ErrAlreadyClockedIn) {
      // 409
  }
*/
package punch

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMalformedData is returned by the parse functions for blobs that
	// are not valid JSON of the expected shape.
	ErrMalformedData = errors.New("malformed persisted data")

	// ErrInvalidDate is returned for day keys not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidClock is returned for times not in HH:MM form.
	ErrInvalidClock = errors.New("invalid clock time")

	// ErrInvalidRange is returned when a report range is reversed or too long.
	ErrInvalidRange = errors.New("invalid range")

	// ErrEmployeeNotFound is returned when looking up an unknown id.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrAlreadyClockedIn is returned when the day's last pair is still open.
	ErrAlreadyClockedIn = errors.New("already clocked in")

	// ErrNotClockedIn is returned when clocking out with no open pair.
	ErrNotClockedIn = errors.New("not clocked in")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// ClockStateError names the employee and day of a clock state conflict.
type ClockStateError struct {
	EmployeeID string
	Day        Day
	Err        error
}

func (e *ClockStateError) Error() string {
	return fmt.Sprintf("%s: employee %s on %s", e.Err, e.EmployeeID, e.Day)
}

func (e *ClockStateError) Unwrap() error {
	return e.Err
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidClock) ||
		errors.Is(err, ErrInvalidRange)
}

// IsConflict returns true if the error is a clock state conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyClockedIn) ||
		errors.Is(err, ErrNotClockedIn)
}

// IsNotFound returns true if the error indicates a missing employee.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound)
}
