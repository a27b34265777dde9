package gitlog

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the calendar date format used for ranges and commit dates.
const DateLayout = "2006-01-02"

// ErrInvalidRange is wrapped by every ValidateRange failure.
var ErrInvalidRange = errors.New("invalid date range")

// ValidateRange checks that start and end are YYYY-MM-DD dates with start <= end.
func ValidateRange(start, end string) error {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return fmt.Errorf("%w: start date %q is not YYYY-MM-DD", ErrInvalidRange, start)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return fmt.Errorf("%w: end date %q is not YYYY-MM-DD", ErrInvalidRange, end)
	}
	if s.After(e) {
		return fmt.Errorf("%w: start date %s is after end date %s", ErrInvalidRange, start, end)
	}
	return nil
}
