package overtime

import (
	"errors"
	"fmt"
	"time"
)

// Overtime domain errors
var (
	ErrRequestNotFound   = errors.New("overtime request not found")
	ErrDuplicateRequest  = errors.New("an active overtime request already exists for this date")
	ErrNotPending        = errors.New("only pending requests can be processed")
	ErrNotWorkable       = errors.New("overtime request is not approved or assigned")
	ErrAlreadyCheckedIn  = errors.New("already checked in to this overtime")
	ErrAlreadyCheckedOut = errors.New("already checked out of this overtime")
	ErrMustCheckInFirst  = errors.New("must check in to overtime before checking out")
)

// OutsideWindowError rejects an overtime check-in outside the allowed window
// and carries the window bounds for the caller.
type OutsideWindowError struct {
	Earliest time.Time
	Latest   time.Time
}

func (e *OutsideWindowError) Error() string {
	return fmt.Sprintf("overtime check-in allowed between %s and %s",
		e.Earliest.Format("15:04"), e.Latest.Format("15:04"))
}
