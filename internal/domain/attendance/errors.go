package attendance

import (
	"errors"
	"fmt"
	"time"
)

// Attendance domain errors
var (
	// Check-in / check-out conflicts
	ErrAlreadyCheckedIn  = errors.New("you have already checked in today")
	ErrAlreadyCheckedOut = errors.New("you have already completed your shift today")
	ErrNotCheckedIn      = errors.New("you have not checked in yet")

	// Policy violations
	ErrOnApprovedLeave = errors.New("you are on approved leave today")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
)

// TooEarlyError rejects a check-in attempted before the grace window opens.
// It carries the earliest allowed timestamp so the caller can tell the
// employee when to come back.
type TooEarlyError struct {
	EarliestAllowed time.Time
}

func (e *TooEarlyError) Error() string {
	return fmt.Sprintf("too early to check in, earliest allowed time is %s", e.EarliestAllowed.Format("15:04"))
}
