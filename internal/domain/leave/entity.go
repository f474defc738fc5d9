package leave

import "time"

// LeaveRequest is the slice of the leave module the attendance engine needs:
// enough to tell whether an approved leave covers a date. Requesting and
// approving leave happens elsewhere.
type LeaveRequest struct {
	ID         string
	EmployeeID string
	ShopID     string
	StartDate  time.Time
	EndDate    time.Time
	Status     string
	Reason     *string
}

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Covers reports whether the request spans the given date (inclusive bounds,
// date-only comparison).
func (l LeaveRequest) Covers(date time.Time) bool {
	d := date.Truncate(24 * time.Hour)
	return !d.Before(l.StartDate.Truncate(24*time.Hour)) && !d.After(l.EndDate.Truncate(24*time.Hour))
}
