package leave

import (
	"context"
	"time"
)

// LeaveRepository is the lookup collaborator for the attendance engine.
type LeaveRepository interface {
	// ApprovedLeaveCovering returns the approved leave request spanning the
	// given date, or nil when there is none.
	ApprovedLeaveCovering(ctx context.Context, employeeID string, date time.Time, shopID string) (*LeaveRequest, error)
}
