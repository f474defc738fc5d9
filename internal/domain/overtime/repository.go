package overtime

import (
	"context"
	"time"
)

// OvertimeRepository defines data access methods for overtime requests.
// The store enforces at most one non-terminal request per (employee_id,
// overtime_date); Create surfaces a violation as ErrDuplicateRequest.
type OvertimeRepository interface {
	Create(ctx context.Context, request OvertimeRequest) (OvertimeRequest, error)

	GetByID(ctx context.Context, id string, shopID string) (OvertimeRequest, error)

	// GetActiveByEmployeeAndDate returns the pending/approved/assigned
	// request for the employee-day, or nil when there is none.
	GetActiveByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, shopID string) (*OvertimeRequest, error)

	// GetWorkableByEmployeeAndDate returns the approved/assigned request for
	// the employee-day, or nil. Used by the attendance check-out split.
	GetWorkableByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, shopID string) (*OvertimeRequest, error)

	Update(ctx context.Context, request OvertimeRequest) error

	List(ctx context.Context, filter OvertimeFilter, shopID string) ([]OvertimeRequest, int64, error)
}
