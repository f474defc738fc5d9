package attendance

import (
	"context"
	"time"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// CheckIn starts the employee's day, deriving status and lateness from
	// the shop calendar
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)

	// CheckOut closes the day and splits the elapsed time into regular and
	// overtime hours
	CheckOut(ctx context.Context, req CheckOutRequest) (AttendanceResponse, error)

	// GetMyAttendance retrieves attendance records for the requesting employee
	GetMyAttendance(ctx context.Context, employeeID, shopID string, filter MyAttendanceFilter) (ListAttendanceResponse, error)

	// ListAttendance retrieves attendance records with filters (admin/manager)
	ListAttendance(ctx context.Context, shopID string, filter AttendanceFilter) (ListAttendanceResponse, error)

	// GetAttendance retrieves a single attendance record by ID
	GetAttendance(ctx context.Context, id, shopID string) (AttendanceResponse, error)

	// UpdateAttendance fixes wrong data on a record (admin/manager)
	UpdateAttendance(ctx context.Context, shopID string, req UpdateAttendanceRequest) (AttendanceResponse, error)

	// PeriodSummary aggregates an employee's records over [from, to] and
	// reports whether coverage is high enough for payroll
	PeriodSummary(ctx context.Context, employeeID, shopID string, from, to time.Time) (PeriodTotalsResponse, error)
}
