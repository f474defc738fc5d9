package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// All methods include shopID to keep queries tenant-scoped. The store
// enforces a uniqueness constraint on (employee_id, date); Create surfaces a
// violation as ErrAlreadyCheckedIn so concurrent first writers race safely.
type AttendanceRepository interface {
	// Create inserts a new attendance record
	Create(ctx context.Context, record AttendanceRecord) (AttendanceRecord, error)

	// GetByID retrieves attendance by ID with shop isolation
	GetByID(ctx context.Context, id string, shopID string) (AttendanceRecord, error)

	// GetByEmployeeAndDate retrieves the record for one employee-day, or nil
	// when none exists. Used to prevent double check-in and to pick up
	// records pre-created by overtime approval.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, shopID string) (*AttendanceRecord, error)

	// Update updates an existing attendance record
	Update(ctx context.Context, record AttendanceRecord) error

	// List retrieves attendance records with filters and pagination
	List(ctx context.Context, filter AttendanceFilter, shopID string) ([]AttendanceRecord, int64, error)

	// GetMyAttendance retrieves attendance records for a specific employee
	GetMyAttendance(ctx context.Context, employeeID string, filter MyAttendanceFilter, shopID string) ([]AttendanceRecord, int64, error)

	// PeriodTotals aggregates hours and day counts over [from, to]
	PeriodTotals(ctx context.Context, employeeID string, from, to time.Time, shopID string) (PeriodTotals, error)

	// EmployeeIDsWithRecordOn lists employees that already have a record for
	// the date, for the mark-absent job.
	EmployeeIDsWithRecordOn(ctx context.Context, shopID string, date time.Time) (map[string]bool, error)
}
