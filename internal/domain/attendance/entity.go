package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// AttendanceRecord is one employee-day. It is created on the first check-in
// of the day (or pre-created by an approved overtime request so the extended
// checkout window is already in place), mutated by check-out, and never
// deleted by the engine itself.
type AttendanceRecord struct {
	ID         string
	EmployeeID string
	ShopID     string
	Date       time.Time // working day at shop-local midnight

	CheckInTime  *time.Time
	CheckOutTime *time.Time

	Status       string
	IsEarly      bool
	MinutesEarly int
	MinutesLate  int

	ExpectedCheckIn  *time.Time
	ExpectedCheckOut *time.Time

	WorkingHours  decimal.Decimal
	OvertimeHours decimal.Decimal

	LatenessReason *string
	EarlyReason    *string

	HasApprovedOvertime bool
	OvertimeEndTime     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined fields
	EmployeeName     *string
	EmployeePosition *string
}

const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
	StatusHalfDay = "half_day"
)

var StatusValues = []string{StatusPresent, StatusAbsent, StatusLate, StatusHalfDay}

// PeriodTotals aggregates an employee's records over a date range. It is the
// raw material for the payroll period summary.
type PeriodTotals struct {
	EmployeeID         string
	TotalRegularHours  decimal.Decimal
	TotalOvertimeHours decimal.Decimal
	// TotalUndertimeHours counts time between an early check-out and the
	// expected check-out.
	TotalUndertimeHours decimal.Decimal
	PresentDays         int
	LateDays            int
	AbsentDays          int
	RecordedDays        int
}
