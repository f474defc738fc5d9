package overtime

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/employee"
)

// OvertimeRequest is one planned overtime stint for an employee-day. Only
// one non-terminal request may exist per (employee, date).
type OvertimeRequest struct {
	ID           string
	EmployeeID   string
	ShopID       string
	OvertimeDate time.Time // shop-local working day

	StartTime time.Time // planned window
	EndTime   time.Time
	Hours     decimal.Decimal // planned

	// RateMultiplier is 1.5 on weekdays and 2.0 on weekends, resolved in the
	// shop's timezone when the request is created.
	RateMultiplier   decimal.Decimal
	CalculatedAmount decimal.Decimal

	Status          string
	Reason          *string
	RejectionReason *string

	CheckedInAt     *time.Time
	CheckedOutAt    *time.Time
	ActualStartTime *time.Time
	ActualEndTime   *time.Time
	ActualHours     *decimal.Decimal

	ApprovedBy *string
	ApprovedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined fields
	EmployeeName *string
}

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusAssigned  = "assigned" // manager-created, skips approval
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

var StatusValues = []string{StatusPending, StatusApproved, StatusAssigned, StatusRejected, StatusCancelled}

// IsTerminal reports whether the request can no longer progress.
func (r OvertimeRequest) IsTerminal() bool {
	return r.Status == StatusRejected || r.Status == StatusCancelled
}

// IsWorkable reports whether the employee may clock into this request.
func (r OvertimeRequest) IsWorkable() bool {
	return r.Status == StatusApproved || r.Status == StatusAssigned
}

// WeekendMultiplier and WeekdayMultiplier are the standalone overtime pay
// rates. Note these differ from the flat payroll overtime premium on
// purpose; see the payroll package.
var (
	WeekdayMultiplier = decimal.NewFromFloat(1.5)
	WeekendMultiplier = decimal.NewFromFloat(2.0)
)

// MultiplierFor picks the rate for a date in the shop's local timezone.
func MultiplierFor(date time.Time) decimal.Decimal {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return WeekendMultiplier
	default:
		return WeekdayMultiplier
	}
}

// DefaultMonthlyWorkingDays is the fallback divisor when an employee has no
// explicit hourly rate.
const DefaultMonthlyWorkingDays = 22

// HourlyRateFor returns the pay basis for overtime amounts: the profile's
// hourly rate, or base salary spread over a standard month.
func HourlyRateFor(p employee.EmployeeProfile) decimal.Decimal {
	fallback := p.BaseSalary.DivRound(decimal.NewFromInt(DefaultMonthlyWorkingDays*8), 6)
	return p.EffectiveHourlyRate(fallback)
}

// Amount computes pay for a span of overtime hours at the request's rate.
func (r OvertimeRequest) Amount(hourlyRate, hours decimal.Decimal) decimal.Decimal {
	return hourlyRate.Mul(hours).Mul(r.RateMultiplier).Round(2)
}
