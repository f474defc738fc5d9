package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// EmployeeProfile carries the compensation facts the payroll and overtime
// engines need. The rest of the employee record (contacts, documents,
// onboarding state) lives outside this service.
type EmployeeProfile struct {
	ID         string
	ShopID     string
	FullName   string
	Position   *string
	BaseSalary decimal.Decimal
	HourlyRate *decimal.Decimal // nil = derive from base salary
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// EffectiveHourlyRate returns the configured hourly rate, or the fallback
// derived by the caller when none is set.
func (e EmployeeProfile) EffectiveHourlyRate(fallback decimal.Decimal) decimal.Decimal {
	if e.HourlyRate != nil && !e.HourlyRate.IsZero() {
		return *e.HourlyRate
	}
	return fallback
}
