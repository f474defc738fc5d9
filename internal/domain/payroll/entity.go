package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// ComponentType enum
type ComponentType string

const (
	ComponentTypeEarning   ComponentType = "earning"
	ComponentTypeDeduction ComponentType = "deduction"
	ComponentTypeBenefit   ComponentType = "benefit" // informational, excluded from net pay
)

// PayrollComponent is one auditable line item. Totals are always re-derived
// by summing components by type, so an operator can adjust a single line and
// keep the record consistent.
type PayrollComponent struct {
	ID              string
	PayrollRecordID string
	Name            string
	Type            ComponentType
	Amount          decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Well-known component names emitted by the calculator.
const (
	ComponentBasicPay            = "basic_pay"
	ComponentOvertimePay         = "overtime_pay"
	ComponentSalesCommission     = "sales_commission"
	ComponentPerformanceBonus    = "performance_bonus"
	ComponentOtherAllowances     = "other_allowances"
	ComponentWithholdingTax      = "withholding_tax"
	ComponentSSSContribution     = "sss_contribution"
	ComponentPhilHealth          = "philhealth_contribution"
	ComponentPagIbig             = "pagibig_contribution"
	ComponentAbsentDeductions    = "absent_deductions"
	ComponentUndertimeDeductions = "undertime_deductions"
	ComponentLoanDeductions      = "loan_deductions"
	ComponentOtherDeductions     = "other_deductions"
)

// PayrollStatus enum
type PayrollStatus string

const (
	PayrollStatusDraft PayrollStatus = "draft"
	PayrollStatusPaid  PayrollStatus = "paid"
)

// PayrollRecord - persisted payroll result for one employee and period
type PayrollRecord struct {
	ID          string
	EmployeeID  string
	ShopID      string
	PeriodMonth int
	PeriodYear  int
	PeriodStart time.Time
	PeriodEnd   time.Time

	BaseSalary          decimal.Decimal
	BasicPay            decimal.Decimal
	OvertimePay         decimal.Decimal
	TotalAllowances     decimal.Decimal
	GrossSalary         decimal.Decimal
	WithholdingTax      decimal.Decimal
	SSSContribution     decimal.Decimal
	PhilHealth          decimal.Decimal
	PagIbig             decimal.Decimal
	AbsentDeductions    decimal.Decimal
	UndertimeDeductions decimal.Decimal
	LoanDeductions      decimal.Decimal
	TotalDeductions     decimal.Decimal
	NetSalary           decimal.Decimal

	Components []PayrollComponent

	Status PayrollStatus
	PaidAt *time.Time
	PaidBy *string
	Notes  *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined fields
	EmployeeName *string
}

// PeriodSummary is the pre-aggregated attendance input to the calculator.
// The calculator itself never touches attendance storage.
type PeriodSummary struct {
	EmployeeID          string
	TotalRegularHours   decimal.Decimal
	TotalOvertimeHours  decimal.Decimal
	TotalUndertimeHours decimal.Decimal
	TotalPresentDays    int
	TotalLateDays       int
	TotalAbsentDays     int
	WorkingDays         int
	Coverage            float64
	Finalized           bool
}

// Allowances are the non-attendance earnings for the period, supplied by the
// caller (sales and performance data live outside this service).
type Allowances struct {
	SalesCommission   decimal.Decimal
	PerformanceBonus  decimal.Decimal
	OtherAllowances   decimal.Decimal
	LoanDeductions    decimal.Decimal
	OtherDeductions   decimal.Decimal
}

// Policy carries the tunable payroll constants.
type Policy struct {
	// OvertimePremium multiplies the derived hourly rate for overtime hours
	// inside the monthly run. The legacy system used a flat 1.25 here while
	// paying 1.5x/2.0x on standalone overtime requests; the two rates are
	// kept as separate, documented knobs pending product clarification.
	OvertimePremium decimal.Decimal

	// FinalizeCoverageThreshold is the minimum attendance coverage of
	// working weekdays required before payroll may be generated. The 0.80
	// default mirrors the legacy system.
	FinalizeCoverageThreshold float64

	// HoursPerDay converts a daily rate into an hourly rate.
	HoursPerDay decimal.Decimal
}

// DefaultPolicy returns the legacy-compatible policy.
func DefaultPolicy() Policy {
	return Policy{
		OvertimePremium:           decimal.NewFromFloat(1.25),
		FinalizeCoverageThreshold: 0.80,
		HoursPerDay:               decimal.NewFromInt(8),
	}
}
