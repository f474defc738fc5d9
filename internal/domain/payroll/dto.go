package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/shopworks/shop-erp-backend-go/internal/pkg/validator"
)

// ========== GENERATION DTOs ==========

type GeneratePayrollRequest struct {
	ShopID      string   `json:"-"`
	PeriodMonth int      `json:"period_month"`
	PeriodYear  int      `json:"period_year"`
	EmployeeIDs []string `json:"employee_ids,omitempty"` // empty = all active employees
}

func (r *GeneratePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.PeriodMonth < 1 || r.PeriodMonth > 12 {
		errs = append(errs, validator.ValidationError{Field: "period_month", Message: "must be between 1 and 12"})
	}
	if r.PeriodYear < 2020 {
		errs = append(errs, validator.ValidationError{Field: "period_year", Message: "must be 2020 or later"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// GeneratePayrollResponse reports batch results. Failures never abort the
// run; the failed subset can simply be retried.
type GeneratePayrollResponse struct {
	Created int                    `json:"created"`
	Failed  int                    `json:"failed"`
	Errors  []GeneratePayrollError `json:"errors,omitempty"`
	Records []PayrollResponse      `json:"records,omitempty"`
}

type GeneratePayrollError struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	Reason       string `json:"reason"`
}

// ========== COMPONENT DTOs ==========

// UpdateComponentRequest adjusts one line item; totals are re-summed from
// the component list, never recomputed from attendance.
type UpdateComponentRequest struct {
	RecordID    string           `json:"-"`
	ComponentID string           `json:"-"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Name        *string          `json:"name,omitempty"`
}

func (r *UpdateComponentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RecordID) {
		errs = append(errs, validator.ValidationError{Field: "record_id", Message: "is required"})
	}
	if validator.IsEmpty(r.ComponentID) {
		errs = append(errs, validator.ValidationError{Field: "component_id", Message: "is required"})
	}
	if r.Amount != nil && r.Amount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== FILTERS ==========

type PayrollFilter struct {
	PeriodMonth *int
	PeriodYear  *int
	Status      *string
	EmployeeID  *string
	Page        int
	Limit       int
}

// ========== RESPONSES ==========

type ComponentResponse struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Type   string          `json:"type"`
	Amount decimal.Decimal `json:"amount"`
}

type PayrollResponse struct {
	ID                  string              `json:"id"`
	EmployeeID          string              `json:"employee_id"`
	EmployeeName        string              `json:"employee_name,omitempty"`
	PeriodMonth         int                 `json:"period_month"`
	PeriodYear          int                 `json:"period_year"`
	PeriodStart         string              `json:"period_start"`
	PeriodEnd           string              `json:"period_end"`
	BaseSalary          decimal.Decimal     `json:"base_salary"`
	BasicPay            decimal.Decimal     `json:"basic_pay"`
	OvertimePay         decimal.Decimal     `json:"overtime_pay"`
	TotalAllowances     decimal.Decimal     `json:"total_allowances"`
	GrossSalary         decimal.Decimal     `json:"gross_salary"`
	WithholdingTax      decimal.Decimal     `json:"withholding_tax"`
	SSSContribution     decimal.Decimal     `json:"sss_contribution"`
	PhilHealth          decimal.Decimal     `json:"philhealth_contribution"`
	PagIbig             decimal.Decimal     `json:"pagibig_contribution"`
	AbsentDeductions    decimal.Decimal     `json:"absent_deductions"`
	UndertimeDeductions decimal.Decimal     `json:"undertime_deductions"`
	LoanDeductions      decimal.Decimal     `json:"loan_deductions"`
	TotalDeductions     decimal.Decimal     `json:"total_deductions"`
	NetSalary           decimal.Decimal     `json:"net_salary"`
	Status              string              `json:"status"`
	PaidAt              *string             `json:"paid_at,omitempty"`
	Notes               *string             `json:"notes,omitempty"`
	Components          []ComponentResponse `json:"components,omitempty"`
}

type ListPayrollResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
	Records    []PayrollResponse `json:"records"`
}
