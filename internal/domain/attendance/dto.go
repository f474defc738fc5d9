package attendance

import (
	"github.com/shopspring/decimal"
	"github.com/shopworks/shop-erp-backend-go/internal/pkg/validator"
)

// ========== CHECK-IN / CHECK-OUT DTOs ==========

type CheckInRequest struct {
	EmployeeID     string  `json:"-"` // from token claims
	ShopID         string  `json:"-"`
	LatenessReason *string `json:"lateness_reason,omitempty"`
	EarlyReason    *string `json:"early_reason,omitempty"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if validator.IsEmpty(r.ShopID) {
		errs = append(errs, validator.ValidationError{Field: "shop_id", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CheckOutRequest struct {
	EmployeeID string `json:"-"`
	ShopID     string `json:"-"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if validator.IsEmpty(r.ShopID) {
		errs = append(errs, validator.ValidationError{Field: "shop_id", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== ADMIN DTOs ==========

// UpdateAttendanceRequest lets managers fix wrong clock times or statuses.
// Working and overtime hours are recomputed, never set directly.
type UpdateAttendanceRequest struct {
	ID             string  `json:"-"`
	CheckInTime    *string `json:"check_in_time,omitempty"`  // "15:04:05" or "2006-01-02 15:04:05"
	CheckOutTime   *string `json:"check_out_time,omitempty"` // same formats
	Status         *string `json:"status,omitempty"`
	LatenessReason *string `json:"lateness_reason,omitempty"`
	EarlyReason    *string `json:"early_reason,omitempty"`
}

func (r *UpdateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "is required"})
	}
	if r.Status != nil && !validator.IsInSlice(*r.Status, StatusValues) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be one of present, absent, late, half_day"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== FILTERS ==========

type AttendanceFilter struct {
	EmployeeID *string
	Date       *string
	StartDate  *string
	EndDate    *string
	Status     *string
	Page       int
	Limit      int
	SortBy     string
	SortOrder  string
}

type MyAttendanceFilter struct {
	Date      *string
	StartDate *string
	EndDate   *string
	Status    *string
	Page      int
	Limit     int
}

// ========== RESPONSES ==========

type AttendanceResponse struct {
	ID                  string           `json:"id"`
	EmployeeID          string           `json:"employee_id"`
	EmployeeName        string           `json:"employee_name,omitempty"`
	EmployeePosition    *string          `json:"employee_position,omitempty"`
	Date                string           `json:"date"`
	CheckInTime         *string          `json:"check_in_time"`
	CheckOutTime        *string          `json:"check_out_time"`
	ExpectedCheckIn     *string          `json:"expected_check_in,omitempty"`
	ExpectedCheckOut    *string          `json:"expected_check_out,omitempty"`
	Status              string           `json:"status"`
	IsEarly             bool             `json:"is_early"`
	MinutesEarly        int              `json:"minutes_early"`
	MinutesLate         int              `json:"minutes_late"`
	WorkingHours        decimal.Decimal  `json:"working_hours"`
	OvertimeHours       decimal.Decimal  `json:"overtime_hours"`
	LatenessReason      *string          `json:"lateness_reason,omitempty"`
	EarlyReason         *string          `json:"early_reason,omitempty"`
	HasApprovedOvertime bool             `json:"has_approved_overtime"`
	OvertimeEndTime     *string          `json:"overtime_end_time,omitempty"`
	CreatedAt           string           `json:"created_at,omitempty"`
	UpdatedAt           string           `json:"updated_at,omitempty"`
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Showing     string               `json:"showing"`
	Attendances []AttendanceResponse `json:"attendances"`
}

type PeriodTotalsResponse struct {
	EmployeeID          string          `json:"employee_id"`
	StartDate           string          `json:"start_date"`
	EndDate             string          `json:"end_date"`
	TotalRegularHours   decimal.Decimal `json:"total_regular_hours"`
	TotalOvertimeHours  decimal.Decimal `json:"total_overtime_hours"`
	TotalUndertimeHours decimal.Decimal `json:"total_undertime_hours"`
	PresentDays         int             `json:"present_days"`
	LateDays            int             `json:"late_days"`
	AbsentDays          int             `json:"absent_days"`
	WorkingDays         int             `json:"working_days"`
	Coverage            float64         `json:"coverage"`
	Finalized           bool            `json:"finalized"`
}
