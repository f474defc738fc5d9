package overtime

import (
	"github.com/shopspring/decimal"
	"github.com/shopworks/shop-erp-backend-go/internal/pkg/validator"
)

// ========== REQUEST DTOs ==========

// CreateOvertimeRequest is the employee self-service request (status ends up
// pending) and, with Assign on the service, the manager direct assignment.
type CreateOvertimeRequest struct {
	EmployeeID   string  `json:"employee_id,omitempty"` // defaulted to requester for self-service
	ShopID       string  `json:"-"`
	OvertimeDate string  `json:"overtime_date"` // "2006-01-02"
	StartTime    string  `json:"start_time"`    // "15:04"
	EndTime      string  `json:"end_time"`      // "15:04"
	Reason       *string `json:"reason,omitempty"`
}

func (r *CreateOvertimeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ShopID) {
		errs = append(errs, validator.ValidationError{Field: "shop_id", Message: "is required"})
	}
	if _, ok := validator.IsValidDate(r.OvertimeDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "overtime_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	start, startOK := validator.IsValidTimeOfDay(r.StartTime)
	if !startOK {
		errs = append(errs, validator.ValidationError{Field: "start_time", Message: "must be a valid time (HH:MM)"})
	}
	end, endOK := validator.IsValidTimeOfDay(r.EndTime)
	if !endOK {
		errs = append(errs, validator.ValidationError{Field: "end_time", Message: "must be a valid time (HH:MM)"})
	}
	if startOK && endOK && !end.After(start) {
		errs = append(errs, validator.ValidationError{Field: "end_time", Message: "must be after start_time"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RejectOvertimeRequest struct {
	ID     string `json:"-"`
	Reason string `json:"reason"`
}

func (r *RejectOvertimeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== FILTERS ==========

type OvertimeFilter struct {
	EmployeeID *string
	Status     *string
	StartDate  *string
	EndDate    *string
	Page       int
	Limit      int
}

// ========== RESPONSES ==========

type OvertimeResponse struct {
	ID               string           `json:"id"`
	EmployeeID       string           `json:"employee_id"`
	EmployeeName     string           `json:"employee_name,omitempty"`
	OvertimeDate     string           `json:"overtime_date"`
	StartTime        string           `json:"start_time"`
	EndTime          string           `json:"end_time"`
	Hours            decimal.Decimal  `json:"hours"`
	RateMultiplier   decimal.Decimal  `json:"rate_multiplier"`
	CalculatedAmount decimal.Decimal  `json:"calculated_amount"`
	Status           string           `json:"status"`
	Reason           *string          `json:"reason,omitempty"`
	CheckedInAt      *string          `json:"checked_in_at,omitempty"`
	CheckedOutAt     *string          `json:"checked_out_at,omitempty"`
	ActualStartTime  *string          `json:"actual_start_time,omitempty"`
	ActualEndTime    *string          `json:"actual_end_time,omitempty"`
	ActualHours      *decimal.Decimal `json:"actual_hours,omitempty"`
	CreatedAt        string           `json:"created_at,omitempty"`
	UpdatedAt        string           `json:"updated_at,omitempty"`
}

type ListOvertimeResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Requests   []OvertimeResponse `json:"requests"`
}
