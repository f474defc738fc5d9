package response

import (
	"errors"
	"net/http"

	"github.com/shopworks/shop-erp-backend-go/internal/domain/attendance"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/employee"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/overtime"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/payroll"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/shop"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/user"
	"github.com/shopworks/shop-erp-backend-go/internal/pkg/validator"

	"github.com/shopspring/decimal"
)

// HandleError maps domain errors to HTTP responses. Handlers funnel every
// service error through here so the status mapping lives in one place.
func HandleError(w http.ResponseWriter, err error) {
	// Validation errors carry per-field details.
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Policy errors carry the bounds that were violated.
	var tooEarly *attendance.TooEarlyError
	if errors.As(err, &tooEarly) {
		PolicyViolation(w, tooEarly.Error(), map[string]string{
			"earliest_allowed": tooEarly.EarliestAllowed.Format("15:04"),
		})
		return
	}

	var outsideWindow *overtime.OutsideWindowError
	if errors.As(err, &outsideWindow) {
		PolicyViolation(w, outsideWindow.Error(), map[string]string{
			"earliest": outsideWindow.Earliest.Format("15:04"),
			"latest":   outsideWindow.Latest.Format("15:04"),
		})
		return
	}

	var notFinalized *payroll.NotFinalizedError
	if errors.As(err, &notFinalized) {
		PolicyViolation(w, notFinalized.Error(), map[string]string{
			"coverage":  decimal.NewFromFloat(notFinalized.Coverage).Round(4).String(),
			"threshold": decimal.NewFromFloat(notFinalized.Threshold).Round(4).String(),
		})
		return
	}

	switch {
	// Policy violations without structured bounds
	case errors.Is(err, attendance.ErrOnApprovedLeave):
		PolicyViolation(w, err.Error(), nil)

	// Not found
	case errors.Is(err, attendance.ErrAttendanceNotFound),
		errors.Is(err, overtime.ErrRequestNotFound),
		errors.Is(err, payroll.ErrPayrollRecordNotFound),
		errors.Is(err, payroll.ErrComponentNotFound),
		errors.Is(err, shop.ErrShopNotFound),
		errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, err.Error())

	// State conflicts
	case errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrAlreadyCheckedOut),
		errors.Is(err, attendance.ErrNotCheckedIn),
		errors.Is(err, overtime.ErrDuplicateRequest),
		errors.Is(err, overtime.ErrNotPending),
		errors.Is(err, overtime.ErrNotWorkable),
		errors.Is(err, overtime.ErrAlreadyCheckedIn),
		errors.Is(err, overtime.ErrAlreadyCheckedOut),
		errors.Is(err, overtime.ErrMustCheckInFirst),
		errors.Is(err, payroll.ErrPayrollRecordAlreadyExists),
		errors.Is(err, payroll.ErrPayrollRecordAlreadyPaid),
		errors.Is(err, employee.ErrEmployeeInactive):
		Conflict(w, err.Error())

	// Bad input
	case errors.Is(err, payroll.ErrInvalidPeriod),
		errors.Is(err, employee.ErrEmployeeHasNoSalary):
		BadRequest(w, err.Error(), nil)

	// Auth
	case errors.Is(err, user.ErrInvalidToken),
		errors.Is(err, user.ErrMissingShopContext):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrManagerAccessRequired):
		Forbidden(w, err.Error())

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
