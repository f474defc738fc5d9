package payroll

import (
	"errors"
	"fmt"
)

var (
	ErrPayrollRecordNotFound      = errors.New("payroll record not found")
	ErrPayrollRecordAlreadyExists = errors.New("payroll record already exists for this period")
	ErrPayrollRecordAlreadyPaid   = errors.New("payroll record already paid, cannot modify")
	ErrComponentNotFound          = errors.New("payroll component not found")
	ErrInvalidPeriod              = errors.New("invalid payroll period")
)

// NotFinalizedError rejects payroll generation over a period whose attendance
// coverage is below the policy threshold. It carries both values so the
// caller can show how far off the period is.
type NotFinalizedError struct {
	Coverage  float64
	Threshold float64
}

func (e *NotFinalizedError) Error() string {
	return fmt.Sprintf("attendance not finalized: coverage %.0f%% below required %.0f%%",
		e.Coverage*100, e.Threshold*100)
}
