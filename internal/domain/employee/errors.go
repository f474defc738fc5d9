package employee

import "errors"

var (
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrEmployeeHasNoSalary = errors.New("employee has no base salary configured")
	ErrEmployeeInactive    = errors.New("employee is not active")
)
