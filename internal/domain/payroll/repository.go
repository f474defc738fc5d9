package payroll

import "context"

// PayrollRepository defines data access methods for payroll records and
// their components. All methods include shopID to keep queries
// tenant-scoped. The store enforces a uniqueness constraint on
// (employee_id, period_month, period_year); Create surfaces a violation as
// ErrPayrollRecordAlreadyExists.
type PayrollRepository interface {
	Create(ctx context.Context, record PayrollRecord) (PayrollRecord, error)

	GetByID(ctx context.Context, id string, shopID string) (PayrollRecord, error)

	// GetByEmployeeAndPeriod returns the committed record for the period, or
	// nil when none exists. Used for duplicate detection before a batch run.
	GetByEmployeeAndPeriod(ctx context.Context, employeeID string, month, year int, shopID string) (*PayrollRecord, error)

	List(ctx context.Context, filter PayrollFilter, shopID string) ([]PayrollRecord, int64, error)

	// UpdateTotals rewrites the derived totals of a record after a component edit
	UpdateTotals(ctx context.Context, record PayrollRecord) error

	// UpdateComponent rewrites one line item
	UpdateComponent(ctx context.Context, component PayrollComponent, shopID string) error

	// GetComponents lists the line items of a record
	GetComponents(ctx context.Context, recordID string, shopID string) ([]PayrollComponent, error)

	// MarkPaid finalizes records as paid
	MarkPaid(ctx context.Context, ids []string, paidBy string, shopID string) error
}
