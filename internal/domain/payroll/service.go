package payroll

import "context"

// PayrollService defines business logic around the payroll calculator
type PayrollService interface {
	// Generate runs the calculator for a batch of employees. One employee's
	// failure (duplicate record, unfinalized attendance) never aborts the
	// others.
	Generate(ctx context.Context, req GeneratePayrollRequest) (GeneratePayrollResponse, error)

	Get(ctx context.Context, id, shopID string) (PayrollResponse, error)

	List(ctx context.Context, shopID string, filter PayrollFilter) (ListPayrollResponse, error)

	// UpdateComponent edits one line item and re-sums the record totals from
	// the component list
	UpdateComponent(ctx context.Context, shopID string, req UpdateComponentRequest) (PayrollResponse, error)

	// MarkPaid finalizes draft records
	MarkPaid(ctx context.Context, ids []string, paidBy, shopID string) error
}
