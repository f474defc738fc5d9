package employee

import "context"

// EmployeeRepository defines data access for employee profiles.
// All methods include shopID to keep queries tenant-scoped.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string, shopID string) (EmployeeProfile, error)
	ListActiveByShop(ctx context.Context, shopID string) ([]EmployeeProfile, error)
}
