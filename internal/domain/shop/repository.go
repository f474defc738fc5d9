package shop

import "context"

// ShopRepository exposes the shop calendar the attendance and overtime
// engines consume.
type ShopRepository interface {
	// GetByID retrieves a shop, primarily for its timezone
	GetByID(ctx context.Context, id string) (Shop, error)

	// GetHours retrieves the operating window for one weekday (1=Monday..7=Sunday).
	// Returns nil when the shop is closed that day.
	GetHours(ctx context.Context, shopID string, dayOfWeek int) (*ShopHours, error)

	// ListAll retrieves every shop, for scheduled jobs that sweep all tenants
	ListAll(ctx context.Context) ([]Shop, error)
}
