package overtime

import "context"

// OvertimeService defines business logic for the overtime lifecycle
type OvertimeService interface {
	// Request creates a pending self-service request
	Request(ctx context.Context, req CreateOvertimeRequest) (OvertimeResponse, error)

	// Assign creates a request directly in assigned state (manager)
	Assign(ctx context.Context, req CreateOvertimeRequest) (OvertimeResponse, error)

	// Approve moves a pending request to approved and, in the same
	// transaction, extends the day's attendance record so the longer
	// checkout window takes effect with no further action
	Approve(ctx context.Context, id, shopID, approverID string) (OvertimeResponse, error)

	// Reject moves a pending request to rejected
	Reject(ctx context.Context, shopID string, req RejectOvertimeRequest) (OvertimeResponse, error)

	// Cancel withdraws a pending request
	Cancel(ctx context.Context, id, shopID, employeeID string) (OvertimeResponse, error)

	// CheckIn clocks into an approved/assigned request within the allowed window
	CheckIn(ctx context.Context, id, shopID, employeeID string) (OvertimeResponse, error)

	// CheckOut clocks out, fixing actual hours and the calculated amount
	CheckOut(ctx context.Context, id, shopID, employeeID string) (OvertimeResponse, error)

	Get(ctx context.Context, id, shopID string) (OvertimeResponse, error)

	List(ctx context.Context, shopID string, filter OvertimeFilter) (ListOvertimeResponse, error)
}
