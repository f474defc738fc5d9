package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/leave"
	"github.com/shopworks/shop-erp-backend-go/internal/pkg/database"
)

type leaveRepository struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepository{db: db}
}

// ApprovedLeaveCovering implements leave.LeaveRepository.
func (r *leaveRepository) ApprovedLeaveCovering(ctx context.Context, employeeID string, date time.Time, shopID string) (*leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, shop_id, start_date, end_date, status, reason
		FROM leave_requests
		WHERE employee_id = $1
		  AND shop_id = $2
		  AND status = $3
		  AND start_date <= $4
		  AND end_date >= $4
		LIMIT 1
	`

	var lr leave.LeaveRequest
	err := q.QueryRow(ctx, query, employeeID, shopID, leave.StatusApproved, date).Scan(
		&lr.ID, &lr.EmployeeID, &lr.ShopID, &lr.StartDate, &lr.EndDate, &lr.Status, &lr.Reason,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get approved leave: %w", err)
	}

	return &lr, nil
}
