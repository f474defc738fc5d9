package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/overtime"
	"github.com/shopworks/shop-erp-backend-go/internal/pkg/database"
)

type overtimeRepository struct {
	db *database.DB
}

func NewOvertimeRepository(db *database.DB) overtime.OvertimeRepository {
	return &overtimeRepository{db: db}
}

const overtimeColumns = `
	o.id, o.employee_id, o.shop_id, o.overtime_date,
	o.start_time, o.end_time, o.hours, o.rate_multiplier, o.calculated_amount,
	o.status, o.reason, o.rejection_reason,
	o.checked_in_at, o.checked_out_at,
	o.actual_start_time, o.actual_end_time, o.actual_hours,
	o.approved_by, o.approved_at,
	o.created_at, o.updated_at
`

func scanOvertime(row pgx.Row) (overtime.OvertimeRequest, error) {
	var req overtime.OvertimeRequest
	err := row.Scan(
		&req.ID, &req.EmployeeID, &req.ShopID, &req.OvertimeDate,
		&req.StartTime, &req.EndTime, &req.Hours, &req.RateMultiplier, &req.CalculatedAmount,
		&req.Status, &req.Reason, &req.RejectionReason,
		&req.CheckedInAt, &req.CheckedOutAt,
		&req.ActualStartTime, &req.ActualEndTime, &req.ActualHours,
		&req.ApprovedBy, &req.ApprovedAt,
		&req.CreatedAt, &req.UpdatedAt,
	)
	return req, err
}

// Create implements overtime.OvertimeRepository. A partial unique index over
// non-terminal statuses enforces one active request per employee-day.
func (r *overtimeRepository) Create(ctx context.Context, request overtime.OvertimeRequest) (overtime.OvertimeRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO overtime_requests (
			employee_id, shop_id, overtime_date,
			start_time, end_time, hours, rate_multiplier, calculated_amount,
			status, reason
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.EmployeeID, request.ShopID, request.OvertimeDate,
		request.StartTime, request.EndTime, request.Hours, request.RateMultiplier, request.CalculatedAmount,
		request.Status, request.Reason,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return overtime.OvertimeRequest{}, overtime.ErrDuplicateRequest
		}
		return overtime.OvertimeRequest{}, fmt.Errorf("failed to create overtime request: %w", err)
	}

	return request, nil
}

// GetByID implements overtime.OvertimeRepository.
func (r *overtimeRepository) GetByID(ctx context.Context, id string, shopID string) (overtime.OvertimeRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + overtimeColumns + `, e.full_name
		FROM overtime_requests o
		INNER JOIN employees e ON o.employee_id = e.id
		WHERE o.id = $1 AND o.shop_id = $2
	`

	var req overtime.OvertimeRequest
	err := q.QueryRow(ctx, query, id, shopID).Scan(
		&req.ID, &req.EmployeeID, &req.ShopID, &req.OvertimeDate,
		&req.StartTime, &req.EndTime, &req.Hours, &req.RateMultiplier, &req.CalculatedAmount,
		&req.Status, &req.Reason, &req.RejectionReason,
		&req.CheckedInAt, &req.CheckedOutAt,
		&req.ActualStartTime, &req.ActualEndTime, &req.ActualHours,
		&req.ApprovedBy, &req.ApprovedAt,
		&req.CreatedAt, &req.UpdatedAt,
		&req.EmployeeName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return overtime.OvertimeRequest{}, overtime.ErrRequestNotFound
		}
		return overtime.OvertimeRequest{}, fmt.Errorf("failed to get overtime request: %w", err)
	}

	return req, nil
}

// GetActiveByEmployeeAndDate implements overtime.OvertimeRepository.
func (r *overtimeRepository) GetActiveByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, shopID string) (*overtime.OvertimeRequest, error) {
	return r.getByEmployeeAndDate(ctx, employeeID, date, shopID,
		[]string{overtime.StatusPending, overtime.StatusApproved, overtime.StatusAssigned})
}

// GetWorkableByEmployeeAndDate implements overtime.OvertimeRepository.
func (r *overtimeRepository) GetWorkableByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, shopID string) (*overtime.OvertimeRequest, error) {
	return r.getByEmployeeAndDate(ctx, employeeID, date, shopID,
		[]string{overtime.StatusApproved, overtime.StatusAssigned})
}

func (r *overtimeRepository) getByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, shopID string, statuses []string) (*overtime.OvertimeRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + overtimeColumns + `
		FROM overtime_requests o
		WHERE o.employee_id = $1
		  AND o.overtime_date = $2
		  AND o.shop_id = $3
		  AND o.status = ANY($4)
		LIMIT 1
	`

	req, err := scanOvertime(q.QueryRow(ctx, query, employeeID, date, shopID, statuses))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get overtime by employee and date: %w", err)
	}

	return &req, nil
}

// Update implements overtime.OvertimeRepository.
func (r *overtimeRepository) Update(ctx context.Context, request overtime.OvertimeRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE overtime_requests SET
			start_time = $1,
			end_time = $2,
			hours = $3,
			rate_multiplier = $4,
			calculated_amount = $5,
			status = $6,
			reason = $7,
			rejection_reason = $8,
			checked_in_at = $9,
			checked_out_at = $10,
			actual_start_time = $11,
			actual_end_time = $12,
			actual_hours = $13,
			approved_by = $14,
			approved_at = $15,
			updated_at = NOW()
		WHERE id = $16 AND shop_id = $17
	`

	tag, err := q.Exec(ctx, query,
		request.StartTime, request.EndTime, request.Hours,
		request.RateMultiplier, request.CalculatedAmount,
		request.Status, request.Reason, request.RejectionReason,
		request.CheckedInAt, request.CheckedOutAt,
		request.ActualStartTime, request.ActualEndTime, request.ActualHours,
		request.ApprovedBy, request.ApprovedAt,
		request.ID, request.ShopID,
	)
	if err != nil {
		return fmt.Errorf("failed to update overtime request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return overtime.ErrRequestNotFound
	}

	return nil
}

// List implements overtime.OvertimeRepository.
func (r *overtimeRepository) List(ctx context.Context, filter overtime.OvertimeFilter, shopID string) ([]overtime.OvertimeRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"o.shop_id = $1"}
	args := []interface{}{shopID}

	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("o.employee_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("o.status = $%d", len(args)))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		conditions = append(conditions, fmt.Sprintf("o.overtime_date >= $%d", len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		conditions = append(conditions, fmt.Sprintf("o.overtime_date <= $%d", len(args)))
	}

	where := strings.Join(conditions, " AND ")

	countQuery := `SELECT COUNT(*) FROM overtime_requests o WHERE ` + where
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count overtime requests: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)

	query := `
		SELECT ` + overtimeColumns + `, e.full_name
		FROM overtime_requests o
		INNER JOIN employees e ON o.employee_id = e.id
		WHERE ` + where + `
		ORDER BY o.overtime_date DESC, o.created_at DESC
		LIMIT $` + fmt.Sprint(len(args)-1) + ` OFFSET $` + fmt.Sprint(len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list overtime requests: %w", err)
	}
	defer rows.Close()

	var requests []overtime.OvertimeRequest
	for rows.Next() {
		var req overtime.OvertimeRequest
		err := rows.Scan(
			&req.ID, &req.EmployeeID, &req.ShopID, &req.OvertimeDate,
			&req.StartTime, &req.EndTime, &req.Hours, &req.RateMultiplier, &req.CalculatedAmount,
			&req.Status, &req.Reason, &req.RejectionReason,
			&req.CheckedInAt, &req.CheckedOutAt,
			&req.ActualStartTime, &req.ActualEndTime, &req.ActualHours,
			&req.ApprovedBy, &req.ApprovedAt,
			&req.CreatedAt, &req.UpdatedAt,
			&req.EmployeeName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan overtime request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, total, rows.Err()
}
