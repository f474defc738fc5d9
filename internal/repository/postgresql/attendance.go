package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/attendance"
	"github.com/shopworks/shop-erp-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	a.id, a.employee_id, a.shop_id, a.date,
	a.check_in_time, a.check_out_time,
	a.status, a.is_early, a.minutes_early, a.minutes_late,
	a.expected_check_in, a.expected_check_out,
	a.working_hours, a.overtime_hours,
	a.lateness_reason, a.early_reason,
	a.has_approved_overtime, a.overtime_end_time,
	a.created_at, a.updated_at
`

func scanAttendance(row pgx.Row) (attendance.AttendanceRecord, error) {
	var rec attendance.AttendanceRecord
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.ShopID, &rec.Date,
		&rec.CheckInTime, &rec.CheckOutTime,
		&rec.Status, &rec.IsEarly, &rec.MinutesEarly, &rec.MinutesLate,
		&rec.ExpectedCheckIn, &rec.ExpectedCheckOut,
		&rec.WorkingHours, &rec.OvertimeHours,
		&rec.LatenessReason, &rec.EarlyReason,
		&rec.HasApprovedOvertime, &rec.OvertimeEndTime,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

// Create implements attendance.AttendanceRepository. The unique constraint
// on (employee_id, date) serializes concurrent first check-ins.
func (r *attendanceRepository) Create(ctx context.Context, record attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_records (
			employee_id, shop_id, date,
			check_in_time, check_out_time,
			status, is_early, minutes_early, minutes_late,
			expected_check_in, expected_check_out,
			working_hours, overtime_hours,
			lateness_reason, early_reason,
			has_approved_overtime, overtime_end_time
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.EmployeeID, record.ShopID, record.Date,
		record.CheckInTime, record.CheckOutTime,
		record.Status, record.IsEarly, record.MinutesEarly, record.MinutesLate,
		record.ExpectedCheckIn, record.ExpectedCheckOut,
		record.WorkingHours, record.OvertimeHours,
		record.LatenessReason, record.EarlyReason,
		record.HasApprovedOvertime, record.OvertimeEndTime,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return attendance.AttendanceRecord{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return record, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByID(ctx context.Context, id string, shopID string) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `, e.full_name, e.position
		FROM attendance_records a
		INNER JOIN employees e ON a.employee_id = e.id
		WHERE a.id = $1 AND a.shop_id = $2
	`

	var rec attendance.AttendanceRecord
	err := q.QueryRow(ctx, query, id, shopID).Scan(
		&rec.ID, &rec.EmployeeID, &rec.ShopID, &rec.Date,
		&rec.CheckInTime, &rec.CheckOutTime,
		&rec.Status, &rec.IsEarly, &rec.MinutesEarly, &rec.MinutesLate,
		&rec.ExpectedCheckIn, &rec.ExpectedCheckOut,
		&rec.WorkingHours, &rec.OvertimeHours,
		&rec.LatenessReason, &rec.EarlyReason,
		&rec.HasApprovedOvertime, &rec.OvertimeEndTime,
		&rec.CreatedAt, &rec.UpdatedAt,
		&rec.EmployeeName, &rec.EmployeePosition,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.AttendanceRecord{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to get attendance record: %w", err)
	}

	return rec, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, shopID string) (*attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records a
		WHERE a.employee_id = $1 AND a.date = $2 AND a.shop_id = $3
		LIMIT 1
	`

	rec, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date, shopID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}

	return &rec, nil
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepository) Update(ctx context.Context, record attendance.AttendanceRecord) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_records SET
			check_in_time = $1,
			check_out_time = $2,
			status = $3,
			is_early = $4,
			minutes_early = $5,
			minutes_late = $6,
			expected_check_in = $7,
			expected_check_out = $8,
			working_hours = $9,
			overtime_hours = $10,
			lateness_reason = $11,
			early_reason = $12,
			has_approved_overtime = $13,
			overtime_end_time = $14,
			updated_at = NOW()
		WHERE id = $15 AND shop_id = $16
	`

	tag, err := q.Exec(ctx, query,
		record.CheckInTime, record.CheckOutTime,
		record.Status, record.IsEarly, record.MinutesEarly, record.MinutesLate,
		record.ExpectedCheckIn, record.ExpectedCheckOut,
		record.WorkingHours, record.OvertimeHours,
		record.LatenessReason, record.EarlyReason,
		record.HasApprovedOvertime, record.OvertimeEndTime,
		record.ID, record.ShopID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter, shopID string) ([]attendance.AttendanceRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"a.shop_id = $1"}
	args := []interface{}{shopID}

	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", len(args)))
	}
	if filter.Date != nil {
		args = append(args, *filter.Date)
		conditions = append(conditions, fmt.Sprintf("a.date = $%d", len(args)))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		conditions = append(conditions, fmt.Sprintf("a.date >= $%d", len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		conditions = append(conditions, fmt.Sprintf("a.date <= $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", len(args)))
	}

	where := strings.Join(conditions, " AND ")

	countQuery := `SELECT COUNT(*) FROM attendance_records a WHERE ` + where
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	sortBy := "a.date"
	switch filter.SortBy {
	case "employee_name":
		sortBy = "e.full_name"
	case "status":
		sortBy = "a.status"
	case "check_in_time":
		sortBy = "a.check_in_time"
	}
	sortOrder := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		sortOrder = "ASC"
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
		SELECT ` + attendanceColumns + `, e.full_name, e.position
		FROM attendance_records a
		INNER JOIN employees e ON a.employee_id = e.id
		WHERE ` + where + `
		ORDER BY ` + sortBy + ` ` + sortOrder + `
		LIMIT $` + fmt.Sprint(len(args)-1) + ` OFFSET $` + fmt.Sprint(len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.AttendanceRecord
	for rows.Next() {
		var rec attendance.AttendanceRecord
		err := rows.Scan(
			&rec.ID, &rec.EmployeeID, &rec.ShopID, &rec.Date,
			&rec.CheckInTime, &rec.CheckOutTime,
			&rec.Status, &rec.IsEarly, &rec.MinutesEarly, &rec.MinutesLate,
			&rec.ExpectedCheckIn, &rec.ExpectedCheckOut,
			&rec.WorkingHours, &rec.OvertimeHours,
			&rec.LatenessReason, &rec.EarlyReason,
			&rec.HasApprovedOvertime, &rec.OvertimeEndTime,
			&rec.CreatedAt, &rec.UpdatedAt,
			&rec.EmployeeName, &rec.EmployeePosition,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}

	return records, total, rows.Err()
}

// GetMyAttendance implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetMyAttendance(ctx context.Context, employeeID string, filter attendance.MyAttendanceFilter, shopID string) ([]attendance.AttendanceRecord, int64, error) {
	full := attendance.AttendanceFilter{
		EmployeeID: &employeeID,
		Date:       filter.Date,
		StartDate:  filter.StartDate,
		EndDate:    filter.EndDate,
		Status:     filter.Status,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}
	return r.List(ctx, full, shopID)
}

// PeriodTotals implements attendance.AttendanceRepository. Undertime counts
// the gap between an early check-out and the expected check-out.
func (r *attendanceRepository) PeriodTotals(ctx context.Context, employeeID string, from, to time.Time, shopID string) (attendance.PeriodTotals, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COALESCE(SUM(working_hours), 0),
			COALESCE(SUM(overtime_hours), 0),
			COALESCE(SUM(
				CASE WHEN check_out_time IS NOT NULL AND expected_check_out IS NOT NULL
					  AND check_out_time < expected_check_out
				THEN ROUND(EXTRACT(EPOCH FROM (expected_check_out - check_out_time)) / 3600.0, 2)
				ELSE 0 END
			), 0),
			COUNT(*) FILTER (WHERE status IN ('present', 'half_day')),
			COUNT(*) FILTER (WHERE status = 'late'),
			COUNT(*) FILTER (WHERE status = 'absent'),
			COUNT(*)
		FROM attendance_records
		WHERE employee_id = $1 AND shop_id = $2 AND date BETWEEN $3 AND $4
	`

	totals := attendance.PeriodTotals{EmployeeID: employeeID}
	err := q.QueryRow(ctx, query, employeeID, shopID, from, to).Scan(
		&totals.TotalRegularHours,
		&totals.TotalOvertimeHours,
		&totals.TotalUndertimeHours,
		&totals.PresentDays,
		&totals.LateDays,
		&totals.AbsentDays,
		&totals.RecordedDays,
	)
	if err != nil {
		return attendance.PeriodTotals{}, fmt.Errorf("failed to aggregate period totals: %w", err)
	}

	return totals, nil
}

// EmployeeIDsWithRecordOn implements attendance.AttendanceRepository.
func (r *attendanceRepository) EmployeeIDsWithRecordOn(ctx context.Context, shopID string, date time.Time) (map[string]bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id
		FROM attendance_records
		WHERE shop_id = $1 AND date = $2
	`

	rows, err := q.Query(ctx, query, shopID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list recorded employee ids: %w", err)
	}
	defer rows.Close()

	ids := map[string]bool{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan employee id: %w", err)
		}
		ids[id] = true
	}

	return ids, rows.Err()
}
