package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/payroll"
	"github.com/shopworks/shop-erp-backend-go/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payrollColumns = `
	p.id, p.employee_id, p.shop_id, p.period_month, p.period_year,
	p.period_start, p.period_end,
	p.base_salary, p.basic_pay, p.overtime_pay, p.total_allowances, p.gross_salary,
	p.withholding_tax, p.sss_contribution, p.philhealth_contribution, p.pagibig_contribution,
	p.absent_deductions, p.undertime_deductions, p.loan_deductions,
	p.total_deductions, p.net_salary,
	p.status, p.paid_at, p.paid_by, p.notes,
	p.created_at, p.updated_at
`

func scanPayroll(row pgx.Row) (payroll.PayrollRecord, error) {
	var rec payroll.PayrollRecord
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.ShopID, &rec.PeriodMonth, &rec.PeriodYear,
		&rec.PeriodStart, &rec.PeriodEnd,
		&rec.BaseSalary, &rec.BasicPay, &rec.OvertimePay, &rec.TotalAllowances, &rec.GrossSalary,
		&rec.WithholdingTax, &rec.SSSContribution, &rec.PhilHealth, &rec.PagIbig,
		&rec.AbsentDeductions, &rec.UndertimeDeductions, &rec.LoanDeductions,
		&rec.TotalDeductions, &rec.NetSalary,
		&rec.Status, &rec.PaidAt, &rec.PaidBy, &rec.Notes,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

// Create implements payroll.PayrollRepository. The record and its components
// are inserted in one transaction; the unique constraint on
// (employee_id, period_month, period_year) decides duplicate races.
func (r *payrollRepository) Create(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	err := WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, r.db)

		query := `
			INSERT INTO payroll_records (
				employee_id, shop_id, period_month, period_year,
				period_start, period_end,
				base_salary, basic_pay, overtime_pay, total_allowances, gross_salary,
				withholding_tax, sss_contribution, philhealth_contribution, pagibig_contribution,
				absent_deductions, undertime_deductions, loan_deductions,
				total_deductions, net_salary, status
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
				$12, $13, $14, $15, $16, $17, $18, $19, $20, $21
			) RETURNING id, created_at, updated_at
		`

		err := q.QueryRow(txCtx, query,
			record.EmployeeID, record.ShopID, record.PeriodMonth, record.PeriodYear,
			record.PeriodStart, record.PeriodEnd,
			record.BaseSalary, record.BasicPay, record.OvertimePay, record.TotalAllowances, record.GrossSalary,
			record.WithholdingTax, record.SSSContribution, record.PhilHealth, record.PagIbig,
			record.AbsentDeductions, record.UndertimeDeductions, record.LoanDeductions,
			record.TotalDeductions, record.NetSalary, record.Status,
		).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return payroll.ErrPayrollRecordAlreadyExists
			}
			return fmt.Errorf("failed to create payroll record: %w", err)
		}

		componentQuery := `
			INSERT INTO payroll_components (payroll_record_id, name, type, amount)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at, updated_at
		`
		for i := range record.Components {
			c := &record.Components[i]
			c.PayrollRecordID = record.ID
			err := q.QueryRow(txCtx, componentQuery, c.PayrollRecordID, c.Name, c.Type, c.Amount).
				Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
			if err != nil {
				return fmt.Errorf("failed to create payroll component: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return payroll.PayrollRecord{}, err
	}

	return record, nil
}

// GetByID implements payroll.PayrollRepository.
func (r *payrollRepository) GetByID(ctx context.Context, id string, shopID string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollColumns + `, e.full_name
		FROM payroll_records p
		INNER JOIN employees e ON p.employee_id = e.id
		WHERE p.id = $1 AND p.shop_id = $2
	`

	var rec payroll.PayrollRecord
	err := q.QueryRow(ctx, query, id, shopID).Scan(
		&rec.ID, &rec.EmployeeID, &rec.ShopID, &rec.PeriodMonth, &rec.PeriodYear,
		&rec.PeriodStart, &rec.PeriodEnd,
		&rec.BaseSalary, &rec.BasicPay, &rec.OvertimePay, &rec.TotalAllowances, &rec.GrossSalary,
		&rec.WithholdingTax, &rec.SSSContribution, &rec.PhilHealth, &rec.PagIbig,
		&rec.AbsentDeductions, &rec.UndertimeDeductions, &rec.LoanDeductions,
		&rec.TotalDeductions, &rec.NetSalary,
		&rec.Status, &rec.PaidAt, &rec.PaidBy, &rec.Notes,
		&rec.CreatedAt, &rec.UpdatedAt,
		&rec.EmployeeName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return rec, nil
}

// GetByEmployeeAndPeriod implements payroll.PayrollRepository.
func (r *payrollRepository) GetByEmployeeAndPeriod(ctx context.Context, employeeID string, month, year int, shopID string) (*payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollColumns + `
		FROM payroll_records p
		WHERE p.employee_id = $1 AND p.period_month = $2 AND p.period_year = $3 AND p.shop_id = $4
		LIMIT 1
	`

	rec, err := scanPayroll(q.QueryRow(ctx, query, employeeID, month, year, shopID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payroll by period: %w", err)
	}

	return &rec, nil
}

// List implements payroll.PayrollRepository.
func (r *payrollRepository) List(ctx context.Context, filter payroll.PayrollFilter, shopID string) ([]payroll.PayrollRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"p.shop_id = $1"}
	args := []interface{}{shopID}

	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("p.employee_id = $%d", len(args)))
	}
	if filter.PeriodMonth != nil {
		args = append(args, *filter.PeriodMonth)
		conditions = append(conditions, fmt.Sprintf("p.period_month = $%d", len(args)))
	}
	if filter.PeriodYear != nil {
		args = append(args, *filter.PeriodYear)
		conditions = append(conditions, fmt.Sprintf("p.period_year = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", len(args)))
	}

	where := strings.Join(conditions, " AND ")

	countQuery := `SELECT COUNT(*) FROM payroll_records p WHERE ` + where
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll records: %w", err)
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
		SELECT ` + payrollColumns + `, e.full_name
		FROM payroll_records p
		INNER JOIN employees e ON p.employee_id = e.id
		WHERE ` + where + `
		ORDER BY p.period_year DESC, p.period_month DESC, e.full_name ASC
		LIMIT $` + fmt.Sprint(len(args)-1) + ` OFFSET $` + fmt.Sprint(len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.PayrollRecord
	for rows.Next() {
		var rec payroll.PayrollRecord
		err := rows.Scan(
			&rec.ID, &rec.EmployeeID, &rec.ShopID, &rec.PeriodMonth, &rec.PeriodYear,
			&rec.PeriodStart, &rec.PeriodEnd,
			&rec.BaseSalary, &rec.BasicPay, &rec.OvertimePay, &rec.TotalAllowances, &rec.GrossSalary,
			&rec.WithholdingTax, &rec.SSSContribution, &rec.PhilHealth, &rec.PagIbig,
			&rec.AbsentDeductions, &rec.UndertimeDeductions, &rec.LoanDeductions,
			&rec.TotalDeductions, &rec.NetSalary,
			&rec.Status, &rec.PaidAt, &rec.PaidBy, &rec.Notes,
			&rec.CreatedAt, &rec.UpdatedAt,
			&rec.EmployeeName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}

	return records, total, rows.Err()
}

// UpdateTotals implements payroll.PayrollRepository.
func (r *payrollRepository) UpdateTotals(ctx context.Context, record payroll.PayrollRecord) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_records SET
			basic_pay = $1,
			overtime_pay = $2,
			total_allowances = $3,
			gross_salary = $4,
			withholding_tax = $5,
			sss_contribution = $6,
			philhealth_contribution = $7,
			pagibig_contribution = $8,
			absent_deductions = $9,
			undertime_deductions = $10,
			loan_deductions = $11,
			total_deductions = $12,
			net_salary = $13,
			updated_at = NOW()
		WHERE id = $14 AND shop_id = $15
	`

	tag, err := q.Exec(ctx, query,
		record.BasicPay, record.OvertimePay, record.TotalAllowances, record.GrossSalary,
		record.WithholdingTax, record.SSSContribution, record.PhilHealth, record.PagIbig,
		record.AbsentDeductions, record.UndertimeDeductions, record.LoanDeductions,
		record.TotalDeductions, record.NetSalary,
		record.ID, record.ShopID,
	)
	if err != nil {
		return fmt.Errorf("failed to update payroll totals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayrollRecordNotFound
	}

	return nil
}

// UpdateComponent implements payroll.PayrollRepository.
func (r *payrollRepository) UpdateComponent(ctx context.Context, component payroll.PayrollComponent, shopID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_components c SET
			name = $1,
			amount = $2,
			updated_at = NOW()
		FROM payroll_records p
		WHERE c.id = $3
		  AND c.payroll_record_id = p.id
		  AND p.shop_id = $4
	`

	tag, err := q.Exec(ctx, query, component.Name, component.Amount, component.ID, shopID)
	if err != nil {
		return fmt.Errorf("failed to update payroll component: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrComponentNotFound
	}

	return nil
}

// GetComponents implements payroll.PayrollRepository.
func (r *payrollRepository) GetComponents(ctx context.Context, recordID string, shopID string) ([]payroll.PayrollComponent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT c.id, c.payroll_record_id, c.name, c.type, c.amount, c.created_at, c.updated_at
		FROM payroll_components c
		INNER JOIN payroll_records p ON c.payroll_record_id = p.id
		WHERE c.payroll_record_id = $1 AND p.shop_id = $2
		ORDER BY c.type ASC, c.created_at ASC
	`

	rows, err := q.Query(ctx, query, recordID, shopID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payroll components: %w", err)
	}
	defer rows.Close()

	var components []payroll.PayrollComponent
	for rows.Next() {
		var c payroll.PayrollComponent
		err := rows.Scan(&c.ID, &c.PayrollRecordID, &c.Name, &c.Type, &c.Amount, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll component: %w", err)
		}
		components = append(components, c)
	}

	return components, rows.Err()
}

// MarkPaid implements payroll.PayrollRepository.
func (r *payrollRepository) MarkPaid(ctx context.Context, ids []string, paidBy string, shopID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_records SET
			status = $1,
			paid_at = NOW(),
			paid_by = $2,
			updated_at = NOW()
		WHERE id = ANY($3) AND shop_id = $4 AND status = $5
	`

	tag, err := q.Exec(ctx, query, payroll.PayrollStatusPaid, paidBy, ids, shopID, payroll.PayrollStatusDraft)
	if err != nil {
		return fmt.Errorf("failed to mark payroll records paid: %w", err)
	}
	if tag.RowsAffected() != int64(len(ids)) {
		return payroll.ErrPayrollRecordNotFound
	}

	return nil
}
