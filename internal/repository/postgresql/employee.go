package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/employee"
	"github.com/shopworks/shop-erp-backend-go/internal/pkg/database"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepository) GetByID(ctx context.Context, id string, shopID string) (employee.EmployeeProfile, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, shop_id, full_name, position, base_salary, hourly_rate, is_active, created_at, updated_at
		FROM employees
		WHERE id = $1 AND shop_id = $2
	`

	var p employee.EmployeeProfile
	err := q.QueryRow(ctx, query, id, shopID).Scan(
		&p.ID, &p.ShopID, &p.FullName, &p.Position, &p.BaseSalary, &p.HourlyRate,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.EmployeeProfile{}, employee.ErrEmployeeNotFound
		}
		return employee.EmployeeProfile{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return p, nil
}

// ListActiveByShop implements employee.EmployeeRepository.
func (r *employeeRepository) ListActiveByShop(ctx context.Context, shopID string) ([]employee.EmployeeProfile, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, shop_id, full_name, position, base_salary, hourly_rate, is_active, created_at, updated_at
		FROM employees
		WHERE shop_id = $1 AND is_active = true
		ORDER BY full_name ASC
	`

	rows, err := q.Query(ctx, query, shopID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var profiles []employee.EmployeeProfile
	for rows.Next() {
		var p employee.EmployeeProfile
		err := rows.Scan(
			&p.ID, &p.ShopID, &p.FullName, &p.Position, &p.BaseSalary, &p.HourlyRate,
			&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		profiles = append(profiles, p)
	}

	return profiles, rows.Err()
}
