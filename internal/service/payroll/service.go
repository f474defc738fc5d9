package payroll

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shopworks/shop-erp-backend-go/internal/domain/attendance"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/employee"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/payroll"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/shop"
	"github.com/shopworks/shop-erp-backend-go/internal/pkg/database"
)

type PayrollServiceImpl struct {
	db *database.DB
	tx database.Transactor
	payroll.PayrollRepository
	attendance.AttendanceRepository
	employee.EmployeeRepository
	shop.ShopRepository
	policy payroll.Policy
}

func NewPayrollService(
	db *database.DB,
	tx database.Transactor,
	payrollRepo payroll.PayrollRepository,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	shopRepo shop.ShopRepository,
	policy payroll.Policy,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		db:                   db,
		tx:                   tx,
		PayrollRepository:    payrollRepo,
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		ShopRepository:       shopRepo,
		policy:               policy,
	}
}

// Generate implements payroll.PayrollService. Each employee is processed
// independently: a duplicate record or unfinalized attendance for one
// employee lands in the error report while the rest of the batch commits,
// so the caller can retry only the failed subset.
func (p *PayrollServiceImpl) Generate(ctx context.Context, req payroll.GeneratePayrollRequest) (payroll.GeneratePayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.GeneratePayrollResponse{}, err
	}

	shopData, err := p.ShopRepository.GetByID(ctx, req.ShopID)
	if err != nil {
		return payroll.GeneratePayrollResponse{}, fmt.Errorf("failed to get shop: %w", err)
	}
	loc := shopData.Location()

	periodStart, periodEnd := payroll.PeriodBounds(req.PeriodMonth, req.PeriodYear, loc)
	workingDays := payroll.WeekdayCount(periodStart, periodEnd)

	profiles, err := p.resolveEmployees(ctx, req)
	if err != nil {
		return payroll.GeneratePayrollResponse{}, err
	}

	response := payroll.GeneratePayrollResponse{}
	for _, profile := range profiles {
		record, err := p.generateOne(ctx, profile, req, periodStart, periodEnd, workingDays)
		if err != nil {
			response.Failed++
			response.Errors = append(response.Errors, payroll.GeneratePayrollError{
				EmployeeID:   profile.ID,
				EmployeeName: profile.FullName,
				Reason:       err.Error(),
			})
			continue
		}
		response.Created++
		response.Records = append(response.Records, mapRecordToResponse(record))
	}

	return response, nil
}

func (p *PayrollServiceImpl) resolveEmployees(ctx context.Context, req payroll.GeneratePayrollRequest) ([]employee.EmployeeProfile, error) {
	if len(req.EmployeeIDs) == 0 {
		profiles, err := p.EmployeeRepository.ListActiveByShop(ctx, req.ShopID)
		if err != nil {
			return nil, fmt.Errorf("failed to list employees: %w", err)
		}
		return profiles, nil
	}

	profiles := make([]employee.EmployeeProfile, 0, len(req.EmployeeIDs))
	for _, id := range req.EmployeeIDs {
		profile, err := p.EmployeeRepository.GetByID(ctx, id, req.ShopID)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

func (p *PayrollServiceImpl) generateOne(
	ctx context.Context,
	profile employee.EmployeeProfile,
	req payroll.GeneratePayrollRequest,
	periodStart, periodEnd time.Time,
	workingDays int,
) (payroll.PayrollRecord, error) {
	if !profile.IsActive {
		return payroll.PayrollRecord{}, employee.ErrEmployeeInactive
	}
	if profile.BaseSalary.Sign() <= 0 {
		return payroll.PayrollRecord{}, employee.ErrEmployeeHasNoSalary
	}

	existing, err := p.PayrollRepository.GetByEmployeeAndPeriod(ctx, profile.ID, req.PeriodMonth, req.PeriodYear, req.ShopID)
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to check existing payroll: %w", err)
	}
	if existing != nil {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordAlreadyExists
	}

	totals, err := p.AttendanceRepository.PeriodTotals(ctx, profile.ID, periodStart, periodEnd, req.ShopID)
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to aggregate attendance: %w", err)
	}

	summary := buildSummary(profile.ID, totals, workingDays, p.policy.FinalizeCoverageThreshold)
	if !summary.Finalized {
		return payroll.PayrollRecord{}, &payroll.NotFinalizedError{
			Coverage:  summary.Coverage,
			Threshold: p.policy.FinalizeCoverageThreshold,
		}
	}

	record := Calculate(profile, summary, periodStart, periodEnd, payroll.Allowances{}, p.policy)
	record.PeriodMonth = req.PeriodMonth
	record.PeriodYear = req.PeriodYear

	// The uniqueness constraint on (employee, month, year) decides races
	// between concurrent batch runs.
	created, err := p.PayrollRepository.Create(ctx, record)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}
	return created, nil
}

// buildSummary converts raw attendance totals into the calculator input,
// deciding whether the period's coverage finalizes it for payroll.
func buildSummary(employeeID string, totals attendance.PeriodTotals, workingDays int, threshold float64) payroll.PeriodSummary {
	coverage := 0.0
	if workingDays > 0 {
		coverage = float64(totals.RecordedDays) / float64(workingDays)
	}
	return payroll.PeriodSummary{
		EmployeeID:          employeeID,
		TotalRegularHours:   totals.TotalRegularHours,
		TotalOvertimeHours:  totals.TotalOvertimeHours,
		TotalUndertimeHours: totals.TotalUndertimeHours,
		TotalPresentDays:    totals.PresentDays,
		TotalLateDays:       totals.LateDays,
		TotalAbsentDays:     totals.AbsentDays,
		WorkingDays:         workingDays,
		Coverage:            coverage,
		Finalized:           coverage >= threshold,
	}
}

// Get implements payroll.PayrollService.
func (p *PayrollServiceImpl) Get(ctx context.Context, id, shopID string) (payroll.PayrollResponse, error) {
	record, err := p.PayrollRepository.GetByID(ctx, id, shopID)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	components, err := p.PayrollRepository.GetComponents(ctx, record.ID, shopID)
	if err != nil {
		return payroll.PayrollResponse{}, fmt.Errorf("failed to get payroll components: %w", err)
	}
	record.Components = components

	return mapRecordToResponse(record), nil
}

// List implements payroll.PayrollService.
func (p *PayrollServiceImpl) List(ctx context.Context, shopID string, filter payroll.PayrollFilter) (payroll.ListPayrollResponse, error) {
	records, total, err := p.PayrollRepository.List(ctx, filter, shopID)
	if err != nil {
		return payroll.ListPayrollResponse{}, fmt.Errorf("failed to list payroll records: %w", err)
	}

	responses := make([]payroll.PayrollResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, mapRecordToResponse(record))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	return payroll.ListPayrollResponse{
		TotalCount: total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		Records:    responses,
	}, nil
}

// UpdateComponent implements payroll.PayrollService. Totals are re-summed
// from the component list, never re-derived from attendance.
func (p *PayrollServiceImpl) UpdateComponent(ctx context.Context, shopID string, req payroll.UpdateComponentRequest) (payroll.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	record, err := p.PayrollRepository.GetByID(ctx, req.RecordID, shopID)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	if record.Status == payroll.PayrollStatusPaid {
		return payroll.PayrollResponse{}, payroll.ErrPayrollRecordAlreadyPaid
	}

	components, err := p.PayrollRepository.GetComponents(ctx, record.ID, shopID)
	if err != nil {
		return payroll.PayrollResponse{}, fmt.Errorf("failed to get payroll components: %w", err)
	}

	idx := -1
	for i, c := range components {
		if c.ID == req.ComponentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return payroll.PayrollResponse{}, payroll.ErrComponentNotFound
	}

	if req.Amount != nil {
		components[idx].Amount = req.Amount.Round(2)
	}
	if req.Name != nil {
		components[idx].Name = *req.Name
	}

	RecalculateTotals(&record, components)

	err = p.tx(ctx, func(txCtx context.Context) error {
		if err := p.PayrollRepository.UpdateComponent(txCtx, components[idx], shopID); err != nil {
			return fmt.Errorf("failed to update payroll component: %w", err)
		}
		if err := p.PayrollRepository.UpdateTotals(txCtx, record); err != nil {
			return fmt.Errorf("failed to update payroll totals: %w", err)
		}
		return nil
	})
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	return mapRecordToResponse(record), nil
}

// MarkPaid implements payroll.PayrollService.
func (p *PayrollServiceImpl) MarkPaid(ctx context.Context, ids []string, paidBy, shopID string) error {
	if len(ids) == 0 {
		return nil
	}
	for _, id := range ids {
		record, err := p.PayrollRepository.GetByID(ctx, id, shopID)
		if err != nil {
			return err
		}
		if record.Status == payroll.PayrollStatusPaid {
			return payroll.ErrPayrollRecordAlreadyPaid
		}
	}
	if err := p.PayrollRepository.MarkPaid(ctx, ids, paidBy, shopID); err != nil {
		return fmt.Errorf("failed to mark payroll records paid: %w", err)
	}
	return nil
}

func mapRecordToResponse(record payroll.PayrollRecord) payroll.PayrollResponse {
	var employeeName string
	if record.EmployeeName != nil {
		employeeName = *record.EmployeeName
	}

	var paidAt *string
	if record.PaidAt != nil {
		formatted := record.PaidAt.Format("2006-01-02 15:04:05")
		paidAt = &formatted
	}

	components := make([]payroll.ComponentResponse, 0, len(record.Components))
	for _, c := range record.Components {
		components = append(components, payroll.ComponentResponse{
			ID:     c.ID,
			Name:   c.Name,
			Type:   string(c.Type),
			Amount: c.Amount,
		})
	}

	return payroll.PayrollResponse{
		ID:                  record.ID,
		EmployeeID:          record.EmployeeID,
		EmployeeName:        employeeName,
		PeriodMonth:         record.PeriodMonth,
		PeriodYear:          record.PeriodYear,
		PeriodStart:         record.PeriodStart.Format("2006-01-02"),
		PeriodEnd:           record.PeriodEnd.Format("2006-01-02"),
		BaseSalary:          record.BaseSalary,
		BasicPay:            record.BasicPay,
		OvertimePay:         record.OvertimePay,
		TotalAllowances:     record.TotalAllowances,
		GrossSalary:         record.GrossSalary,
		WithholdingTax:      record.WithholdingTax,
		SSSContribution:     record.SSSContribution,
		PhilHealth:          record.PhilHealth,
		PagIbig:             record.PagIbig,
		AbsentDeductions:    record.AbsentDeductions,
		UndertimeDeductions: record.UndertimeDeductions,
		LoanDeductions:      record.LoanDeductions,
		TotalDeductions:     record.TotalDeductions,
		NetSalary:           record.NetSalary,
		Status:              string(record.Status),
		PaidAt:              paidAt,
		Notes:               record.Notes,
		Components:          components,
	}
}
