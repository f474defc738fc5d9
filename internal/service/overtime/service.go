package overtime

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"github.com/shopworks/shop-erp-backend-go/internal/config"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/attendance"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/employee"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/overtime"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/shop"
	"github.com/shopworks/shop-erp-backend-go/internal/pkg/clock"
	"github.com/shopworks/shop-erp-backend-go/internal/pkg/database"
)

type OvertimeServiceImpl struct {
	db *database.DB
	tx database.Transactor
	overtime.OvertimeRepository
	attendance.AttendanceRepository
	employee.EmployeeRepository
	shop.ShopRepository
	clock clock.Clock
	cfg   config.AttendanceConfig
}

func NewOvertimeService(
	db *database.DB,
	tx database.Transactor,
	overtimeRepo overtime.OvertimeRepository,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	shopRepo shop.ShopRepository,
	clk clock.Clock,
	cfg config.AttendanceConfig,
) overtime.OvertimeService {
	return &OvertimeServiceImpl{
		db:                   db,
		tx:                   tx,
		OvertimeRepository:   overtimeRepo,
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		ShopRepository:       shopRepo,
		clock:                clk,
		cfg:                  cfg,
	}
}

// Request implements overtime.OvertimeService.
func (o *OvertimeServiceImpl) Request(ctx context.Context, req overtime.CreateOvertimeRequest) (overtime.OvertimeResponse, error) {
	return o.create(ctx, req, overtime.StatusPending)
}

// Assign implements overtime.OvertimeService. Manager assignment skips the
// approval step entirely.
func (o *OvertimeServiceImpl) Assign(ctx context.Context, req overtime.CreateOvertimeRequest) (overtime.OvertimeResponse, error) {
	return o.create(ctx, req, overtime.StatusAssigned)
}

func (o *OvertimeServiceImpl) create(ctx context.Context, req overtime.CreateOvertimeRequest, status string) (overtime.OvertimeResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.OvertimeResponse{}, err
	}

	shopData, err := o.ShopRepository.GetByID(ctx, req.ShopID)
	if err != nil {
		return overtime.OvertimeResponse{}, fmt.Errorf("failed to get shop: %w", err)
	}
	loc := shopData.Location()

	profile, err := o.EmployeeRepository.GetByID(ctx, req.EmployeeID, req.ShopID)
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}

	parsed, _ := time.Parse("2006-01-02", req.OvertimeDate)
	date := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, loc)

	active, err := o.OvertimeRepository.GetActiveByEmployeeAndDate(ctx, req.EmployeeID, date, req.ShopID)
	if err != nil {
		return overtime.OvertimeResponse{}, fmt.Errorf("failed to check active overtime: %w", err)
	}
	if active != nil {
		return overtime.OvertimeResponse{}, overtime.ErrDuplicateRequest
	}

	start, end := plannedWindow(date, req.StartTime, req.EndTime, loc)
	hours := decimal.NewFromFloat(end.Sub(start).Hours()).Round(2)
	multiplier := overtime.MultiplierFor(date)

	request := overtime.OvertimeRequest{
		EmployeeID:     req.EmployeeID,
		ShopID:         req.ShopID,
		OvertimeDate:   date,
		StartTime:      start.UTC(),
		EndTime:        end.UTC(),
		Hours:          hours,
		RateMultiplier: multiplier,
		Status:         status,
		Reason:         req.Reason,
	}
	request.CalculatedAmount = request.Amount(overtime.HourlyRateFor(profile), hours)

	var created overtime.OvertimeRequest
	err = o.tx(ctx, func(txCtx context.Context) error {
		created, err = o.OvertimeRepository.Create(txCtx, request)
		if err != nil {
			return err
		}
		// Direct assignment is immediately workable, so the attendance
		// extension happens here rather than at approval.
		if status == overtime.StatusAssigned {
			return o.extendAttendance(txCtx, created)
		}
		return nil
	})
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}

	return mapRequestToResponse(created), nil
}

// Approve implements overtime.OvertimeService. Approval and the attendance
// extension commit together: once approved, the day's record already expects
// the longer checkout window (seamless overtime).
func (o *OvertimeServiceImpl) Approve(ctx context.Context, id, shopID, approverID string) (overtime.OvertimeResponse, error) {
	request, err := o.OvertimeRepository.GetByID(ctx, id, shopID)
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}
	if request.Status != overtime.StatusPending {
		return overtime.OvertimeResponse{}, overtime.ErrNotPending
	}

	now := o.clock.Now()
	request.Status = overtime.StatusApproved
	request.ApprovedBy = &approverID
	request.ApprovedAt = &now

	err = o.tx(ctx, func(txCtx context.Context) error {
		if err := o.OvertimeRepository.Update(txCtx, request); err != nil {
			return fmt.Errorf("failed to approve overtime request: %w", err)
		}
		return o.extendAttendance(txCtx, request)
	})
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}

	return mapRequestToResponse(request), nil
}

// extendAttendance pushes the approved overtime end into the day's
// attendance record, creating the record when the day has none yet.
func (o *OvertimeServiceImpl) extendAttendance(ctx context.Context, request overtime.OvertimeRequest) error {
	endTime := request.EndTime

	record, err := o.AttendanceRepository.GetByEmployeeAndDate(ctx, request.EmployeeID, request.OvertimeDate, request.ShopID)
	if err != nil {
		return fmt.Errorf("failed to get attendance for overtime date: %w", err)
	}

	if record != nil {
		record.ExpectedCheckOut = &endTime
		record.HasApprovedOvertime = true
		record.OvertimeEndTime = &endTime
		if err := o.AttendanceRepository.Update(ctx, *record); err != nil {
			return fmt.Errorf("failed to extend attendance record: %w", err)
		}
		return nil
	}

	_, err = o.AttendanceRepository.Create(ctx, attendance.AttendanceRecord{
		EmployeeID:          request.EmployeeID,
		ShopID:              request.ShopID,
		Date:                request.OvertimeDate,
		Status:              attendance.StatusAbsent, // overwritten at check-in
		ExpectedCheckOut:    &endTime,
		HasApprovedOvertime: true,
		OvertimeEndTime:     &endTime,
		WorkingHours:        decimal.Zero,
		OvertimeHours:       decimal.Zero,
	})
	if err != nil {
		return fmt.Errorf("failed to pre-create attendance record: %w", err)
	}
	return nil
}

// Reject implements overtime.OvertimeService.
func (o *OvertimeServiceImpl) Reject(ctx context.Context, shopID string, req overtime.RejectOvertimeRequest) (overtime.OvertimeResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.OvertimeResponse{}, err
	}

	request, err := o.OvertimeRepository.GetByID(ctx, req.ID, shopID)
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}
	if request.Status != overtime.StatusPending {
		return overtime.OvertimeResponse{}, overtime.ErrNotPending
	}

	request.Status = overtime.StatusRejected
	request.RejectionReason = &req.Reason

	if err := o.OvertimeRepository.Update(ctx, request); err != nil {
		return overtime.OvertimeResponse{}, fmt.Errorf("failed to reject overtime request: %w", err)
	}

	return mapRequestToResponse(request), nil
}

// Cancel implements overtime.OvertimeService.
func (o *OvertimeServiceImpl) Cancel(ctx context.Context, id, shopID, employeeID string) (overtime.OvertimeResponse, error) {
	request, err := o.OvertimeRepository.GetByID(ctx, id, shopID)
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}
	if request.EmployeeID != employeeID {
		return overtime.OvertimeResponse{}, overtime.ErrRequestNotFound
	}
	if request.Status != overtime.StatusPending {
		return overtime.OvertimeResponse{}, overtime.ErrNotPending
	}

	request.Status = overtime.StatusCancelled

	if err := o.OvertimeRepository.Update(ctx, request); err != nil {
		return overtime.OvertimeResponse{}, fmt.Errorf("failed to cancel overtime request: %w", err)
	}

	return mapRequestToResponse(request), nil
}

// CheckIn implements overtime.OvertimeService.
func (o *OvertimeServiceImpl) CheckIn(ctx context.Context, id, shopID, employeeID string) (overtime.OvertimeResponse, error) {
	request, err := o.OvertimeRepository.GetByID(ctx, id, shopID)
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}
	if request.EmployeeID != employeeID {
		return overtime.OvertimeResponse{}, overtime.ErrRequestNotFound
	}
	if !request.IsWorkable() {
		return overtime.OvertimeResponse{}, overtime.ErrNotWorkable
	}
	if request.CheckedInAt != nil {
		return overtime.OvertimeResponse{}, overtime.ErrAlreadyCheckedIn
	}

	now := o.clock.Now()
	window := time.Duration(o.cfg.OvertimeWindowMinutes) * time.Minute
	earliest := request.StartTime.Add(-window)
	latest := request.EndTime.Add(-window)
	if now.Before(earliest) || now.After(latest) {
		return overtime.OvertimeResponse{}, &overtime.OutsideWindowError{Earliest: earliest, Latest: latest}
	}

	request.CheckedInAt = &now
	request.ActualStartTime = &now

	if err := o.OvertimeRepository.Update(ctx, request); err != nil {
		return overtime.OvertimeResponse{}, fmt.Errorf("failed to check in to overtime: %w", err)
	}

	return mapRequestToResponse(request), nil
}

// CheckOut implements overtime.OvertimeService.
func (o *OvertimeServiceImpl) CheckOut(ctx context.Context, id, shopID, employeeID string) (overtime.OvertimeResponse, error) {
	request, err := o.OvertimeRepository.GetByID(ctx, id, shopID)
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}
	if request.EmployeeID != employeeID {
		return overtime.OvertimeResponse{}, overtime.ErrRequestNotFound
	}
	if request.CheckedInAt == nil {
		return overtime.OvertimeResponse{}, overtime.ErrMustCheckInFirst
	}
	if request.CheckedOutAt != nil {
		return overtime.OvertimeResponse{}, overtime.ErrAlreadyCheckedOut
	}

	profile, err := o.EmployeeRepository.GetByID(ctx, employeeID, shopID)
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}

	now := o.clock.Now()
	actualHours := decimal.NewFromFloat(now.Sub(*request.CheckedInAt).Hours()).Round(2)

	request.CheckedOutAt = &now
	request.ActualEndTime = &now
	request.ActualHours = &actualHours
	request.CalculatedAmount = request.Amount(overtime.HourlyRateFor(profile), actualHours)

	if err := o.OvertimeRepository.Update(ctx, request); err != nil {
		return overtime.OvertimeResponse{}, fmt.Errorf("failed to check out of overtime: %w", err)
	}

	return mapRequestToResponse(request), nil
}

// Get implements overtime.OvertimeService.
func (o *OvertimeServiceImpl) Get(ctx context.Context, id, shopID string) (overtime.OvertimeResponse, error) {
	request, err := o.OvertimeRepository.GetByID(ctx, id, shopID)
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}
	return mapRequestToResponse(request), nil
}

// List implements overtime.OvertimeService.
func (o *OvertimeServiceImpl) List(ctx context.Context, shopID string, filter overtime.OvertimeFilter) (overtime.ListOvertimeResponse, error) {
	requests, total, err := o.OvertimeRepository.List(ctx, filter, shopID)
	if err != nil {
		return overtime.ListOvertimeResponse{}, fmt.Errorf("failed to list overtime requests: %w", err)
	}

	responses := make([]overtime.OvertimeResponse, 0, len(requests))
	for _, req := range requests {
		responses = append(responses, mapRequestToResponse(req))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	return overtime.ListOvertimeResponse{
		TotalCount: total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		Requests:   responses,
	}, nil
}

// plannedWindow combines the overtime date with start/end times of day in
// the shop's timezone.
func plannedWindow(date time.Time, startStr, endStr string, loc *time.Location) (start, end time.Time) {
	s, _ := parseTimeOfDay(startStr)
	e, _ := parseTimeOfDay(endStr)
	start = time.Date(date.Year(), date.Month(), date.Day(), s.Hour(), s.Minute(), 0, 0, loc)
	end = time.Date(date.Year(), date.Month(), date.Day(), e.Hour(), e.Minute(), 0, 0, loc)
	return start, end
}

func parseTimeOfDay(s string) (time.Time, error) {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		return time.Parse("15:04", s)
	}
	return t, nil
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("2006-01-02 15:04:05")
	return &format
}

// mapRequestToResponse converts an OvertimeRequest entity to OvertimeResponse
func mapRequestToResponse(req overtime.OvertimeRequest) overtime.OvertimeResponse {
	var employeeName string
	if req.EmployeeName != nil {
		employeeName = *req.EmployeeName
	}

	return overtime.OvertimeResponse{
		ID:               req.ID,
		EmployeeID:       req.EmployeeID,
		EmployeeName:     employeeName,
		OvertimeDate:     req.OvertimeDate.Format("2006-01-02"),
		StartTime:        req.StartTime.Format("2006-01-02 15:04:05"),
		EndTime:          req.EndTime.Format("2006-01-02 15:04:05"),
		Hours:            req.Hours,
		RateMultiplier:   req.RateMultiplier,
		CalculatedAmount: req.CalculatedAmount,
		Status:           req.Status,
		Reason:           req.Reason,
		CheckedInAt:      timePtrToString(req.CheckedInAt),
		CheckedOutAt:     timePtrToString(req.CheckedOutAt),
		ActualStartTime:  timePtrToString(req.ActualStartTime),
		ActualEndTime:    timePtrToString(req.ActualEndTime),
		ActualHours:      req.ActualHours,
		CreatedAt:        req.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:        req.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
