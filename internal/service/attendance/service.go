package attendance

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"github.com/shopworks/shop-erp-backend-go/internal/config"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/attendance"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/employee"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/leave"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/overtime"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/payroll"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/shop"
	"github.com/shopworks/shop-erp-backend-go/internal/pkg/clock"
	"github.com/shopworks/shop-erp-backend-go/internal/pkg/database"
)

type AttendanceServiceImpl struct {
	db *database.DB
	tx database.Transactor
	attendance.AttendanceRepository
	overtime.OvertimeRepository
	shop.ShopRepository
	leave.LeaveRepository
	employee.EmployeeRepository
	clock             clock.Clock
	cfg               config.AttendanceConfig
	finalizeThreshold float64
}

func NewAttendanceService(
	db *database.DB,
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	overtimeRepo overtime.OvertimeRepository,
	shopRepo shop.ShopRepository,
	leaveRepo leave.LeaveRepository,
	employeeRepo employee.EmployeeRepository,
	clk clock.Clock,
	cfg config.AttendanceConfig,
	finalizeThreshold float64,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		db:                   db,
		tx:                   tx,
		AttendanceRepository: attendanceRepo,
		OvertimeRepository:   overtimeRepo,
		ShopRepository:       shopRepo,
		LeaveRepository:      leaveRepo,
		EmployeeRepository:   employeeRepo,
		clock:                clk,
		cfg:                  cfg,
		finalizeThreshold:    finalizeThreshold,
	}
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("2006-01-02 15:04:05")
	return &format
}

// parseTimeOfDay parses "HH:MM" or "HH:MM:SS" into hour/minute components.
func parseTimeOfDay(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		t, err = time.Parse("15:04", s)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid time of day %q: %w", s, err)
		}
	}
	return t.Hour(), t.Minute(), nil
}

// shopDay returns midnight of the shop-local calendar day containing now.
func shopDay(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// operatingWindow resolves the shop's expected check-in and check-out for the
// given local day, falling back to the configured defaults when the shop has
// no hours row for that weekday.
func (a *AttendanceServiceImpl) operatingWindow(ctx context.Context, shopID string, day time.Time, loc *time.Location) (openAt, closeAt time.Time, err error) {
	hours, err := a.ShopRepository.GetHours(ctx, shopID, shop.ISOWeekday(day.Weekday()))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("failed to get shop hours: %w", err)
	}

	openHour, openMin, err := parseTimeOfDay(a.cfg.DefaultOpenTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	closeHour, closeMin, err := parseTimeOfDay(a.cfg.DefaultCloseTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if hours != nil {
		openHour, openMin = hours.OpenTime.Hour(), hours.OpenTime.Minute()
		closeHour, closeMin = hours.CloseTime.Hour(), hours.CloseTime.Minute()
	}

	openAt = time.Date(day.Year(), day.Month(), day.Day(), openHour, openMin, 0, 0, loc)
	closeAt = time.Date(day.Year(), day.Month(), day.Day(), closeHour, closeMin, 0, 0, loc)
	return openAt, closeAt, nil
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	shopData, err := a.ShopRepository.GetByID(ctx, req.ShopID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get shop: %w", err)
	}
	loc := shopData.Location()

	nowUTC := a.clock.Now()
	nowLocal := nowUTC.In(loc)
	day := shopDay(nowUTC, loc)

	onLeave, err := a.LeaveRepository.ApprovedLeaveCovering(ctx, req.EmployeeID, day, req.ShopID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check approved leave: %w", err)
	}
	if onLeave != nil {
		return attendance.AttendanceResponse{}, attendance.ErrOnApprovedLeave
	}

	existing, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, req.EmployeeID, day, req.ShopID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance for today: %w", err)
	}
	if existing != nil {
		if existing.CheckOutTime != nil {
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
		}
		if existing.CheckInTime != nil {
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
		}
		// A record without a check-in was pre-created by an overtime
		// approval; check into it instead of inserting a duplicate.
	}

	expectedIn, expectedOut, err := a.operatingWindow(ctx, req.ShopID, day, loc)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	earliestAllowed := expectedIn.Add(-time.Duration(a.cfg.EarlyGraceMinutes) * time.Minute)
	if nowLocal.Before(earliestAllowed) {
		return attendance.AttendanceResponse{}, &attendance.TooEarlyError{EarliestAllowed: earliestAllowed}
	}

	status := attendance.StatusPresent
	isEarly := false
	minutesEarly := 0
	minutesLate := 0
	switch {
	case nowLocal.After(expectedIn):
		status = attendance.StatusLate
		minutesLate = int(math.Floor(nowLocal.Sub(expectedIn).Minutes()))
	case nowLocal.Before(expectedIn):
		isEarly = true
		minutesEarly = int(math.Ceil(expectedIn.Sub(nowLocal).Minutes()))
	}

	var result attendance.AttendanceRecord
	if existing != nil {
		record := *existing
		record.CheckInTime = &nowUTC
		record.Status = status
		record.IsEarly = isEarly
		record.MinutesEarly = minutesEarly
		record.MinutesLate = minutesLate
		record.ExpectedCheckIn = &expectedIn
		if record.ExpectedCheckOut == nil {
			record.ExpectedCheckOut = &expectedOut
		}
		record.LatenessReason = req.LatenessReason
		record.EarlyReason = req.EarlyReason

		if err := a.AttendanceRepository.Update(ctx, record); err != nil {
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to update pre-created attendance: %w", err)
		}
		result = record
	} else {
		record := attendance.AttendanceRecord{
			EmployeeID:       req.EmployeeID,
			ShopID:           req.ShopID,
			Date:             day,
			CheckInTime:      &nowUTC,
			Status:           status,
			IsEarly:          isEarly,
			MinutesEarly:     minutesEarly,
			MinutesLate:      minutesLate,
			ExpectedCheckIn:  &expectedIn,
			ExpectedCheckOut: &expectedOut,
			WorkingHours:     decimal.Zero,
			OvertimeHours:    decimal.Zero,
			LatenessReason:   req.LatenessReason,
			EarlyReason:      req.EarlyReason,
		}

		result, err = a.AttendanceRepository.Create(ctx, record)
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}
	}

	return mapRecordToResponse(result), nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	shopData, err := a.ShopRepository.GetByID(ctx, req.ShopID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get shop: %w", err)
	}
	loc := shopData.Location()

	nowUTC := a.clock.Now()
	nowLocal := nowUTC.In(loc)
	day := shopDay(nowUTC, loc)

	record, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, req.EmployeeID, day, req.ShopID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance for today: %w", err)
	}
	if record == nil || record.CheckInTime == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	}
	if record.CheckOutTime != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	_, closeAt, err := a.operatingWindow(ctx, req.ShopID, day, loc)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	otRequest, err := a.OvertimeRepository.GetWorkableByEmployeeAndDate(ctx, req.EmployeeID, day, req.ShopID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get overtime request: %w", err)
	}

	checkInLocal := record.CheckInTime.In(loc)
	elapsed := nowLocal.Sub(checkInLocal)

	regularHours := decimal.NewFromFloat(elapsed.Hours()).Round(2)
	overtimeHours := decimal.Zero

	consumedOvertime := otRequest != nil && nowLocal.After(closeAt)
	if consumedOvertime {
		regular := closeAt.Sub(checkInLocal)
		if regular < 0 {
			regular = 0
		}
		worked := decimal.NewFromFloat(nowLocal.Sub(closeAt).Hours())
		if worked.GreaterThan(otRequest.Hours) {
			worked = otRequest.Hours
		}
		regularHours = decimal.NewFromFloat(regular.Hours()).Round(2)
		overtimeHours = worked.Round(2)
	}
	if regularHours.IsNegative() {
		regularHours = decimal.Zero
	}

	record.CheckOutTime = &nowUTC
	record.WorkingHours = regularHours
	record.OvertimeHours = overtimeHours

	if consumedOvertime {
		profile, err := a.EmployeeRepository.GetByID(ctx, req.EmployeeID, req.ShopID)
		if err != nil {
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to get employee profile: %w", err)
		}
		actualStart := closeAt.UTC()
		otRequest.ActualStartTime = &actualStart
		otRequest.ActualEndTime = &nowUTC
		otRequest.CheckedOutAt = &nowUTC
		otRequest.ActualHours = &overtimeHours
		otRequest.CalculatedAmount = otRequest.Amount(overtime.HourlyRateFor(profile), overtimeHours)
	}

	// The attendance row and, when overtime was consumed, the overtime
	// actuals must commit together.
	err = a.tx(ctx, func(txCtx context.Context) error {
		if err := a.AttendanceRepository.Update(txCtx, *record); err != nil {
			return fmt.Errorf("failed to update attendance record: %w", err)
		}

		if consumedOvertime {
			if err := a.OvertimeRepository.Update(txCtx, *otRequest); err != nil {
				return fmt.Errorf("failed to update overtime actuals: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return mapRecordToResponse(*record), nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, employeeID, shopID string, filter attendance.MyAttendanceFilter) (attendance.ListAttendanceResponse, error) {
	records, total, err := a.AttendanceRepository.GetMyAttendance(ctx, employeeID, filter, shopID)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to get my attendance: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, mapRecordToResponse(rec))
	}

	return listResponse(responses, total, filter.Page, filter.Limit), nil
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, shopID string, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	records, total, err := a.AttendanceRepository.List(ctx, filter, shopID)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, mapRecordToResponse(rec))
	}

	return listResponse(responses, total, filter.Page, filter.Limit), nil
}

// GetAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetAttendance(ctx context.Context, id, shopID string) (attendance.AttendanceResponse, error) {
	record, err := a.AttendanceRepository.GetByID(ctx, id, shopID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return mapRecordToResponse(record), nil
}

// UpdateAttendance implements attendance.AttendanceService.
// This allows managers/owners to fix wrong clock times; working hours are
// recomputed, never trusted from the request.
func (a *AttendanceServiceImpl) UpdateAttendance(ctx context.Context, shopID string, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := a.AttendanceRepository.GetByID(ctx, req.ID, shopID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if req.CheckInTime != nil && *req.CheckInTime != "" {
		t, err := parseClockValue(*req.CheckInTime, record.Date)
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}
		record.CheckInTime = &t
	}
	if req.CheckOutTime != nil && *req.CheckOutTime != "" {
		t, err := parseClockValue(*req.CheckOutTime, record.Date)
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}
		record.CheckOutTime = &t
	}
	if req.Status != nil {
		record.Status = *req.Status
	}
	if req.LatenessReason != nil {
		record.LatenessReason = req.LatenessReason
	}
	if req.EarlyReason != nil {
		record.EarlyReason = req.EarlyReason
	}

	if record.CheckInTime != nil && record.CheckOutTime != nil {
		elapsed := record.CheckOutTime.Sub(*record.CheckInTime)
		record.WorkingHours = decimal.NewFromFloat(elapsed.Hours()).Round(2).Sub(record.OvertimeHours)
		if record.WorkingHours.IsNegative() {
			record.WorkingHours = decimal.Zero
		}
	}

	if err := a.AttendanceRepository.Update(ctx, record); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	updated, err := a.AttendanceRepository.GetByID(ctx, req.ID, shopID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get updated attendance: %w", err)
	}

	return mapRecordToResponse(updated), nil
}

// PeriodSummary implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) PeriodSummary(ctx context.Context, employeeID, shopID string, from, to time.Time) (attendance.PeriodTotalsResponse, error) {
	totals, err := a.AttendanceRepository.PeriodTotals(ctx, employeeID, from, to, shopID)
	if err != nil {
		return attendance.PeriodTotalsResponse{}, fmt.Errorf("failed to aggregate period totals: %w", err)
	}

	workingDays := payroll.WeekdayCount(from, to)
	coverage := 0.0
	if workingDays > 0 {
		coverage = float64(totals.RecordedDays) / float64(workingDays)
	}

	return attendance.PeriodTotalsResponse{
		EmployeeID:          employeeID,
		StartDate:           from.Format("2006-01-02"),
		EndDate:             to.Format("2006-01-02"),
		TotalRegularHours:   totals.TotalRegularHours,
		TotalOvertimeHours:  totals.TotalOvertimeHours,
		TotalUndertimeHours: totals.TotalUndertimeHours,
		PresentDays:         totals.PresentDays,
		LateDays:            totals.LateDays,
		AbsentDays:          totals.AbsentDays,
		WorkingDays:         workingDays,
		Coverage:            coverage,
		Finalized:           coverage >= a.finalizeThreshold,
	}, nil
}

// parseClockValue accepts either a full datetime or a time-of-day combined
// with the record's date.
func parseClockValue(value string, date time.Time) (time.Time, error) {
	if t, err := time.Parse("2006-01-02 15:04:05", value); err == nil {
		return t, nil
	}
	t, err := time.Parse("15:04:05", value)
	if err != nil {
		t, err = time.Parse("15:04", value)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid clock value %q: %w", value, err)
		}
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), t.Second(), 0, date.Location()), nil
}

func listResponse(responses []attendance.AttendanceResponse, total int64, page, limit int) attendance.ListAttendanceResponse {
	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	showing := fmt.Sprintf("%d-%d of %d", (page-1)*limit+1, min(page*limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages,
		Showing:     showing,
		Attendances: responses,
	}
}

// mapRecordToResponse converts an AttendanceRecord entity to AttendanceResponse
func mapRecordToResponse(rec attendance.AttendanceRecord) attendance.AttendanceResponse {
	var employeeName string
	if rec.EmployeeName != nil {
		employeeName = *rec.EmployeeName
	}

	return attendance.AttendanceResponse{
		ID:                  rec.ID,
		EmployeeID:          rec.EmployeeID,
		EmployeeName:        employeeName,
		EmployeePosition:    rec.EmployeePosition,
		Date:                rec.Date.Format("2006-01-02"),
		CheckInTime:         timePtrToString(rec.CheckInTime),
		CheckOutTime:        timePtrToString(rec.CheckOutTime),
		ExpectedCheckIn:     timePtrToString(rec.ExpectedCheckIn),
		ExpectedCheckOut:    timePtrToString(rec.ExpectedCheckOut),
		Status:              rec.Status,
		IsEarly:             rec.IsEarly,
		MinutesEarly:        rec.MinutesEarly,
		MinutesLate:         rec.MinutesLate,
		WorkingHours:        rec.WorkingHours,
		OvertimeHours:       rec.OvertimeHours,
		LatenessReason:      rec.LatenessReason,
		EarlyReason:         rec.EarlyReason,
		HasApprovedOvertime: rec.HasApprovedOvertime,
		OvertimeEndTime:     timePtrToString(rec.OvertimeEndTime),
		CreatedAt:           rec.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:           rec.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
