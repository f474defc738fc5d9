package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopworks/shop-erp-backend-go/internal/config"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/attendance"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/employee"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/leave"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/shop"
	"github.com/shopworks/shop-erp-backend-go/internal/pkg/clock"
)

// AttendanceJobs carries the scheduled attendance maintenance work.
type AttendanceJobs struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	shopRepo       shop.ShopRepository
	leaveRepo      leave.LeaveRepository
	clock          clock.Clock
	cfg            config.AttendanceConfig
}

func NewAttendanceJobs(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	shopRepo shop.ShopRepository,
	leaveRepo leave.LeaveRepository,
	clk clock.Clock,
	cfg config.AttendanceConfig,
) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		shopRepo:       shopRepo,
		leaveRepo:      leaveRepo,
		clock:          clk,
		cfg:            cfg,
	}
}

// MarkAbsentEmployees sweeps every shop after closing time and creates
// absent records for active employees who never checked in and are not on
// approved leave. Running it repeatedly is safe: employees with a record for
// the day are skipped, and the uniqueness constraint catches races.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	shops, err := j.shopRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list shops: %w", err)
	}

	now := j.clock.Now()
	var marked, skippedShops int

	for _, s := range shops {
		loc := s.Location()
		day := shopDay(now, loc)

		closeAt, open, err := j.closingTime(ctx, s.ID, day, loc)
		if err != nil {
			slog.Error("Failed to resolve shop hours", "shop_id", s.ID, "error", err)
			continue
		}
		// Closed days have no expected attendance; open days are swept only
		// after closing so late arrivals still get through.
		if !open || now.In(loc).Before(closeAt) {
			skippedShops++
			continue
		}

		count, err := j.markShop(ctx, s.ID, day)
		if err != nil {
			slog.Error("Failed to mark absentees", "shop_id", s.ID, "error", err)
			continue
		}
		marked += count
	}

	slog.Info("Absentee sweep completed", "shops", len(shops), "skipped_shops", skippedShops, "marked", marked)
	return nil
}

func (j *AttendanceJobs) markShop(ctx context.Context, shopID string, day time.Time) (int, error) {
	recorded, err := j.attendanceRepo.EmployeeIDsWithRecordOn(ctx, shopID, day)
	if err != nil {
		return 0, fmt.Errorf("failed to list recorded employees: %w", err)
	}

	employees, err := j.employeeRepo.ListActiveByShop(ctx, shopID)
	if err != nil {
		return 0, fmt.Errorf("failed to list active employees: %w", err)
	}

	marked := 0
	for _, emp := range employees {
		if recorded[emp.ID] {
			continue
		}

		onLeave, err := j.leaveRepo.ApprovedLeaveCovering(ctx, emp.ID, day, shopID)
		if err != nil {
			slog.Error("Failed to check leave", "employee_id", emp.ID, "error", err)
			continue
		}
		if onLeave != nil {
			continue
		}

		_, err = j.attendanceRepo.Create(ctx, attendance.AttendanceRecord{
			EmployeeID: emp.ID,
			ShopID:     shopID,
			Date:       day,
			Status:     attendance.StatusAbsent,
		})
		if err != nil {
			// A concurrent check-in between the snapshot and the insert is
			// not a failure.
			if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
				continue
			}
			slog.Error("Failed to create absent record", "employee_id", emp.ID, "error", err)
			continue
		}
		marked++
	}

	return marked, nil
}

// closingTime resolves when the shop closes on the given day. open reports
// whether the shop operates that weekday at all.
func (j *AttendanceJobs) closingTime(ctx context.Context, shopID string, day time.Time, loc *time.Location) (closeAt time.Time, open bool, err error) {
	hours, err := j.shopRepo.GetHours(ctx, shopID, shop.ISOWeekday(day.Weekday()))
	if err != nil {
		return time.Time{}, false, err
	}

	switch day.Weekday() {
	case time.Saturday, time.Sunday:
		// Weekend shifts only happen where an explicit hours row says so.
		if hours == nil {
			return time.Time{}, false, nil
		}
	}

	closeHour, closeMin := 0, 0
	if hours != nil {
		closeHour, closeMin = hours.CloseTime.Hour(), hours.CloseTime.Minute()
	} else {
		closeHour, closeMin, err = parseClose(j.cfg.DefaultCloseTime)
		if err != nil {
			return time.Time{}, false, err
		}
	}

	closeAt = time.Date(day.Year(), day.Month(), day.Day(), closeHour, closeMin, 0, 0, loc)
	return closeAt, true, nil
}

func parseClose(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid close time %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}

func shopDay(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
