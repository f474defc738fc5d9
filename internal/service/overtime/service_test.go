package overtime

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/shopworks/shop-erp-backend-go/internal/config"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/attendance"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/employee"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/overtime"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/shop"
	"github.com/shopworks/shop-erp-backend-go/internal/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== IN-MEMORY FAKES =====

type fakeOvertimeRepo struct {
	requests map[string]overtime.OvertimeRequest
	nextID   int
}

func newFakeOvertimeRepo() *fakeOvertimeRepo {
	return &fakeOvertimeRepo{requests: map[string]overtime.OvertimeRequest{}}
}

func (f *fakeOvertimeRepo) Create(ctx context.Context, request overtime.OvertimeRequest) (overtime.OvertimeRequest, error) {
	for _, existing := range f.requests {
		if existing.EmployeeID == request.EmployeeID &&
			existing.OvertimeDate.Equal(request.OvertimeDate) &&
			!existing.IsTerminal() {
			return overtime.OvertimeRequest{}, overtime.ErrDuplicateRequest
		}
	}
	f.nextID++
	request.ID = string(rune('a' + f.nextID))
	request.CreatedAt = time.Now()
	request.UpdatedAt = request.CreatedAt
	f.requests[request.ID] = request
	return request, nil
}

func (f *fakeOvertimeRepo) GetByID(ctx context.Context, id, shopID string) (overtime.OvertimeRequest, error) {
	req, ok := f.requests[id]
	if !ok || req.ShopID != shopID {
		return overtime.OvertimeRequest{}, overtime.ErrRequestNotFound
	}
	return req, nil
}

func (f *fakeOvertimeRepo) GetActiveByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, shopID string) (*overtime.OvertimeRequest, error) {
	for _, req := range f.requests {
		if req.EmployeeID == employeeID && req.ShopID == shopID &&
			req.OvertimeDate.Equal(date) && !req.IsTerminal() {
			r := req
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeOvertimeRepo) GetWorkableByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, shopID string) (*overtime.OvertimeRequest, error) {
	for _, req := range f.requests {
		if req.EmployeeID == employeeID && req.ShopID == shopID &&
			req.OvertimeDate.Equal(date) && req.IsWorkable() {
			r := req
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeOvertimeRepo) Update(ctx context.Context, request overtime.OvertimeRequest) error {
	if _, ok := f.requests[request.ID]; !ok {
		return overtime.ErrRequestNotFound
	}
	request.UpdatedAt = time.Now()
	f.requests[request.ID] = request
	return nil
}

func (f *fakeOvertimeRepo) List(ctx context.Context, filter overtime.OvertimeFilter, shopID string) ([]overtime.OvertimeRequest, int64, error) {
	var out []overtime.OvertimeRequest
	for _, req := range f.requests {
		if req.ShopID != shopID {
			continue
		}
		if filter.EmployeeID != nil && req.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && req.Status != *filter.Status {
			continue
		}
		out = append(out, req)
	}
	return out, int64(len(out)), nil
}

type fakeAttendanceRepo struct {
	records map[string]attendance.AttendanceRecord
	nextID  int
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: map[string]attendance.AttendanceRecord{}}
}

func (f *fakeAttendanceRepo) Create(ctx context.Context, record attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	for _, existing := range f.records {
		if existing.EmployeeID == record.EmployeeID && sameDay(existing.Date, record.Date) {
			return attendance.AttendanceRecord{}, attendance.ErrAlreadyCheckedIn
		}
	}
	f.nextID++
	record.ID = string(rune('A' + f.nextID))
	f.records[record.ID] = record
	return record, nil
}

func (f *fakeAttendanceRepo) GetByID(ctx context.Context, id, shopID string) (attendance.AttendanceRecord, error) {
	rec, ok := f.records[id]
	if !ok || rec.ShopID != shopID {
		return attendance.AttendanceRecord{}, attendance.ErrAttendanceNotFound
	}
	return rec, nil
}

func (f *fakeAttendanceRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, shopID string) (*attendance.AttendanceRecord, error) {
	for _, rec := range f.records {
		if rec.EmployeeID == employeeID && rec.ShopID == shopID && sameDay(rec.Date, date) {
			r := rec
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeAttendanceRepo) Update(ctx context.Context, record attendance.AttendanceRecord) error {
	if _, ok := f.records[record.ID]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	f.records[record.ID] = record
	return nil
}

func (f *fakeAttendanceRepo) List(ctx context.Context, filter attendance.AttendanceFilter, shopID string) ([]attendance.AttendanceRecord, int64, error) {
	var out []attendance.AttendanceRecord
	for _, rec := range f.records {
		if rec.ShopID == shopID {
			out = append(out, rec)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeAttendanceRepo) GetMyAttendance(ctx context.Context, employeeID string, filter attendance.MyAttendanceFilter, shopID string) ([]attendance.AttendanceRecord, int64, error) {
	var out []attendance.AttendanceRecord
	for _, rec := range f.records {
		if rec.ShopID == shopID && rec.EmployeeID == employeeID {
			out = append(out, rec)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeAttendanceRepo) PeriodTotals(ctx context.Context, employeeID string, from, to time.Time, shopID string) (attendance.PeriodTotals, error) {
	totals := attendance.PeriodTotals{
		TotalRegularHours:   decimal.Zero,
		TotalOvertimeHours:  decimal.Zero,
		TotalUndertimeHours: decimal.Zero,
	}
	for _, rec := range f.records {
		if rec.EmployeeID != employeeID || rec.ShopID != shopID {
			continue
		}
		if rec.Date.Before(from) || rec.Date.After(to) {
			continue
		}
		totals.RecordedDays++
		totals.TotalRegularHours = totals.TotalRegularHours.Add(rec.WorkingHours)
		totals.TotalOvertimeHours = totals.TotalOvertimeHours.Add(rec.OvertimeHours)
		switch rec.Status {
		case attendance.StatusPresent, attendance.StatusHalfDay:
			totals.PresentDays++
		case attendance.StatusLate:
			totals.LateDays++
		case attendance.StatusAbsent:
			totals.AbsentDays++
		}
	}
	return totals, nil
}

func (f *fakeAttendanceRepo) EmployeeIDsWithRecordOn(ctx context.Context, shopID string, date time.Time) (map[string]bool, error) {
	out := map[string]bool{}
	for _, rec := range f.records {
		if rec.ShopID == shopID && sameDay(rec.Date, date) {
			out[rec.EmployeeID] = true
		}
	}
	return out, nil
}

type fakeEmployeeRepo struct {
	profiles map[string]employee.EmployeeProfile
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id, shopID string) (employee.EmployeeProfile, error) {
	p, ok := f.profiles[id]
	if !ok || p.ShopID != shopID {
		return employee.EmployeeProfile{}, employee.ErrEmployeeNotFound
	}
	return p, nil
}

func (f *fakeEmployeeRepo) ListActiveByShop(ctx context.Context, shopID string) ([]employee.EmployeeProfile, error) {
	var out []employee.EmployeeProfile
	for _, p := range f.profiles {
		if p.ShopID == shopID && p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeShopRepo struct {
	shop  shop.Shop
	hours map[int]*shop.ShopHours
}

func (f *fakeShopRepo) GetByID(ctx context.Context, id string) (shop.Shop, error) {
	if id != f.shop.ID {
		return shop.Shop{}, shop.ErrShopNotFound
	}
	return f.shop, nil
}

func (f *fakeShopRepo) GetHours(ctx context.Context, shopID string, dayOfWeek int) (*shop.ShopHours, error) {
	return f.hours[dayOfWeek], nil
}

func (f *fakeShopRepo) ListAll(ctx context.Context) ([]shop.Shop, error) {
	return []shop.Shop{f.shop}, nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func passthroughTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// ===== FIXTURE =====

type fixture struct {
	service        overtime.OvertimeService
	overtimeRepo   *fakeOvertimeRepo
	attendanceRepo *fakeAttendanceRepo
	clock          *clock.Fixed
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	hourly := decimal.NewFromInt(100)
	employees := &fakeEmployeeRepo{profiles: map[string]employee.EmployeeProfile{
		"emp-1": {
			ID:         "emp-1",
			ShopID:     "shop-1",
			FullName:   "Dana Cruz",
			BaseSalary: decimal.NewFromInt(20000),
			HourlyRate: &hourly,
			IsActive:   true,
		},
	}}
	shops := &fakeShopRepo{
		shop:  shop.Shop{ID: "shop-1", Name: "Main Branch", Timezone: "UTC"},
		hours: map[int]*shop.ShopHours{},
	}

	overtimeRepo := newFakeOvertimeRepo()
	attendanceRepo := newFakeAttendanceRepo()
	// Tuesday
	clk := clock.NewFixed(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	cfg := config.AttendanceConfig{
		DefaultOpenTime:       "08:00",
		DefaultCloseTime:      "17:00",
		DefaultTimezone:       "UTC",
		EarlyGraceMinutes:     30,
		OvertimeWindowMinutes: 30,
	}

	svc := NewOvertimeService(nil, passthroughTx, overtimeRepo, attendanceRepo, employees, shops, clk, cfg)
	return fixture{service: svc, overtimeRepo: overtimeRepo, attendanceRepo: attendanceRepo, clock: clk}
}

func (f fixture) request(t *testing.T) overtime.OvertimeResponse {
	t.Helper()
	created, err := f.service.Request(context.Background(), overtime.CreateOvertimeRequest{
		EmployeeID:   "emp-1",
		ShopID:       "shop-1",
		OvertimeDate: "2026-03-10",
		StartTime:    "17:00",
		EndTime:      "19:00",
	})
	require.NoError(t, err)
	return created
}

// ===== TESTS =====

func TestOvertimeService_Request_Success(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	created := f.request(t)

	assert.Equal(t, overtime.StatusPending, created.Status)
	assert.True(t, decimal.NewFromInt(2).Equal(created.Hours), "planned hours should be 2, got %s", created.Hours)
	// Weekday multiplier: 100/hr * 2h * 1.5
	assert.True(t, decimal.NewFromInt(300).Equal(created.CalculatedAmount), "got %s", created.CalculatedAmount)
}

func TestOvertimeService_Request_WeekendMultiplier(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	created, err := f.service.Request(context.Background(), overtime.CreateOvertimeRequest{
		EmployeeID:   "emp-1",
		ShopID:       "shop-1",
		OvertimeDate: "2026-03-14", // Saturday
		StartTime:    "09:00",
		EndTime:      "11:00",
	})
	require.NoError(t, err)

	assert.True(t, decimal.NewFromFloat(2.0).Equal(created.RateMultiplier))
	assert.True(t, decimal.NewFromInt(400).Equal(created.CalculatedAmount), "got %s", created.CalculatedAmount)
}

func TestOvertimeService_Request_DuplicateActive(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.request(t)

	_, err := f.service.Request(context.Background(), overtime.CreateOvertimeRequest{
		EmployeeID:   "emp-1",
		ShopID:       "shop-1",
		OvertimeDate: "2026-03-10",
		StartTime:    "18:00",
		EndTime:      "20:00",
	})

	assert.ErrorIs(t, err, overtime.ErrDuplicateRequest)
}

func TestOvertimeService_Request_EndBeforeStart(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.service.Request(context.Background(), overtime.CreateOvertimeRequest{
		EmployeeID:   "emp-1",
		ShopID:       "shop-1",
		OvertimeDate: "2026-03-10",
		StartTime:    "19:00",
		EndTime:      "17:00",
	})

	assert.Error(t, err)
}

func TestOvertimeService_Assign_SkipsApproval(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	created, err := f.service.Assign(context.Background(), overtime.CreateOvertimeRequest{
		EmployeeID:   "emp-1",
		ShopID:       "shop-1",
		OvertimeDate: "2026-03-10",
		StartTime:    "17:00",
		EndTime:      "19:00",
	})
	require.NoError(t, err)

	assert.Equal(t, overtime.StatusAssigned, created.Status)

	// Assignment extends the day's attendance immediately.
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	record, err := f.attendanceRepo.GetByEmployeeAndDate(context.Background(), "emp-1", date, "shop-1")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.True(t, record.HasApprovedOvertime)
}

func TestOvertimeService_Approve_ExtendsAttendance(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	created := f.request(t)

	approved, err := f.service.Approve(context.Background(), created.ID, "shop-1", "mgr-1")
	require.NoError(t, err)
	assert.Equal(t, overtime.StatusApproved, approved.Status)

	// Approval pre-creates the day's attendance record with the extended
	// checkout expectation.
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	record, err := f.attendanceRepo.GetByEmployeeAndDate(context.Background(), "emp-1", date, "shop-1")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.True(t, record.HasApprovedOvertime)
	require.NotNil(t, record.ExpectedCheckOut)
	assert.Equal(t, time.Date(2026, 3, 10, 19, 0, 0, 0, time.UTC), record.ExpectedCheckOut.UTC())
}

func TestOvertimeService_Approve_ExistingAttendanceRecord(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	created := f.request(t)

	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	expectedOut := time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC)
	existing, err := f.attendanceRepo.Create(context.Background(), attendance.AttendanceRecord{
		EmployeeID:       "emp-1",
		ShopID:           "shop-1",
		Date:             date,
		Status:           attendance.StatusPresent,
		ExpectedCheckOut: &expectedOut,
		WorkingHours:     decimal.Zero,
		OvertimeHours:    decimal.Zero,
	})
	require.NoError(t, err)

	_, err = f.service.Approve(context.Background(), created.ID, "shop-1", "mgr-1")
	require.NoError(t, err)

	record, err := f.attendanceRepo.GetByID(context.Background(), existing.ID, "shop-1")
	require.NoError(t, err)
	assert.True(t, record.HasApprovedOvertime)
	assert.Equal(t, time.Date(2026, 3, 10, 19, 0, 0, 0, time.UTC), record.ExpectedCheckOut.UTC())
	assert.Equal(t, attendance.StatusPresent, record.Status)
}

func TestOvertimeService_Approve_NotPending(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	created := f.request(t)

	_, err := f.service.Approve(context.Background(), created.ID, "shop-1", "mgr-1")
	require.NoError(t, err)

	_, err = f.service.Approve(context.Background(), created.ID, "shop-1", "mgr-1")
	assert.ErrorIs(t, err, overtime.ErrNotPending)
}

func TestOvertimeService_Reject_RequiresReason(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	created := f.request(t)

	_, err := f.service.Reject(context.Background(), "shop-1", overtime.RejectOvertimeRequest{ID: created.ID})
	assert.Error(t, err)

	rejected, err := f.service.Reject(context.Background(), "shop-1", overtime.RejectOvertimeRequest{
		ID:     created.ID,
		Reason: "not enough coverage budget",
	})
	require.NoError(t, err)
	assert.Equal(t, overtime.StatusRejected, rejected.Status)
}

func TestOvertimeService_Cancel_OwnerOnly(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	created := f.request(t)

	_, err := f.service.Cancel(context.Background(), created.ID, "shop-1", "emp-2")
	assert.ErrorIs(t, err, overtime.ErrRequestNotFound)

	cancelled, err := f.service.Cancel(context.Background(), created.ID, "shop-1", "emp-1")
	require.NoError(t, err)
	assert.Equal(t, overtime.StatusCancelled, cancelled.Status)
}

func TestOvertimeService_CheckIn_WindowEnforced(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	created := f.request(t)
	_, err := f.service.Approve(context.Background(), created.ID, "shop-1", "mgr-1")
	require.NoError(t, err)

	// 12:00 is well before the 16:30 opening of the window.
	_, err = f.service.CheckIn(context.Background(), created.ID, "shop-1", "emp-1")
	var outside *overtime.OutsideWindowError
	require.True(t, errors.As(err, &outside))
	assert.Equal(t, time.Date(2026, 3, 10, 16, 30, 0, 0, time.UTC), outside.Earliest.UTC())
	assert.Equal(t, time.Date(2026, 3, 10, 18, 30, 0, 0, time.UTC), outside.Latest.UTC())

	// Exactly at the window boundary is allowed.
	f.clock.Set(time.Date(2026, 3, 10, 16, 30, 0, 0, time.UTC))
	checkedIn, err := f.service.CheckIn(context.Background(), created.ID, "shop-1", "emp-1")
	require.NoError(t, err)
	assert.NotNil(t, checkedIn.CheckedInAt)
}

func TestOvertimeService_CheckIn_NotWorkable(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	created := f.request(t)

	// Still pending: not workable yet.
	_, err := f.service.CheckIn(context.Background(), created.ID, "shop-1", "emp-1")
	assert.ErrorIs(t, err, overtime.ErrNotWorkable)
}

func TestOvertimeService_CheckIn_Twice(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	created := f.request(t)
	_, err := f.service.Approve(context.Background(), created.ID, "shop-1", "mgr-1")
	require.NoError(t, err)

	f.clock.Set(time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC))
	_, err = f.service.CheckIn(context.Background(), created.ID, "shop-1", "emp-1")
	require.NoError(t, err)

	_, err = f.service.CheckIn(context.Background(), created.ID, "shop-1", "emp-1")
	assert.ErrorIs(t, err, overtime.ErrAlreadyCheckedIn)
}

func TestOvertimeService_CheckOut_RecalculatesAmount(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	created := f.request(t)
	_, err := f.service.Approve(context.Background(), created.ID, "shop-1", "mgr-1")
	require.NoError(t, err)

	f.clock.Set(time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC))
	_, err = f.service.CheckIn(context.Background(), created.ID, "shop-1", "emp-1")
	require.NoError(t, err)

	// Worked only 1.5h of the 2h plan.
	f.clock.Set(time.Date(2026, 3, 10, 18, 30, 0, 0, time.UTC))
	checkedOut, err := f.service.CheckOut(context.Background(), created.ID, "shop-1", "emp-1")
	require.NoError(t, err)

	require.NotNil(t, checkedOut.ActualHours)
	assert.True(t, decimal.NewFromFloat(1.5).Equal(*checkedOut.ActualHours), "got %s", checkedOut.ActualHours)
	// 100/hr * 1.5h * 1.5 weekday multiplier
	assert.True(t, decimal.NewFromInt(225).Equal(checkedOut.CalculatedAmount), "got %s", checkedOut.CalculatedAmount)
}

func TestOvertimeService_CheckOut_MustCheckInFirst(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	created := f.request(t)
	_, err := f.service.Approve(context.Background(), created.ID, "shop-1", "mgr-1")
	require.NoError(t, err)

	_, err = f.service.CheckOut(context.Background(), created.ID, "shop-1", "emp-1")
	assert.ErrorIs(t, err, overtime.ErrMustCheckInFirst)
}

func TestOvertimeService_List_FiltersByStatus(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	created := f.request(t)
	_, err := f.service.Approve(context.Background(), created.ID, "shop-1", "mgr-1")
	require.NoError(t, err)

	status := overtime.StatusApproved
	list, err := f.service.List(context.Background(), "shop-1", overtime.OvertimeFilter{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.TotalCount)
	require.Len(t, list.Requests, 1)
	assert.Equal(t, created.ID, list.Requests[0].ID)
}
