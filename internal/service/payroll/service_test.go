package payroll

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/attendance"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/employee"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/payroll"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/shop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== IN-MEMORY FAKES =====

type fakePayrollRepo struct {
	records    map[string]payroll.PayrollRecord
	components map[string][]payroll.PayrollComponent
	nextID     int
}

func newFakePayrollRepo() *fakePayrollRepo {
	return &fakePayrollRepo{
		records:    map[string]payroll.PayrollRecord{},
		components: map[string][]payroll.PayrollComponent{},
	}
}

func (f *fakePayrollRepo) Create(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	for _, existing := range f.records {
		if existing.EmployeeID == record.EmployeeID &&
			existing.PeriodMonth == record.PeriodMonth &&
			existing.PeriodYear == record.PeriodYear {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordAlreadyExists
		}
	}
	f.nextID++
	record.ID = fmt.Sprintf("pr-%d", f.nextID)
	for i := range record.Components {
		record.Components[i].ID = fmt.Sprintf("%s-c%d", record.ID, i)
		record.Components[i].PayrollRecordID = record.ID
	}
	f.records[record.ID] = record
	f.components[record.ID] = record.Components
	return record, nil
}

func (f *fakePayrollRepo) GetByID(ctx context.Context, id, shopID string) (payroll.PayrollRecord, error) {
	rec, ok := f.records[id]
	if !ok || rec.ShopID != shopID {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	return rec, nil
}

func (f *fakePayrollRepo) GetByEmployeeAndPeriod(ctx context.Context, employeeID string, month, year int, shopID string) (*payroll.PayrollRecord, error) {
	for _, rec := range f.records {
		if rec.EmployeeID == employeeID && rec.ShopID == shopID &&
			rec.PeriodMonth == month && rec.PeriodYear == year {
			r := rec
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakePayrollRepo) List(ctx context.Context, filter payroll.PayrollFilter, shopID string) ([]payroll.PayrollRecord, int64, error) {
	var out []payroll.PayrollRecord
	for _, rec := range f.records {
		if rec.ShopID != shopID {
			continue
		}
		if filter.EmployeeID != nil && rec.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && string(rec.Status) != *filter.Status {
			continue
		}
		out = append(out, rec)
	}
	return out, int64(len(out)), nil
}

func (f *fakePayrollRepo) UpdateTotals(ctx context.Context, record payroll.PayrollRecord) error {
	if _, ok := f.records[record.ID]; !ok {
		return payroll.ErrPayrollRecordNotFound
	}
	f.records[record.ID] = record
	return nil
}

func (f *fakePayrollRepo) UpdateComponent(ctx context.Context, component payroll.PayrollComponent, shopID string) error {
	list := f.components[component.PayrollRecordID]
	for i, c := range list {
		if c.ID == component.ID {
			list[i] = component
			return nil
		}
	}
	return payroll.ErrComponentNotFound
}

func (f *fakePayrollRepo) GetComponents(ctx context.Context, recordID, shopID string) ([]payroll.PayrollComponent, error) {
	out := make([]payroll.PayrollComponent, len(f.components[recordID]))
	copy(out, f.components[recordID])
	return out, nil
}

func (f *fakePayrollRepo) MarkPaid(ctx context.Context, ids []string, paidBy, shopID string) error {
	now := time.Now()
	for _, id := range ids {
		rec, ok := f.records[id]
		if !ok || rec.ShopID != shopID {
			return payroll.ErrPayrollRecordNotFound
		}
		rec.Status = payroll.PayrollStatusPaid
		rec.PaidAt = &now
		rec.PaidBy = &paidBy
		f.records[id] = rec
	}
	return nil
}

// fakeTotalsRepo serves configured per-employee attendance totals; the other
// attendance methods are never reached from the payroll service.
type fakeTotalsRepo struct {
	totals map[string]attendance.PeriodTotals
}

func (f *fakeTotalsRepo) PeriodTotals(ctx context.Context, employeeID string, from, to time.Time, shopID string) (attendance.PeriodTotals, error) {
	return f.totals[employeeID], nil
}

func (f *fakeTotalsRepo) Create(ctx context.Context, record attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	panic("not used")
}

func (f *fakeTotalsRepo) GetByID(ctx context.Context, id, shopID string) (attendance.AttendanceRecord, error) {
	panic("not used")
}

func (f *fakeTotalsRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, shopID string) (*attendance.AttendanceRecord, error) {
	panic("not used")
}

func (f *fakeTotalsRepo) Update(ctx context.Context, record attendance.AttendanceRecord) error {
	panic("not used")
}

func (f *fakeTotalsRepo) List(ctx context.Context, filter attendance.AttendanceFilter, shopID string) ([]attendance.AttendanceRecord, int64, error) {
	panic("not used")
}

func (f *fakeTotalsRepo) GetMyAttendance(ctx context.Context, employeeID string, filter attendance.MyAttendanceFilter, shopID string) ([]attendance.AttendanceRecord, int64, error) {
	panic("not used")
}

func (f *fakeTotalsRepo) EmployeeIDsWithRecordOn(ctx context.Context, shopID string, date time.Time) (map[string]bool, error) {
	panic("not used")
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
	for i := 1; ; i++ {
		p, ok := f.profiles[fmt.Sprintf("emp-%d", i)]
		if !ok {
			break
		}
		if p.ShopID == shopID && p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeShopRepo struct {
	shop shop.Shop
}

func (f *fakeShopRepo) GetByID(ctx context.Context, id string) (shop.Shop, error) {
	if id != f.shop.ID {
		return shop.Shop{}, shop.ErrShopNotFound
	}
	return f.shop, nil
}

func (f *fakeShopRepo) GetHours(ctx context.Context, shopID string, dayOfWeek int) (*shop.ShopHours, error) {
	return nil, nil
}

func (f *fakeShopRepo) ListAll(ctx context.Context) ([]shop.Shop, error) {
	return []shop.Shop{f.shop}, nil
}

func passthroughTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// ===== FIXTURE =====

// April 2026 has 22 weekdays; 18 recorded days clears the 80% threshold.
func fullTotals() attendance.PeriodTotals {
	return attendance.PeriodTotals{
		TotalRegularHours:   decimal.NewFromInt(176),
		TotalOvertimeHours:  decimal.Zero,
		TotalUndertimeHours: decimal.Zero,
		PresentDays:         22,
		RecordedDays:        22,
	}
}

type fixture struct {
	service     payroll.PayrollService
	payrollRepo *fakePayrollRepo
	totalsRepo  *fakeTotalsRepo
	employees   *fakeEmployeeRepo
}

func newFixture(t *testing.T, employeeCount int) fixture {
	t.Helper()

	employees := &fakeEmployeeRepo{profiles: map[string]employee.EmployeeProfile{}}
	totalsRepo := &fakeTotalsRepo{totals: map[string]attendance.PeriodTotals{}}
	for i := 1; i <= employeeCount; i++ {
		id := fmt.Sprintf("emp-%d", i)
		employees.profiles[id] = employee.EmployeeProfile{
			ID:         id,
			ShopID:     "shop-1",
			FullName:   fmt.Sprintf("Employee %d", i),
			BaseSalary: decimal.NewFromInt(20000),
			IsActive:   true,
		}
		totalsRepo.totals[id] = fullTotals()
	}

	payrollRepo := newFakePayrollRepo()
	shops := &fakeShopRepo{shop: shop.Shop{ID: "shop-1", Name: "Main Branch", Timezone: "UTC"}}

	svc := NewPayrollService(nil, passthroughTx, payrollRepo, totalsRepo, employees, shops, payroll.DefaultPolicy())
	return fixture{service: svc, payrollRepo: payrollRepo, totalsRepo: totalsRepo, employees: employees}
}

func generateRequest() payroll.GeneratePayrollRequest {
	return payroll.GeneratePayrollRequest{
		ShopID:      "shop-1",
		PeriodMonth: 4,
		PeriodYear:  2026,
	}
}

// ===== TESTS =====

func TestPayrollService_Generate_AllEmployees(t *testing.T) {
	t.Parallel()
	f := newFixture(t, 3)

	result, err := f.service.Generate(context.Background(), generateRequest())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Created)
	assert.Equal(t, 0, result.Failed)
	assert.Len(t, result.Records, 3)
	for _, rec := range result.Records {
		assert.Equal(t, string(payroll.PayrollStatusDraft), rec.Status)
		assert.True(t, decimal.NewFromInt(20000).Equal(rec.GrossSalary), "gross %s", rec.GrossSalary)
	}
}

func TestPayrollService_Generate_DuplicateIsolatedPerEmployee(t *testing.T) {
	t.Parallel()
	f := newFixture(t, 5)

	// Employee 3 already has payroll for the period.
	_, err := f.payrollRepo.Create(context.Background(), payroll.PayrollRecord{
		EmployeeID:  "emp-3",
		ShopID:      "shop-1",
		PeriodMonth: 4,
		PeriodYear:  2026,
		Status:      payroll.PayrollStatusDraft,
	})
	require.NoError(t, err)

	result, err := f.service.Generate(context.Background(), generateRequest())
	require.NoError(t, err)

	assert.Equal(t, 4, result.Created)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "emp-3", result.Errors[0].EmployeeID)
	assert.Contains(t, result.Errors[0].Reason, "already exists")
}

func TestPayrollService_Generate_RejectsUnfinalizedAttendance(t *testing.T) {
	t.Parallel()
	f := newFixture(t, 1)

	// 10 of 22 weekdays recorded: coverage 45%, below the 80% threshold.
	f.totalsRepo.totals["emp-1"] = attendance.PeriodTotals{
		TotalRegularHours: decimal.NewFromInt(80),
		PresentDays:       10,
		RecordedDays:      10,
	}

	result, err := f.service.Generate(context.Background(), generateRequest())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Reason, "not finalized")
}

func TestPayrollService_Generate_InvalidPeriod(t *testing.T) {
	t.Parallel()
	f := newFixture(t, 1)

	_, err := f.service.Generate(context.Background(), payroll.GeneratePayrollRequest{
		ShopID:      "shop-1",
		PeriodMonth: 13,
		PeriodYear:  2026,
	})
	assert.Error(t, err)
}

func TestPayrollService_UpdateComponent_RecomputesTotals(t *testing.T) {
	t.Parallel()
	f := newFixture(t, 1)

	result, err := f.service.Generate(context.Background(), generateRequest())
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	record := result.Records[0]

	var basicPayID string
	for _, c := range record.Components {
		if c.Name == payroll.ComponentBasicPay {
			basicPayID = c.ID
		}
	}
	require.NotEmpty(t, basicPayID)

	newAmount := decimal.NewFromInt(21000)
	updated, err := f.service.UpdateComponent(context.Background(), "shop-1", payroll.UpdateComponentRequest{
		RecordID:    record.ID,
		ComponentID: basicPayID,
		Amount:      &newAmount,
	})
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(21000).Equal(updated.BasicPay), "basic pay %s", updated.BasicPay)
	assert.True(t, decimal.NewFromInt(21000).Equal(updated.GrossSalary), "gross %s", updated.GrossSalary)
	// Deductions stay as computed; net moves by the same 1,000 delta.
	expectedNet := record.NetSalary.Add(decimal.NewFromInt(1000))
	assert.True(t, expectedNet.Equal(updated.NetSalary), "net %s want %s", updated.NetSalary, expectedNet)
}

func TestPayrollService_UpdateComponent_PaidRecordRejected(t *testing.T) {
	t.Parallel()
	f := newFixture(t, 1)

	result, err := f.service.Generate(context.Background(), generateRequest())
	require.NoError(t, err)
	record := result.Records[0]

	require.NoError(t, f.service.MarkPaid(context.Background(), []string{record.ID}, "mgr-1", "shop-1"))

	amount := decimal.NewFromInt(5000)
	_, err = f.service.UpdateComponent(context.Background(), "shop-1", payroll.UpdateComponentRequest{
		RecordID:    record.ID,
		ComponentID: record.Components[0].ID,
		Amount:      &amount,
	})
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordAlreadyPaid)
}

func TestPayrollService_UpdateComponent_UnknownComponent(t *testing.T) {
	t.Parallel()
	f := newFixture(t, 1)

	result, err := f.service.Generate(context.Background(), generateRequest())
	require.NoError(t, err)
	record := result.Records[0]

	amount := decimal.NewFromInt(5000)
	_, err = f.service.UpdateComponent(context.Background(), "shop-1", payroll.UpdateComponentRequest{
		RecordID:    record.ID,
		ComponentID: "missing",
		Amount:      &amount,
	})
	assert.ErrorIs(t, err, payroll.ErrComponentNotFound)
}

func TestPayrollService_MarkPaid_AlreadyPaid(t *testing.T) {
	t.Parallel()
	f := newFixture(t, 1)

	result, err := f.service.Generate(context.Background(), generateRequest())
	require.NoError(t, err)
	record := result.Records[0]

	require.NoError(t, f.service.MarkPaid(context.Background(), []string{record.ID}, "mgr-1", "shop-1"))

	err = f.service.MarkPaid(context.Background(), []string{record.ID}, "mgr-1", "shop-1")
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordAlreadyPaid)
}

func TestPayrollService_Get_IncludesComponents(t *testing.T) {
	t.Parallel()
	f := newFixture(t, 1)

	result, err := f.service.Generate(context.Background(), generateRequest())
	require.NoError(t, err)
	record := result.Records[0]

	got, err := f.service.Get(context.Background(), record.ID, "shop-1")
	require.NoError(t, err)
	assert.NotEmpty(t, got.Components)

	_, err = f.service.Get(context.Background(), record.ID, "shop-2")
	assert.True(t, errors.Is(err, payroll.ErrPayrollRecordNotFound))
}
