package payroll

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/employee"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/payroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullMonthProfile() employee.EmployeeProfile {
	return employee.EmployeeProfile{
		ID:         "emp-1",
		ShopID:     "shop-1",
		FullName:   "Dana Cruz",
		BaseSalary: decimal.NewFromInt(20000),
		IsActive:   true,
	}
}

// April 2026 has exactly 22 weekdays.
func aprilPeriod() (time.Time, time.Time) {
	return time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)
}

func fullMonthSummary() payroll.PeriodSummary {
	return payroll.PeriodSummary{
		EmployeeID:          "emp-1",
		TotalRegularHours:   decimal.NewFromInt(176), // 22 days x 8h
		TotalOvertimeHours:  decimal.Zero,
		TotalUndertimeHours: decimal.Zero,
		TotalPresentDays:    22,
		WorkingDays:         22,
		Coverage:            1.0,
		Finalized:           true,
	}
}

func TestCalculate_FullAttendanceReproducesBaseSalary(t *testing.T) {
	t.Parallel()
	start, end := aprilPeriod()

	record := Calculate(fullMonthProfile(), fullMonthSummary(), start, end, payroll.Allowances{}, payroll.DefaultPolicy())

	assert.True(t, decimal.NewFromInt(20000).Equal(record.BasicPay), "basic pay %s", record.BasicPay)
	assert.True(t, decimal.NewFromInt(20000).Equal(record.GrossSalary), "gross %s", record.GrossSalary)
	assert.True(t, record.OvertimePay.IsZero())

	// Statutory deductions from the 20,000 base: 900 + 500 + 100, no tax
	// at this income level.
	assert.True(t, decimal.NewFromInt(900).Equal(record.SSSContribution), "sss %s", record.SSSContribution)
	assert.True(t, decimal.NewFromInt(500).Equal(record.PhilHealth), "philhealth %s", record.PhilHealth)
	assert.True(t, decimal.NewFromInt(100).Equal(record.PagIbig), "pagibig %s", record.PagIbig)
	assert.True(t, record.WithholdingTax.IsZero(), "tax %s", record.WithholdingTax)
	assert.True(t, decimal.NewFromInt(18500).Equal(record.NetSalary), "net %s", record.NetSalary)
}

func TestCalculate_OvertimeUsesPremium(t *testing.T) {
	t.Parallel()
	start, end := aprilPeriod()
	summary := fullMonthSummary()
	summary.TotalOvertimeHours = decimal.NewFromInt(8)

	record := Calculate(fullMonthProfile(), summary, start, end, payroll.Allowances{}, payroll.DefaultPolicy())

	// hourly rate 20000/22/8, 8h at the 1.25 premium
	expected := decimal.NewFromInt(20000).
		Div(decimal.NewFromInt(22)).
		Div(decimal.NewFromInt(8)).
		Mul(decimal.NewFromInt(8)).
		Mul(decimal.RequireFromString("1.25")).
		Round(2)
	assert.True(t, expected.Equal(record.OvertimePay), "overtime pay %s want %s", record.OvertimePay, expected)
}

func TestCalculate_AbsenceAndUndertimeDeductions(t *testing.T) {
	t.Parallel()
	start, end := aprilPeriod()
	summary := fullMonthSummary()
	summary.TotalRegularHours = decimal.NewFromInt(160) // 20 days
	summary.TotalAbsentDays = 2
	summary.TotalUndertimeHours = decimal.NewFromInt(3)

	record := Calculate(fullMonthProfile(), summary, start, end, payroll.Allowances{}, payroll.DefaultPolicy())

	dailyRate := decimal.NewFromInt(20000).Div(decimal.NewFromInt(22))
	hourlyRate := dailyRate.Div(decimal.NewFromInt(8))
	assert.True(t, dailyRate.Mul(decimal.NewFromInt(2)).Round(2).Equal(record.AbsentDeductions), "absent %s", record.AbsentDeductions)
	assert.True(t, hourlyRate.Mul(decimal.NewFromInt(3)).Round(2).Equal(record.UndertimeDeductions), "undertime %s", record.UndertimeDeductions)
}

func TestCalculate_ComponentsResumToTotals(t *testing.T) {
	t.Parallel()
	start, end := aprilPeriod()
	summary := fullMonthSummary()
	summary.TotalOvertimeHours = decimal.NewFromInt(5)
	summary.TotalAbsentDays = 1
	allowances := payroll.Allowances{
		SalesCommission:  decimal.NewFromInt(1500),
		PerformanceBonus: decimal.NewFromInt(750),
		LoanDeductions:   decimal.NewFromInt(200),
	}

	record := Calculate(fullMonthProfile(), summary, start, end, allowances, payroll.DefaultPolicy())

	recalced := record
	RecalculateTotals(&recalced, record.Components)

	assert.True(t, record.GrossSalary.Equal(recalced.GrossSalary), "gross %s vs %s", record.GrossSalary, recalced.GrossSalary)
	assert.True(t, record.TotalDeductions.Equal(recalced.TotalDeductions), "deductions %s vs %s", record.TotalDeductions, recalced.TotalDeductions)
	assert.True(t, record.NetSalary.Equal(recalced.NetSalary), "net %s vs %s", record.NetSalary, recalced.NetSalary)
}

func TestRecalculateTotals_SingleComponentEditMovesGrossByDelta(t *testing.T) {
	t.Parallel()
	start, end := aprilPeriod()
	allowances := payroll.Allowances{SalesCommission: decimal.NewFromInt(1000)}

	record := Calculate(fullMonthProfile(), fullMonthSummary(), start, end, allowances, payroll.DefaultPolicy())
	components := record.Components

	idx := -1
	for i, c := range components {
		if c.Name == payroll.ComponentSalesCommission {
			idx = i
		}
	}
	require.GreaterOrEqual(t, idx, 0)

	delta := decimal.NewFromInt(250)
	components[idx].Amount = components[idx].Amount.Add(delta)

	updated := record
	RecalculateTotals(&updated, components)

	assert.True(t, record.GrossSalary.Add(delta).Equal(updated.GrossSalary), "gross %s", updated.GrossSalary)
	assert.True(t, record.NetSalary.Add(delta).Equal(updated.NetSalary), "net %s", updated.NetSalary)
	assert.True(t, record.TotalDeductions.Equal(updated.TotalDeductions))
}

func TestRecalculateTotals_BenefitsExcludedFromNet(t *testing.T) {
	t.Parallel()
	components := []payroll.PayrollComponent{
		{Name: payroll.ComponentBasicPay, Type: payroll.ComponentTypeEarning, Amount: decimal.NewFromInt(10000)},
		{Name: payroll.ComponentSSSContribution, Type: payroll.ComponentTypeDeduction, Amount: decimal.NewFromInt(500)},
		{Name: "hmo_coverage", Type: payroll.ComponentTypeBenefit, Amount: decimal.NewFromInt(2000)},
	}

	var record payroll.PayrollRecord
	RecalculateTotals(&record, components)

	assert.True(t, decimal.NewFromInt(10000).Equal(record.GrossSalary))
	assert.True(t, decimal.NewFromInt(9500).Equal(record.NetSalary))
}

// ===== CONTRIBUTION TABLES =====

func TestSSSContribution_Bands(t *testing.T) {
	t.Parallel()
	cases := []struct {
		salary string
		want   string
	}{
		{"3000", "180.00"},    // below bottom band: flat floor
		{"4249.99", "180.00"}, // last value in the floor band
		{"4250", "202.50"},    // first step
		{"20000", "900.00"},
		{"29749.99", "1327.50"}, // last value before the ceiling
		{"29750", "1350.00"},    // ceiling boundary
		{"100000", "1350.00"},   // flat above the table
	}

	for _, tc := range cases {
		got := SSSContribution(decimal.RequireFromString(tc.salary))
		assert.True(t, decimal.RequireFromString(tc.want).Equal(got), "salary %s: got %s want %s", tc.salary, got, tc.want)
	}
}

func TestSSSContribution_MonotonicOverBands(t *testing.T) {
	t.Parallel()
	prev := decimal.Zero
	for salary := int64(1000); salary <= 35000; salary += 500 {
		got := SSSContribution(decimal.NewFromInt(salary))
		assert.True(t, got.GreaterThanOrEqual(prev), "salary %d: %s < previous %s", salary, got, prev)
		prev = got
	}
}

func TestPhilHealthContribution_Clamped(t *testing.T) {
	t.Parallel()
	// Below the floor the base is clamped up to 10,000.
	assert.True(t, decimal.NewFromInt(250).Equal(PhilHealthContribution(decimal.NewFromInt(5000))))
	// In range: straight 2.5%.
	assert.True(t, decimal.NewFromInt(500).Equal(PhilHealthContribution(decimal.NewFromInt(20000))))
	// Above the ceiling the base is clamped down to 100,000.
	assert.True(t, decimal.NewFromInt(2500).Equal(PhilHealthContribution(decimal.NewFromInt(250000))))
}

func TestPagIbigContribution_RateAndCap(t *testing.T) {
	t.Parallel()
	// 1% at or below the cutoff.
	assert.True(t, decimal.NewFromInt(15).Equal(PagIbigContribution(decimal.NewFromInt(1500))))
	// 2% above the cutoff.
	assert.True(t, decimal.NewFromInt(40).Equal(PagIbigContribution(decimal.NewFromInt(2000))))
	// Capped at 100.
	assert.True(t, decimal.NewFromInt(100).Equal(PagIbigContribution(decimal.NewFromInt(20000))))
}

// ===== WITHHOLDING TAX =====

func TestAnnualWithholdingTax_BracketEdges(t *testing.T) {
	t.Parallel()
	cases := []struct {
		taxable string
		want    string
	}{
		{"0", "0"},
		{"250000", "0"},          // top of the exempt bracket
		{"250100", "15.00"},      // 15% of the 100 excess
		{"400000", "22500.00"},   // exactly the next bracket's base amount
		{"800000", "102500.00"},
		{"2000000", "402500.00"},
		{"8000000", "2202500.00"},
		{"8000100", "2202535.00"}, // 35% marginal above the top edge
	}

	for _, tc := range cases {
		got := AnnualWithholdingTax(decimal.RequireFromString(tc.taxable))
		assert.True(t, decimal.RequireFromString(tc.want).Equal(got), "taxable %s: got %s want %s", tc.taxable, got, tc.want)
	}
}

func TestMonthlyWithholdingTax_AnnualizesAndDividesBack(t *testing.T) {
	t.Parallel()
	// 30,000/month = 360,000/year: 15% of the 110,000 over 250,000 is
	// 16,500/year, so 1,375/month.
	got := MonthlyWithholdingTax(decimal.NewFromInt(30000))
	assert.True(t, decimal.NewFromInt(1375).Equal(got), "got %s", got)

	assert.True(t, MonthlyWithholdingTax(decimal.NewFromInt(-500)).IsZero())
}
