package payroll

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/employee"
	"github.com/shopworks/shop-erp-backend-go/internal/domain/payroll"
)

// Calculate computes gross, statutory deductions and net pay for one
// employee over one period. It is a pure function: no storage access, no
// side effects; callers persist the result. Every amount is rounded to two
// decimal places at the component level so the components re-sum to the
// totals exactly.
func Calculate(
	profile employee.EmployeeProfile,
	summary payroll.PeriodSummary,
	periodStart, periodEnd time.Time,
	allowances payroll.Allowances,
	policy payroll.Policy,
) payroll.PayrollRecord {
	workingDays := summary.WorkingDays
	if workingDays <= 0 {
		workingDays = payroll.WeekdayCount(periodStart, periodEnd)
	}

	baseSalary := profile.BaseSalary
	dailyRate := baseSalary.Div(decimal.NewFromInt(int64(workingDays)))
	hourlyRate := dailyRate.Div(policy.HoursPerDay)

	basicPay := summary.TotalRegularHours.Mul(hourlyRate).Round(2)
	overtimePay := summary.TotalOvertimeHours.Mul(hourlyRate).Mul(policy.OvertimePremium).Round(2)

	salesCommission := allowances.SalesCommission.Round(2)
	performanceBonus := allowances.PerformanceBonus.Round(2)
	otherAllowances := allowances.OtherAllowances.Round(2)
	totalAllowances := salesCommission.Add(performanceBonus).Add(otherAllowances)

	grossSalary := basicPay.Add(overtimePay).Add(totalAllowances)

	// Statutory contributions come off the contracted base salary, not the
	// attendance-adjusted gross.
	sss := SSSContribution(baseSalary)
	philHealth := PhilHealthContribution(baseSalary)
	pagIbig := PagIbigContribution(baseSalary)

	taxable := grossSalary.Sub(sss).Sub(philHealth).Sub(pagIbig)
	withholdingTax := MonthlyWithholdingTax(taxable)

	absentDeductions := dailyRate.Mul(decimal.NewFromInt(int64(summary.TotalAbsentDays))).Round(2)
	undertimeDeductions := summary.TotalUndertimeHours.Mul(hourlyRate).Round(2)
	loanDeductions := allowances.LoanDeductions.Round(2)
	otherDeductions := allowances.OtherDeductions.Round(2)

	totalDeductions := withholdingTax.
		Add(sss).Add(philHealth).Add(pagIbig).
		Add(absentDeductions).Add(undertimeDeductions).
		Add(loanDeductions).Add(otherDeductions)

	netSalary := grossSalary.Sub(totalDeductions)

	components := []payroll.PayrollComponent{
		{Name: payroll.ComponentBasicPay, Type: payroll.ComponentTypeEarning, Amount: basicPay},
		{Name: payroll.ComponentOvertimePay, Type: payroll.ComponentTypeEarning, Amount: overtimePay},
	}
	components = appendIfNonZero(components, payroll.ComponentSalesCommission, payroll.ComponentTypeEarning, salesCommission)
	components = appendIfNonZero(components, payroll.ComponentPerformanceBonus, payroll.ComponentTypeEarning, performanceBonus)
	components = appendIfNonZero(components, payroll.ComponentOtherAllowances, payroll.ComponentTypeEarning, otherAllowances)
	components = append(components,
		payroll.PayrollComponent{Name: payroll.ComponentWithholdingTax, Type: payroll.ComponentTypeDeduction, Amount: withholdingTax},
		payroll.PayrollComponent{Name: payroll.ComponentSSSContribution, Type: payroll.ComponentTypeDeduction, Amount: sss},
		payroll.PayrollComponent{Name: payroll.ComponentPhilHealth, Type: payroll.ComponentTypeDeduction, Amount: philHealth},
		payroll.PayrollComponent{Name: payroll.ComponentPagIbig, Type: payroll.ComponentTypeDeduction, Amount: pagIbig},
	)
	components = appendIfNonZero(components, payroll.ComponentAbsentDeductions, payroll.ComponentTypeDeduction, absentDeductions)
	components = appendIfNonZero(components, payroll.ComponentUndertimeDeductions, payroll.ComponentTypeDeduction, undertimeDeductions)
	components = appendIfNonZero(components, payroll.ComponentLoanDeductions, payroll.ComponentTypeDeduction, loanDeductions)
	components = appendIfNonZero(components, payroll.ComponentOtherDeductions, payroll.ComponentTypeDeduction, otherDeductions)

	return payroll.PayrollRecord{
		EmployeeID:          profile.ID,
		ShopID:              profile.ShopID,
		PeriodStart:         periodStart,
		PeriodEnd:           periodEnd,
		BaseSalary:          baseSalary,
		BasicPay:            basicPay,
		OvertimePay:         overtimePay,
		TotalAllowances:     totalAllowances,
		GrossSalary:         grossSalary,
		WithholdingTax:      withholdingTax,
		SSSContribution:     sss,
		PhilHealth:          philHealth,
		PagIbig:             pagIbig,
		AbsentDeductions:    absentDeductions,
		UndertimeDeductions: undertimeDeductions,
		LoanDeductions:      loanDeductions,
		TotalDeductions:     totalDeductions,
		NetSalary:           netSalary,
		Components:          components,
		Status:              payroll.PayrollStatusDraft,
	}
}

func appendIfNonZero(components []payroll.PayrollComponent, name string, componentType payroll.ComponentType, amount decimal.Decimal) []payroll.PayrollComponent {
	if amount.IsZero() {
		return components
	}
	return append(components, payroll.PayrollComponent{Name: name, Type: componentType, Amount: amount})
}

// RecalculateTotals re-derives the record totals purely by summing its
// components by type. Attendance is never consulted, so an operator can
// adjust a single line item and keep the record consistent.
func RecalculateTotals(record *payroll.PayrollRecord, components []payroll.PayrollComponent) {
	gross := decimal.Zero
	deductions := decimal.Zero
	byName := map[string]decimal.Decimal{}

	for _, c := range components {
		switch c.Type {
		case payroll.ComponentTypeEarning:
			gross = gross.Add(c.Amount)
		case payroll.ComponentTypeDeduction:
			deductions = deductions.Add(c.Amount)
		case payroll.ComponentTypeBenefit:
			// informational only, excluded from net pay
		}
		byName[c.Name] = byName[c.Name].Add(c.Amount)
	}

	record.BasicPay = byName[payroll.ComponentBasicPay]
	record.OvertimePay = byName[payroll.ComponentOvertimePay]
	record.WithholdingTax = byName[payroll.ComponentWithholdingTax]
	record.SSSContribution = byName[payroll.ComponentSSSContribution]
	record.PhilHealth = byName[payroll.ComponentPhilHealth]
	record.PagIbig = byName[payroll.ComponentPagIbig]
	record.AbsentDeductions = byName[payroll.ComponentAbsentDeductions]
	record.UndertimeDeductions = byName[payroll.ComponentUndertimeDeductions]
	record.LoanDeductions = byName[payroll.ComponentLoanDeductions]
	record.TotalAllowances = gross.Sub(record.BasicPay).Sub(record.OvertimePay)
	record.GrossSalary = gross
	record.TotalDeductions = deductions
	record.NetSalary = gross.Sub(deductions)
	record.Components = components
}
