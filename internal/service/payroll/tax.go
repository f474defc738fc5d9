package payroll

import "github.com/shopspring/decimal"

// taxBracket is one row of the progressive annual withholding table. Tax for
// income inside the bracket is BaseAmount plus Rate over the excess above
// Floor.
type taxBracket struct {
	Floor      int64
	BaseAmount int64
	Rate       string
}

var taxBrackets = []taxBracket{
	{0, 0, "0"},
	{250_000, 0, "0.15"},
	{400_000, 22_500, "0.20"},
	{800_000, 102_500, "0.25"},
	{2_000_000, 402_500, "0.30"},
	{8_000_000, 2_202_500, "0.35"},
}

// AnnualWithholdingTax applies the progressive bracket table to an annual
// taxable income. This is the single bracket implementation; every caller
// that starts from a monthly figure goes through MonthlyWithholdingTax.
func AnnualWithholdingTax(annualTaxable decimal.Decimal) decimal.Decimal {
	if annualTaxable.Sign() <= 0 {
		return decimal.Zero
	}
	bracket := taxBrackets[0]
	for _, b := range taxBrackets[1:] {
		if annualTaxable.LessThanOrEqual(decimal.NewFromInt(b.Floor)) {
			break
		}
		bracket = b
	}
	excess := annualTaxable.Sub(decimal.NewFromInt(bracket.Floor))
	return decimal.NewFromInt(bracket.BaseAmount).
		Add(decimal.RequireFromString(bracket.Rate).Mul(excess)).
		Round(2)
}

// MonthlyWithholdingTax annualizes a monthly taxable income, applies the
// bracket table, and divides back down.
func MonthlyWithholdingTax(monthlyTaxable decimal.Decimal) decimal.Decimal {
	annual := AnnualWithholdingTax(monthlyTaxable.Mul(decimal.NewFromInt(12)))
	return annual.Div(decimal.NewFromInt(12)).Round(2)
}
