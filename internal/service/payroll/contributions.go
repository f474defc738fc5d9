package payroll

import "github.com/shopspring/decimal"

// sssBand maps a salary band to its fixed monthly contribution. UpTo is the
// exclusive upper bound of the band.
type sssBand struct {
	UpTo   int64
	Amount string
}

// sssTable is a fixed lookup, not a formula: bands are 500 wide, the bottom
// band acts as a floor and everything at or above the top boundary pays the
// flat ceiling amount.
var sssTable = []sssBand{
	{4250, "180.00"},
	{4750, "202.50"},
	{5250, "225.00"},
	{5750, "247.50"},
	{6250, "270.00"},
	{6750, "292.50"},
	{7250, "315.00"},
	{7750, "337.50"},
	{8250, "360.00"},
	{8750, "382.50"},
	{9250, "405.00"},
	{9750, "427.50"},
	{10250, "450.00"},
	{10750, "472.50"},
	{11250, "495.00"},
	{11750, "517.50"},
	{12250, "540.00"},
	{12750, "562.50"},
	{13250, "585.00"},
	{13750, "607.50"},
	{14250, "630.00"},
	{14750, "652.50"},
	{15250, "675.00"},
	{15750, "697.50"},
	{16250, "720.00"},
	{16750, "742.50"},
	{17250, "765.00"},
	{17750, "787.50"},
	{18250, "810.00"},
	{18750, "832.50"},
	{19250, "855.00"},
	{19750, "877.50"},
	{20250, "900.00"},
	{20750, "922.50"},
	{21250, "945.00"},
	{21750, "967.50"},
	{22250, "990.00"},
	{22750, "1012.50"},
	{23250, "1035.00"},
	{23750, "1057.50"},
	{24250, "1080.00"},
	{24750, "1102.50"},
	{25250, "1125.00"},
	{25750, "1147.50"},
	{26250, "1170.00"},
	{26750, "1192.50"},
	{27250, "1215.00"},
	{27750, "1237.50"},
	{28250, "1260.00"},
	{28750, "1282.50"},
	{29250, "1305.00"},
	{29750, "1327.50"},
}

const sssCeilingAmount = "1350.00"

// SSSContribution looks up the fixed monthly contribution for a base salary.
func SSSContribution(baseSalary decimal.Decimal) decimal.Decimal {
	for _, band := range sssTable {
		if baseSalary.LessThan(decimal.NewFromInt(band.UpTo)) {
			return decimal.RequireFromString(band.Amount)
		}
	}
	return decimal.RequireFromString(sssCeilingAmount)
}

var (
	philHealthRate    = decimal.RequireFromString("0.025")
	philHealthFloor   = decimal.NewFromInt(10000)
	philHealthCeiling = decimal.NewFromInt(100000)
)

// PhilHealthContribution is rate x base, with the base clamped to the
// statutory floor and ceiling.
func PhilHealthContribution(baseSalary decimal.Decimal) decimal.Decimal {
	base := baseSalary
	if base.LessThan(philHealthFloor) {
		base = philHealthFloor
	}
	if base.GreaterThan(philHealthCeiling) {
		base = philHealthCeiling
	}
	return philHealthRate.Mul(base).Round(2)
}

var (
	pagIbigLowCutoff = decimal.NewFromInt(1500)
	pagIbigLowRate   = decimal.RequireFromString("0.01")
	pagIbigHighRate  = decimal.RequireFromString("0.02")
	pagIbigMax       = decimal.NewFromInt(100)
)

// PagIbigContribution is 1% of base at or below the cutoff, otherwise 2%
// capped at the fixed maximum.
func PagIbigContribution(baseSalary decimal.Decimal) decimal.Decimal {
	if baseSalary.LessThanOrEqual(pagIbigLowCutoff) {
		return pagIbigLowRate.Mul(baseSalary).Round(2)
	}
	contribution := pagIbigHighRate.Mul(baseSalary).Round(2)
	if contribution.GreaterThan(pagIbigMax) {
		return pagIbigMax
	}
	return contribution
}
