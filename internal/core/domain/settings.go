package domain

import "github.com/shopspring/decimal"

// AccountingSettings are the constants the consolidation engine is parameterized with.
// Percentages are expressed as numbers between 0 and 100.
type AccountingSettings struct {
	MinimumWage         decimal.Decimal
	ReservePercent      decimal.Decimal
	AdminBasePercent    decimal.Decimal
	PartnerPoolPercent  decimal.Decimal
	EmployerSSPercent   decimal.Decimal
	EmployeeSSPercent   decimal.Decimal
	MaxSolverIterations int
	SolverTolerance     decimal.Decimal
}

// DefaultAccountingSettings returns the standard constants.
func DefaultAccountingSettings() AccountingSettings {
	return AccountingSettings{
		MinimumWage:         decimal.RequireFromString("1518.00"),
		ReservePercent:      decimal.NewFromInt(10),
		AdminBasePercent:    decimal.NewFromInt(5),
		PartnerPoolPercent:  decimal.NewFromInt(85),
		EmployerSSPercent:   decimal.NewFromInt(20),
		EmployeeSSPercent:   decimal.NewFromInt(11),
		MaxSolverIterations: 100,
		SolverTolerance:     decimal.RequireFromString("0.01"),
	}
}

// Fraction converts a percentage to a multiplier.
func Fraction(percent decimal.Decimal) decimal.Decimal {
	return percent.Div(hundred)
}
