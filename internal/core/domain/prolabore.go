package domain

import "github.com/shopspring/decimal"

// ProLaboreInput feeds the administrator pay fixed-point solver.
type ProLaboreInput struct {
	GrossProfit       decimal.Decimal
	AdminSharePercent decimal.Decimal
	MinWageCap        decimal.Decimal
	// Seed is the starting pay. Zero starts from scratch.
	Seed decimal.Decimal
}

// ProLaboreResult is the solved split.
type ProLaboreResult struct {
	ProLabore  decimal.Decimal `json:"proLabore"`
	EmployerSS decimal.Decimal `json:"employerSocialSecurity"`
	EmployeeSS decimal.Decimal `json:"employeeSocialSecurity"`
	NetProfit  decimal.Decimal `json:"netProfit"`
	Iterations int             `json:"iterations"`
	Converged  bool            `json:"converged"`
}
