package services

import (
	"time"

	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TaxBracketResolverSvc resolves the progressive bracket for trailing revenue.
// Implementations are pure over the bracket table snapshot they were built with.
type TaxBracketResolverSvc interface {
	// Resolve fails with apperrors.ErrTaxCeilingExceeded when trailing revenue is above the top bracket.
	Resolve(trailingRevenue decimal.Decimal, referenceDate time.Time) (domain.TaxRate, error)

	// MonthlyTax applies the effective rate to the month's revenue, rounded to cents.
	MonthlyTax(monthRevenue decimal.Decimal, rate domain.TaxRate) decimal.Decimal
}

// ProLaboreSolverSvc solves the administrator pay / employer social security fixed point.
type ProLaboreSolverSvc interface {
	// Solve returns apperrors.ErrSolverDidNotConverge together with a usable result
	// when the iteration budget runs out.
	Solve(input domain.ProLaboreInput) (domain.ProLaboreResult, error)
}
