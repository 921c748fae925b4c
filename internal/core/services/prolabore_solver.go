package services

import (
	"fmt"

	"github.com/SscSPs/lawfirm_ledger_app/internal/apperrors"
	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/lawfirm_ledger_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// proLaboreSolver iterates administrator pay against employer social security until it settles.
// Every monetary intermediate is rounded to cents, so a converged result is an exact fixed
// point: seeding the solver with its own output returns that output on the first iteration.
type proLaboreSolver struct {
	settings domain.AccountingSettings
}

// NewProLaboreSolver creates a solver parameterized by the accounting settings.
func NewProLaboreSolver(settings domain.AccountingSettings) portssvc.ProLaboreSolverSvc {
	defaults := domain.DefaultAccountingSettings()
	if settings.MaxSolverIterations <= 0 {
		settings.MaxSolverIterations = defaults.MaxSolverIterations
	}
	if !settings.SolverTolerance.IsPositive() {
		settings.SolverTolerance = defaults.SolverTolerance
	}
	return &proLaboreSolver{settings: settings}
}

var _ portssvc.ProLaboreSolverSvc = (*proLaboreSolver)(nil)

func (s *proLaboreSolver) Solve(in domain.ProLaboreInput) (domain.ProLaboreResult, error) {
	employerRate := domain.Fraction(s.settings.EmployerSSPercent)
	employeeRate := domain.Fraction(s.settings.EmployeeSSPercent)
	basePart := domain.Fraction(s.settings.AdminBasePercent)
	poolPart := domain.Fraction(s.settings.PartnerPoolPercent).Mul(domain.Fraction(in.AdminSharePercent))

	pay := roundCents(clampZero(in.Seed))
	converged := false
	iterations := 0
	for iterations < s.settings.MaxSolverIterations {
		iterations++
		employerSS := roundCents(pay.Mul(employerRate))
		netProfit := in.GrossProfit.Sub(employerSS)

		candidate := netProfit.Mul(basePart).Add(netProfit.Mul(poolPart))
		if candidate.GreaterThan(in.MinWageCap) {
			candidate = in.MinWageCap
		}
		candidate = roundCents(clampZero(candidate))

		if candidate.Sub(pay).Abs().LessThan(s.settings.SolverTolerance) {
			pay = candidate
			converged = true
			break
		}
		pay = candidate
	}

	employerSS := roundCents(pay.Mul(employerRate))
	result := domain.ProLaboreResult{
		ProLabore:  pay,
		EmployerSS: employerSS,
		EmployeeSS: roundCents(pay.Mul(employeeRate)),
		NetProfit:  roundCents(in.GrossProfit.Sub(employerSS)),
		Iterations: iterations,
		Converged:  converged,
	}
	if !converged {
		return result, fmt.Errorf("%w after %d iterations (last candidate %s)",
			apperrors.ErrSolverDidNotConverge, iterations, pay.StringFixed(2))
	}
	return result, nil
}

// zeroProLabore is the split used when the firm has no administrator partner.
func zeroProLabore(grossProfit decimal.Decimal) domain.ProLaboreResult {
	return domain.ProLaboreResult{
		ProLabore:  decimal.Zero,
		EmployerSS: decimal.Zero,
		EmployeeSS: decimal.Zero,
		NetProfit:  roundCents(grossProfit),
		Converged:  true,
	}
}
