package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/lawfirm_ledger_app/internal/apperrors"
	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
	"github.com/SscSPs/lawfirm_ledger_app/internal/core/services"
)

func TestProLaboreSolver_CappedAtMinimumWage(t *testing.T) {
	solver := services.NewProLaboreSolver(domain.DefaultAccountingSettings())

	result, err := solver.Solve(domain.ProLaboreInput{
		GrossProfit:       dec("9550.00"),
		AdminSharePercent: dec("80"),
		MinWageCap:        dec("1518.00"),
	})
	require.NoError(t, err)
	assert.True(t, result.Converged)
	assertAmount(t, "1518.00", result.ProLabore)
	assertAmount(t, "303.60", result.EmployerSS)
	assertAmount(t, "166.98", result.EmployeeSS)
	assertAmount(t, "9246.40", result.NetProfit)
}

func TestProLaboreSolver_DefaultsUnsetLimits(t *testing.T) {
	settings := domain.DefaultAccountingSettings()
	settings.SolverTolerance = decimal.Zero
	settings.MaxSolverIterations = 0
	solver := services.NewProLaboreSolver(settings)

	result, err := solver.Solve(domain.ProLaboreInput{
		GrossProfit:       dec("9550.00"),
		AdminSharePercent: dec("80"),
		MinWageCap:        dec("1518.00"),
	})
	require.NoError(t, err)
	assert.True(t, result.Converged)
	assert.Less(t, result.Iterations, domain.DefaultAccountingSettings().MaxSolverIterations)
	assertAmount(t, "1518.00", result.ProLabore)
}

func TestProLaboreSolver_SeedIdempotence(t *testing.T) {
	solver := services.NewProLaboreSolver(domain.DefaultAccountingSettings())
	in := domain.ProLaboreInput{
		GrossProfit:       dec("9550.00"),
		AdminSharePercent: dec("80"),
		MinWageCap:        dec("1518.00"),
	}
	first, err := solver.Solve(in)
	require.NoError(t, err)

	in.Seed = first.ProLabore
	second, err := solver.Solve(in)
	require.NoError(t, err)

	assert.Equal(t, 1, second.Iterations)
	assert.True(t, first.ProLabore.Equal(second.ProLabore))
	assert.True(t, first.EmployerSS.Equal(second.EmployerSS))
	assert.True(t, first.EmployeeSS.Equal(second.EmployeeSS))
	assert.True(t, first.NetProfit.Equal(second.NetProfit))
}

func TestProLaboreSolver_Uncapped(t *testing.T) {
	solver := services.NewProLaboreSolver(domain.DefaultAccountingSettings())

	result, err := solver.Solve(domain.ProLaboreInput{
		GrossProfit:       dec("1000.00"),
		AdminSharePercent: dec("50"),
		MinWageCap:        dec("1518.00"),
	})
	require.NoError(t, err)
	require.True(t, result.ProLabore.LessThan(dec("1518.00")))

	// fixed point: pay = (gp - 0.2 pay) * (0.05 + 0.85 * 0.5)
	netProfit := dec("1000.00").Sub(result.EmployerSS)
	expected := netProfit.Mul(dec("0.475")).Round(2)
	assert.True(t, expected.Sub(result.ProLabore).Abs().LessThanOrEqual(dec("0.01")),
		"pro-labore %s, expected about %s", result.ProLabore, expected)
	assertAmount(t, result.ProLabore.Mul(dec("0.20")).Round(2).String(), result.EmployerSS)
}

func TestProLaboreSolver_NonPositiveProfit(t *testing.T) {
	solver := services.NewProLaboreSolver(domain.DefaultAccountingSettings())

	result, err := solver.Solve(domain.ProLaboreInput{
		GrossProfit:       dec("-500.00"),
		AdminSharePercent: dec("100"),
		MinWageCap:        dec("1518.00"),
	})
	require.NoError(t, err)
	assert.True(t, result.ProLabore.IsZero())
	assert.True(t, result.EmployerSS.IsZero())
	assertAmount(t, "-500.00", result.NetProfit)
}

func TestProLaboreSolver_DidNotConverge(t *testing.T) {
	settings := domain.DefaultAccountingSettings()
	settings.MaxSolverIterations = 1
	solver := services.NewProLaboreSolver(settings)

	result, err := solver.Solve(domain.ProLaboreInput{
		GrossProfit:       dec("9550.00"),
		AdminSharePercent: dec("80"),
		MinWageCap:        dec("1518.00"),
	})
	assert.ErrorIs(t, err, apperrors.ErrSolverDidNotConverge)
	assert.False(t, result.Converged)
	assert.Equal(t, 1, result.Iterations)
	// the last candidate is still usable
	assertAmount(t, "1518.00", result.ProLabore)
	assert.True(t, result.NetProfit.Equal(dec("9550.00").Sub(result.EmployerSS)))
}
