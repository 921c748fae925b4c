package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/lawfirm_ledger_app/internal/core/ports/repositories"
)

type PgxStatementRepository struct {
	db dbtx
}

var _ portsrepo.StatementRepositoryFacade = (*PgxStatementRepository)(nil)

const statementColumns = `statement_id, competency_month, gross_revenue, trailing_revenue, nominal_rate, effective_rate,
	bracket_deduction, tax, general_expenses, gross_profit, admin_share_percent, pro_labore, employer_ss, employee_ss,
	net_profit, reserve, distributable_pool, solver_iterations, solver_converged, administrator_id, partner_distribution,
	consolidated, consolidated_at, created_at, last_updated_at`

func scanStatement(row pgx.Row) (domain.MonthlyIncomeStatement, error) {
	var (
		s     domain.MonthlyIncomeStatement
		month string
		admin *string
	)
	err := row.Scan(
		&s.ID,
		&month,
		&s.GrossRevenue,
		&s.TrailingRevenue,
		&s.NominalRate,
		&s.EffectiveRate,
		&s.BracketDeduction,
		&s.Tax,
		&s.GeneralExpenses,
		&s.GrossProfit,
		&s.AdminSharePercent,
		&s.ProLabore,
		&s.EmployerSS,
		&s.EmployeeSS,
		&s.NetProfit,
		&s.Reserve,
		&s.DistributablePool,
		&s.SolverIterations,
		&s.SolverConverged,
		&admin,
		&s.PartnerDistribution, // jsonb
		&s.Consolidated,
		&s.ConsolidatedAt,
		&s.CreatedAt,
		&s.LastUpdatedAt,
	)
	if err != nil {
		return s, err
	}
	if admin != nil {
		s.AdministratorID = *admin
	}
	s.CompetencyMonth, err = domain.ParseCompetencyMonth(month)
	return s, err
}

func (r *PgxStatementRepository) FindStatementByMonth(ctx context.Context, month domain.CompetencyMonth) (*domain.MonthlyIncomeStatement, error) {
	query := `SELECT ` + statementColumns + ` FROM income_statements WHERE competency_month = $1;`
	s, err := scanStatement(r.db.QueryRow(ctx, query, month.String()))
	if err != nil {
		return nil, translateError(err, "statement "+month.String())
	}
	return &s, nil
}

func (r *PgxStatementRepository) ListStatementsByYear(ctx context.Context, year int) ([]domain.MonthlyIncomeStatement, error) {
	query := `
		SELECT ` + statementColumns + `
		FROM income_statements
		WHERE competency_month LIKE $1
		ORDER BY competency_month;
	`
	rows, err := r.db.Query(ctx, query, fmt.Sprintf("%04d-%%", year))
	if err != nil {
		return nil, translateError(err, fmt.Sprintf("failed to list statements of %d", year))
	}
	defer rows.Close()

	out := []domain.MonthlyIncomeStatement{}
	for rows.Next() {
		s, err := scanStatement(rows)
		if err != nil {
			return nil, translateError(err, "failed to scan statement")
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "failed to iterate statements")
	}
	return out, nil
}

// SaveStatement upserts on competency month.
func (r *PgxStatementRepository) SaveStatement(ctx context.Context, s domain.MonthlyIncomeStatement) error {
	query := `
		INSERT INTO income_statements (` + statementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
		ON CONFLICT (competency_month) DO UPDATE SET
			statement_id = EXCLUDED.statement_id,
			gross_revenue = EXCLUDED.gross_revenue,
			trailing_revenue = EXCLUDED.trailing_revenue,
			nominal_rate = EXCLUDED.nominal_rate,
			effective_rate = EXCLUDED.effective_rate,
			bracket_deduction = EXCLUDED.bracket_deduction,
			tax = EXCLUDED.tax,
			general_expenses = EXCLUDED.general_expenses,
			gross_profit = EXCLUDED.gross_profit,
			admin_share_percent = EXCLUDED.admin_share_percent,
			pro_labore = EXCLUDED.pro_labore,
			employer_ss = EXCLUDED.employer_ss,
			employee_ss = EXCLUDED.employee_ss,
			net_profit = EXCLUDED.net_profit,
			reserve = EXCLUDED.reserve,
			distributable_pool = EXCLUDED.distributable_pool,
			solver_iterations = EXCLUDED.solver_iterations,
			solver_converged = EXCLUDED.solver_converged,
			administrator_id = EXCLUDED.administrator_id,
			partner_distribution = EXCLUDED.partner_distribution,
			consolidated = EXCLUDED.consolidated,
			consolidated_at = EXCLUDED.consolidated_at,
			last_updated_at = EXCLUDED.last_updated_at;
	`
	var admin *string
	if s.AdministratorID != "" {
		admin = &s.AdministratorID
	}
	distribution := s.PartnerDistribution
	if distribution == nil {
		distribution = []domain.PartnerAmount{}
	}
	_, err := r.db.Exec(ctx, query,
		s.ID,
		s.CompetencyMonth.String(),
		s.GrossRevenue,
		s.TrailingRevenue,
		s.NominalRate,
		s.EffectiveRate,
		s.BracketDeduction,
		s.Tax,
		s.GeneralExpenses,
		s.GrossProfit,
		s.AdminSharePercent,
		s.ProLabore,
		s.EmployerSS,
		s.EmployeeSS,
		s.NetProfit,
		s.Reserve,
		s.DistributablePool,
		s.SolverIterations,
		s.SolverConverged,
		admin,
		distribution,
		s.Consolidated,
		s.ConsolidatedAt,
		s.CreatedAt,
		s.LastUpdatedAt,
	)
	if err != nil {
		return translateError(err, "failed to save statement "+s.CompetencyMonth.String())
	}
	return nil
}
