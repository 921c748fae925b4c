package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/lawfirm_ledger_app/internal/apperrors"
	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/lawfirm_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/lawfirm_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/lawfirm_ledger_app/internal/observability"
)

const adminSharePlaces = 6

var (
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// incomeStatementService builds monthly statements and owns the consolidation lifecycle.
type incomeStatementService struct {
	BaseService
	txm      portsrepo.TransactionManager
	postings portssvc.AutomaticPostingSvc
	solver   portssvc.ProLaboreSolverSvc
	settings domain.AccountingSettings
	cache    portsrepo.StatementCache
	metrics  *observability.Metrics
}

// IncomeStatementServiceOption is a functional option for configuring the income statement service
type IncomeStatementServiceOption func(*incomeStatementService)

// WithStatementCache enables the read-through cache of consolidated statements.
func WithStatementCache(cache portsrepo.StatementCache) IncomeStatementServiceOption {
	return func(s *incomeStatementService) {
		s.cache = cache
	}
}

// WithStatementMetrics records consolidation outcomes and solver alerts.
func WithStatementMetrics(m *observability.Metrics) IncomeStatementServiceOption {
	return func(s *incomeStatementService) {
		s.metrics = m
	}
}

// WithStatementClock overrides the clock used for consolidatedAt and audit timestamps.
func WithStatementClock(now func() time.Time) IncomeStatementServiceOption {
	return func(s *incomeStatementService) {
		s.now = now
	}
}

// NewIncomeStatementService creates the income statement engine.
func NewIncomeStatementService(txm portsrepo.TransactionManager, postings portssvc.AutomaticPostingSvc, settings domain.AccountingSettings, options ...IncomeStatementServiceOption) portssvc.IncomeStatementSvcFacade {
	svc := &incomeStatementService{
		txm:      txm,
		postings: postings,
		solver:   NewProLaboreSolver(settings),
		settings: settings,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.IncomeStatementSvcFacade = (*incomeStatementService)(nil)

// ComputeDraft computes the month's statement without persisting it.
func (s *incomeStatementService) ComputeDraft(ctx context.Context, month domain.CompetencyMonth) (*domain.MonthlyIncomeStatement, error) {
	var draft *domain.MonthlyIncomeStatement
	err := s.txm.WithinTx(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		var err error
		draft, err = s.computeDraft(ctx, uow, month)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to compute draft statement", slog.String("month", month.String()))
		return nil, err
	}
	return draft, nil
}

func (s *incomeStatementService) computeDraft(ctx context.Context, uow portsrepo.UnitOfWork, month domain.CompetencyMonth) (*domain.MonthlyIncomeStatement, error) {
	sources := uow.Sources()

	revenues, err := sources.ListRevenueEntries(ctx, month.Start(), month.End())
	if err != nil {
		return nil, fmt.Errorf("failed to load revenue entries for %s: %w", month, err)
	}
	expenses, err := sources.ListExpenseEntries(ctx, month.Start(), month.End())
	if err != nil {
		return nil, fmt.Errorf("failed to load expense entries for %s: %w", month, err)
	}

	grossRevenue := decimal.Zero
	for _, entry := range revenues {
		if err := entry.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		if total := entry.SharesTotal(); total.GreaterThan(hundred) {
			s.LogWarn(ctx, "Revenue shares exceed 100%",
				slog.String("entry", entry.ID),
				slog.String("total", total.String()))
		}
		grossRevenue = grossRevenue.Add(entry.Amount)
	}
	grossRevenue = roundCents(grossRevenue)

	generalExpenses := decimal.Zero
	for _, entry := range expenses {
		if entry.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: expense entry %s has a negative amount", apperrors.ErrValidation, entry.ID)
		}
		generalExpenses = generalExpenses.Add(entry.Amount)
	}
	generalExpenses = roundCents(generalExpenses)

	trailing, err := sources.SumRevenue(ctx, month.AddMonths(-12).Start(), month.Start())
	if err != nil {
		return nil, fmt.Errorf("failed to sum trailing revenue for %s: %w", month, err)
	}
	trailing = roundCents(trailing)
	if trailing.IsZero() {
		// start of activity: the month's revenue is annualized
		trailing = grossRevenue.Mul(twelve)
	}

	brackets, err := uow.TaxBrackets().ListTaxBrackets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tax brackets: %w", err)
	}
	resolver := NewTaxBracketResolver(brackets)
	rate, err := resolver.Resolve(trailing, month.Start())
	if err != nil {
		return nil, fmt.Errorf("tax for %s: %w", month, err)
	}
	tax := resolver.MonthlyTax(grossRevenue, rate)
	grossProfit := grossRevenue.Sub(tax).Sub(generalExpenses)

	partners, err := sources.ListPartners(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load partners: %w", err)
	}
	sort.SliceStable(partners, func(i, j int) bool {
		if partners[i].Name != partners[j].Name {
			return partners[i].Name < partners[j].Name
		}
		return partners[i].ID < partners[j].ID
	})
	weights, err := partnerWeights(revenues, partners)
	if err != nil {
		return nil, err
	}

	admin := administratorOf(partners)
	adminShare := decimal.Zero
	if admin != nil && grossRevenue.IsPositive() {
		adminShare = weights[admin.ID].Mul(hundred).Div(grossRevenue).Round(adminSharePlaces)
	}

	split := zeroProLabore(grossProfit)
	if admin != nil {
		split, err = s.solver.Solve(domain.ProLaboreInput{
			GrossProfit:       grossProfit,
			AdminSharePercent: adminShare,
			MinWageCap:        s.settings.MinimumWage,
		})
		if err != nil {
			if !errors.Is(err, apperrors.ErrSolverDidNotConverge) {
				return nil, err
			}
			s.metrics.SolverDidNotConverge()
			s.LogWarn(ctx, "Pro-labore solver did not converge, using last candidate",
				slog.String("month", month.String()),
				slog.String("pro_labore", split.ProLabore.StringFixed(2)),
				slog.Int("iterations", split.Iterations))
		}
	}

	reserve := roundCents(clampZero(split.NetProfit.Mul(domain.Fraction(s.settings.ReservePercent))))
	pool := roundCents(clampZero(split.NetProfit.Sub(reserve)))

	stmt := &domain.MonthlyIncomeStatement{
		CompetencyMonth:   month,
		GrossRevenue:      grossRevenue,
		TrailingRevenue:   trailing,
		NominalRate:       rate.NominalRate,
		EffectiveRate:     rate.EffectiveRate,
		BracketDeduction:  rate.Deduction,
		Tax:               tax,
		GeneralExpenses:   generalExpenses,
		GrossProfit:       roundCents(grossProfit),
		AdminSharePercent: adminShare,
		ProLabore:         split.ProLabore,
		EmployerSS:        split.EmployerSS,
		EmployeeSS:        split.EmployeeSS,
		NetProfit:         split.NetProfit,
		Reserve:           reserve,
		DistributablePool: pool,
		SolverIterations:  split.Iterations,
		SolverConverged:   split.Converged,
	}
	if admin != nil {
		stmt.AdministratorID = admin.ID
	}
	stmt.PartnerDistribution = distribute(partners, weights, admin, stmt)
	return stmt, nil
}

// partnerWeights sums each partner's revenue-weighted contribution. Shares naming an
// unknown partner are rejected.
func partnerWeights(revenues []domain.RevenueEntry, partners []domain.Partner) (map[string]decimal.Decimal, error) {
	known := make(map[string]struct{}, len(partners))
	for _, p := range partners {
		known[p.ID] = struct{}{}
	}
	weights := make(map[string]decimal.Decimal, len(partners))
	for _, entry := range revenues {
		for _, share := range entry.Shares {
			if _, ok := known[share.PartnerID]; !ok {
				return nil, fmt.Errorf("%w: revenue entry %s names unknown partner %s", apperrors.ErrValidation, entry.ID, share.PartnerID)
			}
			weights[share.PartnerID] = weights[share.PartnerID].Add(entry.ShareOf(share.PartnerID))
		}
	}
	return weights, nil
}

// administratorOf returns the first administrator by name. Partners must already be sorted.
func administratorOf(partners []domain.Partner) *domain.Partner {
	for i := range partners {
		if partners[i].IsAdministrator() {
			return &partners[i]
		}
	}
	return nil
}

// distribute splits the pool among contributing partners by their weight over gross revenue.
// Partners without a positive weight get nothing. The administrator is excluded from the
// pool and appears with pro-labore net of the employee social-security retention.
func distribute(partners []domain.Partner, weights map[string]decimal.Decimal, admin *domain.Partner, stmt *domain.MonthlyIncomeStatement) []domain.PartnerAmount {
	out := make([]domain.PartnerAmount, 0, len(partners))
	for _, p := range partners {
		weight := weights[p.ID]
		if !weight.IsPositive() {
			continue
		}
		if admin != nil && p.ID == admin.ID {
			out = append(out, domain.PartnerAmount{
				PartnerID:    p.ID,
				PartnerName:  p.Name,
				Contribution: roundCents(weight),
				Amount:       roundCents(clampZero(stmt.ProLabore.Sub(stmt.EmployeeSS))),
			})
			continue
		}
		if !stmt.GrossRevenue.IsPositive() {
			continue
		}
		out = append(out, domain.PartnerAmount{
			PartnerID:    p.ID,
			PartnerName:  p.Name,
			Contribution: roundCents(weight),
			Amount:       roundCents(stmt.DistributablePool.Mul(weight).Div(stmt.GrossRevenue)),
		})
	}
	return out
}

// Consolidate freezes the month. Without force an already consolidated month is returned as stored.
func (s *incomeStatementService) Consolidate(ctx context.Context, month domain.CompetencyMonth, force bool) (*domain.MonthlyIncomeStatement, error) {
	var result *domain.MonthlyIncomeStatement
	changed := false
	err := s.txm.WithinTx(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		if err := uow.LockMonth(ctx, month); err != nil {
			return fmt.Errorf("failed to lock %s: %w", month, err)
		}
		existing, err := uow.Statements().FindStatementByMonth(ctx, month)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("failed to load statement %s: %w", month, err)
		}
		if existing != nil && existing.Consolidated && !force {
			result = existing
			return nil
		}

		if err := ensureAccounts(ctx, uow, domain.RequiredAccountCodes); err != nil {
			return err
		}
		stmt, err := s.computeDraft(ctx, uow, month)
		if err != nil {
			return err
		}

		now := s.Now()
		if existing != nil {
			stmt.ID = existing.ID
			stmt.CreatedAt = existing.CreatedAt
		} else {
			stmt.ID = uuid.NewString()
			stmt.CreatedAt = now
		}
		stmt.LastUpdatedAt = now
		stmt.Consolidated = true
		stmt.ConsolidatedAt = &now

		if err := uow.Statements().SaveStatement(ctx, *stmt); err != nil {
			return fmt.Errorf("failed to save statement %s: %w", month, err)
		}
		if err := s.bookMonth(ctx, stmt); err != nil {
			return err
		}
		result = stmt
		changed = true
		return nil
	})
	if err != nil {
		s.metrics.Consolidation("failed")
		s.LogError(ctx, err, "Failed to consolidate month", slog.String("month", month.String()), slog.Bool("force", force))
		return nil, err
	}

	if !changed {
		s.metrics.Consolidation("unchanged")
		return result, nil
	}
	s.metrics.Consolidation("consolidated")
	s.invalidate(ctx, month)
	s.LogInfo(ctx, "Month consolidated",
		slog.String("month", month.String()),
		slog.String("gross_revenue", result.GrossRevenue.StringFixed(2)),
		slog.String("net_profit", result.NetProfit.StringFixed(2)),
		slog.Bool("solver_converged", result.SolverConverged))
	return result, nil
}

// plannedPosting is one automatic posting derived from a statement.
type plannedPosting struct {
	entryType domain.EntryType
	debit     string
	credit    string
	amount    decimal.Decimal
	history   string
}

// monthPostings lists every automatic posting a consolidated statement implies.
func monthPostings(stmt *domain.MonthlyIncomeStatement) []plannedPosting {
	m := stmt.CompetencyMonth.String()
	distributed := decimal.Zero
	for _, pa := range stmt.PartnerDistribution {
		if pa.PartnerID != stmt.AdministratorID {
			distributed = distributed.Add(pa.Amount)
		}
	}
	return []plannedPosting{
		{domain.EntryRevenue, domain.CodeCash, domain.CodeFeeRevenue, stmt.GrossRevenue, "Receita de honorários " + m},
		{domain.EntryExpense, domain.CodeGeneralExpenses, domain.CodeCash, stmt.GeneralExpenses, "Despesas gerais " + m},
		{domain.EntryProvision, domain.CodeSimplesTaxExpense, domain.CodeTaxPayable, stmt.Tax, "Provisão Simples Nacional " + m},
		{domain.EntryProvision, domain.CodeProLaboreExpense, domain.CodeProLaborePayable, stmt.ProLabore, "Provisão pró-labore " + m},
		{domain.EntryProvision, domain.CodeEmployerSSExpense, domain.CodeSocialSecurityDue, stmt.EmployerSS, "Provisão INSS patronal " + m},
		{domain.EntryWithholding, domain.CodeProLaborePayable, domain.CodeSocialSecurityDue, stmt.EmployeeSS, "Retenção INSS pró-labore " + m},
		{domain.EntryClosing, domain.CodeFeeRevenue, domain.CodeRetainedEarnings, stmt.GrossRevenue, "Encerramento receitas " + m},
		{domain.EntryClosing, domain.CodeRetainedEarnings, domain.CodeGeneralExpenses, stmt.GeneralExpenses, "Encerramento despesas gerais " + m},
		{domain.EntryClosing, domain.CodeRetainedEarnings, domain.CodeSimplesTaxExpense, stmt.Tax, "Encerramento Simples Nacional " + m},
		{domain.EntryClosing, domain.CodeRetainedEarnings, domain.CodeProLaboreExpense, stmt.ProLabore, "Encerramento pró-labore " + m},
		{domain.EntryClosing, domain.CodeRetainedEarnings, domain.CodeEmployerSSExpense, stmt.EmployerSS, "Encerramento INSS patronal " + m},
		{domain.EntryReserve, domain.CodeRetainedEarnings, domain.CodeProfitReserve, stmt.Reserve, "Constituição reserva de lucros " + m},
		{domain.EntryDistribution, domain.CodeDistributedProfits, domain.CodeProfitsPayable, roundCents(distributed), "Distribuição de lucros " + m},
	}
}

// bookMonth upserts the month's automatic postings. Zero amounts remove a previously booked row.
func (s *incomeStatementService) bookMonth(ctx context.Context, stmt *domain.MonthlyIncomeStatement) error {
	date := stmt.CompetencyMonth.LastDay()
	for _, p := range monthPostings(stmt) {
		key := domain.PostingKey{
			Month:         stmt.CompetencyMonth,
			EntryType:     p.entryType,
			DebitAccount:  p.debit,
			CreditAccount: p.credit,
		}
		if !p.amount.IsPositive() {
			if _, err := s.postings.RemoveAutomaticPosting(ctx, key); err != nil {
				return err
			}
			continue
		}
		if _, err := s.postings.UpsertAutomaticPosting(ctx, key, domain.PostingFields{
			Date:    date,
			Amount:  p.amount,
			History: p.history,
		}); err != nil {
			return err
		}
	}
	return nil
}

// Deconsolidate returns the month to draft. Postings stay in place so the next
// consolidation updates them instead of rebuilding.
func (s *incomeStatementService) Deconsolidate(ctx context.Context, month domain.CompetencyMonth) (*domain.MonthlyIncomeStatement, error) {
	var result *domain.MonthlyIncomeStatement
	err := s.txm.WithinTx(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		if err := uow.LockMonth(ctx, month); err != nil {
			return fmt.Errorf("failed to lock %s: %w", month, err)
		}
		stmt, err := uow.Statements().FindStatementByMonth(ctx, month)
		if err != nil {
			return fmt.Errorf("statement %s: %w", month, err)
		}
		if stmt.Consolidated {
			stmt.Consolidated = false
			stmt.ConsolidatedAt = nil
			stmt.LastUpdatedAt = s.Now()
			if err := uow.Statements().SaveStatement(ctx, *stmt); err != nil {
				return fmt.Errorf("failed to save statement %s: %w", month, err)
			}
		}
		result = stmt
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, month)
	s.LogInfo(ctx, "Month deconsolidated", slog.String("month", month.String()))
	return result, nil
}

// GetStatement reads through the cache. Only consolidated statements are cached.
func (s *incomeStatementService) GetStatement(ctx context.Context, month domain.CompetencyMonth) (*domain.MonthlyIncomeStatement, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.GetStatement(ctx, month)
		if err != nil {
			s.LogWarn(ctx, "Statement cache read failed", slog.String("month", month.String()), slog.String("error", err.Error()))
		} else if ok {
			return cached, nil
		}
	}

	var stmt *domain.MonthlyIncomeStatement
	err := s.txm.WithinTx(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		var err error
		stmt, err = uow.Statements().FindStatementByMonth(ctx, month)
		return err
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil && stmt.Consolidated {
		if err := s.cache.SetStatement(ctx, *stmt); err != nil {
			s.LogWarn(ctx, "Statement cache write failed", slog.String("month", month.String()), slog.String("error", err.Error()))
		}
	}
	return stmt, nil
}

func (s *incomeStatementService) ListStatements(ctx context.Context, year int) ([]domain.MonthlyIncomeStatement, error) {
	var stmts []domain.MonthlyIncomeStatement
	err := s.txm.WithinTx(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		var err error
		stmts, err = uow.Statements().ListStatementsByYear(ctx, year)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list statements of %d: %w", year, err)
	}
	return stmts, nil
}

func (s *incomeStatementService) invalidate(ctx context.Context, month domain.CompetencyMonth) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateStatement(ctx, month); err != nil {
		s.LogWarn(ctx, "Statement cache invalidation failed", slog.String("month", month.String()), slog.String("error", err.Error()))
	}
}
