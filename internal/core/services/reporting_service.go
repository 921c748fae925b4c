package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/SscSPs/lawfirm_ledger_app/internal/apperrors"
	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/lawfirm_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/lawfirm_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/lawfirm_ledger_app/internal/utils/accounting"
)

const defaultSummaryConcurrency = 4

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	txm         portsrepo.TransactionManager
	statements  portssvc.IncomeStatementReaderSvc
	concurrency int
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithSummaryConcurrency bounds how many months AnnualSummary computes at once.
func WithSummaryConcurrency(n int) ReportingServiceOption {
	return func(s *reportingService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(txm portsrepo.TransactionManager, statements portssvc.IncomeStatementReaderSvc, options ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		txm:         txm,
		statements:  statements,
		concurrency: defaultSummaryConcurrency,
	}

	// Apply all options
	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// accountBalances loads the chart and the per-account totals up to asOf (inclusive) and rolls
// leaf totals up into every ancestor.
func (s *reportingService) accountBalances(ctx context.Context, asOf time.Time) ([]domain.ChartAccount, map[string]domain.TrialBalanceRow, error) {
	var chart []domain.ChartAccount
	var totals map[string]domain.TrialBalanceRow
	before := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	err := s.txm.WithinTx(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		var err error
		if chart, err = uow.ChartAccounts().ListAccounts(ctx); err != nil {
			return err
		}
		totals, err = uow.Postings().AccountTotals(ctx, before)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	known := make(map[string]struct{}, len(chart))
	for _, acc := range chart {
		known[acc.Code] = struct{}{}
	}
	rolled := make(map[string]domain.TrialBalanceRow, len(chart))
	for code, t := range totals {
		if _, ok := known[code]; !ok {
			return nil, nil, fmt.Errorf("%w: postings reference unknown account %s", apperrors.ErrMissingChartAccount, code)
		}
		for c := code; c != ""; c = domain.ParentCodeOf(c) {
			row := rolled[c]
			row.Debit = row.Debit.Add(t.Debit)
			row.Credit = row.Credit.Add(t.Credit)
			rolled[c] = row
		}
	}
	return chart, rolled, nil
}

// TrialBalance generates a trial balance report as of a specific date
func (s *reportingService) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalanceReport, error) {
	chart, rolled, err := s.accountBalances(ctx, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve trial balance data", slog.String("asOf", asOf.Format(time.DateOnly)))
		return nil, fmt.Errorf("failed to retrieve trial balance data: %w", err)
	}

	report := &domain.TrialBalanceReport{TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
	for _, acc := range chart {
		t, ok := rolled[acc.Code]
		if !ok || (t.Debit.IsZero() && t.Credit.IsZero()) {
			continue
		}
		balance, err := accounting.SignedBalance(acc.Nature, t.Debit, t.Credit)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", acc.Code, err)
		}
		report.Rows = append(report.Rows, domain.TrialBalanceRow{
			AccountCode: acc.Code,
			Description: acc.Description,
			AccountType: acc.Type,
			Level:       acc.Level,
			Postable:    acc.Postable,
			Debit:       t.Debit,
			Credit:      t.Credit,
			Balance:     balance,
		})
		if acc.Postable {
			report.TotalDebit = report.TotalDebit.Add(t.Debit)
			report.TotalCredit = report.TotalCredit.Add(t.Credit)
		}
	}

	s.LogInfo(ctx, "Trial balance report generated successfully",
		slog.String("asOf", asOf.Format(time.DateOnly)),
		slog.Int("row_count", len(report.Rows)))
	return report, nil
}

// BalanceSheet generates a balance sheet report as of a specific date
func (s *reportingService) BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error) {
	chart, rolled, err := s.accountBalances(ctx, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve balance sheet data", slog.String("asOf", asOf.Format(time.DateOnly)))
		return nil, fmt.Errorf("failed to retrieve balance sheet data: %w", err)
	}

	report := &domain.BalanceSheetReport{
		Assets:           []domain.AccountAmount{},
		Liabilities:      []domain.AccountAmount{},
		Equity:           []domain.AccountAmount{},
		CurrentResult:    decimal.Zero,
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		TotalEquity:      decimal.Zero,
	}
	for _, acc := range chart {
		t, ok := rolled[acc.Code]
		if !acc.Postable || !ok {
			continue
		}
		// contra accounts (such as distributed profits) reduce their section
		balance, err := accounting.SignedBalance(domain.DefaultNature(acc.Type), t.Debit, t.Credit)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", acc.Code, err)
		}
		if balance.IsZero() {
			continue
		}
		line := domain.AccountAmount{AccountCode: acc.Code, Description: acc.Description, NetAmount: balance}
		switch acc.Type {
		case domain.Asset:
			report.Assets = append(report.Assets, line)
			report.TotalAssets = report.TotalAssets.Add(balance)
		case domain.Liability:
			report.Liabilities = append(report.Liabilities, line)
			report.TotalLiabilities = report.TotalLiabilities.Add(balance)
		case domain.Equity:
			report.Equity = append(report.Equity, line)
			report.TotalEquity = report.TotalEquity.Add(balance)
		case domain.Revenue:
			report.CurrentResult = report.CurrentResult.Add(balance)
		case domain.Expense:
			report.CurrentResult = report.CurrentResult.Sub(balance)
		}
	}
	report.TotalEquity = report.TotalEquity.Add(report.CurrentResult)

	if !report.TotalAssets.Equal(report.TotalLiabilities.Add(report.TotalEquity)) {
		s.LogWarn(ctx, "Balance sheet does not balance",
			slog.String("assets", report.TotalAssets.String()),
			slog.String("liabilities_equity", report.TotalLiabilities.Add(report.TotalEquity).String()))
	}
	return report, nil
}

// AnnualSummary fans out over the twelve months. Each month uses its consolidated statement
// when one exists and a draft otherwise; a month that cannot be drafted carries its error.
func (s *reportingService) AnnualSummary(ctx context.Context, year int) (*domain.AnnualSummary, error) {
	if _, err := domain.NewCompetencyMonth(year, 1); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	rows := make([]domain.AnnualSummaryRow, 12)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range rows {
		i := i
		month := domain.CompetencyMonth{Year: year, Month: time.Month(i + 1)}
		g.Go(func() error {
			rows[i] = s.summaryRow(gctx, month)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &domain.AnnualSummary{
		Year:         year,
		Months:       rows,
		GrossRevenue: decimal.Zero,
		Tax:          decimal.Zero,
		NetProfit:    decimal.Zero,
		Reserve:      decimal.Zero,
	}
	for _, row := range rows {
		if row.Statement == nil {
			continue
		}
		summary.GrossRevenue = summary.GrossRevenue.Add(row.Statement.GrossRevenue)
		summary.Tax = summary.Tax.Add(row.Statement.Tax)
		summary.NetProfit = summary.NetProfit.Add(row.Statement.NetProfit)
		summary.Reserve = summary.Reserve.Add(row.Statement.Reserve)
	}
	return summary, nil
}

func (s *reportingService) summaryRow(ctx context.Context, month domain.CompetencyMonth) domain.AnnualSummaryRow {
	row := domain.AnnualSummaryRow{Month: month}
	stmt, err := s.statements.GetStatement(ctx, month)
	if err == nil && stmt.Consolidated {
		row.Consolidated = true
		row.Statement = stmt
		return row
	}
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		row.Error = err.Error()
		return row
	}
	draft, err := s.statements.ComputeDraft(ctx, month)
	if err != nil {
		row.Error = err.Error()
		return row
	}
	row.Statement = draft
	return row
}
