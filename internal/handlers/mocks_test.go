package handlers_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/lawfirm_ledger_app/internal/core/ports/services"
)

// --- Mock StatementService ---
type MockStatementService struct {
	mock.Mock
}

func (m *MockStatementService) ComputeDraft(ctx context.Context, month domain.CompetencyMonth) (*domain.MonthlyIncomeStatement, error) {
	args := m.Called(ctx, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlyIncomeStatement), args.Error(1)
}

func (m *MockStatementService) GetStatement(ctx context.Context, month domain.CompetencyMonth) (*domain.MonthlyIncomeStatement, error) {
	args := m.Called(ctx, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlyIncomeStatement), args.Error(1)
}

func (m *MockStatementService) ListStatements(ctx context.Context, year int) ([]domain.MonthlyIncomeStatement, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonthlyIncomeStatement), args.Error(1)
}

func (m *MockStatementService) Consolidate(ctx context.Context, month domain.CompetencyMonth, force bool) (*domain.MonthlyIncomeStatement, error) {
	args := m.Called(ctx, month, force)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlyIncomeStatement), args.Error(1)
}

func (m *MockStatementService) Deconsolidate(ctx context.Context, month domain.CompetencyMonth) (*domain.MonthlyIncomeStatement, error) {
	args := m.Called(ctx, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlyIncomeStatement), args.Error(1)
}

var _ portssvc.IncomeStatementSvcFacade = (*MockStatementService)(nil)

// --- Mock PendingPaymentService ---
type MockPendingPaymentService struct {
	mock.Mock
}

func (m *MockPendingPaymentService) Generate(ctx context.Context, month, year int) ([]domain.PendingPayment, error) {
	args := m.Called(ctx, month, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PendingPayment), args.Error(1)
}

func (m *MockPendingPaymentService) List(ctx context.Context, month, year int) ([]domain.PendingPayment, error) {
	args := m.Called(ctx, month, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PendingPayment), args.Error(1)
}

func (m *MockPendingPaymentService) Pay(ctx context.Context, id string, req domain.PaymentRequest) (*domain.PendingPayment, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PendingPayment), args.Error(1)
}

var _ portssvc.PendingPaymentSvcFacade = (*MockPendingPaymentService)(nil)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) UpsertAutomaticPosting(ctx context.Context, key domain.PostingKey, fields domain.PostingFields) (string, error) {
	args := m.Called(ctx, key, fields)
	return args.String(0), args.Error(1)
}

func (m *MockLedgerService) RemoveAutomaticPosting(ctx context.Context, key domain.PostingKey) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedgerService) EnsureAccounts(ctx context.Context, codes []string) error {
	return m.Called(ctx, codes).Error(0)
}

func (m *MockLedgerService) CreateManualPosting(ctx context.Context, req domain.NewManualPosting) (*domain.LedgerPosting, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerPosting), args.Error(1)
}

func (m *MockLedgerService) UpdateManualPosting(ctx context.Context, id string, update domain.PostingUpdate) (*domain.LedgerPosting, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerPosting), args.Error(1)
}

func (m *MockLedgerService) DeleteManualPosting(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLedgerService) RegisterCapitalContribution(ctx context.Context, partnerID string, amount decimal.Decimal, date time.Time) (*domain.LedgerPosting, error) {
	args := m.Called(ctx, partnerID, amount, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerPosting), args.Error(1)
}

func (m *MockLedgerService) GetPosting(ctx context.Context, id string) (*domain.LedgerPosting, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerPosting), args.Error(1)
}

func (m *MockLedgerService) ListPostings(ctx context.Context, filter domain.PostingFilter) ([]domain.LedgerPosting, *string, error) {
	args := m.Called(ctx, filter)
	var next *string
	if n, ok := args.Get(1).(*string); ok {
		next = n
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.LedgerPosting), next, args.Error(2)
}

func (m *MockLedgerService) SumDebits(ctx context.Context, accountCode string, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, accountCode, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerService) SumCredits(ctx context.Context, accountCode string, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, accountCode, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerService) FindDuplicates(ctx context.Context) ([]domain.DuplicateGroup, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DuplicateGroup), args.Error(1)
}

func (m *MockLedgerService) ResolveDuplicates(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalanceReport, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalanceReport), args.Error(1)
}

func (m *MockReportingService) BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceSheetReport), args.Error(1)
}

func (m *MockReportingService) AnnualSummary(ctx context.Context, year int) (*domain.AnnualSummary, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnnualSummary), args.Error(1)
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)

// --- Mock ChartService ---
type MockChartService struct {
	mock.Mock
}

func (m *MockChartService) ListAccounts(ctx context.Context) ([]domain.ChartAccount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChartAccount), args.Error(1)
}

func (m *MockChartService) GetAccount(ctx context.Context, code string) (*domain.ChartAccount, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChartAccount), args.Error(1)
}

func (m *MockChartService) SeedChart(ctx context.Context, accounts []domain.ChartAccount) (int, error) {
	args := m.Called(ctx, accounts)
	return args.Int(0), args.Error(1)
}

func (m *MockChartService) SeedTaxBrackets(ctx context.Context, brackets []domain.TaxBracket) (int, error) {
	args := m.Called(ctx, brackets)
	return args.Int(0), args.Error(1)
}

var _ portssvc.ChartOfAccountsSvcFacade = (*MockChartService)(nil)
