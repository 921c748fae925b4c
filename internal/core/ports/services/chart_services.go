package services

import (
	"context"

	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
)

// ChartOfAccountsReaderSvc defines read operations over the chart of accounts
type ChartOfAccountsReaderSvc interface {
	ListAccounts(ctx context.Context) ([]domain.ChartAccount, error)
	GetAccount(ctx context.Context, code string) (*domain.ChartAccount, error)
}

// ChartOfAccountsSeederSvc loads the fixed chart and the tax table into storage
type ChartOfAccountsSeederSvc interface {
	// SeedChart validates the hierarchy and saves every account, keeping existing ids.
	SeedChart(ctx context.Context, accounts []domain.ChartAccount) (int, error)

	// SeedTaxBrackets saves the bracket table.
	SeedTaxBrackets(ctx context.Context, brackets []domain.TaxBracket) (int, error)
}

// ChartOfAccountsSvcFacade combines chart-related service interfaces
type ChartOfAccountsSvcFacade interface {
	ChartOfAccountsReaderSvc
	ChartOfAccountsSeederSvc
}
