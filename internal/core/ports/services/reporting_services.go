package services

import (
	"context"
	"time"

	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
)

// ReportingService defines operations for generating financial reports
type ReportingService interface {
	// TrialBalance generates a trial balance report as of a specific date (inclusive)
	TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalanceReport, error)

	// BalanceSheet generates a balance sheet report as of a specific date (inclusive)
	BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error)

	// AnnualSummary lists the twelve months of a year, consolidated where available and drafted otherwise
	AnnualSummary(ctx context.Context, year int) (*domain.AnnualSummary, error)
}
