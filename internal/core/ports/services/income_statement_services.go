package services

import (
	"context"

	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
)

// IncomeStatementReaderSvc exposes the monthly statements.
type IncomeStatementReaderSvc interface {
	// ComputeDraft computes the month's figures without persisting anything.
	ComputeDraft(ctx context.Context, month domain.CompetencyMonth) (*domain.MonthlyIncomeStatement, error)

	// GetStatement returns the stored statement or apperrors.ErrNotFound.
	GetStatement(ctx context.Context, month domain.CompetencyMonth) (*domain.MonthlyIncomeStatement, error)

	ListStatements(ctx context.Context, year int) ([]domain.MonthlyIncomeStatement, error)
}

// ConsolidationSvc owns the draft/consolidated lifecycle.
type ConsolidationSvc interface {
	// Consolidate freezes the month and books its closing postings. Without force an
	// already consolidated month is returned unchanged.
	Consolidate(ctx context.Context, month domain.CompetencyMonth, force bool) (*domain.MonthlyIncomeStatement, error)

	// Deconsolidate returns the month to draft and leaves its postings in place.
	Deconsolidate(ctx context.Context, month domain.CompetencyMonth) (*domain.MonthlyIncomeStatement, error)
}

// IncomeStatementSvcFacade combines income statement service interfaces
type IncomeStatementSvcFacade interface {
	IncomeStatementReaderSvc
	ConsolidationSvc
}
