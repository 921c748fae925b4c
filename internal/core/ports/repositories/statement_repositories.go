package repositories

import (
	"context"

	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
)

// StatementReader defines read operations for monthly income statements
type StatementReader interface {
	// FindStatementByMonth returns apperrors.ErrNotFound when the month has no statement.
	FindStatementByMonth(ctx context.Context, month domain.CompetencyMonth) (*domain.MonthlyIncomeStatement, error)

	// ListStatementsByYear returns the stored statements of a year ordered by month.
	ListStatementsByYear(ctx context.Context, year int) ([]domain.MonthlyIncomeStatement, error)
}

// StatementWriter defines write operations for monthly income statements
type StatementWriter interface {
	// SaveStatement inserts or replaces the statement of its competency month.
	SaveStatement(ctx context.Context, statement domain.MonthlyIncomeStatement) error
}

// StatementRepositoryFacade combines all statement-related repository interfaces
type StatementRepositoryFacade interface {
	StatementReader
	StatementWriter
}
