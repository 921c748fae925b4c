package repositories

import (
	"context"

	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
)

// StatementCache keeps consolidated statements close to readers.
// A miss is reported as (nil, false, nil).
type StatementCache interface {
	GetStatement(ctx context.Context, month domain.CompetencyMonth) (*domain.MonthlyIncomeStatement, bool, error)
	SetStatement(ctx context.Context, statement domain.MonthlyIncomeStatement) error
	InvalidateStatement(ctx context.Context, month domain.CompetencyMonth) error
}
