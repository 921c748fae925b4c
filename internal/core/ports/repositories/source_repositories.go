package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SourceReader exposes the records the engine consumes but does not own.
type SourceReader interface {
	ListPartners(ctx context.Context) ([]domain.Partner, error)

	FindPartnerByID(ctx context.Context, id string) (*domain.Partner, error)

	// ListRevenueEntries returns entries with from <= date < to.
	ListRevenueEntries(ctx context.Context, from, to time.Time) ([]domain.RevenueEntry, error)

	// ListExpenseEntries returns entries with from <= date < to.
	ListExpenseEntries(ctx context.Context, from, to time.Time) ([]domain.ExpenseEntry, error)

	// SumRevenue totals revenue entries with from <= date < to.
	SumRevenue(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
}
