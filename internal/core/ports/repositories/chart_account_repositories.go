package repositories

import (
	"context"

	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
)

// ChartAccountReader defines read operations for the chart of accounts
type ChartAccountReader interface {
	// FindAccountByCode returns apperrors.ErrNotFound when the code is absent.
	FindAccountByCode(ctx context.Context, code string) (*domain.ChartAccount, error)

	// FindAccountsByCodes returns the subset of codes that exist, keyed by code.
	FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.ChartAccount, error)

	// ListAccounts returns the whole chart ordered by code.
	ListAccounts(ctx context.Context) ([]domain.ChartAccount, error)
}

// ChartAccountWriter defines write operations for the chart of accounts
type ChartAccountWriter interface {
	// SaveAccount inserts or replaces the account with the same code.
	SaveAccount(ctx context.Context, account domain.ChartAccount) error
}

// ChartAccountRepositoryFacade combines all chart-related repository interfaces
type ChartAccountRepositoryFacade interface {
	ChartAccountReader
	ChartAccountWriter
}
