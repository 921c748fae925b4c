package repositories

import (
	"context"

	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
)

// TaxBracketReader defines read operations for the progressive tax table
type TaxBracketReader interface {
	// ListTaxBrackets returns every bracket, whatever its validity window, ordered by valid_from then order.
	ListTaxBrackets(ctx context.Context) ([]domain.TaxBracket, error)
}

// TaxBracketWriter defines write operations for the progressive tax table
type TaxBracketWriter interface {
	// SaveTaxBracket inserts or replaces the bracket with the same id.
	SaveTaxBracket(ctx context.Context, bracket domain.TaxBracket) error
}

// TaxBracketRepositoryFacade combines all tax-table repository interfaces
type TaxBracketRepositoryFacade interface {
	TaxBracketReader
	TaxBracketWriter
}
