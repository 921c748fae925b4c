package repositories

import (
	"context"

	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
)

// UnitOfWork bundles the repositories bound to a single storage transaction.
type UnitOfWork interface {
	// LockMonth serializes writers of one competency month until the transaction ends.
	LockMonth(ctx context.Context, month domain.CompetencyMonth) error

	ChartAccounts() ChartAccountRepositoryFacade
	Postings() PostingRepositoryFacade
	Statements() StatementRepositoryFacade
	PendingPayments() PendingPaymentRepositoryFacade
	Sources() SourceReader
	TaxBrackets() TaxBracketRepositoryFacade
}

// TransactionManager runs a function inside a transaction.
// The transaction is carried in the context: calling WithinTx with a context that already
// holds one joins it instead of opening a nested transaction. fn returning an error rolls
// everything back.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, uow UnitOfWork) error) error
}
