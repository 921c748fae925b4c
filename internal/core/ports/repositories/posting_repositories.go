package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PostingReader defines read operations for ledger postings
type PostingReader interface {
	// FindPostingByID returns apperrors.ErrNotFound when absent.
	FindPostingByID(ctx context.Context, id string) (*domain.LedgerPosting, error)

	// FindAutomaticByKey returns every automatic posting matching the key, most recently written first.
	FindAutomaticByKey(ctx context.Context, key domain.PostingKey) ([]domain.LedgerPosting, error)

	// ListPostings returns postings ordered by (date, id) after the filter's cursor.
	ListPostings(ctx context.Context, filter domain.PostingFilter) ([]domain.LedgerPosting, error)

	// ListPostingsByOrigin returns the postings chained to originID.
	ListPostingsByOrigin(ctx context.Context, originID string) ([]domain.LedgerPosting, error)

	// FindDuplicateKeys groups automatic postings sharing a key, keeping only groups of two or more.
	FindDuplicateKeys(ctx context.Context) ([]domain.DuplicateGroup, error)

	// SumDebits totals postings debiting the account with from <= date < to.
	SumDebits(ctx context.Context, accountCode string, from, to time.Time) (decimal.Decimal, error)

	// SumCredits totals postings crediting the account with from <= date < to.
	SumCredits(ctx context.Context, accountCode string, from, to time.Time) (decimal.Decimal, error)

	// AccountTotals returns debit and credit totals per account for postings dated before the bound.
	AccountTotals(ctx context.Context, before time.Time) (map[string]domain.TrialBalanceRow, error)
}

// PostingWriter defines write operations for ledger postings
type PostingWriter interface {
	InsertPosting(ctx context.Context, posting domain.LedgerPosting) error

	// UpdatePosting overwrites the mutable columns of an existing posting.
	UpdatePosting(ctx context.Context, posting domain.LedgerPosting) error

	DeletePosting(ctx context.Context, id string) error

	// DeletePostingsByMonthAndType removes every posting of a type in a competency month.
	DeletePostingsByMonthAndType(ctx context.Context, month domain.CompetencyMonth, entryType domain.EntryType) (int64, error)
}

// PostingRepositoryFacade combines all posting-related repository interfaces
type PostingRepositoryFacade interface {
	PostingReader
	PostingWriter
}
