package services

import (
	"context"
	"time"

	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AutomaticPostingSvc is the upsert-by-key discipline used by the consolidation engine.
type AutomaticPostingSvc interface {
	// UpsertAutomaticPosting updates the automatic posting for key in place, or inserts it.
	// It returns the posting id, which stays stable across recomputations.
	UpsertAutomaticPosting(ctx context.Context, key domain.PostingKey, fields domain.PostingFields) (string, error)

	// RemoveAutomaticPosting deletes the automatic posting for key, if one exists.
	RemoveAutomaticPosting(ctx context.Context, key domain.PostingKey) (bool, error)

	// EnsureAccounts fails with apperrors.ErrMissingChartAccount unless every code is a postable account.
	EnsureAccounts(ctx context.Context, codes []string) error
}

// ManualPostingSvc covers hand-booked postings.
type ManualPostingSvc interface {
	CreateManualPosting(ctx context.Context, req domain.NewManualPosting) (*domain.LedgerPosting, error)
	UpdateManualPosting(ctx context.Context, id string, update domain.PostingUpdate) (*domain.LedgerPosting, error)
	DeleteManualPosting(ctx context.Context, id string) error
	RegisterCapitalContribution(ctx context.Context, partnerID string, amount decimal.Decimal, date time.Time) (*domain.LedgerPosting, error)
}

// LedgerReaderSvc exposes postings and balances to reporting collaborators.
type LedgerReaderSvc interface {
	GetPosting(ctx context.Context, id string) (*domain.LedgerPosting, error)

	// ListPostings returns a page of postings and the token of the next page, if any.
	ListPostings(ctx context.Context, filter domain.PostingFilter) ([]domain.LedgerPosting, *string, error)

	SumDebits(ctx context.Context, accountCode string, from, to time.Time) (decimal.Decimal, error)
	SumCredits(ctx context.Context, accountCode string, from, to time.Time) (decimal.Decimal, error)
}

// LedgerIntegritySvc detects and repairs violations of the one-automatic-posting-per-key rule.
type LedgerIntegritySvc interface {
	FindDuplicates(ctx context.Context) ([]domain.DuplicateGroup, error)

	// ResolveDuplicates keeps the most recently written posting of every group and returns how many were deleted.
	ResolveDuplicates(ctx context.Context) (int, error)
}

// LedgerSvcFacade combines all ledger service interfaces
type LedgerSvcFacade interface {
	AutomaticPostingSvc
	ManualPostingSvc
	LedgerReaderSvc
	LedgerIntegritySvc
}
