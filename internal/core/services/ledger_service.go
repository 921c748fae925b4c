package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/lawfirm_ledger_app/internal/apperrors"
	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/lawfirm_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/lawfirm_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/lawfirm_ledger_app/internal/utils/accounting"
	"github.com/SscSPs/lawfirm_ledger_app/internal/utils/pagination"
)

const (
	defaultPostingPageSize = 50
	maxPostingPageSize     = 500
)

// manualEntryTypes are the entry types a person may book by hand. The others belong to the engine.
var manualEntryTypes = map[domain.EntryType]struct{}{
	domain.EntryAdjustment:          {},
	domain.EntryCapitalContribution: {},
}

// ledgerService books postings against the chart of accounts.
type ledgerService struct {
	BaseService
	txm portsrepo.TransactionManager
}

// LedgerServiceOption is a functional option for configuring the ledger service
type LedgerServiceOption func(*ledgerService)

// WithLedgerClock overrides the clock used for audit timestamps.
func WithLedgerClock(now func() time.Time) LedgerServiceOption {
	return func(s *ledgerService) {
		s.now = now
	}
}

// NewLedgerService creates a new ledger service with the provided options
func NewLedgerService(txm portsrepo.TransactionManager, options ...LedgerServiceOption) portssvc.LedgerSvcFacade {
	svc := &ledgerService{txm: txm}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// UpsertAutomaticPosting enforces at most one automatic posting per key. An existing row is
// updated in place and keeps its id; a key already held by several rows is refused.
func (s *ledgerService) UpsertAutomaticPosting(ctx context.Context, key domain.PostingKey, fields domain.PostingFields) (string, error) {
	if key.Month.IsZero() || key.EntryType == "" {
		return "", fmt.Errorf("%w: automatic posting key needs a competency month and an entry type", apperrors.ErrValidation)
	}
	if !fields.Amount.IsPositive() {
		return "", fmt.Errorf("%w: automatic posting amount must be positive, got %s", apperrors.ErrValidation, fields.Amount)
	}

	var postingID string
	err := s.txm.WithinTx(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		if _, _, err := s.loadPostableAccounts(ctx, uow, key.DebitAccount, key.CreditAccount); err != nil {
			return err
		}

		existing, err := uow.Postings().FindAutomaticByKey(ctx, key)
		if err != nil {
			return fmt.Errorf("failed to look up automatic posting %s: %w", key, err)
		}

		now := s.Now()
		switch len(existing) {
		case 0:
			month := key.Month
			posting := domain.LedgerPosting{
				ID:              uuid.NewString(),
				Date:            fields.Date,
				DebitAccount:    key.DebitAccount,
				CreditAccount:   key.CreditAccount,
				Amount:          fields.Amount,
				History:         fields.History,
				Automatic:       true,
				Editable:        false,
				EntryType:       key.EntryType,
				CompetencyMonth: &month,
				AuditFields:     domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
			}
			if err := uow.Postings().InsertPosting(ctx, posting); err != nil {
				return fmt.Errorf("failed to insert automatic posting %s: %w", key, err)
			}
			postingID = posting.ID
			s.LogDebug(ctx, "Automatic posting created", slog.String("key", key.String()), slog.String("posting_id", posting.ID))
		case 1:
			posting := existing[0]
			postingID = posting.ID
			if posting.Date.Equal(fields.Date) && posting.Amount.Equal(fields.Amount) && posting.History == fields.History {
				return nil
			}
			posting.Date = fields.Date
			posting.Amount = fields.Amount
			posting.History = fields.History
			posting.LastUpdatedAt = now
			if err := uow.Postings().UpdatePosting(ctx, posting); err != nil {
				return fmt.Errorf("failed to update automatic posting %s: %w", key, err)
			}
			s.LogDebug(ctx, "Automatic posting updated in place", slog.String("key", key.String()), slog.String("posting_id", posting.ID))
		default:
			return fmt.Errorf("%w: %s held by %d postings", apperrors.ErrDuplicatePostingInvariantViolated, key, len(existing))
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return postingID, nil
}

// RemoveAutomaticPosting deletes the automatic posting for key when a recomputed amount drops to zero.
func (s *ledgerService) RemoveAutomaticPosting(ctx context.Context, key domain.PostingKey) (bool, error) {
	removed := false
	err := s.txm.WithinTx(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		existing, err := uow.Postings().FindAutomaticByKey(ctx, key)
		if err != nil {
			return fmt.Errorf("failed to look up automatic posting %s: %w", key, err)
		}
		if len(existing) > 1 {
			return fmt.Errorf("%w: %s held by %d postings", apperrors.ErrDuplicatePostingInvariantViolated, key, len(existing))
		}
		if len(existing) == 0 {
			return nil
		}
		if err := uow.Postings().DeletePosting(ctx, existing[0].ID); err != nil {
			return fmt.Errorf("failed to delete automatic posting %s: %w", key, err)
		}
		removed = true
		return nil
	})
	return removed, err
}

// EnsureAccounts checks that every code exists and is postable.
func (s *ledgerService) EnsureAccounts(ctx context.Context, codes []string) error {
	return s.txm.WithinTx(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		return ensureAccounts(ctx, uow, codes)
	})
}

func ensureAccounts(ctx context.Context, uow portsrepo.UnitOfWork, codes []string) error {
	found, err := uow.ChartAccounts().FindAccountsByCodes(ctx, codes)
	if err != nil {
		return fmt.Errorf("failed to load chart accounts: %w", err)
	}
	for _, code := range codes {
		acc, ok := found[code]
		if !ok {
			return fmt.Errorf("%w: %s", apperrors.ErrMissingChartAccount, code)
		}
		if !acc.Postable {
			return fmt.Errorf("%w: %s (%s) is synthetic", apperrors.ErrMissingChartAccount, code, acc.Description)
		}
	}
	return nil
}

// loadPostableAccounts resolves both legs of a posting, rejecting missing and synthetic accounts.
func (s *ledgerService) loadPostableAccounts(ctx context.Context, uow portsrepo.UnitOfWork, debitCode, creditCode string) (domain.ChartAccount, domain.ChartAccount, error) {
	found, err := uow.ChartAccounts().FindAccountsByCodes(ctx, []string{debitCode, creditCode})
	if err != nil {
		return domain.ChartAccount{}, domain.ChartAccount{}, fmt.Errorf("failed to load chart accounts: %w", err)
	}
	debit, ok := found[debitCode]
	if !ok {
		return domain.ChartAccount{}, domain.ChartAccount{}, fmt.Errorf("%w: %s", apperrors.ErrMissingChartAccount, debitCode)
	}
	credit, ok := found[creditCode]
	if !ok {
		return domain.ChartAccount{}, domain.ChartAccount{}, fmt.Errorf("%w: %s", apperrors.ErrMissingChartAccount, creditCode)
	}
	if err := accounting.ValidatePostingAccounts(debit, credit); err != nil {
		if !debit.Postable || !credit.Postable {
			return debit, credit, fmt.Errorf("%w: %v", apperrors.ErrAccountNotPostable, err)
		}
		return debit, credit, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return debit, credit, nil
}

// guardMonth rejects manual changes to a competency month whose statement is consolidated.
func guardMonth(ctx context.Context, uow portsrepo.UnitOfWork, month *domain.CompetencyMonth) error {
	if month == nil {
		return nil
	}
	stmt, err := uow.Statements().FindStatementByMonth(ctx, *month)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load statement %s: %w", month, err)
	}
	if stmt.Consolidated {
		return fmt.Errorf("%w: %s", apperrors.ErrMonthConsolidated, month)
	}
	return nil
}

// CreateManualPosting books a hand-entered posting.
func (s *ledgerService) CreateManualPosting(ctx context.Context, req domain.NewManualPosting) (*domain.LedgerPosting, error) {
	if req.EntryType == "" {
		req.EntryType = domain.EntryAdjustment
	}
	if _, ok := manualEntryTypes[req.EntryType]; !ok {
		return nil, fmt.Errorf("%w: entry type %q is reserved for automatic postings", apperrors.ErrValidation, req.EntryType)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: posting amount must be positive", apperrors.ErrValidation)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: posting date is required", apperrors.ErrValidation)
	}

	var created domain.LedgerPosting
	err := s.txm.WithinTx(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		if _, _, err := s.loadPostableAccounts(ctx, uow, req.DebitAccount, req.CreditAccount); err != nil {
			return err
		}
		if err := guardMonth(ctx, uow, req.CompetencyMonth); err != nil {
			return err
		}
		if req.OriginPostingID != nil {
			if _, err := uow.Postings().FindPostingByID(ctx, *req.OriginPostingID); err != nil {
				return fmt.Errorf("origin posting %s: %w", *req.OriginPostingID, err)
			}
		}
		now := s.Now()
		created = domain.LedgerPosting{
			ID:              uuid.NewString(),
			Date:            req.Date,
			DebitAccount:    req.DebitAccount,
			CreditAccount:   req.CreditAccount,
			Amount:          roundCents(req.Amount),
			History:         req.History,
			Automatic:       false,
			Editable:        true,
			EntryType:       req.EntryType,
			CompetencyMonth: req.CompetencyMonth,
			Paid:            req.Paid,
			OriginPostingID: req.OriginPostingID,
			AuditFields:     domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
		}
		return uow.Postings().InsertPosting(ctx, created)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create manual posting",
			slog.String("debit", req.DebitAccount),
			slog.String("credit", req.CreditAccount))
		return nil, err
	}
	s.LogInfo(ctx, "Manual posting created", slog.String("posting_id", created.ID))
	return &created, nil
}

// UpdateManualPosting applies the explicit field update to an editable posting.
func (s *ledgerService) UpdateManualPosting(ctx context.Context, id string, update domain.PostingUpdate) (*domain.LedgerPosting, error) {
	if update.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to update", apperrors.ErrValidation)
	}
	if update.Amount != nil && !update.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: posting amount must be positive", apperrors.ErrValidation)
	}

	var updated domain.LedgerPosting
	err := s.txm.WithinTx(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		posting, err := s.editablePosting(ctx, uow, id)
		if err != nil {
			return err
		}
		if update.Date != nil {
			posting.Date = *update.Date
		}
		if update.Amount != nil {
			posting.Amount = roundCents(*update.Amount)
		}
		if update.History != nil {
			posting.History = *update.History
		}
		if update.Paid != nil {
			posting.Paid = *update.Paid
		}
		posting.LastUpdatedAt = s.Now()
		if err := uow.Postings().UpdatePosting(ctx, *posting); err != nil {
			return fmt.Errorf("failed to update posting %s: %w", id, err)
		}
		updated = *posting
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteManualPosting removes an editable posting.
func (s *ledgerService) DeleteManualPosting(ctx context.Context, id string) error {
	return s.txm.WithinTx(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		if _, err := s.editablePosting(ctx, uow, id); err != nil {
			return err
		}
		chained, err := uow.Postings().ListPostingsByOrigin(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to check posting chain of %s: %w", id, err)
		}
		if len(chained) > 0 {
			return fmt.Errorf("%w: posting %s is the origin of %d postings", apperrors.ErrValidation, id, len(chained))
		}
		return uow.Postings().DeletePosting(ctx, id)
	})
}

func (s *ledgerService) editablePosting(ctx context.Context, uow portsrepo.UnitOfWork, id string) (*domain.LedgerPosting, error) {
	posting, err := uow.Postings().FindPostingByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("posting %s: %w", id, err)
	}
	if posting.Automatic || !posting.Editable {
		return nil, fmt.Errorf("%w: posting %s (%s)", apperrors.ErrPostingNotEditable, id, posting.EntryType)
	}
	if err := guardMonth(ctx, uow, posting.CompetencyMonth); err != nil {
		return nil, err
	}
	return posting, nil
}

// RegisterCapitalContribution books a partner's capital paid in cash.
func (s *ledgerService) RegisterCapitalContribution(ctx context.Context, partnerID string, amount decimal.Decimal, date time.Time) (*domain.LedgerPosting, error) {
	var posting *domain.LedgerPosting
	err := s.txm.WithinTx(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		partner, err := uow.Sources().FindPartnerByID(ctx, partnerID)
		if err != nil {
			return fmt.Errorf("partner %s: %w", partnerID, err)
		}
		posting, err = s.CreateManualPosting(ctx, domain.NewManualPosting{
			Date:          date,
			DebitAccount:  domain.CodeCash,
			CreditAccount: domain.CodeCapital,
			Amount:        amount,
			History:       "Integralização de capital - " + partner.Name,
			EntryType:     domain.EntryCapitalContribution,
			Paid:          true,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return posting, nil
}

func (s *ledgerService) GetPosting(ctx context.Context, id string) (*domain.LedgerPosting, error) {
	var posting *domain.LedgerPosting
	err := s.txm.WithinTx(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		var err error
		posting, err = uow.Postings().FindPostingByID(ctx, id)
		return err
	})
	return posting, err
}

// ListPostings returns one page ordered by (date, id) and the token of the next page.
func (s *ledgerService) ListPostings(ctx context.Context, filter domain.PostingFilter) ([]domain.LedgerPosting, *string, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultPostingPageSize
	}
	if filter.Limit > maxPostingPageSize {
		filter.Limit = maxPostingPageSize
	}
	pageSize := filter.Limit
	filter.Limit = pageSize + 1

	var postings []domain.LedgerPosting
	err := s.txm.WithinTx(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		var err error
		postings, err = uow.Postings().ListPostings(ctx, filter)
		return err
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list postings: %w", err)
	}

	var next *string
	if len(postings) > pageSize {
		postings = postings[:pageSize]
		last := postings[pageSize-1]
		token := pagination.EncodeToken(last.Date, last.ID)
		next = &token
	}
	return postings, next, nil
}

func (s *ledgerService) SumDebits(ctx context.Context, accountCode string, from, to time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	err := s.txm.WithinTx(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		var err error
		total, err = uow.Postings().SumDebits(ctx, accountCode, from, to)
		return err
	})
	return total, err
}

func (s *ledgerService) SumCredits(ctx context.Context, accountCode string, from, to time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	err := s.txm.WithinTx(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		var err error
		total, err = uow.Postings().SumCredits(ctx, accountCode, from, to)
		return err
	})
	return total, err
}

// FindDuplicates reports every automatic key held by more than one posting.
func (s *ledgerService) FindDuplicates(ctx context.Context) ([]domain.DuplicateGroup, error) {
	var groups []domain.DuplicateGroup
	err := s.txm.WithinTx(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		var err error
		groups, err = uow.Postings().FindDuplicateKeys(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan for duplicate postings: %w", err)
	}
	if len(groups) > 0 {
		s.LogError(ctx, apperrors.ErrDuplicatePostingInvariantViolated, "Duplicate automatic postings detected",
			slog.Int("groups", len(groups)))
	}
	return groups, nil
}

// ResolveDuplicates collapses every duplicated key to its most recently written posting.
func (s *ledgerService) ResolveDuplicates(ctx context.Context) (int, error) {
	removed := 0
	err := s.txm.WithinTx(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		groups, err := uow.Postings().FindDuplicateKeys(ctx)
		if err != nil {
			return err
		}
		for _, g := range groups {
			rows, err := uow.Postings().FindAutomaticByKey(ctx, g.Key)
			if err != nil {
				return err
			}
			if len(rows) < 2 {
				continue
			}
			// rows are ordered most recent first
			for _, stale := range rows[1:] {
				if err := uow.Postings().DeletePosting(ctx, stale.ID); err != nil {
					return fmt.Errorf("failed to delete duplicate posting %s: %w", stale.ID, err)
				}
				removed++
			}
			s.LogWarn(ctx, "Duplicate automatic postings collapsed",
				slog.String("key", g.Key.String()),
				slog.String("kept", rows[0].ID),
				slog.Int("deleted", len(rows)-1))
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to resolve duplicate postings: %w", err)
	}
	return removed, nil
}
