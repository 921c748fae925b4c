package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/lawfirm_ledger_app/internal/apperrors"
	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/lawfirm_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/lawfirm_ledger_app/internal/core/ports/services"
)

// chartService implements the ChartOfAccountsSvcFacade interface
type chartService struct {
	BaseService
	txm portsrepo.TransactionManager
}

// ChartServiceOption is a functional option for configuring the chart service
type ChartServiceOption func(*chartService)

// WithChartClock overrides the clock used to stamp audit fields.
func WithChartClock(now func() time.Time) ChartServiceOption {
	return func(s *chartService) {
		s.now = now
	}
}

// NewChartService creates a new chart of accounts service with the provided options
func NewChartService(txm portsrepo.TransactionManager, options ...ChartServiceOption) portssvc.ChartOfAccountsSvcFacade {
	svc := &chartService{txm: txm}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure chartService implements the ChartOfAccountsSvcFacade interface
var _ portssvc.ChartOfAccountsSvcFacade = (*chartService)(nil)

func (s *chartService) ListAccounts(ctx context.Context) ([]domain.ChartAccount, error) {
	var accounts []domain.ChartAccount
	err := s.txm.WithinTx(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		var err error
		accounts, err = uow.ChartAccounts().ListAccounts(ctx)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list chart accounts")
		return nil, err
	}
	return accounts, nil
}

func (s *chartService) GetAccount(ctx context.Context, code string) (*domain.ChartAccount, error) {
	var account *domain.ChartAccount
	err := s.txm.WithinTx(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		var err error
		account, err = uow.ChartAccounts().FindAccountByCode(ctx, code)
		return err
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// normalizeChart checks the hierarchy of a full chart and fills derived fields.
// Level and parent follow from the code, the type from its root segment, and only leaves are postable.
func normalizeChart(accounts []domain.ChartAccount) ([]domain.ChartAccount, error) {
	byCode := make(map[string]int, len(accounts))
	for i, acc := range accounts {
		if err := domain.ValidateCode(acc.Code); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidChart, err)
		}
		if _, dup := byCode[acc.Code]; dup {
			return nil, fmt.Errorf("%w: account code %s appears twice", apperrors.ErrInvalidChart, acc.Code)
		}
		byCode[acc.Code] = i
	}

	hasChildren := make(map[string]bool, len(accounts))
	out := make([]domain.ChartAccount, 0, len(accounts))
	for _, acc := range accounts {
		parent := domain.ParentCodeOf(acc.Code)
		if acc.ParentCode != "" && acc.ParentCode != parent {
			return nil, fmt.Errorf("%w: account %s declares parent %s, expected %s", apperrors.ErrInvalidChart, acc.Code, acc.ParentCode, parent)
		}
		if parent != "" {
			if _, ok := byCode[parent]; !ok {
				return nil, fmt.Errorf("%w: parent %s of account %s is missing", apperrors.ErrInvalidChart, parent, acc.Code)
			}
			hasChildren[parent] = true
		}
		rootType, _ := domain.RootTypeOf(acc.Code)
		if acc.Type != "" && acc.Type != rootType {
			return nil, fmt.Errorf("%w: account %s is %s but sits under a %s root", apperrors.ErrInvalidChart, acc.Code, acc.Type, rootType)
		}
		if acc.Description == "" {
			return nil, fmt.Errorf("%w: account %s has no description", apperrors.ErrInvalidChart, acc.Code)
		}
		acc.Type = rootType
		acc.ParentCode = parent
		acc.Level = domain.CodeLevel(acc.Code)
		if acc.Nature == "" {
			acc.Nature = domain.DefaultNature(rootType)
		}
		out = append(out, acc)
	}
	for i := range out {
		out[i].Postable = !hasChildren[out[i].Code]
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// SeedChart validates the chart and saves it. Accounts already stored keep their id and creation time.
func (s *chartService) SeedChart(ctx context.Context, accounts []domain.ChartAccount) (int, error) {
	normalized, err := normalizeChart(accounts)
	if err != nil {
		s.LogError(ctx, err, "Rejected chart of accounts")
		return 0, err
	}
	for _, code := range domain.RequiredAccountCodes {
		found := false
		for _, acc := range normalized {
			if acc.Code == code {
				found = acc.Postable
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("%w: required postable account %s", apperrors.ErrMissingChartAccount, code)
		}
	}

	now := s.Now()
	err = s.txm.WithinTx(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		existing, err := uow.ChartAccounts().ListAccounts(ctx)
		if err != nil {
			return err
		}
		current := make(map[string]domain.ChartAccount, len(existing))
		for _, acc := range existing {
			current[acc.Code] = acc
		}
		for _, acc := range normalized {
			if prev, ok := current[acc.Code]; ok {
				acc.ID = prev.ID
				acc.CreatedAt = prev.CreatedAt
			} else {
				if acc.ID == "" {
					acc.ID = uuid.NewString()
				}
				acc.CreatedAt = now
			}
			acc.LastUpdatedAt = now
			if err := uow.ChartAccounts().SaveAccount(ctx, acc); err != nil {
				return fmt.Errorf("saving account %s: %w", acc.Code, err)
			}
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to seed chart of accounts")
		return 0, err
	}
	s.LogInfo(ctx, "Chart of accounts seeded", slog.Int("accounts", len(normalized)))
	return len(normalized), nil
}

// validateBrackets checks one validity window at a time: orders are unique and upper limits grow with order.
func validateBrackets(brackets []domain.TaxBracket) error {
	windows := make(map[string][]domain.TaxBracket)
	for _, b := range brackets {
		if b.Order < 1 {
			return fmt.Errorf("%w: bracket order must be positive, got %d", apperrors.ErrValidation, b.Order)
		}
		if !b.UpperLimit.IsPositive() {
			return fmt.Errorf("%w: bracket %d has a non-positive upper limit", apperrors.ErrValidation, b.Order)
		}
		if b.NominalRate.IsNegative() || b.NominalRate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("%w: bracket %d nominal rate %s outside [0, 1]", apperrors.ErrValidation, b.Order, b.NominalRate)
		}
		if b.Deduction.IsNegative() {
			return fmt.Errorf("%w: bracket %d has a negative deduction", apperrors.ErrValidation, b.Order)
		}
		if b.ValidTo != nil && b.ValidTo.Before(b.ValidFrom) {
			return fmt.Errorf("%w: bracket %d ends before it starts", apperrors.ErrValidation, b.Order)
		}
		key := b.ValidFrom.Format(time.DateOnly)
		windows[key] = append(windows[key], b)
	}
	for from, group := range windows {
		sort.Slice(group, func(i, j int) bool { return group[i].Order < group[j].Order })
		for i := 1; i < len(group); i++ {
			if group[i].Order == group[i-1].Order {
				return fmt.Errorf("%w: bracket order %d repeated for %s", apperrors.ErrValidation, group[i].Order, from)
			}
			if !group[i].UpperLimit.GreaterThan(group[i-1].UpperLimit) {
				return fmt.Errorf("%w: bracket %d upper limit does not exceed bracket %d", apperrors.ErrValidation, group[i].Order, group[i-1].Order)
			}
		}
	}
	return nil
}

// SeedTaxBrackets saves the bracket table. A bracket matching a stored one by window and order keeps its id.
func (s *chartService) SeedTaxBrackets(ctx context.Context, brackets []domain.TaxBracket) (int, error) {
	if err := validateBrackets(brackets); err != nil {
		s.LogError(ctx, err, "Rejected tax bracket table")
		return 0, err
	}
	err := s.txm.WithinTx(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		existing, err := uow.TaxBrackets().ListTaxBrackets(ctx)
		if err != nil {
			return err
		}
		ids := make(map[string]string, len(existing))
		for _, b := range existing {
			ids[bracketSlot(b)] = b.ID
		}
		for _, b := range brackets {
			if id, ok := ids[bracketSlot(b)]; ok {
				b.ID = id
			} else if b.ID == "" {
				b.ID = uuid.NewString()
			}
			if err := uow.TaxBrackets().SaveTaxBracket(ctx, b); err != nil {
				return fmt.Errorf("saving tax bracket %d: %w", b.Order, err)
			}
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to seed tax brackets")
		return 0, err
	}
	s.LogInfo(ctx, "Tax brackets seeded", slog.Int("brackets", len(brackets)))
	return len(brackets), nil
}

func bracketSlot(b domain.TaxBracket) string {
	return fmt.Sprintf("%s#%d", b.ValidFrom.Format(time.DateOnly), b.Order)
}
