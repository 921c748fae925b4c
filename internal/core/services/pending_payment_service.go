package services

import (
	"context"
	"errors"
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
	"github.com/SscSPs/lawfirm_ledger_app/internal/observability"
)

// minimumObligation is the amount at or below which no obligation is emitted.
var minimumObligation = decimal.RequireFromString("0.01")

// pendingPaymentService regenerates and tracks the month's obligations.
type pendingPaymentService struct {
	BaseService
	txm        portsrepo.TransactionManager
	statements portssvc.ConsolidationSvc
	metrics    *observability.Metrics
}

// PendingPaymentServiceOption is a functional option for configuring the pending payment service
type PendingPaymentServiceOption func(*pendingPaymentService)

// WithPendingPaymentMetrics counts generated records.
func WithPendingPaymentMetrics(m *observability.Metrics) PendingPaymentServiceOption {
	return func(s *pendingPaymentService) {
		s.metrics = m
	}
}

// WithPendingPaymentClock overrides the clock used for audit timestamps and default payment dates.
func WithPendingPaymentClock(now func() time.Time) PendingPaymentServiceOption {
	return func(s *pendingPaymentService) {
		s.now = now
	}
}

// NewPendingPaymentService creates the pending payments generator.
func NewPendingPaymentService(txm portsrepo.TransactionManager, statements portssvc.ConsolidationSvc, options ...PendingPaymentServiceOption) portssvc.PendingPaymentSvcFacade {
	svc := &pendingPaymentService{txm: txm, statements: statements}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.PendingPaymentSvcFacade = (*pendingPaymentService)(nil)

// Generate deletes the month's obligations and payment postings, consolidates the month if
// needed and recreates the obligations from the statement, all in one transaction.
func (s *pendingPaymentService) Generate(ctx context.Context, month, year int) ([]domain.PendingPayment, error) {
	m, err := domain.NewCompetencyMonth(year, month)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	var generated []domain.PendingPayment
	err = s.txm.WithinTx(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		if err := uow.LockMonth(ctx, m); err != nil {
			return fmt.Errorf("failed to lock %s: %w", m, err)
		}
		removed, err := uow.PendingPayments().DeletePendingPayments(ctx, month, year)
		if err != nil {
			return fmt.Errorf("failed to delete pending payments of %s: %w", m, err)
		}
		removedPostings, err := uow.Postings().DeletePostingsByMonthAndType(ctx, m, domain.EntryPayment)
		if err != nil {
			return fmt.Errorf("failed to delete payment postings of %s: %w", m, err)
		}

		stmt, err := s.statements.Consolidate(ctx, m, false)
		if err != nil {
			return err
		}

		generated = obligationsFor(stmt, s.Now())
		for _, p := range generated {
			if err := uow.PendingPayments().InsertPendingPayment(ctx, p); err != nil {
				return fmt.Errorf("failed to insert pending payment %s: %w", p.Type, err)
			}
		}
		s.LogInfo(ctx, "Pending payments regenerated",
			slog.String("month", m.String()),
			slog.Int64("removed", removed),
			slog.Int64("removed_payment_postings", removedPostings),
			slog.Int("created", len(generated)))
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to generate pending payments", slog.String("month", m.String()))
		return nil, err
	}
	s.metrics.PendingPaymentsGenerated(len(generated))
	return generated, nil
}

// obligationsFor derives at most one record per category plus one per distributed partner.
func obligationsFor(stmt *domain.MonthlyIncomeStatement, now time.Time) []domain.PendingPayment {
	ref := fmt.Sprintf("%02d/%04d", int(stmt.CompetencyMonth.Month), stmt.CompetencyMonth.Year)
	newRecord := func(t domain.PaymentType, description string, amount decimal.Decimal, partnerID *string) domain.PendingPayment {
		return domain.PendingPayment{
			ID:          uuid.NewString(),
			Type:        t,
			Description: description,
			Amount:      amount,
			MonthRef:    int(stmt.CompetencyMonth.Month),
			YearRef:     stmt.CompetencyMonth.Year,
			PartnerID:   partnerID,
			AmountPaid:  decimal.Zero,
			AuditFields: domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
		}
	}

	var out []domain.PendingPayment
	if stmt.Tax.GreaterThan(minimumObligation) {
		out = append(out, newRecord(domain.PaymentTax, "Simples Nacional "+ref, stmt.Tax, nil))
	}
	socialSecurity := stmt.EmployerSS.Add(stmt.EmployeeSS)
	if socialSecurity.GreaterThan(minimumObligation) {
		out = append(out, newRecord(domain.PaymentSocialSecurity, "INSS patronal e retido "+ref, socialSecurity, nil))
	}
	if stmt.Reserve.GreaterThan(minimumObligation) {
		out = append(out, newRecord(domain.PaymentReserveFund, "Reserva de lucros "+ref, stmt.Reserve, nil))
	}

	partners := make([]domain.PartnerAmount, len(stmt.PartnerDistribution))
	copy(partners, stmt.PartnerDistribution)
	sort.SliceStable(partners, func(i, j int) bool { return partners[i].PartnerName < partners[j].PartnerName })
	for _, pa := range partners {
		if !pa.Amount.GreaterThan(minimumObligation) {
			continue
		}
		description := "Lucros " + ref + " - " + pa.PartnerName
		if pa.PartnerID == stmt.AdministratorID {
			description = "Pró-labore líquido " + ref + " - " + pa.PartnerName
		}
		partnerID := pa.PartnerID
		out = append(out, newRecord(domain.PaymentProfitPerPartner, description, pa.Amount, &partnerID))
	}
	return out
}

func (s *pendingPaymentService) List(ctx context.Context, month, year int) ([]domain.PendingPayment, error) {
	if _, err := domain.NewCompetencyMonth(year, month); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	var payments []domain.PendingPayment
	err := s.txm.WithinTx(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		var err error
		payments, err = uow.PendingPayments().ListPendingPayments(ctx, month, year)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pending payments: %w", err)
	}
	return payments, nil
}

// debitAccountFor picks the liability (or reserve asset) settled by paying the obligation.
func debitAccountFor(p domain.PendingPayment, administratorID string) string {
	switch p.Type {
	case domain.PaymentTax:
		return domain.CodeTaxPayable
	case domain.PaymentSocialSecurity:
		return domain.CodeSocialSecurityDue
	case domain.PaymentReserveFund:
		return domain.CodeReserveInvestment
	default:
		if p.PartnerID != nil && *p.PartnerID == administratorID {
			return domain.CodeProLaborePayable
		}
		return domain.CodeProfitsPayable
	}
}

// Pay books a payment posting (cash out) for the obligation. Partial payments chain to the
// first payment posting through originPostingID; the obligation is confirmed once fully paid.
func (s *pendingPaymentService) Pay(ctx context.Context, id string, req domain.PaymentRequest) (*domain.PendingPayment, error) {
	var result *domain.PendingPayment
	err := s.txm.WithinTx(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		p, err := uow.PendingPayments().FindPendingPaymentByID(ctx, id)
		if err != nil {
			return fmt.Errorf("pending payment %s: %w", id, err)
		}
		month := p.CompetencyMonth()
		if err := uow.LockMonth(ctx, month); err != nil {
			return fmt.Errorf("failed to lock %s: %w", month, err)
		}
		if p.Confirmed {
			return fmt.Errorf("%w: pending payment %s is already confirmed", apperrors.ErrValidation, id)
		}

		outstanding := p.Outstanding()
		amount := outstanding
		if req.Amount != nil {
			amount = roundCents(*req.Amount)
		}
		if !amount.IsPositive() {
			return fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
		}
		if amount.GreaterThan(outstanding) {
			return fmt.Errorf("%w: payment %s exceeds outstanding %s", apperrors.ErrValidation, amount.StringFixed(2), outstanding.StringFixed(2))
		}

		administratorID := ""
		stmt, err := uow.Statements().FindStatementByMonth(ctx, month)
		switch {
		case err == nil:
			administratorID = stmt.AdministratorID
		case !errors.Is(err, apperrors.ErrNotFound):
			return fmt.Errorf("failed to load statement %s: %w", month, err)
		}
		debit := debitAccountFor(*p, administratorID)
		if err := ensureAccounts(ctx, uow, []string{debit, domain.CodeCash}); err != nil {
			return err
		}

		now := s.Now()
		date := req.Date
		if date.IsZero() {
			date = now
		}
		posting := domain.LedgerPosting{
			ID:              uuid.NewString(),
			Date:            date,
			DebitAccount:    debit,
			CreditAccount:   domain.CodeCash,
			Amount:          amount,
			History:         "Pagamento " + p.Description,
			Automatic:       false,
			Editable:        false,
			EntryType:       domain.EntryPayment,
			CompetencyMonth: &month,
			Paid:            true,
			OriginPostingID: p.PaymentPostingID,
			AuditFields:     domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
		}
		if err := uow.Postings().InsertPosting(ctx, posting); err != nil {
			return fmt.Errorf("failed to book payment posting: %w", err)
		}

		paid := p.AmountPaid.Add(amount)
		update := domain.PendingPaymentUpdate{AmountPaid: &paid}
		if p.PaymentPostingID == nil {
			update.PaymentPostingID = &posting.ID
		}
		if paid.GreaterThanOrEqual(p.Amount) {
			confirmed := true
			update.Confirmed = &confirmed
			update.ConfirmedAt = &now
		}
		if err := uow.PendingPayments().UpdatePendingPayment(ctx, id, update); err != nil {
			return fmt.Errorf("failed to update pending payment %s: %w", id, err)
		}
		result, err = uow.PendingPayments().FindPendingPaymentByID(ctx, id)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to register payment", slog.String("pending_payment_id", id))
		return nil, err
	}
	s.LogInfo(ctx, "Payment registered",
		slog.String("pending_payment_id", id),
		slog.String("amount_paid", result.AmountPaid.StringFixed(2)),
		slog.Bool("confirmed", result.Confirmed))
	return result, nil
}
