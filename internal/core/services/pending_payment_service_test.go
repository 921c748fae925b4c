package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/lawfirm_ledger_app/internal/apperrors"
	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
)

type PendingPaymentServiceTestSuite struct {
	engineSuite
}

func TestPendingPaymentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PendingPaymentServiceTestSuite))
}

type obligation struct {
	Type        domain.PaymentType
	Description string
	Amount      string
}

func summarize(payments []domain.PendingPayment) []obligation {
	out := make([]obligation, len(payments))
	for i, p := range payments {
		out[i] = obligation{Type: p.Type, Description: p.Description, Amount: p.Amount.StringFixed(2)}
	}
	return out
}

func (s *PendingPaymentServiceTestSuite) findByType(payments []domain.PendingPayment, t domain.PaymentType) domain.PendingPayment {
	for _, p := range payments {
		if p.Type == t {
			return p
		}
	}
	s.FailNow("pending payment not found", string(t))
	return domain.PendingPayment{}
}

func (s *PendingPaymentServiceTestSuite) TestGenerate() {
	generated, err := s.container.PendingPayments.Generate(s.ctx, 3, 2024)
	s.Require().NoError(err)

	s.Equal([]obligation{
		{domain.PaymentTax, "Simples Nacional 03/2024", "450.00"},
		{domain.PaymentSocialSecurity, "INSS patronal e retido 03/2024", "470.58"},
		{domain.PaymentReserveFund, "Reserva de lucros 03/2024", "924.64"},
		{domain.PaymentProfitPerPartner, "Pró-labore líquido 03/2024 - Ana Souza", "1351.02"},
		{domain.PaymentProfitPerPartner, "Lucros 03/2024 - Bruno Lima", "1664.35"},
	}, summarize(generated))

	// generation consolidates the month on the way
	stmt, err := s.container.Statements.GetStatement(s.ctx, march2024)
	s.Require().NoError(err)
	s.True(stmt.Consolidated)

	listed, err := s.container.PendingPayments.List(s.ctx, 3, 2024)
	s.Require().NoError(err)
	s.Equal(summarize(generated), summarize(listed))
}

func (s *PendingPaymentServiceTestSuite) TestGenerate_ReplacesPreviousRun() {
	first, err := s.container.PendingPayments.Generate(s.ctx, 3, 2024)
	s.Require().NoError(err)

	tax := s.findByType(first, domain.PaymentTax)
	_, err = s.container.PendingPayments.Pay(s.ctx, tax.ID, domain.PaymentRequest{Date: day(2024, time.April, 20)})
	s.Require().NoError(err)

	second, err := s.container.PendingPayments.Generate(s.ctx, 3, 2024)
	s.Require().NoError(err)
	s.Equal(summarize(first), summarize(second))

	listed, err := s.container.PendingPayments.List(s.ctx, 3, 2024)
	s.Require().NoError(err)
	s.Len(listed, len(first))
	for _, p := range listed {
		s.False(p.Confirmed)
		s.True(p.AmountPaid.IsZero())
		s.NotEqual(tax.ID, p.ID)
	}

	month := march2024
	payments, _, err := s.container.Ledger.ListPostings(s.ctx, domain.PostingFilter{Month: &month, EntryType: domain.EntryPayment})
	s.Require().NoError(err)
	s.Empty(payments)
}

func (s *PendingPaymentServiceTestSuite) TestGenerate_SkipsPartnersWithoutContribution() {
	s.store.SeedRevenue(domain.RevenueEntry{
		ID:     "rev-2024-03",
		Date:   day(2024, time.March, 10),
		Amount: dec("10000.00"),
		Shares: []domain.PartnerShare{{PartnerID: brunoID, Percent: dec("100")}},
	})

	generated, err := s.container.PendingPayments.Generate(s.ctx, 3, 2024)
	s.Require().NoError(err)

	var profits []domain.PendingPayment
	for _, p := range generated {
		if p.Type == domain.PaymentProfitPerPartner {
			profits = append(profits, p)
		}
	}
	s.Require().Len(profits, 1)
	s.Require().NotNil(profits[0].PartnerID)
	s.Equal(brunoID, *profits[0].PartnerID)

	stmt, err := s.container.Statements.GetStatement(s.ctx, march2024)
	s.Require().NoError(err)
	// the administrator still draws pro-labore, booked through social security and provisions
	s.True(stmt.ProLabore.IsPositive())
	s.Require().Len(stmt.PartnerDistribution, 1)
	s.Equal(brunoID, stmt.PartnerDistribution[0].PartnerID)
	s.True(stmt.PartnerDistribution[0].Amount.Equal(profits[0].Amount))
	s.findByType(generated, domain.PaymentSocialSecurity)
}

func (s *PendingPaymentServiceTestSuite) TestGenerate_InvalidMonth() {
	_, err := s.container.PendingPayments.Generate(s.ctx, 13, 2024)
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.container.PendingPayments.List(s.ctx, 0, 2024)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *PendingPaymentServiceTestSuite) TestGenerate_FailureKeepsPriorState() {
	first, err := s.container.PendingPayments.Generate(s.ctx, 3, 2024)
	s.Require().NoError(err)
	_, err = s.container.Statements.Deconsolidate(s.ctx, march2024)
	s.Require().NoError(err)

	s.store.SeedRevenue(domain.RevenueEntry{
		ID:     "rev-big",
		Date:   day(2023, time.September, 1),
		Amount: dec("4700000.01"),
		Shares: []domain.PartnerShare{{PartnerID: brunoID, Percent: dec("100")}},
	})
	_, err = s.container.PendingPayments.Generate(s.ctx, 3, 2024)
	s.ErrorIs(err, apperrors.ErrTaxCeilingExceeded)

	listed, err := s.container.PendingPayments.List(s.ctx, 3, 2024)
	s.Require().NoError(err)
	s.Equal(summarize(first), summarize(listed))
}

func (s *PendingPaymentServiceTestSuite) TestPay_PartialChain() {
	generated, err := s.container.PendingPayments.Generate(s.ctx, 3, 2024)
	s.Require().NoError(err)
	tax := s.findByType(generated, domain.PaymentTax)

	part := dec("200.00")
	paid, err := s.container.PendingPayments.Pay(s.ctx, tax.ID, domain.PaymentRequest{Amount: &part, Date: day(2024, time.April, 10)})
	s.Require().NoError(err)
	s.False(paid.Confirmed)
	assertAmount(s.T(), "200.00", paid.AmountPaid)
	assertAmount(s.T(), "250.00", paid.Outstanding())
	s.Require().NotNil(paid.PaymentPostingID)
	firstPostingID := *paid.PaymentPostingID

	first, err := s.container.Ledger.GetPosting(s.ctx, firstPostingID)
	s.Require().NoError(err)
	s.Equal(domain.EntryPayment, first.EntryType)
	s.Equal(domain.CodeTaxPayable, first.DebitAccount)
	s.Equal(domain.CodeCash, first.CreditAccount)
	s.False(first.Automatic)
	s.False(first.Editable)
	s.True(first.Paid)
	s.Nil(first.OriginPostingID)

	over := dec("250.01")
	_, err = s.container.PendingPayments.Pay(s.ctx, tax.ID, domain.PaymentRequest{Amount: &over})
	s.ErrorIs(err, apperrors.ErrValidation)

	paid, err = s.container.PendingPayments.Pay(s.ctx, tax.ID, domain.PaymentRequest{Date: day(2024, time.April, 15)})
	s.Require().NoError(err)
	s.True(paid.Confirmed)
	s.NotNil(paid.ConfirmedAt)
	assertAmount(s.T(), "450.00", paid.AmountPaid)
	s.Equal(firstPostingID, *paid.PaymentPostingID)

	chained, _, err := s.container.Ledger.ListPostings(s.ctx, domain.PostingFilter{EntryType: domain.EntryPayment})
	s.Require().NoError(err)
	s.Require().Len(chained, 2)
	s.Require().NotNil(chained[1].OriginPostingID)
	s.Equal(firstPostingID, *chained[1].OriginPostingID)
	assertAmount(s.T(), "250.00", chained[1].Amount)

	_, err = s.container.PendingPayments.Pay(s.ctx, tax.ID, domain.PaymentRequest{})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *PendingPaymentServiceTestSuite) TestPay_DebitAccounts() {
	generated, err := s.container.PendingPayments.Generate(s.ctx, 3, 2024)
	s.Require().NoError(err)

	expected := map[string]string{
		"INSS patronal e retido 03/2024":         domain.CodeSocialSecurityDue,
		"Reserva de lucros 03/2024":              domain.CodeReserveInvestment,
		"Pró-labore líquido 03/2024 - Ana Souza": domain.CodeProLaborePayable,
		"Lucros 03/2024 - Bruno Lima":            domain.CodeProfitsPayable,
	}
	for _, p := range generated {
		debit, ok := expected[p.Description]
		if !ok {
			continue
		}
		paid, err := s.container.PendingPayments.Pay(s.ctx, p.ID, domain.PaymentRequest{Date: day(2024, time.April, 5)})
		s.Require().NoError(err)
		s.True(paid.Confirmed)
		posting, err := s.container.Ledger.GetPosting(s.ctx, *paid.PaymentPostingID)
		s.Require().NoError(err)
		s.Equal(debit, posting.DebitAccount, p.Description)
	}
}

func (s *PendingPaymentServiceTestSuite) TestPay_NotFound() {
	_, err := s.container.PendingPayments.Pay(s.ctx, "ghost", domain.PaymentRequest{})
	s.ErrorIs(err, apperrors.ErrNotFound)
}
