package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/lawfirm_ledger_app/internal/apperrors"
	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
)

type IncomeStatementServiceTestSuite struct {
	engineSuite
}

func TestIncomeStatementServiceTestSuite(t *testing.T) {
	suite.Run(t, new(IncomeStatementServiceTestSuite))
}

func (s *IncomeStatementServiceTestSuite) TestComputeDraft() {
	stmt, err := s.container.Statements.ComputeDraft(s.ctx, march2024)
	s.Require().NoError(err)

	assertAmount(s.T(), "10000.00", stmt.GrossRevenue)
	assertAmount(s.T(), "100000.00", stmt.TrailingRevenue)
	assertAmount(s.T(), "450.00", stmt.Tax)
	assertAmount(s.T(), "9550.00", stmt.GrossProfit)
	s.True(stmt.AdminSharePercent.Equal(dec("80")))
	assertAmount(s.T(), "1518.00", stmt.ProLabore)
	assertAmount(s.T(), "303.60", stmt.EmployerSS)
	assertAmount(s.T(), "166.98", stmt.EmployeeSS)
	assertAmount(s.T(), "9246.40", stmt.NetProfit)
	assertAmount(s.T(), "924.64", stmt.Reserve)
	assertAmount(s.T(), "8321.76", stmt.DistributablePool)
	s.True(stmt.SolverConverged)
	s.Equal(anaID, stmt.AdministratorID)
	s.False(stmt.Consolidated)

	s.Require().Len(stmt.PartnerDistribution, 2)
	s.Equal(anaID, stmt.PartnerDistribution[0].PartnerID)
	assertAmount(s.T(), "1351.02", stmt.PartnerDistribution[0].Amount)
	s.Equal(brunoID, stmt.PartnerDistribution[1].PartnerID)
	assertAmount(s.T(), "2000.00", stmt.PartnerDistribution[1].Contribution)
	assertAmount(s.T(), "1664.35", stmt.PartnerDistribution[1].Amount)

	// nothing was persisted
	_, err = s.container.Statements.GetStatement(s.ctx, march2024)
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.Empty(s.monthPostings(march2024))
}

func (s *IncomeStatementServiceTestSuite) TestComputeDraft_StartOfActivityAnnualizes() {
	// only the current month: trailing year is empty
	month := domain.CompetencyMonth{Year: 2023, Month: time.June}

	stmt, err := s.container.Statements.ComputeDraft(s.ctx, month)
	s.Require().NoError(err)
	assertAmount(s.T(), "100000.00", stmt.GrossRevenue)
	assertAmount(s.T(), "1200000.00", stmt.TrailingRevenue)
	s.True(stmt.NominalRate.Equal(dec("0.14")))
}

func (s *IncomeStatementServiceTestSuite) TestComputeDraft_WithoutAdministrator() {
	s.store.SeedPartners(domain.Partner{ID: anaID, Name: "Ana Souza", RolesText: "Sócia"})

	stmt, err := s.container.Statements.ComputeDraft(s.ctx, march2024)
	s.Require().NoError(err)
	s.True(stmt.ProLabore.IsZero())
	s.True(stmt.EmployerSS.IsZero())
	s.Empty(stmt.AdministratorID)
	assertAmount(s.T(), "9550.00", stmt.NetProfit)
	assertAmount(s.T(), "955.00", stmt.Reserve)
	// 8595.00 split 80/20
	s.Require().Len(stmt.PartnerDistribution, 2)
	assertAmount(s.T(), "6876.00", stmt.PartnerDistribution[0].Amount)
	assertAmount(s.T(), "1719.00", stmt.PartnerDistribution[1].Amount)
}

func (s *IncomeStatementServiceTestSuite) TestComputeDraft_RejectsUnknownPartner() {
	s.store.SeedRevenue(domain.RevenueEntry{
		ID:     "rev-ghost",
		Date:   day(2024, time.March, 20),
		Amount: dec("10.00"),
		Shares: []domain.PartnerShare{{PartnerID: "ghost", Percent: dec("100")}},
	})

	_, err := s.container.Statements.ComputeDraft(s.ctx, march2024)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *IncomeStatementServiceTestSuite) TestComputeDraft_AcceptsSharesOverOneHundred() {
	s.store.SeedRevenue(domain.RevenueEntry{
		ID:     "rev-2024-03",
		Date:   day(2024, time.March, 10),
		Amount: dec("10000.00"),
		Shares: []domain.PartnerShare{
			{PartnerID: anaID, Percent: dec("80")},
			{PartnerID: brunoID, Percent: dec("30")},
		},
	})

	stmt, err := s.container.Statements.ComputeDraft(s.ctx, march2024)
	s.Require().NoError(err)
	assertAmount(s.T(), "1518.00", stmt.ProLabore)
	s.Require().Len(stmt.PartnerDistribution, 2)
	s.Equal(brunoID, stmt.PartnerDistribution[1].PartnerID)
	assertAmount(s.T(), "3000.00", stmt.PartnerDistribution[1].Contribution)
	// 8321.76 * 3000 / 10000
	assertAmount(s.T(), "2496.53", stmt.PartnerDistribution[1].Amount)
}

func (s *IncomeStatementServiceTestSuite) TestConsolidate_BooksPostings() {
	stmt, err := s.container.Statements.Consolidate(s.ctx, march2024, false)
	s.Require().NoError(err)
	s.True(stmt.Consolidated)
	s.NotNil(stmt.ConsolidatedAt)

	postings := s.monthPostings(march2024)
	// expenses are zero, so neither the expense posting nor its closing is booked
	s.Len(postings, 11)

	lastDay := day(2024, time.March, 31)
	expected := map[domain.PostingKey]string{
		key(march2024, domain.EntryRevenue, domain.CodeCash, domain.CodeFeeRevenue):                        "10000.00",
		key(march2024, domain.EntryProvision, domain.CodeSimplesTaxExpense, domain.CodeTaxPayable):         "450.00",
		key(march2024, domain.EntryProvision, domain.CodeProLaboreExpense, domain.CodeProLaborePayable):    "1518.00",
		key(march2024, domain.EntryProvision, domain.CodeEmployerSSExpense, domain.CodeSocialSecurityDue):  "303.60",
		key(march2024, domain.EntryWithholding, domain.CodeProLaborePayable, domain.CodeSocialSecurityDue): "166.98",
		key(march2024, domain.EntryClosing, domain.CodeFeeRevenue, domain.CodeRetainedEarnings):            "10000.00",
		key(march2024, domain.EntryReserve, domain.CodeRetainedEarnings, domain.CodeProfitReserve):         "924.64",
		key(march2024, domain.EntryDistribution, domain.CodeDistributedProfits, domain.CodeProfitsPayable): "1664.35",
	}
	for k, amount := range expected {
		p, ok := postings[k]
		if !s.True(ok, "missing posting %s", k) {
			continue
		}
		assertAmount(s.T(), amount, p.Amount, k.String())
		s.True(p.Automatic)
		s.False(p.Editable)
		s.True(p.Date.Equal(lastDay))
	}
	_, ok := postings[key(march2024, domain.EntryExpense, domain.CodeGeneralExpenses, domain.CodeCash)]
	s.False(ok)
}

func (s *IncomeStatementServiceTestSuite) TestConsolidate_IsIdempotent() {
	first, err := s.container.Statements.Consolidate(s.ctx, march2024, false)
	s.Require().NoError(err)
	before := s.monthPostings(march2024)

	again, err := s.container.Statements.Consolidate(s.ctx, march2024, false)
	s.Require().NoError(err)
	s.Equal(first.ID, again.ID)
	s.Equal(first.ConsolidatedAt, again.ConsolidatedAt)

	forced, err := s.container.Statements.Consolidate(s.ctx, march2024, true)
	s.Require().NoError(err)
	s.Equal(first.ID, forced.ID)
	s.True(first.SameFigures(*forced))

	after := s.monthPostings(march2024)
	s.Require().Len(after, len(before))
	for k, p := range before {
		s.Equal(p.ID, after[k].ID, k.String())
		s.Equal(p.LastUpdatedAt, after[k].LastUpdatedAt, k.String())
	}

	groups, err := s.container.Ledger.FindDuplicates(s.ctx)
	s.Require().NoError(err)
	s.Empty(groups)
}

func (s *IncomeStatementServiceTestSuite) TestDeconsolidateAndRecompute() {
	_, err := s.container.Statements.Consolidate(s.ctx, march2024, false)
	s.Require().NoError(err)
	before := s.monthPostings(march2024)

	stmt, err := s.container.Statements.Deconsolidate(s.ctx, march2024)
	s.Require().NoError(err)
	s.False(stmt.Consolidated)
	s.Nil(stmt.ConsolidatedAt)
	// postings stay in place while the month is a draft
	s.Len(s.monthPostings(march2024), len(before))

	s.store.SeedExpenses(domain.ExpenseEntry{ID: "exp-1", Date: day(2024, time.March, 5), Amount: dec("100.00")})
	stmt, err = s.container.Statements.Consolidate(s.ctx, march2024, false)
	s.Require().NoError(err)
	s.True(stmt.Consolidated)
	assertAmount(s.T(), "100.00", stmt.GeneralExpenses)

	after := s.monthPostings(march2024)
	s.Len(after, len(before)+2)
	revenueKey := key(march2024, domain.EntryRevenue, domain.CodeCash, domain.CodeFeeRevenue)
	s.Equal(before[revenueKey].ID, after[revenueKey].ID)
	reserveKey := key(march2024, domain.EntryReserve, domain.CodeRetainedEarnings, domain.CodeProfitReserve)
	s.Equal(before[reserveKey].ID, after[reserveKey].ID)
	s.False(before[reserveKey].Amount.Equal(after[reserveKey].Amount))
	assertAmount(s.T(), "100.00", after[key(march2024, domain.EntryExpense, domain.CodeGeneralExpenses, domain.CodeCash)].Amount)
}

func (s *IncomeStatementServiceTestSuite) TestDeconsolidate_RoundTripUnchanged() {
	first, err := s.container.Statements.Consolidate(s.ctx, march2024, false)
	s.Require().NoError(err)
	before := s.monthPostings(march2024)

	_, err = s.container.Statements.Deconsolidate(s.ctx, march2024)
	s.Require().NoError(err)

	again, err := s.container.Statements.Consolidate(s.ctx, march2024, false)
	s.Require().NoError(err)
	s.True(again.Consolidated)
	s.True(first.SameFigures(*again))

	after := s.monthPostings(march2024)
	s.Require().Len(after, len(before))
	for k, p := range before {
		got, ok := after[k]
		if s.True(ok, "missing posting %s", k) {
			s.Equal(p.ID, got.ID, k.String())
			s.True(p.Amount.Equal(got.Amount), k.String())
		}
	}
}

func (s *IncomeStatementServiceTestSuite) TestDeconsolidate_Missing() {
	_, err := s.container.Statements.Deconsolidate(s.ctx, march2024)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *IncomeStatementServiceTestSuite) TestConsolidate_CeilingRollsBack() {
	s.store.SeedRevenue(domain.RevenueEntry{
		ID:     "rev-big",
		Date:   day(2023, time.September, 1),
		Amount: dec("4700000.01"),
		Shares: []domain.PartnerShare{{PartnerID: brunoID, Percent: dec("100")}},
	})

	_, err := s.container.Statements.Consolidate(s.ctx, march2024, false)
	s.ErrorIs(err, apperrors.ErrTaxCeilingExceeded)

	_, err = s.container.Statements.GetStatement(s.ctx, march2024)
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.Empty(s.monthPostings(march2024))
}

func (s *IncomeStatementServiceTestSuite) TestConsolidate_MissingChartAccount() {
	s.store.Reset()
	s.store.SeedPartners(domain.Partner{ID: anaID, Name: "Ana Souza", RolesText: "administradora"})

	_, err := s.container.Statements.Consolidate(s.ctx, march2024, false)
	s.ErrorIs(err, apperrors.ErrMissingChartAccount)
}

func (s *IncomeStatementServiceTestSuite) TestListStatements() {
	_, err := s.container.Statements.Consolidate(s.ctx, march2024, false)
	s.Require().NoError(err)
	_, err = s.container.Statements.Consolidate(s.ctx, domain.CompetencyMonth{Year: 2024, Month: time.January}, false)
	s.Require().NoError(err)

	stmts, err := s.container.Statements.ListStatements(s.ctx, 2024)
	s.Require().NoError(err)
	s.Require().Len(stmts, 2)
	s.Equal(time.January, stmts[0].CompetencyMonth.Month)
	s.Equal(time.March, stmts[1].CompetencyMonth.Month)

	stmts, err = s.container.Statements.ListStatements(s.ctx, 2023)
	s.Require().NoError(err)
	s.Empty(stmts)
}
