package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/lawfirm_ledger_app/internal/apperrors"
	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
)

type ReportingServiceTestSuite struct {
	engineSuite
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}

func (s *ReportingServiceTestSuite) SetupTest() {
	s.engineSuite.SetupTest()
	_, err := s.container.Statements.Consolidate(s.ctx, march2024, false)
	s.Require().NoError(err)
}

func (s *ReportingServiceTestSuite) rows(report *domain.TrialBalanceReport) map[string]domain.TrialBalanceRow {
	out := make(map[string]domain.TrialBalanceRow, len(report.Rows))
	for _, row := range report.Rows {
		out[row.AccountCode] = row
	}
	return out
}

func (s *ReportingServiceTestSuite) TestTrialBalance() {
	report, err := s.container.Reporting.TrialBalance(s.ctx, day(2024, time.March, 31))
	s.Require().NoError(err)

	s.True(report.TotalDebit.Equal(report.TotalCredit), "debits %s credits %s", report.TotalDebit, report.TotalCredit)
	rows := s.rows(report)

	assertAmount(s.T(), "10000.00", rows[domain.CodeCash].Balance)
	assertAmount(s.T(), "1351.02", rows[domain.CodeProLaborePayable].Balance)
	assertAmount(s.T(), "470.58", rows[domain.CodeSocialSecurityDue].Balance)
	// revenue is closed into retained earnings
	assertAmount(s.T(), "0.00", rows[domain.CodeFeeRevenue].Balance)

	// synthetic accounts carry the totals of their children
	group := rows["2.1.1"]
	s.False(group.Postable)
	assertAmount(s.T(), "1821.60", group.Balance)
	assertAmount(s.T(), "10000.00", rows["1"].Balance)
}

func (s *ReportingServiceTestSuite) TestTrialBalance_AsOfIsInclusive() {
	report, err := s.container.Reporting.TrialBalance(s.ctx, day(2024, time.March, 30))
	s.Require().NoError(err)
	s.Empty(report.Rows)
	s.True(report.TotalDebit.IsZero())
}

func (s *ReportingServiceTestSuite) TestBalanceSheet() {
	report, err := s.container.Reporting.BalanceSheet(s.ctx, day(2024, time.March, 31))
	s.Require().NoError(err)

	assertAmount(s.T(), "10000.00", report.TotalAssets)
	assertAmount(s.T(), "3935.95", report.TotalLiabilities)
	assertAmount(s.T(), "6064.05", report.TotalEquity)
	s.True(report.CurrentResult.IsZero())
	s.True(report.TotalAssets.Equal(report.TotalLiabilities.Add(report.TotalEquity)))
}

func (s *ReportingServiceTestSuite) TestBalanceSheet_OpenResult() {
	_, err := s.container.Ledger.CreateManualPosting(s.ctx, domain.NewManualPosting{
		Date: day(2024, time.April, 2), DebitAccount: domain.CodeGeneralExpenses, CreditAccount: domain.CodeCash, Amount: dec("100.00"),
	})
	s.Require().NoError(err)

	report, err := s.container.Reporting.BalanceSheet(s.ctx, day(2024, time.April, 30))
	s.Require().NoError(err)
	assertAmount(s.T(), "-100.00", report.CurrentResult)
	assertAmount(s.T(), "9900.00", report.TotalAssets)
	s.True(report.TotalAssets.Equal(report.TotalLiabilities.Add(report.TotalEquity)))
}

func (s *ReportingServiceTestSuite) TestAnnualSummary() {
	summary, err := s.container.Reporting.AnnualSummary(s.ctx, 2024)
	s.Require().NoError(err)
	s.Require().Len(summary.Months, 12)

	for i, row := range summary.Months {
		s.Equal(time.Month(i+1), row.Month.Month)
		s.Empty(row.Error)
		s.Require().NotNil(row.Statement)
		s.Equal(row.Month.Month == time.March, row.Consolidated)
	}
	assertAmount(s.T(), "10000.00", summary.GrossRevenue)
	assertAmount(s.T(), "450.00", summary.Tax)
	assertAmount(s.T(), "924.64", summary.Reserve)
}

func (s *ReportingServiceTestSuite) TestAnnualSummary_MonthErrorsAreReported() {
	s.store.SeedRevenue(domain.RevenueEntry{
		ID:     "rev-big",
		Date:   day(2024, time.May, 1),
		Amount: dec("5000000.00"),
		Shares: []domain.PartnerShare{{PartnerID: brunoID, Percent: dec("100")}},
	})

	summary, err := s.container.Reporting.AnnualSummary(s.ctx, 2024)
	s.Require().NoError(err)
	s.Contains(summary.Months[5].Error, apperrors.ErrTaxCeilingExceeded.Error())
	s.Nil(summary.Months[5].Statement)
	s.True(summary.Months[2].Consolidated)
}

func (s *ReportingServiceTestSuite) TestAnnualSummary_InvalidYear() {
	_, err := s.container.Reporting.AnnualSummary(s.ctx, 0)
	s.ErrorIs(err, apperrors.ErrValidation)
}
