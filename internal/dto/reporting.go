package dto

import (
	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
)

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	AsOf string `json:"asOf"`
	*domain.TrialBalanceReport
}

// BalanceSheetResponse represents the balance sheet report response
type BalanceSheetResponse struct {
	AsOf     string `json:"asOf"`
	Balanced bool   `json:"balanced"`
	*domain.BalanceSheetReport
}

// ToBalanceSheetResponse checks assets against liabilities plus equity.
func ToBalanceSheetResponse(report *domain.BalanceSheetReport, asOf string) BalanceSheetResponse {
	balanced := report.TotalAssets.Equal(report.TotalLiabilities.Add(report.TotalEquity))
	return BalanceSheetResponse{AsOf: asOf, Balanced: balanced, BalanceSheetReport: report}
}

// StatementListResponse wraps the statements of a year.
type StatementListResponse struct {
	Year       int                             `json:"year"`
	Statements []domain.MonthlyIncomeStatement `json:"statements"`
}
