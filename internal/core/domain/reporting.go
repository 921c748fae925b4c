package domain

import (
	"github.com/shopspring/decimal"
)

// TrialBalanceRow represents a single row in a trial balance report.
// Synthetic (non-postable) accounts carry the rolled-up totals of their descendants.
type TrialBalanceRow struct {
	AccountCode string          `json:"accountCode"`
	Description string          `json:"description"`
	AccountType AccountType     `json:"accountType"`
	Level       int             `json:"level"`
	Postable    bool            `json:"postable"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// TrialBalanceReport lists every account with movements up to a date.
type TrialBalanceReport struct {
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
}

// AccountAmount represents an account with its net amount for financial reports
type AccountAmount struct {
	AccountCode string          `json:"accountCode"`
	Description string          `json:"description"`
	NetAmount   decimal.Decimal `json:"netAmount"`
}

// BalanceSheetReport represents a balance sheet report
type BalanceSheetReport struct {
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	CurrentResult    decimal.Decimal `json:"currentResult"` // Revenue minus expenses not yet closed
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
}

// AnnualSummaryRow is one month of the yearly overview.
type AnnualSummaryRow struct {
	Month        CompetencyMonth         `json:"month"`
	Consolidated bool                    `json:"consolidated"`
	Statement    *MonthlyIncomeStatement `json:"statement,omitempty"`
	Error        string                  `json:"error,omitempty"`
}

// AnnualSummary aggregates the months of a year.
type AnnualSummary struct {
	Year         int                `json:"year"`
	Months       []AnnualSummaryRow `json:"months"`
	GrossRevenue decimal.Decimal    `json:"grossRevenue"`
	Tax          decimal.Decimal    `json:"tax"`
	NetProfit    decimal.Decimal    `json:"netProfit"`
	Reserve      decimal.Decimal    `json:"reserve"`
}
