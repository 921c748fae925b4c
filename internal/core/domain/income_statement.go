package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyIncomeStatement (DRE) holds the figures of one competency month.
// It is mutated only by consolidate and deconsolidate.
type MonthlyIncomeStatement struct {
	ID                  string          `json:"id"`
	CompetencyMonth     CompetencyMonth `json:"competencyMonth"`
	GrossRevenue        decimal.Decimal `json:"grossRevenue"`
	TrailingRevenue     decimal.Decimal `json:"trailingRevenue"`
	NominalRate         decimal.Decimal `json:"nominalRate"`
	EffectiveRate       decimal.Decimal `json:"effectiveRate"`
	BracketDeduction    decimal.Decimal `json:"bracketDeduction"`
	Tax                 decimal.Decimal `json:"tax"`
	GeneralExpenses     decimal.Decimal `json:"generalExpenses"`
	GrossProfit         decimal.Decimal `json:"grossProfit"`
	AdminSharePercent   decimal.Decimal `json:"adminSharePercent"`
	ProLabore           decimal.Decimal `json:"proLabore"`
	EmployerSS          decimal.Decimal `json:"employerSocialSecurity"`
	EmployeeSS          decimal.Decimal `json:"employeeSocialSecurity"`
	NetProfit           decimal.Decimal `json:"netProfit"`
	Reserve             decimal.Decimal `json:"reserve"`
	DistributablePool   decimal.Decimal `json:"distributablePool"`
	SolverIterations    int             `json:"solverIterations"`
	SolverConverged     bool            `json:"solverConverged"`
	AdministratorID     string          `json:"administratorId,omitempty"`
	PartnerDistribution []PartnerAmount `json:"partnerDistribution"`
	Consolidated        bool            `json:"consolidated"`
	ConsolidatedAt      *time.Time      `json:"consolidatedAt,omitempty"`
	AuditFields
}

// PartnerAmount is a partner's revenue-weighted contribution and resulting share of the pool.
type PartnerAmount struct {
	PartnerID    string          `json:"partnerId"`
	PartnerName  string          `json:"partnerName"`
	Contribution decimal.Decimal `json:"contribution"`
	Amount       decimal.Decimal `json:"amount"`
}

// SameFigures reports whether two statements carry identical computed values,
// ignoring identity, lifecycle and audit fields.
func (s MonthlyIncomeStatement) SameFigures(o MonthlyIncomeStatement) bool {
	pairs := [][2]decimal.Decimal{
		{s.GrossRevenue, o.GrossRevenue},
		{s.TrailingRevenue, o.TrailingRevenue},
		{s.NominalRate, o.NominalRate},
		{s.EffectiveRate, o.EffectiveRate},
		{s.BracketDeduction, o.BracketDeduction},
		{s.Tax, o.Tax},
		{s.GeneralExpenses, o.GeneralExpenses},
		{s.GrossProfit, o.GrossProfit},
		{s.AdminSharePercent, o.AdminSharePercent},
		{s.ProLabore, o.ProLabore},
		{s.EmployerSS, o.EmployerSS},
		{s.EmployeeSS, o.EmployeeSS},
		{s.NetProfit, o.NetProfit},
		{s.Reserve, o.Reserve},
		{s.DistributablePool, o.DistributablePool},
	}
	for _, p := range pairs {
		if !p[0].Equal(p[1]) {
			return false
		}
	}
	if s.CompetencyMonth != o.CompetencyMonth || s.AdministratorID != o.AdministratorID ||
		len(s.PartnerDistribution) != len(o.PartnerDistribution) {
		return false
	}
	for i := range s.PartnerDistribution {
		a, b := s.PartnerDistribution[i], o.PartnerDistribution[i]
		if a.PartnerID != b.PartnerID || !a.Contribution.Equal(b.Contribution) || !a.Amount.Equal(b.Amount) {
			return false
		}
	}
	return true
}
