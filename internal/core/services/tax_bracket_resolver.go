package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/lawfirm_ledger_app/internal/apperrors"
	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/lawfirm_ledger_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// effectiveRatePlaces bounds the precision of the stored effective rate.
const effectiveRatePlaces = 10

// taxBracketResolver resolves brackets over an immutable snapshot of the tax table.
type taxBracketResolver struct {
	brackets []domain.TaxBracket
}

// NewTaxBracketResolver snapshots the bracket table. Later changes to the slice are not seen.
func NewTaxBracketResolver(brackets []domain.TaxBracket) portssvc.TaxBracketResolverSvc {
	snapshot := make([]domain.TaxBracket, len(brackets))
	copy(snapshot, brackets)
	sort.SliceStable(snapshot, func(i, j int) bool {
		return snapshot[i].Order < snapshot[j].Order
	})
	return &taxBracketResolver{brackets: snapshot}
}

var _ portssvc.TaxBracketResolverSvc = (*taxBracketResolver)(nil)

// Resolve picks the first bracket valid at referenceDate whose upper limit covers trailingRevenue.
// Boundary values stay in the lower bracket.
func (r *taxBracketResolver) Resolve(trailingRevenue decimal.Decimal, referenceDate time.Time) (domain.TaxRate, error) {
	if trailingRevenue.IsNegative() {
		return domain.TaxRate{}, fmt.Errorf("%w: negative trailing revenue %s", apperrors.ErrValidation, trailingRevenue.StringFixed(2))
	}

	var last *domain.TaxBracket
	for i := range r.brackets {
		b := r.brackets[i]
		if !b.ValidAt(referenceDate) {
			continue
		}
		last = &r.brackets[i]
		if b.UpperLimit.GreaterThanOrEqual(trailingRevenue) {
			return domain.TaxRate{
				BracketOrder:  b.Order,
				NominalRate:   b.NominalRate,
				Deduction:     b.Deduction,
				EffectiveRate: effectiveRate(trailingRevenue, b.NominalRate, b.Deduction),
			}, nil
		}
	}

	if last == nil {
		return domain.TaxRate{}, fmt.Errorf("%w: %s", apperrors.ErrNoTaxBrackets, referenceDate.Format(time.DateOnly))
	}
	return domain.TaxRate{}, fmt.Errorf("%w: %s above limit %s",
		apperrors.ErrTaxCeilingExceeded, trailingRevenue.StringFixed(2), last.UpperLimit.StringFixed(2))
}

// MonthlyTax applies the effective rate to the month's revenue.
func (r *taxBracketResolver) MonthlyTax(monthRevenue decimal.Decimal, rate domain.TaxRate) decimal.Decimal {
	return roundCents(monthRevenue.Mul(rate.EffectiveRate))
}

// effectiveRate is max(0, (R*rate - deduction) / R), or zero when R is zero.
func effectiveRate(trailing, nominal, deduction decimal.Decimal) decimal.Decimal {
	if !trailing.IsPositive() {
		return decimal.Zero
	}
	rate := trailing.Mul(nominal).Sub(deduction).Div(trailing).Round(effectiveRatePlaces)
	return clampZero(rate)
}
