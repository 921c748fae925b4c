package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxBracket is one row of the progressive table, valid for a date range.
type TaxBracket struct {
	ID          string          `json:"id"`
	Order       int             `json:"order"`
	UpperLimit  decimal.Decimal `json:"upperLimit"`
	NominalRate decimal.Decimal `json:"nominalRate"`
	Deduction   decimal.Decimal `json:"deduction"`
	ValidFrom   time.Time       `json:"validFrom"`
	ValidTo     *time.Time      `json:"validTo,omitempty"`
}

// ValidAt reports whether the bracket applies on date.
func (b TaxBracket) ValidAt(date time.Time) bool {
	if date.Before(b.ValidFrom) {
		return false
	}
	return b.ValidTo == nil || !date.After(*b.ValidTo)
}

// TaxRate is the resolved bracket for a trailing revenue amount.
type TaxRate struct {
	BracketOrder  int             `json:"bracketOrder"`
	NominalRate   decimal.Decimal `json:"nominalRate"`
	Deduction     decimal.Decimal `json:"deduction"`
	EffectiveRate decimal.Decimal `json:"effectiveRate"`
}
