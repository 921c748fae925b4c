package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PartnerShare is one partner's percentage of a revenue entry.
type PartnerShare struct {
	PartnerID string          `json:"partnerId"`
	Percent   decimal.Decimal `json:"percent"`
}

// RevenueEntry is a fee received by the firm, split among partners by its own shares.
type RevenueEntry struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Shares      []PartnerShare  `json:"shares"`
}

// Validate checks the share list: each percent in [0,100] and no repeated partner.
// The total is left unchecked; see SharesTotal.
func (e RevenueEntry) Validate() error {
	if e.Amount.IsNegative() {
		return fmt.Errorf("revenue entry %s: negative amount %s", e.ID, e.Amount)
	}
	seen := make(map[string]struct{}, len(e.Shares))
	for _, s := range e.Shares {
		if s.PartnerID == "" {
			return fmt.Errorf("revenue entry %s: share without partner", e.ID)
		}
		if _, dup := seen[s.PartnerID]; dup {
			return fmt.Errorf("revenue entry %s: partner %s listed twice", e.ID, s.PartnerID)
		}
		seen[s.PartnerID] = struct{}{}
		if s.Percent.IsNegative() || s.Percent.GreaterThan(hundred) {
			return fmt.Errorf("revenue entry %s: share %s out of range", e.ID, s.Percent)
		}
	}
	return nil
}

// SharesTotal sums the share percents. Nothing guarantees it stays at or below 100.
func (e RevenueEntry) SharesTotal() decimal.Decimal {
	total := decimal.Zero
	for _, s := range e.Shares {
		total = total.Add(s.Percent)
	}
	return total
}

// ShareOf returns the amount attributed to partnerID.
func (e RevenueEntry) ShareOf(partnerID string) decimal.Decimal {
	for _, s := range e.Shares {
		if s.PartnerID == partnerID {
			return e.Amount.Mul(s.Percent).Div(hundred)
		}
	}
	return decimal.Zero
}

// ExpenseEntry is a general expense of the firm.
type ExpenseEntry struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}
