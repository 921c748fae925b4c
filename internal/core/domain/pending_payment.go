package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType categorizes a monthly obligation.
type PaymentType string

const (
	PaymentTax              PaymentType = "TAX"
	PaymentSocialSecurity   PaymentType = "SOCIAL_SECURITY"
	PaymentReserveFund      PaymentType = "RESERVE_FUND"
	PaymentProfitPerPartner PaymentType = "PROFIT_PER_PARTNER"
)

// Rank orders payment types in generated lists.
func (t PaymentType) Rank() int {
	switch t {
	case PaymentTax:
		return 0
	case PaymentSocialSecurity:
		return 1
	case PaymentReserveFund:
		return 2
	default:
		return 3
	}
}

// PendingPayment is an amount owed for a competency month.
type PendingPayment struct {
	ID               string          `json:"id"`
	Type             PaymentType     `json:"type"`
	Description      string          `json:"description"`
	Amount           decimal.Decimal `json:"amount"`
	MonthRef         int             `json:"monthRef"`
	YearRef          int             `json:"yearRef"`
	Confirmed        bool            `json:"confirmed"`
	ConfirmedAt      *time.Time      `json:"confirmedAt,omitempty"`
	PartnerID        *string         `json:"partnerId,omitempty"`
	AmountPaid       decimal.Decimal `json:"amountPaid"`
	PaymentPostingID *string         `json:"paymentPostingId,omitempty"`
	AuditFields
}

// CompetencyMonth returns the month the obligation refers to.
func (p PendingPayment) CompetencyMonth() CompetencyMonth {
	return CompetencyMonth{Year: p.YearRef, Month: time.Month(p.MonthRef)}
}

// Outstanding is the amount still owed.
func (p PendingPayment) Outstanding() decimal.Decimal {
	return p.Amount.Sub(p.AmountPaid)
}

// PendingPaymentUpdate enumerates the fields the payment workflow may change.
type PendingPaymentUpdate struct {
	Confirmed        *bool
	ConfirmedAt      *time.Time
	AmountPaid       *decimal.Decimal
	PaymentPostingID *string
}

// PaymentRequest registers a (possibly partial) payment of a pending obligation.
type PaymentRequest struct {
	Amount *decimal.Decimal
	Date   time.Time
}
