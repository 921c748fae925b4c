package dto

import (
	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
)

// PayPendingPaymentRequest registers a payment. An omitted amount pays what is outstanding;
// an omitted date means today.
type PayPendingPaymentRequest struct {
	Amount *string `json:"amount" binding:"omitempty,numeric"`
	Date   string  `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

// ToDomain converts the request into a domain.PaymentRequest.
func (r PayPendingPaymentRequest) ToDomain() (domain.PaymentRequest, error) {
	var out domain.PaymentRequest
	if r.Amount != nil {
		a, err := ParseAmount(*r.Amount)
		if err != nil {
			return out, err
		}
		out.Amount = &a
	}
	if r.Date != "" {
		d, err := ParseDate(r.Date)
		if err != nil {
			return out, err
		}
		out.Date = d
	}
	return out, nil
}

// PendingPaymentListResponse wraps the obligations of a month.
type PendingPaymentListResponse struct {
	Month    string                  `json:"month"`
	Payments []domain.PendingPayment `json:"payments"`
}
