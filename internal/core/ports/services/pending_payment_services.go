package services

import (
	"context"

	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
)

// PendingPaymentGeneratorSvc derives the month's obligations from its consolidated statement.
type PendingPaymentGeneratorSvc interface {
	// Generate fully replaces the obligations of (month, year).
	Generate(ctx context.Context, month, year int) ([]domain.PendingPayment, error)
}

// PendingPaymentTrackerSvc covers the "mark as paid" workflow.
type PendingPaymentTrackerSvc interface {
	List(ctx context.Context, month, year int) ([]domain.PendingPayment, error)

	// Pay books a payment posting for the obligation. A nil amount pays what is outstanding.
	Pay(ctx context.Context, id string, req domain.PaymentRequest) (*domain.PendingPayment, error)
}

// PendingPaymentSvcFacade combines pending-payment service interfaces
type PendingPaymentSvcFacade interface {
	PendingPaymentGeneratorSvc
	PendingPaymentTrackerSvc
}
