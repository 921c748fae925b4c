package repositories

import (
	"context"

	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
)

// PendingPaymentReader defines read operations for pending payments
type PendingPaymentReader interface {
	// FindPendingPaymentByID returns apperrors.ErrNotFound when absent.
	FindPendingPaymentByID(ctx context.Context, id string) (*domain.PendingPayment, error)

	// ListPendingPayments returns the obligations of a month ordered by type rank, then description.
	ListPendingPayments(ctx context.Context, month, year int) ([]domain.PendingPayment, error)
}

// PendingPaymentWriter defines write operations for pending payments
type PendingPaymentWriter interface {
	InsertPendingPayment(ctx context.Context, payment domain.PendingPayment) error

	UpdatePendingPayment(ctx context.Context, id string, update domain.PendingPaymentUpdate) error

	// DeletePendingPayments removes every obligation of a month.
	DeletePendingPayments(ctx context.Context, month, year int) (int64, error)
}

// PendingPaymentRepositoryFacade combines all pending-payment repository interfaces
type PendingPaymentRepositoryFacade interface {
	PendingPaymentReader
	PendingPaymentWriter
}
