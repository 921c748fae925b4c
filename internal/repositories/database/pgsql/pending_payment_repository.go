package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/SscSPs/lawfirm_ledger_app/internal/apperrors"
	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/lawfirm_ledger_app/internal/core/ports/repositories"
)

type PgxPendingPaymentRepository struct {
	db dbtx
}

var _ portsrepo.PendingPaymentRepositoryFacade = (*PgxPendingPaymentRepository)(nil)

const pendingPaymentColumns = `pending_payment_id, payment_type, description, amount, month_ref, year_ref, confirmed,
	confirmed_at, partner_id, amount_paid, payment_posting_id, created_at, last_updated_at`

func scanPendingPayment(row pgx.Row) (domain.PendingPayment, error) {
	var p domain.PendingPayment
	err := row.Scan(
		&p.ID,
		&p.Type,
		&p.Description,
		&p.Amount,
		&p.MonthRef,
		&p.YearRef,
		&p.Confirmed,
		&p.ConfirmedAt,
		&p.PartnerID,
		&p.AmountPaid,
		&p.PaymentPostingID,
		&p.CreatedAt,
		&p.LastUpdatedAt,
	)
	return p, err
}

func (r *PgxPendingPaymentRepository) FindPendingPaymentByID(ctx context.Context, id string) (*domain.PendingPayment, error) {
	query := `SELECT ` + pendingPaymentColumns + ` FROM pending_payments WHERE pending_payment_id = $1;`
	p, err := scanPendingPayment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translateError(err, "pending payment "+id)
	}
	return &p, nil
}

func (r *PgxPendingPaymentRepository) ListPendingPayments(ctx context.Context, month, year int) ([]domain.PendingPayment, error) {
	query := `
		SELECT ` + pendingPaymentColumns + `
		FROM pending_payments
		WHERE month_ref = $1 AND year_ref = $2
		ORDER BY CASE payment_type
			WHEN 'TAX' THEN 0
			WHEN 'SOCIAL_SECURITY' THEN 1
			WHEN 'RESERVE_FUND' THEN 2
			ELSE 3 END,
			description COLLATE "C";
	`
	rows, err := r.db.Query(ctx, query, month, year)
	if err != nil {
		return nil, translateError(err, fmt.Sprintf("failed to list pending payments of %04d-%02d", year, month))
	}
	defer rows.Close()

	out := []domain.PendingPayment{}
	for rows.Next() {
		p, err := scanPendingPayment(rows)
		if err != nil {
			return nil, translateError(err, "failed to scan pending payment")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "failed to iterate pending payments")
	}
	return out, nil
}

func (r *PgxPendingPaymentRepository) InsertPendingPayment(ctx context.Context, p domain.PendingPayment) error {
	query := `
		INSERT INTO pending_payments (` + pendingPaymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.db.Exec(ctx, query,
		p.ID,
		p.Type,
		p.Description,
		p.Amount,
		p.MonthRef,
		p.YearRef,
		p.Confirmed,
		p.ConfirmedAt,
		p.PartnerID,
		p.AmountPaid,
		p.PaymentPostingID,
		p.CreatedAt,
		p.LastUpdatedAt,
	)
	if err != nil {
		return translateError(err, "pending payment "+p.ID)
	}
	return nil
}

// UpdatePendingPayment writes only the non-nil fields of the update.
func (r *PgxPendingPaymentRepository) UpdatePendingPayment(ctx context.Context, id string, update domain.PendingPaymentUpdate) error {
	query := `
		UPDATE pending_payments SET
			confirmed = COALESCE($2, confirmed),
			confirmed_at = COALESCE($3, confirmed_at),
			amount_paid = COALESCE($4, amount_paid),
			payment_posting_id = COALESCE($5, payment_posting_id),
			last_updated_at = now()
		WHERE pending_payment_id = $1;
	`
	tag, err := r.db.Exec(ctx, query, id, update.Confirmed, update.ConfirmedAt, update.AmountPaid, update.PaymentPostingID)
	if err != nil {
		return translateError(err, "failed to update pending payment "+id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: pending payment %s", apperrors.ErrNotFound, id)
	}
	return nil
}

func (r *PgxPendingPaymentRepository) DeletePendingPayments(ctx context.Context, month, year int) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM pending_payments WHERE month_ref = $1 AND year_ref = $2;`, month, year)
	if err != nil {
		return 0, translateError(err, fmt.Sprintf("failed to delete pending payments of %04d-%02d", year, month))
	}
	return tag.RowsAffected(), nil
}
