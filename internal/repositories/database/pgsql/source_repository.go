package pgsql

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/lawfirm_ledger_app/internal/core/ports/repositories"
)

// PgxSourceRepository reads partners, revenue and expense records kept by the firm's other systems.
type PgxSourceRepository struct {
	db dbtx
}

var _ portsrepo.SourceReader = (*PgxSourceRepository)(nil)

func (r *PgxSourceRepository) ListPartners(ctx context.Context) ([]domain.Partner, error) {
	query := `SELECT partner_id, name, roles_text, share_percent, capital FROM partners ORDER BY name, partner_id;`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, translateError(err, "failed to list partners")
	}
	defer rows.Close()

	out := []domain.Partner{}
	for rows.Next() {
		var p domain.Partner
		if err := rows.Scan(&p.ID, &p.Name, &p.RolesText, &p.SharePercent, &p.Capital); err != nil {
			return nil, translateError(err, "failed to scan partner")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "failed to iterate partners")
	}
	return out, nil
}

func (r *PgxSourceRepository) FindPartnerByID(ctx context.Context, id string) (*domain.Partner, error) {
	query := `SELECT partner_id, name, roles_text, share_percent, capital FROM partners WHERE partner_id = $1;`
	var p domain.Partner
	if err := r.db.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.RolesText, &p.SharePercent, &p.Capital); err != nil {
		return nil, translateError(err, "partner "+id)
	}
	return &p, nil
}

func (r *PgxSourceRepository) ListRevenueEntries(ctx context.Context, from, to time.Time) ([]domain.RevenueEntry, error) {
	query := `
		SELECT revenue_id, entry_date, amount, description
		FROM revenue_entries
		WHERE entry_date >= $1 AND entry_date < $2
		ORDER BY entry_date, revenue_id;
	`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, translateError(err, "failed to list revenue entries")
	}
	defer rows.Close()

	out := []domain.RevenueEntry{}
	index := make(map[string]int)
	ids := []string{}
	for rows.Next() {
		var e domain.RevenueEntry
		if err := rows.Scan(&e.ID, &e.Date, &e.Amount, &e.Description); err != nil {
			return nil, translateError(err, "failed to scan revenue entry")
		}
		e.Shares = []domain.PartnerShare{}
		index[e.ID] = len(out)
		ids = append(ids, e.ID)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "failed to iterate revenue entries")
	}
	rows.Close()
	if len(ids) == 0 {
		return out, nil
	}

	shareRows, err := r.db.Query(ctx,
		`SELECT revenue_id, partner_id, percent FROM revenue_shares WHERE revenue_id = ANY($1) ORDER BY revenue_id, partner_id;`,
		ids)
	if err != nil {
		return nil, translateError(err, "failed to list revenue shares")
	}
	defer shareRows.Close()
	for shareRows.Next() {
		var (
			revenueID string
			share     domain.PartnerShare
		)
		if err := shareRows.Scan(&revenueID, &share.PartnerID, &share.Percent); err != nil {
			return nil, translateError(err, "failed to scan revenue share")
		}
		i := index[revenueID]
		out[i].Shares = append(out[i].Shares, share)
	}
	if err := shareRows.Err(); err != nil {
		return nil, translateError(err, "failed to iterate revenue shares")
	}
	return out, nil
}

func (r *PgxSourceRepository) ListExpenseEntries(ctx context.Context, from, to time.Time) ([]domain.ExpenseEntry, error) {
	query := `
		SELECT expense_id, entry_date, amount, description
		FROM expense_entries
		WHERE entry_date >= $1 AND entry_date < $2
		ORDER BY entry_date, expense_id;
	`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, translateError(err, "failed to list expense entries")
	}
	defer rows.Close()

	out := []domain.ExpenseEntry{}
	for rows.Next() {
		var e domain.ExpenseEntry
		if err := rows.Scan(&e.ID, &e.Date, &e.Amount, &e.Description); err != nil {
			return nil, translateError(err, "failed to scan expense entry")
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "failed to iterate expense entries")
	}
	return out, nil
}

func (r *PgxSourceRepository) SumRevenue(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM revenue_entries WHERE entry_date >= $1 AND entry_date < $2;`,
		from, to).Scan(&total)
	if err != nil {
		return decimal.Zero, translateError(err, "failed to sum revenue")
	}
	return total, nil
}
