package pgsql

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/lawfirm_ledger_app/internal/apperrors"
	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/lawfirm_ledger_app/internal/core/ports/repositories"
)

type PgxPostingRepository struct {
	db dbtx
}

var _ portsrepo.PostingRepositoryFacade = (*PgxPostingRepository)(nil)

const postingColumns = `posting_id, posting_date, debit_account, credit_account, amount, history, automatic, editable,
	entry_type, competency_month, paid, origin_posting_id, created_at, last_updated_at`

func scanPosting(row pgx.Row) (domain.LedgerPosting, error) {
	var (
		p     domain.LedgerPosting
		month *string
	)
	err := row.Scan(
		&p.ID,
		&p.Date,
		&p.DebitAccount,
		&p.CreditAccount,
		&p.Amount,
		&p.History,
		&p.Automatic,
		&p.Editable,
		&p.EntryType,
		&month,
		&p.Paid,
		&p.OriginPostingID,
		&p.CreatedAt,
		&p.LastUpdatedAt,
	)
	if err != nil {
		return p, err
	}
	p.CompetencyMonth, err = parseMonthColumn(month)
	return p, err
}

func collectPostings(rows pgx.Rows) ([]domain.LedgerPosting, error) {
	defer rows.Close()
	out := []domain.LedgerPosting{}
	for rows.Next() {
		p, err := scanPosting(rows)
		if err != nil {
			return nil, translateError(err, "failed to scan posting")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "failed to iterate postings")
	}
	return out, nil
}

func (r *PgxPostingRepository) FindPostingByID(ctx context.Context, id string) (*domain.LedgerPosting, error) {
	query := `SELECT ` + postingColumns + ` FROM ledger_postings WHERE posting_id = $1;`
	p, err := scanPosting(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translateError(err, "posting "+id)
	}
	return &p, nil
}

func (r *PgxPostingRepository) FindAutomaticByKey(ctx context.Context, key domain.PostingKey) ([]domain.LedgerPosting, error) {
	query := `
		SELECT ` + postingColumns + `
		FROM ledger_postings
		WHERE automatic AND competency_month = $1 AND entry_type = $2 AND debit_account = $3 AND credit_account = $4
		ORDER BY last_updated_at DESC, posting_id DESC;
	`
	rows, err := r.db.Query(ctx, query, key.Month.String(), key.EntryType, key.DebitAccount, key.CreditAccount)
	if err != nil {
		return nil, translateError(err, "failed to query automatic postings for "+key.String())
	}
	return collectPostings(rows)
}

func (r *PgxPostingRepository) ListPostings(ctx context.Context, filter domain.PostingFilter) ([]domain.LedgerPosting, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.Month != nil {
		conds = append(conds, "competency_month = "+arg(filter.Month.String()))
	}
	if filter.EntryType != "" {
		conds = append(conds, "entry_type = "+arg(filter.EntryType))
	}
	if filter.AccountCode != "" {
		p := arg(filter.AccountCode)
		conds = append(conds, "(debit_account = "+p+" OR credit_account = "+p+")")
	}
	if filter.AfterDate != nil {
		conds = append(conds, "(posting_date, posting_id) > ("+arg(*filter.AfterDate)+", "+arg(filter.AfterID)+")")
	}

	var sb strings.Builder
	sb.WriteString(`SELECT ` + postingColumns + ` FROM ledger_postings`)
	if len(conds) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	sb.WriteString(" ORDER BY posting_date, posting_id")
	if filter.Limit > 0 {
		sb.WriteString(" LIMIT " + arg(filter.Limit))
	}

	rows, err := r.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, translateError(err, "failed to list postings")
	}
	return collectPostings(rows)
}

func (r *PgxPostingRepository) ListPostingsByOrigin(ctx context.Context, originID string) ([]domain.LedgerPosting, error) {
	query := `
		SELECT ` + postingColumns + `
		FROM ledger_postings
		WHERE origin_posting_id = $1
		ORDER BY posting_date, posting_id;
	`
	rows, err := r.db.Query(ctx, query, originID)
	if err != nil {
		return nil, translateError(err, "failed to list postings chained to "+originID)
	}
	return collectPostings(rows)
}

func (r *PgxPostingRepository) FindDuplicateKeys(ctx context.Context) ([]domain.DuplicateGroup, error) {
	query := `
		SELECT competency_month, entry_type, debit_account, credit_account,
		       array_agg(posting_id ORDER BY last_updated_at DESC, posting_id DESC)
		FROM ledger_postings
		WHERE automatic AND competency_month IS NOT NULL
		GROUP BY competency_month, entry_type, debit_account, credit_account
		HAVING count(*) > 1;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, translateError(err, "failed to query duplicate automatic postings")
	}
	defer rows.Close()

	out := []domain.DuplicateGroup{}
	for rows.Next() {
		var (
			month string
			g     domain.DuplicateGroup
		)
		if err := rows.Scan(&month, &g.Key.EntryType, &g.Key.DebitAccount, &g.Key.CreditAccount, &g.PostingIDs); err != nil {
			return nil, translateError(err, "failed to scan duplicate group")
		}
		if g.Key.Month, err = domain.ParseCompetencyMonth(month); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "failed to iterate duplicate groups")
	}
	// Ordered by the key's string form, not the SQL collation.
	sort.Slice(out, func(i, j int) bool { return out[i].Key.String() < out[j].Key.String() })
	return out, nil
}

func (r *PgxPostingRepository) sum(ctx context.Context, column, accountCode string, from, to time.Time) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM ledger_postings WHERE ` + column + ` = $1 AND posting_date >= $2 AND posting_date < $3;`
	var total decimal.Decimal
	if err := r.db.QueryRow(ctx, query, accountCode, from, to).Scan(&total); err != nil {
		return decimal.Zero, translateError(err, "failed to sum postings of "+accountCode)
	}
	return total, nil
}

func (r *PgxPostingRepository) SumDebits(ctx context.Context, accountCode string, from, to time.Time) (decimal.Decimal, error) {
	return r.sum(ctx, "debit_account", accountCode, from, to)
}

func (r *PgxPostingRepository) SumCredits(ctx context.Context, accountCode string, from, to time.Time) (decimal.Decimal, error) {
	return r.sum(ctx, "credit_account", accountCode, from, to)
}

func (r *PgxPostingRepository) AccountTotals(ctx context.Context, before time.Time) (map[string]domain.TrialBalanceRow, error) {
	query := `
		SELECT account_code, SUM(debit), SUM(credit)
		FROM (
			SELECT debit_account AS account_code, amount AS debit, 0::numeric AS credit
			FROM ledger_postings WHERE posting_date < $1
			UNION ALL
			SELECT credit_account, 0::numeric, amount
			FROM ledger_postings WHERE posting_date < $1
		) movements
		GROUP BY account_code;
	`
	rows, err := r.db.Query(ctx, query, before)
	if err != nil {
		return nil, translateError(err, "failed to total postings per account")
	}
	defer rows.Close()

	out := make(map[string]domain.TrialBalanceRow)
	for rows.Next() {
		var row domain.TrialBalanceRow
		if err := rows.Scan(&row.AccountCode, &row.Debit, &row.Credit); err != nil {
			return nil, translateError(err, "failed to scan account totals")
		}
		out[row.AccountCode] = row
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "failed to iterate account totals")
	}
	return out, nil
}

func (r *PgxPostingRepository) InsertPosting(ctx context.Context, p domain.LedgerPosting) error {
	query := `
		INSERT INTO ledger_postings (` + postingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.db.Exec(ctx, query,
		p.ID,
		p.Date,
		p.DebitAccount,
		p.CreditAccount,
		p.Amount,
		p.History,
		p.Automatic,
		p.Editable,
		p.EntryType,
		monthColumn(p.CompetencyMonth),
		p.Paid,
		p.OriginPostingID,
		p.CreatedAt,
		p.LastUpdatedAt,
	)
	if err != nil {
		return translateError(err, "posting "+p.ID)
	}
	return nil
}

func (r *PgxPostingRepository) UpdatePosting(ctx context.Context, p domain.LedgerPosting) error {
	query := `
		UPDATE ledger_postings
		SET posting_date = $2, amount = $3, history = $4, paid = $5, last_updated_at = $6
		WHERE posting_id = $1;
	`
	tag, err := r.db.Exec(ctx, query, p.ID, p.Date, p.Amount, p.History, p.Paid, p.LastUpdatedAt)
	if err != nil {
		return translateError(err, "failed to update posting "+p.ID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: posting %s", apperrors.ErrNotFound, p.ID)
	}
	return nil
}

func (r *PgxPostingRepository) DeletePosting(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM ledger_postings WHERE posting_id = $1;`, id)
	if err != nil {
		return translateError(err, "failed to delete posting "+id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: posting %s", apperrors.ErrNotFound, id)
	}
	return nil
}

func (r *PgxPostingRepository) DeletePostingsByMonthAndType(ctx context.Context, month domain.CompetencyMonth, entryType domain.EntryType) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM ledger_postings WHERE competency_month = $1 AND entry_type = $2;`,
		month.String(), entryType)
	if err != nil {
		return 0, translateError(err, fmt.Sprintf("failed to delete %s postings of %s", entryType, month))
	}
	return tag.RowsAffected(), nil
}
