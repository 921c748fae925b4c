package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/lawfirm_ledger_app/internal/core/ports/repositories"
)

type PgxChartAccountRepository struct {
	db dbtx
}

var _ portsrepo.ChartAccountRepositoryFacade = (*PgxChartAccountRepository)(nil)

const chartAccountColumns = `account_id, code, description, account_type, nature, level, postable, parent_code, created_at, last_updated_at`

func scanChartAccount(row pgx.Row) (domain.ChartAccount, error) {
	var (
		acc    domain.ChartAccount
		parent *string
	)
	err := row.Scan(
		&acc.ID,
		&acc.Code,
		&acc.Description,
		&acc.Type,
		&acc.Nature,
		&acc.Level,
		&acc.Postable,
		&parent,
		&acc.CreatedAt,
		&acc.LastUpdatedAt,
	)
	if parent != nil {
		acc.ParentCode = *parent
	}
	return acc, err
}

func (r *PgxChartAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.ChartAccount, error) {
	query := `SELECT ` + chartAccountColumns + ` FROM chart_accounts WHERE code = $1;`
	acc, err := scanChartAccount(r.db.QueryRow(ctx, query, code))
	if err != nil {
		return nil, translateError(err, "chart account "+code)
	}
	return &acc, nil
}

func (r *PgxChartAccountRepository) FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.ChartAccount, error) {
	out := make(map[string]domain.ChartAccount, len(codes))
	if len(codes) == 0 {
		return out, nil
	}
	query := `SELECT ` + chartAccountColumns + ` FROM chart_accounts WHERE code = ANY($1);`
	rows, err := r.db.Query(ctx, query, codes)
	if err != nil {
		return nil, translateError(err, "failed to query chart accounts")
	}
	defer rows.Close()
	for rows.Next() {
		acc, err := scanChartAccount(rows)
		if err != nil {
			return nil, translateError(err, "failed to scan chart account")
		}
		out[acc.Code] = acc
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "failed to iterate chart accounts")
	}
	return out, nil
}

func (r *PgxChartAccountRepository) ListAccounts(ctx context.Context) ([]domain.ChartAccount, error) {
	query := `SELECT ` + chartAccountColumns + ` FROM chart_accounts ORDER BY code;`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, translateError(err, "failed to list chart accounts")
	}
	defer rows.Close()

	out := []domain.ChartAccount{}
	for rows.Next() {
		acc, err := scanChartAccount(rows)
		if err != nil {
			return nil, translateError(err, "failed to scan chart account")
		}
		out = append(out, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "failed to iterate chart accounts")
	}
	return out, nil
}

// SaveAccount upserts on code; the account id and created_at of an existing row are kept.
func (r *PgxChartAccountRepository) SaveAccount(ctx context.Context, account domain.ChartAccount) error {
	query := `
		INSERT INTO chart_accounts (` + chartAccountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (code) DO UPDATE SET
			description = EXCLUDED.description,
			account_type = EXCLUDED.account_type,
			nature = EXCLUDED.nature,
			level = EXCLUDED.level,
			postable = EXCLUDED.postable,
			parent_code = EXCLUDED.parent_code,
			last_updated_at = EXCLUDED.last_updated_at;
	`
	var parent *string
	if account.ParentCode != "" {
		parent = &account.ParentCode
	}
	_, err := r.db.Exec(ctx, query,
		account.ID,
		account.Code,
		account.Description,
		account.Type,
		account.Nature,
		account.Level,
		account.Postable,
		parent,
		account.CreatedAt,
		account.LastUpdatedAt,
	)
	if err != nil {
		return translateError(err, "failed to save chart account "+account.Code)
	}
	return nil
}
