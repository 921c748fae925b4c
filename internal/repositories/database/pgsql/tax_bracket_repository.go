package pgsql

import (
	"context"

	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/lawfirm_ledger_app/internal/core/ports/repositories"
)

type PgxTaxBracketRepository struct {
	db dbtx
}

var _ portsrepo.TaxBracketRepositoryFacade = (*PgxTaxBracketRepository)(nil)

func (r *PgxTaxBracketRepository) ListTaxBrackets(ctx context.Context) ([]domain.TaxBracket, error) {
	query := `
		SELECT bracket_id, bracket_order, upper_limit, nominal_rate, deduction, valid_from, valid_to
		FROM tax_brackets
		ORDER BY valid_from, bracket_order;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, translateError(err, "failed to list tax brackets")
	}
	defer rows.Close()

	out := []domain.TaxBracket{}
	for rows.Next() {
		var b domain.TaxBracket
		if err := rows.Scan(&b.ID, &b.Order, &b.UpperLimit, &b.NominalRate, &b.Deduction, &b.ValidFrom, &b.ValidTo); err != nil {
			return nil, translateError(err, "failed to scan tax bracket")
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "failed to iterate tax brackets")
	}
	return out, nil
}

func (r *PgxTaxBracketRepository) SaveTaxBracket(ctx context.Context, bracket domain.TaxBracket) error {
	query := `
		INSERT INTO tax_brackets (bracket_id, bracket_order, upper_limit, nominal_rate, deduction, valid_from, valid_to)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (bracket_id) DO UPDATE SET
			bracket_order = EXCLUDED.bracket_order,
			upper_limit = EXCLUDED.upper_limit,
			nominal_rate = EXCLUDED.nominal_rate,
			deduction = EXCLUDED.deduction,
			valid_from = EXCLUDED.valid_from,
			valid_to = EXCLUDED.valid_to;
	`
	_, err := r.db.Exec(ctx, query,
		bracket.ID,
		bracket.Order,
		bracket.UpperLimit,
		bracket.NominalRate,
		bracket.Deduction,
		bracket.ValidFrom,
		bracket.ValidTo,
	)
	if err != nil {
		return translateError(err, "failed to save tax bracket "+bracket.ID)
	}
	return nil
}
