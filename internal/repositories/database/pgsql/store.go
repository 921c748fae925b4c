// Package pgsql implements the repository ports on PostgreSQL through pgx.
package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/lawfirm_ledger_app/internal/apperrors"
	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/lawfirm_ledger_app/internal/core/ports/repositories"
)

// monthLockClass namespaces the advisory locks taken per competency month.
const monthLockClass = 4201

const automaticKeyIndex = "ux_ledger_postings_automatic_key"

// dbtx is the subset of pgx.Tx the repositories use.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is the PostgreSQL implementation of portsrepo.TransactionManager.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wraps a connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

var _ portsrepo.TransactionManager = (*Store)(nil)

type txKey struct{}

// WithinTx implements portsrepo.TransactionManager.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, uow portsrepo.UnitOfWork) error) error {
	if uow, ok := ctx.Value(txKey{}).(*unitOfWork); ok && uow.store == s {
		return fn(ctx, uow)
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	// Will be ignored if transaction is committed successfully
	defer rollback(ctx, tx)

	uow := &unitOfWork{store: s, tx: tx}
	if err := fn(context.WithValue(ctx, txKey{}, uow), uow); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

func rollback(ctx context.Context, tx pgx.Tx) {
	// The caller's context may already be cancelled; the rollback must still reach the server.
	if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		slog.WarnContext(ctx, "Failed to rollback transaction", slog.String("error", err.Error()))
	}
}

type unitOfWork struct {
	store *Store
	tx    pgx.Tx
}

// LockMonth takes a transaction-scoped advisory lock on the month.
func (u *unitOfWork) LockMonth(ctx context.Context, month domain.CompetencyMonth) error {
	objID := month.Year*100 + int(month.Month)
	if _, err := u.tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1, $2)`, monthLockClass, objID); err != nil {
		return fmt.Errorf("failed to lock competency month %s: %w", month, err)
	}
	return nil
}

func (u *unitOfWork) ChartAccounts() portsrepo.ChartAccountRepositoryFacade {
	return &PgxChartAccountRepository{db: u.tx}
}

func (u *unitOfWork) Postings() portsrepo.PostingRepositoryFacade {
	return &PgxPostingRepository{db: u.tx}
}

func (u *unitOfWork) Statements() portsrepo.StatementRepositoryFacade {
	return &PgxStatementRepository{db: u.tx}
}

func (u *unitOfWork) PendingPayments() portsrepo.PendingPaymentRepositoryFacade {
	return &PgxPendingPaymentRepository{db: u.tx}
}

func (u *unitOfWork) Sources() portsrepo.SourceReader {
	return &PgxSourceRepository{db: u.tx}
}

func (u *unitOfWork) TaxBrackets() portsrepo.TaxBracketRepositoryFacade {
	return &PgxTaxBracketRepository{db: u.tx}
}

// translateError maps driver errors onto the application sentinels.
func translateError(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, what)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
		if pgErr.ConstraintName == automaticKeyIndex {
			return fmt.Errorf("%w: %w: %s", apperrors.ErrDuplicate, apperrors.ErrDuplicatePostingInvariantViolated, what)
		}
		return fmt.Errorf("%w: %s", apperrors.ErrDuplicate, what)
	}
	return fmt.Errorf("%s: %w", what, err)
}

// monthColumn renders an optional competency month as its CHAR(7) column value.
func monthColumn(m *domain.CompetencyMonth) *string {
	if m == nil {
		return nil
	}
	s := m.String()
	return &s
}

func parseMonthColumn(s *string) (*domain.CompetencyMonth, error) {
	if s == nil {
		return nil, nil
	}
	m, err := domain.ParseCompetencyMonth(*s)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
