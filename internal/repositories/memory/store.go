// Package memory provides an in-memory storage used for development and tests.
// Transactions are serialized by a single mutex; each one works on a copy of the
// committed state that replaces it on success.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/lawfirm_ledger_app/internal/core/ports/repositories"
)

type state struct {
	accounts   map[string]domain.ChartAccount // by code
	postings   map[string]domain.LedgerPosting
	statements map[domain.CompetencyMonth]domain.MonthlyIncomeStatement
	pending    map[string]domain.PendingPayment
	partners   map[string]domain.Partner
	revenues   map[string]domain.RevenueEntry
	expenses   map[string]domain.ExpenseEntry
	brackets   map[string]domain.TaxBracket
}

func newState() *state {
	return &state{
		accounts:   make(map[string]domain.ChartAccount),
		postings:   make(map[string]domain.LedgerPosting),
		statements: make(map[domain.CompetencyMonth]domain.MonthlyIncomeStatement),
		pending:    make(map[string]domain.PendingPayment),
		partners:   make(map[string]domain.Partner),
		revenues:   make(map[string]domain.RevenueEntry),
		expenses:   make(map[string]domain.ExpenseEntry),
		brackets:   make(map[string]domain.TaxBracket),
	}
}

// clone copies every table. Stored values are never mutated in place, so a shallow copy per map is enough.
func (st *state) clone() *state {
	return &state{
		accounts:   maps.Clone(st.accounts),
		postings:   maps.Clone(st.postings),
		statements: maps.Clone(st.statements),
		pending:    maps.Clone(st.pending),
		partners:   maps.Clone(st.partners),
		revenues:   maps.Clone(st.revenues),
		expenses:   maps.Clone(st.expenses),
		brackets:   maps.Clone(st.brackets),
	}
}

// Store is an in-memory implementation of portsrepo.TransactionManager.
type Store struct {
	mu        sync.Mutex
	committed *state
}

// New constructs an empty in-memory store.
func New() *Store {
	return &Store{committed: newState()}
}

var _ portsrepo.TransactionManager = (*Store)(nil)

type txKey struct{}

// WithinTx implements portsrepo.TransactionManager. Seed helpers must not be called from fn.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, uow portsrepo.UnitOfWork) error) error {
	if uow, ok := ctx.Value(txKey{}).(*unitOfWork); ok && uow.store == s {
		return fn(ctx, uow)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.committed.clone()
	uow := &unitOfWork{store: s, st: work}
	if err := fn(context.WithValue(ctx, txKey{}, uow), uow); err != nil {
		return err
	}
	s.committed = work
	return nil
}

// Seed helpers for local dev/tests.

func (s *Store) SeedPartners(partners ...domain.Partner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range partners {
		s.committed.partners[p.ID] = p
	}
}

func (s *Store) SeedRevenue(entries ...domain.RevenueEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.committed.revenues[e.ID] = e
	}
}

func (s *Store) SeedExpenses(entries ...domain.ExpenseEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.committed.expenses[e.ID] = e
	}
}

// SeedPosting stores a posting as is, bypassing every ledger rule. Tests use it to plant duplicates.
func (s *Store) SeedPosting(p domain.LedgerPosting) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.committed.postings[p.ID] = p
}

// Reset drops all data.
func (s *Store) Reset() {
	s.mu.Lock()
	s.committed = newState()
	s.mu.Unlock()
}

type unitOfWork struct {
	store *Store
	st    *state
}

// LockMonth is a no-op: transactions are already serialized.
func (u *unitOfWork) LockMonth(context.Context, domain.CompetencyMonth) error { return nil }

func (u *unitOfWork) ChartAccounts() portsrepo.ChartAccountRepositoryFacade {
	return chartAccounts{u.st}
}

func (u *unitOfWork) Postings() portsrepo.PostingRepositoryFacade { return postings{u.st} }

func (u *unitOfWork) Statements() portsrepo.StatementRepositoryFacade { return statements{u.st} }

func (u *unitOfWork) PendingPayments() portsrepo.PendingPaymentRepositoryFacade {
	return pendingPayments{u.st}
}

func (u *unitOfWork) Sources() portsrepo.SourceReader { return sources{u.st} }

func (u *unitOfWork) TaxBrackets() portsrepo.TaxBracketRepositoryFacade { return taxBrackets{u.st} }
