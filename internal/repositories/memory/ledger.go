package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/lawfirm_ledger_app/internal/apperrors"
	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
)

type postings struct{ st *state }

func (r postings) FindPostingByID(_ context.Context, id string) (*domain.LedgerPosting, error) {
	p, ok := r.st.postings[id]
	if !ok {
		return nil, fmt.Errorf("%w: posting %s", apperrors.ErrNotFound, id)
	}
	return &p, nil
}

// byRecency orders most recently written first, ties broken by id descending.
func byRecency(rows []domain.LedgerPosting) {
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].LastUpdatedAt.Equal(rows[j].LastUpdatedAt) {
			return rows[i].LastUpdatedAt.After(rows[j].LastUpdatedAt)
		}
		return rows[i].ID > rows[j].ID
	})
}

// byDateID is the ledger's listing order.
func byDateID(rows []domain.LedgerPosting) {
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		return rows[i].ID < rows[j].ID
	})
}

func (r postings) FindAutomaticByKey(_ context.Context, key domain.PostingKey) ([]domain.LedgerPosting, error) {
	out := []domain.LedgerPosting{}
	for _, p := range r.st.postings {
		if !p.Automatic {
			continue
		}
		if k, ok := p.Key(); ok && k == key {
			out = append(out, p)
		}
	}
	byRecency(out)
	return out, nil
}

func matches(p domain.LedgerPosting, f domain.PostingFilter) bool {
	if f.Month != nil && (p.CompetencyMonth == nil || *p.CompetencyMonth != *f.Month) {
		return false
	}
	if f.EntryType != "" && p.EntryType != f.EntryType {
		return false
	}
	if f.AccountCode != "" && p.DebitAccount != f.AccountCode && p.CreditAccount != f.AccountCode {
		return false
	}
	if f.AfterDate != nil {
		if p.Date.Before(*f.AfterDate) {
			return false
		}
		if p.Date.Equal(*f.AfterDate) && p.ID <= f.AfterID {
			return false
		}
	}
	return true
}

func (r postings) ListPostings(_ context.Context, filter domain.PostingFilter) ([]domain.LedgerPosting, error) {
	out := []domain.LedgerPosting{}
	for _, p := range r.st.postings {
		if matches(p, filter) {
			out = append(out, p)
		}
	}
	byDateID(out)
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r postings) ListPostingsByOrigin(_ context.Context, originID string) ([]domain.LedgerPosting, error) {
	out := []domain.LedgerPosting{}
	for _, p := range r.st.postings {
		if p.OriginPostingID != nil && *p.OriginPostingID == originID {
			out = append(out, p)
		}
	}
	byDateID(out)
	return out, nil
}

func (r postings) FindDuplicateKeys(context.Context) ([]domain.DuplicateGroup, error) {
	groups := make(map[domain.PostingKey][]domain.LedgerPosting)
	for _, p := range r.st.postings {
		if !p.Automatic {
			continue
		}
		if k, ok := p.Key(); ok {
			groups[k] = append(groups[k], p)
		}
	}
	out := []domain.DuplicateGroup{}
	for k, rows := range groups {
		if len(rows) < 2 {
			continue
		}
		byRecency(rows)
		ids := make([]string, len(rows))
		for i, p := range rows {
			ids[i] = p.ID
		}
		out = append(out, domain.DuplicateGroup{Key: k, PostingIDs: ids})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key.String() < out[j].Key.String() })
	return out, nil
}

func (r postings) sum(code string, from, to time.Time, debit bool) decimal.Decimal {
	total := decimal.Zero
	for _, p := range r.st.postings {
		side := p.CreditAccount
		if debit {
			side = p.DebitAccount
		}
		if side == code && inRange(p.Date, from, to) {
			total = total.Add(p.Amount)
		}
	}
	return total
}

func (r postings) SumDebits(_ context.Context, accountCode string, from, to time.Time) (decimal.Decimal, error) {
	return r.sum(accountCode, from, to, true), nil
}

func (r postings) SumCredits(_ context.Context, accountCode string, from, to time.Time) (decimal.Decimal, error) {
	return r.sum(accountCode, from, to, false), nil
}

func (r postings) AccountTotals(_ context.Context, before time.Time) (map[string]domain.TrialBalanceRow, error) {
	out := make(map[string]domain.TrialBalanceRow)
	for _, p := range r.st.postings {
		if !p.Date.Before(before) {
			continue
		}
		d := out[p.DebitAccount]
		d.AccountCode = p.DebitAccount
		d.Debit = d.Debit.Add(p.Amount)
		out[p.DebitAccount] = d

		c := out[p.CreditAccount]
		c.AccountCode = p.CreditAccount
		c.Credit = c.Credit.Add(p.Amount)
		out[p.CreditAccount] = c
	}
	return out, nil
}

func (r postings) InsertPosting(_ context.Context, posting domain.LedgerPosting) error {
	if _, exists := r.st.postings[posting.ID]; exists {
		return fmt.Errorf("%w: posting %s", apperrors.ErrDuplicate, posting.ID)
	}
	if posting.Automatic {
		if k, ok := posting.Key(); ok {
			for _, p := range r.st.postings {
				if pk, pok := p.Key(); p.Automatic && pok && pk == k {
					return fmt.Errorf("%w: %w: automatic posting %s", apperrors.ErrDuplicate, apperrors.ErrDuplicatePostingInvariantViolated, k)
				}
			}
		}
	}
	r.st.postings[posting.ID] = posting
	return nil
}

func (r postings) UpdatePosting(_ context.Context, posting domain.LedgerPosting) error {
	if _, ok := r.st.postings[posting.ID]; !ok {
		return fmt.Errorf("%w: posting %s", apperrors.ErrNotFound, posting.ID)
	}
	r.st.postings[posting.ID] = posting
	return nil
}

func (r postings) DeletePosting(_ context.Context, id string) error {
	if _, ok := r.st.postings[id]; !ok {
		return fmt.Errorf("%w: posting %s", apperrors.ErrNotFound, id)
	}
	delete(r.st.postings, id)
	return nil
}

func (r postings) DeletePostingsByMonthAndType(_ context.Context, month domain.CompetencyMonth, entryType domain.EntryType) (int64, error) {
	var n int64
	for id, p := range r.st.postings {
		if p.EntryType == entryType && p.CompetencyMonth != nil && *p.CompetencyMonth == month {
			delete(r.st.postings, id)
			n++
		}
	}
	return n, nil
}

type statements struct{ st *state }

func (r statements) FindStatementByMonth(_ context.Context, month domain.CompetencyMonth) (*domain.MonthlyIncomeStatement, error) {
	s, ok := r.st.statements[month]
	if !ok {
		return nil, fmt.Errorf("%w: statement %s", apperrors.ErrNotFound, month)
	}
	return &s, nil
}

func (r statements) ListStatementsByYear(_ context.Context, year int) ([]domain.MonthlyIncomeStatement, error) {
	out := []domain.MonthlyIncomeStatement{}
	for m, s := range r.st.statements {
		if m.Year == year {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompetencyMonth.Before(out[j].CompetencyMonth) })
	return out, nil
}

func (r statements) SaveStatement(_ context.Context, statement domain.MonthlyIncomeStatement) error {
	r.st.statements[statement.CompetencyMonth] = statement
	return nil
}

type pendingPayments struct{ st *state }

func (r pendingPayments) FindPendingPaymentByID(_ context.Context, id string) (*domain.PendingPayment, error) {
	p, ok := r.st.pending[id]
	if !ok {
		return nil, fmt.Errorf("%w: pending payment %s", apperrors.ErrNotFound, id)
	}
	return &p, nil
}

func (r pendingPayments) ListPendingPayments(_ context.Context, month, year int) ([]domain.PendingPayment, error) {
	out := []domain.PendingPayment{}
	for _, p := range r.st.pending {
		if p.MonthRef == month && p.YearRef == year {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type.Rank() != out[j].Type.Rank() {
			return out[i].Type.Rank() < out[j].Type.Rank()
		}
		return out[i].Description < out[j].Description
	})
	return out, nil
}

func (r pendingPayments) InsertPendingPayment(_ context.Context, payment domain.PendingPayment) error {
	if _, exists := r.st.pending[payment.ID]; exists {
		return fmt.Errorf("%w: pending payment %s", apperrors.ErrDuplicate, payment.ID)
	}
	r.st.pending[payment.ID] = payment
	return nil
}

func (r pendingPayments) UpdatePendingPayment(_ context.Context, id string, update domain.PendingPaymentUpdate) error {
	p, ok := r.st.pending[id]
	if !ok {
		return fmt.Errorf("%w: pending payment %s", apperrors.ErrNotFound, id)
	}
	if update.Confirmed != nil {
		p.Confirmed = *update.Confirmed
	}
	if update.ConfirmedAt != nil {
		at := *update.ConfirmedAt
		p.ConfirmedAt = &at
	}
	if update.AmountPaid != nil {
		p.AmountPaid = *update.AmountPaid
	}
	if update.PaymentPostingID != nil {
		id := *update.PaymentPostingID
		p.PaymentPostingID = &id
	}
	r.st.pending[p.ID] = p
	return nil
}

func (r pendingPayments) DeletePendingPayments(_ context.Context, month, year int) (int64, error) {
	var n int64
	for id, p := range r.st.pending {
		if p.MonthRef == month && p.YearRef == year {
			delete(r.st.pending, id)
			n++
		}
	}
	return n, nil
}
