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

type chartAccounts struct{ st *state }

func (r chartAccounts) FindAccountByCode(_ context.Context, code string) (*domain.ChartAccount, error) {
	acc, ok := r.st.accounts[code]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, code)
	}
	return &acc, nil
}

func (r chartAccounts) FindAccountsByCodes(_ context.Context, codes []string) (map[string]domain.ChartAccount, error) {
	out := make(map[string]domain.ChartAccount, len(codes))
	for _, code := range codes {
		if acc, ok := r.st.accounts[code]; ok {
			out[code] = acc
		}
	}
	return out, nil
}

func (r chartAccounts) ListAccounts(context.Context) ([]domain.ChartAccount, error) {
	out := make([]domain.ChartAccount, 0, len(r.st.accounts))
	for _, acc := range r.st.accounts {
		out = append(out, acc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r chartAccounts) SaveAccount(_ context.Context, account domain.ChartAccount) error {
	r.st.accounts[account.Code] = account
	return nil
}

type taxBrackets struct{ st *state }

func (r taxBrackets) ListTaxBrackets(context.Context) ([]domain.TaxBracket, error) {
	out := make([]domain.TaxBracket, 0, len(r.st.brackets))
	for _, b := range r.st.brackets {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ValidFrom.Equal(out[j].ValidFrom) {
			return out[i].ValidFrom.Before(out[j].ValidFrom)
		}
		return out[i].Order < out[j].Order
	})
	return out, nil
}

func (r taxBrackets) SaveTaxBracket(_ context.Context, bracket domain.TaxBracket) error {
	r.st.brackets[bracket.ID] = bracket
	return nil
}

type sources struct{ st *state }

func (r sources) ListPartners(context.Context) ([]domain.Partner, error) {
	out := make([]domain.Partner, 0, len(r.st.partners))
	for _, p := range r.st.partners {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r sources) FindPartnerByID(_ context.Context, id string) (*domain.Partner, error) {
	p, ok := r.st.partners[id]
	if !ok {
		return nil, fmt.Errorf("%w: partner %s", apperrors.ErrNotFound, id)
	}
	return &p, nil
}

func inRange(date, from, to time.Time) bool {
	return !date.Before(from) && date.Before(to)
}

func (r sources) ListRevenueEntries(_ context.Context, from, to time.Time) ([]domain.RevenueEntry, error) {
	out := []domain.RevenueEntry{}
	for _, e := range r.st.revenues {
		if inRange(e.Date, from, to) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r sources) ListExpenseEntries(_ context.Context, from, to time.Time) ([]domain.ExpenseEntry, error) {
	out := []domain.ExpenseEntry{}
	for _, e := range r.st.expenses {
		if inRange(e.Date, from, to) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r sources) SumRevenue(_ context.Context, from, to time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, e := range r.st.revenues {
		if inRange(e.Date, from, to) {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}
