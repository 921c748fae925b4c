package accounting

import (
	"fmt"

	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedBalance returns the balance of an account from its debit and credit totals,
// positive when the account's natural side dominates.
func SignedBalance(nature domain.AccountNature, debit, credit decimal.Decimal) (decimal.Decimal, error) {
	switch nature {
	case domain.DebitNature:
		return debit.Sub(credit), nil
	case domain.CreditNature:
		return credit.Sub(debit), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account nature '%s'", nature)
	}
}

// ValidatePostingAccounts checks that both legs of a posting target distinct postable accounts.
func ValidatePostingAccounts(debit, credit domain.ChartAccount) error {
	if debit.Code == credit.Code {
		return fmt.Errorf("debit and credit accounts must differ (%s)", debit.Code)
	}
	for _, acc := range []domain.ChartAccount{debit, credit} {
		if !acc.Postable {
			return fmt.Errorf("account %s (%s) is synthetic", acc.Code, acc.Description)
		}
	}
	return nil
}
