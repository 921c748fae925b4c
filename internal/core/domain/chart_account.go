package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// AccountNature tells which side of a posting increases the account balance.
type AccountNature string

const (
	DebitNature  AccountNature = "DEBIT"
	CreditNature AccountNature = "CREDIT"
)

// rootTypes maps the top-level chart codes to their account type.
var rootTypes = map[string]AccountType{
	"1": Asset,
	"2": Liability,
	"3": Equity,
	"4": Revenue,
	"5": Expense,
}

// Chart codes the consolidation engine books against.
const (
	CodeCash               = "1.1.1"
	CodeBank               = "1.1.2"
	CodeReceivables        = "1.1.3"
	CodeReserveInvestment  = "1.1.4"
	CodeProLaborePayable   = "2.1.1.1"
	CodeSocialSecurityDue  = "2.1.1.2"
	CodeTaxPayable         = "2.1.2.1"
	CodeProfitsPayable     = "2.1.3"
	CodeCapital            = "3.1"
	CodeProfitReserve      = "3.2"
	CodeRetainedEarnings   = "3.3"
	CodeDistributedProfits = "3.4"
	CodeFeeRevenue         = "4.1.1"
	CodeGeneralExpenses    = "5.1.1"
	CodeProLaboreExpense   = "5.2.1"
	CodeEmployerSSExpense  = "5.2.2"
	CodeSimplesTaxExpense  = "5.3.1"
)

// RequiredAccountCodes lists every leaf the consolidation engine needs to be present and postable.
var RequiredAccountCodes = []string{
	CodeCash,
	CodeReserveInvestment,
	CodeProLaborePayable,
	CodeSocialSecurityDue,
	CodeTaxPayable,
	CodeProfitsPayable,
	CodeCapital,
	CodeProfitReserve,
	CodeRetainedEarnings,
	CodeDistributedProfits,
	CodeFeeRevenue,
	CodeGeneralExpenses,
	CodeProLaboreExpense,
	CodeEmployerSSExpense,
	CodeSimplesTaxExpense,
}

// ChartAccount is a node of the fixed hierarchical chart of accounts.
type ChartAccount struct {
	ID          string        `json:"id"`
	Code        string        `json:"code"`
	Description string        `json:"description"`
	Type        AccountType   `json:"type"`
	Nature      AccountNature `json:"nature"`
	Level       int           `json:"level"`
	Postable    bool          `json:"postable"`
	ParentCode  string        `json:"parentCode,omitempty"`
	AuditFields
}

// ParentCodeOf strips the last segment of a dotted code. Roots have no parent.
func ParentCodeOf(code string) string {
	idx := strings.LastIndex(code, ".")
	if idx < 0 {
		return ""
	}
	return code[:idx]
}

// CodeLevel returns the depth of a code, counting the root as level 1.
func CodeLevel(code string) int {
	return strings.Count(code, ".") + 1
}

// RootTypeOf returns the account type implied by the first segment of the code.
func RootTypeOf(code string) (AccountType, bool) {
	root := code
	if idx := strings.Index(code, "."); idx >= 0 {
		root = code[:idx]
	}
	t, ok := rootTypes[root]
	return t, ok
}

// ValidateCode checks the dotted shape of a chart code: numeric segments, no empty parts.
func ValidateCode(code string) error {
	if code == "" {
		return fmt.Errorf("empty account code")
	}
	for _, seg := range strings.Split(code, ".") {
		if seg == "" {
			return fmt.Errorf("account code %q has an empty segment", code)
		}
		if _, err := strconv.Atoi(seg); err != nil {
			return fmt.Errorf("account code %q has a non-numeric segment %q", code, seg)
		}
	}
	if _, ok := RootTypeOf(code); !ok {
		return fmt.Errorf("account code %q is not under a known root", code)
	}
	return nil
}

// DefaultNature returns the natural balance side for an account type.
func DefaultNature(t AccountType) AccountNature {
	switch t {
	case Asset, Expense:
		return DebitNature
	default:
		return CreditNature
	}
}

// IsAncestorOf reports whether a is a strict ancestor of code in the dotted hierarchy.
func (a ChartAccount) IsAncestorOf(code string) bool {
	return strings.HasPrefix(code, a.Code+".")
}
