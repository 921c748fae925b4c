package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EntryType tags the purpose of a ledger posting.
type EntryType string

const (
	EntryRevenue             EntryType = "revenue"
	EntryExpense             EntryType = "expense"
	EntryProvision           EntryType = "provision"
	EntryWithholding         EntryType = "withholding"
	EntryClosing             EntryType = "closing"
	EntryReserve             EntryType = "reserve"
	EntryDistribution        EntryType = "distribution"
	EntryCapitalContribution EntryType = "capital_contribution"
	EntryPayment             EntryType = "payment"
	EntryAdjustment          EntryType = "adjustment"
)

// LedgerPosting is a single-amount double-entry row: the same amount debits one
// postable account and credits another.
type LedgerPosting struct {
	ID              string           `json:"id"`
	Date            time.Time        `json:"date"`
	DebitAccount    string           `json:"debitAccount"`
	CreditAccount   string           `json:"creditAccount"`
	Amount          decimal.Decimal  `json:"amount"`
	History         string           `json:"history"`
	Automatic       bool             `json:"automatic"`
	Editable        bool             `json:"editable"`
	EntryType       EntryType        `json:"entryType"`
	CompetencyMonth *CompetencyMonth `json:"competencyMonth,omitempty"`
	Paid            bool             `json:"paid"`
	OriginPostingID *string          `json:"originPostingId,omitempty"`
	AuditFields
}

// PostingKey identifies an automatic posting. At most one automatic posting exists per key.
type PostingKey struct {
	Month         CompetencyMonth `json:"competencyMonth"`
	EntryType     EntryType       `json:"entryType"`
	DebitAccount  string          `json:"debitAccount"`
	CreditAccount string          `json:"creditAccount"`
}

func (k PostingKey) String() string {
	return fmt.Sprintf("%s/%s/%s->%s", k.Month, k.EntryType, k.DebitAccount, k.CreditAccount)
}

// Key returns the posting's automatic key. ok is false for postings without a competency month.
func (p LedgerPosting) Key() (key PostingKey, ok bool) {
	if p.CompetencyMonth == nil {
		return PostingKey{}, false
	}
	return PostingKey{
		Month:         *p.CompetencyMonth,
		EntryType:     p.EntryType,
		DebitAccount:  p.DebitAccount,
		CreditAccount: p.CreditAccount,
	}, true
}

// PostingFields are the values an automatic upsert is allowed to write.
type PostingFields struct {
	Date    time.Time
	Amount  decimal.Decimal
	History string
}

// NewManualPosting holds the input for a manually booked posting.
type NewManualPosting struct {
	Date            time.Time
	DebitAccount    string
	CreditAccount   string
	Amount          decimal.Decimal
	History         string
	EntryType       EntryType
	CompetencyMonth *CompetencyMonth
	Paid            bool
	OriginPostingID *string
}

// PostingUpdate enumerates the mutable fields of a manual posting. Nil fields are left as is.
type PostingUpdate struct {
	Date    *time.Time
	Amount  *decimal.Decimal
	History *string
	Paid    *bool
}

// IsEmpty reports whether the update changes nothing.
func (u PostingUpdate) IsEmpty() bool {
	return u.Date == nil && u.Amount == nil && u.History == nil && u.Paid == nil
}

// PostingFilter narrows ListPostings. Zero values mean no restriction.
type PostingFilter struct {
	Month       *CompetencyMonth
	EntryType   EntryType
	AccountCode string
	Limit       int
	AfterDate   *time.Time
	AfterID     string
}

// DuplicateGroup reports automatic postings that share one key.
type DuplicateGroup struct {
	Key        PostingKey `json:"key"`
	PostingIDs []string   `json:"postingIds"`
}
