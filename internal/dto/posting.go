package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
	"github.com/SscSPs/lawfirm_ledger_app/internal/utils/pagination"
)

// CreatePostingRequest defines the structure for booking a manual posting.
type CreatePostingRequest struct {
	Date            string  `json:"date" binding:"required,datetime=2006-01-02"`
	DebitAccount    string  `json:"debitAccount" binding:"required"`
	CreditAccount   string  `json:"creditAccount" binding:"required,nefield=DebitAccount"`
	Amount          string  `json:"amount" binding:"required,numeric"`
	History         string  `json:"history" binding:"max=500"`
	EntryType       string  `json:"entryType" binding:"required,oneof=adjustment capital_contribution"`
	CompetencyMonth string  `json:"competencyMonth" binding:"omitempty,yyyymm"`
	Paid            bool    `json:"paid"`
	OriginPostingID *string `json:"originPostingId" binding:"omitempty,min=1"`
}

// ToDomain converts the request into the service input.
func (r CreatePostingRequest) ToDomain() (domain.NewManualPosting, error) {
	date, err := ParseDate(r.Date)
	if err != nil {
		return domain.NewManualPosting{}, err
	}
	amount, err := ParseAmount(r.Amount)
	if err != nil {
		return domain.NewManualPosting{}, err
	}
	out := domain.NewManualPosting{
		Date:            date,
		DebitAccount:    r.DebitAccount,
		CreditAccount:   r.CreditAccount,
		Amount:          amount,
		History:         r.History,
		EntryType:       domain.EntryType(r.EntryType),
		Paid:            r.Paid,
		OriginPostingID: r.OriginPostingID,
	}
	if r.CompetencyMonth != "" {
		m, err := domain.ParseCompetencyMonth(r.CompetencyMonth)
		if err != nil {
			return domain.NewManualPosting{}, err
		}
		out.CompetencyMonth = &m
	}
	return out, nil
}

// UpdatePostingRequest defines the mutable fields of a manual posting. Omitted fields are kept.
type UpdatePostingRequest struct {
	Date    *string `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Amount  *string `json:"amount" binding:"omitempty,numeric"`
	History *string `json:"history" binding:"omitempty,max=500"`
	Paid    *bool   `json:"paid"`
}

// ToDomain converts the request into a domain.PostingUpdate.
func (r UpdatePostingRequest) ToDomain() (domain.PostingUpdate, error) {
	var out domain.PostingUpdate
	if r.Date != nil {
		d, err := ParseDate(*r.Date)
		if err != nil {
			return out, err
		}
		out.Date = &d
	}
	if r.Amount != nil {
		a, err := ParseAmount(*r.Amount)
		if err != nil {
			return out, err
		}
		out.Amount = &a
	}
	out.History = r.History
	out.Paid = r.Paid
	if out.IsEmpty() {
		return out, fmt.Errorf("no fields to update")
	}
	return out, nil
}

// CapitalContributionRequest registers a partner's capital paid in cash.
type CapitalContributionRequest struct {
	PartnerID string `json:"partnerId" binding:"required"`
	Amount    string `json:"amount" binding:"required,numeric"`
	Date      string `json:"date" binding:"required,datetime=2006-01-02"`
}

// Parse returns the typed amount and date.
func (r CapitalContributionRequest) Parse() (decimal.Decimal, time.Time, error) {
	amount, err := ParseAmount(r.Amount)
	if err != nil {
		return decimal.Zero, time.Time{}, err
	}
	date, err := ParseDate(r.Date)
	if err != nil {
		return decimal.Zero, time.Time{}, err
	}
	return amount, date, nil
}

// ListPostingsParams defines query parameters for listing postings.
type ListPostingsParams struct {
	Month     string `form:"month" binding:"omitempty,yyyymm"`
	EntryType string `form:"entryType"`
	Account   string `form:"account"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=500"`
	NextToken string `form:"nextToken"`
}

// ToFilter converts the query into a domain.PostingFilter, decoding the page token.
func (p ListPostingsParams) ToFilter() (domain.PostingFilter, error) {
	filter := domain.PostingFilter{
		EntryType:   domain.EntryType(p.EntryType),
		AccountCode: p.Account,
		Limit:       p.Limit,
	}
	if p.Month != "" {
		m, err := domain.ParseCompetencyMonth(p.Month)
		if err != nil {
			return filter, err
		}
		filter.Month = &m
	}
	if p.NextToken != "" {
		date, id, err := pagination.DecodeToken(p.NextToken)
		if err != nil {
			return filter, err
		}
		filter.AfterDate = &date
		filter.AfterID = id
	}
	return filter, nil
}

// PostingResponse is the API representation of a ledger posting.
type PostingResponse struct {
	ID              string          `json:"id"`
	Date            string          `json:"date"`
	DebitAccount    string          `json:"debitAccount"`
	CreditAccount   string          `json:"creditAccount"`
	Amount          decimal.Decimal `json:"amount"`
	History         string          `json:"history"`
	Automatic       bool            `json:"automatic"`
	Editable        bool            `json:"editable"`
	EntryType       string          `json:"entryType"`
	CompetencyMonth string          `json:"competencyMonth,omitempty"`
	Paid            bool            `json:"paid"`
	OriginPostingID *string         `json:"originPostingId,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	LastUpdatedAt   time.Time       `json:"lastUpdatedAt"`
}

// ToPostingResponse converts a domain posting to its response form.
func ToPostingResponse(p domain.LedgerPosting) PostingResponse {
	out := PostingResponse{
		ID:              p.ID,
		Date:            p.Date.Format(dateLayout),
		DebitAccount:    p.DebitAccount,
		CreditAccount:   p.CreditAccount,
		Amount:          p.Amount,
		History:         p.History,
		Automatic:       p.Automatic,
		Editable:        p.Editable,
		EntryType:       string(p.EntryType),
		Paid:            p.Paid,
		OriginPostingID: p.OriginPostingID,
		CreatedAt:       p.CreatedAt,
		LastUpdatedAt:   p.LastUpdatedAt,
	}
	if p.CompetencyMonth != nil {
		out.CompetencyMonth = p.CompetencyMonth.String()
	}
	return out
}

// ListPostingsResponse wraps a page of postings.
type ListPostingsResponse struct {
	Postings  []PostingResponse `json:"postings"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToListPostingsResponse converts a page of postings.
func ToListPostingsResponse(postings []domain.LedgerPosting, next *string) ListPostingsResponse {
	out := ListPostingsResponse{Postings: make([]PostingResponse, 0, len(postings)), NextToken: next}
	for _, p := range postings {
		out.Postings = append(out.Postings, ToPostingResponse(p))
	}
	return out
}

// ResolveDuplicatesResponse reports how many postings the repair deleted.
type ResolveDuplicatesResponse struct {
	Removed int `json:"removed"`
}
