package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
)

func share(partner, percent string) domain.PartnerShare {
	return domain.PartnerShare{PartnerID: partner, Percent: decimal.RequireFromString(percent)}
}

func TestRevenueEntry_Validate(t *testing.T) {
	tests := []struct {
		name    string
		shares  []domain.PartnerShare
		wantErr bool
	}{
		{name: "full split", shares: []domain.PartnerShare{share("a", "80"), share("b", "20")}},
		{name: "partial split", shares: []domain.PartnerShare{share("a", "50")}},
		{name: "no shares", shares: nil},
		{name: "over one hundred", shares: []domain.PartnerShare{share("a", "60"), share("b", "40.01")}},
		{name: "single share over one hundred", shares: []domain.PartnerShare{share("a", "100.01")}, wantErr: true},
		{name: "negative share", shares: []domain.PartnerShare{share("a", "-1")}, wantErr: true},
		{name: "repeated partner", shares: []domain.PartnerShare{share("a", "10"), share("a", "10")}, wantErr: true},
		{name: "missing partner", shares: []domain.PartnerShare{share("", "10")}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := domain.RevenueEntry{ID: "rev-1", Amount: decimal.NewFromInt(1000), Shares: tt.shares}
			err := entry.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRevenueEntry_SharesTotal(t *testing.T) {
	entry := domain.RevenueEntry{Shares: []domain.PartnerShare{share("a", "60"), share("b", "40.01")}}
	assert.True(t, entry.SharesTotal().Equal(decimal.RequireFromString("100.01")))
	assert.True(t, domain.RevenueEntry{}.SharesTotal().IsZero())
}

func TestRevenueEntry_ShareOf(t *testing.T) {
	entry := domain.RevenueEntry{
		Amount: decimal.RequireFromString("10000.00"),
		Shares: []domain.PartnerShare{share("ana", "80"), share("bruno", "20")},
	}

	assert.True(t, entry.ShareOf("ana").Equal(decimal.NewFromInt(8000)))
	assert.True(t, entry.ShareOf("bruno").Equal(decimal.NewFromInt(2000)))
	assert.True(t, entry.ShareOf("carla").IsZero())
}

func TestPartner_IsAdministrator(t *testing.T) {
	assert.True(t, domain.Partner{RolesText: "Sócia Administradora"}.IsAdministrator())
	assert.True(t, domain.Partner{RolesText: "managing administrator"}.IsAdministrator())
	assert.False(t, domain.Partner{RolesText: "Sócio"}.IsAdministrator())
}

func TestTaxBracket_ValidAt(t *testing.T) {
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	b := domain.TaxBracket{ValidFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), ValidTo: &end}

	assert.True(t, b.ValidAt(b.ValidFrom))
	assert.True(t, b.ValidAt(end), "upper bound is inclusive")
	assert.False(t, b.ValidAt(end.AddDate(0, 0, 1)))
	assert.False(t, b.ValidAt(b.ValidFrom.AddDate(0, 0, -1)))

	b.ValidTo = nil
	assert.True(t, b.ValidAt(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestPendingPayment_Outstanding(t *testing.T) {
	p := domain.PendingPayment{Amount: decimal.RequireFromString("450.00"), AmountPaid: decimal.RequireFromString("200.00"), MonthRef: 3, YearRef: 2024}

	assert.True(t, p.Outstanding().Equal(decimal.NewFromInt(250)))
	assert.Equal(t, "2024-03", p.CompetencyMonth().String())
	assert.Less(t, domain.PaymentTax.Rank(), domain.PaymentProfitPerPartner.Rank())
}
