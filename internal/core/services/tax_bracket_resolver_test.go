package services_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/lawfirm_ledger_app/internal/apperrors"
	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
	"github.com/SscSPs/lawfirm_ledger_app/internal/core/services"
	"github.com/SscSPs/lawfirm_ledger_app/internal/platform/seed"
)

var referenceDate = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertAmount(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Equal(t, dec(want).StringFixed(2), got.StringFixed(2), msgAndArgs...)
}

func defaultBrackets(t *testing.T) []domain.TaxBracket {
	t.Helper()
	brackets, err := seed.DefaultTaxBrackets()
	require.NoError(t, err)
	return brackets
}

func TestTaxBracketResolver_MonthlyTax(t *testing.T) {
	resolver := services.NewTaxBracketResolver(defaultBrackets(t))

	rate, err := resolver.Resolve(dec("100000.00"), referenceDate)
	require.NoError(t, err)
	assert.Equal(t, 1, rate.BracketOrder)
	assert.True(t, rate.EffectiveRate.Equal(dec("0.045")), "effective rate %s", rate.EffectiveRate)
	assertAmount(t, "450.00", resolver.MonthlyTax(dec("10000.00"), rate))
}

func TestTaxBracketResolver_Boundaries(t *testing.T) {
	resolver := services.NewTaxBracketResolver(defaultBrackets(t))

	tests := []struct {
		trailing string
		order    int
	}{
		{"0", 1},
		{"180000.00", 1},
		{"180000.01", 2},
		{"360000.00", 2},
		{"720000.00", 3},
		{"1800000.00", 4},
		{"3600000.00", 5},
		{"4800000.00", 6},
	}
	for _, tt := range tests {
		t.Run(tt.trailing, func(t *testing.T) {
			rate, err := resolver.Resolve(dec(tt.trailing), referenceDate)
			require.NoError(t, err)
			assert.Equal(t, tt.order, rate.BracketOrder)
		})
	}
}

func TestTaxBracketResolver_CeilingExceeded(t *testing.T) {
	resolver := services.NewTaxBracketResolver(defaultBrackets(t))

	_, err := resolver.Resolve(dec("4800000.01"), referenceDate)
	assert.ErrorIs(t, err, apperrors.ErrTaxCeilingExceeded)
}

func TestTaxBracketResolver_NegativeRevenue(t *testing.T) {
	resolver := services.NewTaxBracketResolver(defaultBrackets(t))

	_, err := resolver.Resolve(dec("-1"), referenceDate)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestTaxBracketResolver_ZeroRevenue(t *testing.T) {
	resolver := services.NewTaxBracketResolver(defaultBrackets(t))

	rate, err := resolver.Resolve(decimal.Zero, referenceDate)
	require.NoError(t, err)
	assert.True(t, rate.EffectiveRate.IsZero())
	assert.True(t, resolver.MonthlyTax(decimal.Zero, rate).IsZero())
}

// The first five brackets of the table are continuous at their limits; the rate never drops.
func TestTaxBracketResolver_Monotonic(t *testing.T) {
	resolver := services.NewTaxBracketResolver(defaultBrackets(t))

	step := dec("15000")
	previous := decimal.Zero
	for trailing := dec("1000"); trailing.LessThanOrEqual(dec("3600000")); trailing = trailing.Add(step) {
		rate, err := resolver.Resolve(trailing, referenceDate)
		require.NoError(t, err)
		assert.True(t, rate.EffectiveRate.GreaterThanOrEqual(previous),
			"effective rate dropped at %s: %s < %s", trailing, rate.EffectiveRate, previous)
		previous = rate.EffectiveRate
	}
}

func TestTaxBracketResolver_ValidityWindow(t *testing.T) {
	end := time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC)
	brackets := []domain.TaxBracket{
		{ID: "old", Order: 1, UpperLimit: dec("100000"), NominalRate: dec("0.05"), ValidFrom: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), ValidTo: &end},
		{ID: "new", Order: 1, UpperLimit: dec("200000"), NominalRate: dec("0.06"), ValidFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	resolver := services.NewTaxBracketResolver(brackets)

	rate, err := resolver.Resolve(dec("150000"), referenceDate)
	require.NoError(t, err)
	assert.True(t, rate.NominalRate.Equal(dec("0.06")))

	_, err = resolver.Resolve(dec("150000"), time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, apperrors.ErrTaxCeilingExceeded)

	_, err = resolver.Resolve(dec("50000"), time.Date(2019, time.June, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, apperrors.ErrNoTaxBrackets)
}

func TestTaxBracketResolver_SnapshotIsImmutable(t *testing.T) {
	brackets := defaultBrackets(t)
	resolver := services.NewTaxBracketResolver(brackets)
	brackets[0].NominalRate = dec("0.5")

	rate, err := resolver.Resolve(dec("100000"), referenceDate)
	require.NoError(t, err)
	assert.True(t, rate.NominalRate.Equal(dec("0.045")))
}
