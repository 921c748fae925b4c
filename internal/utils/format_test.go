package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$ 1.518,00", FormatBRL(decimal.RequireFromString("1518")))
	assert.Equal(t, "R$ 166,98", FormatBRL(decimal.RequireFromString("166.98")))
	assert.Equal(t, "R$ 0,01", FormatBRL(decimal.RequireFromString("0.005")))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "4,50%", FormatPercent(decimal.RequireFromString("0.045")))
}
