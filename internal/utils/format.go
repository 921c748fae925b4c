package utils

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var brPrinter = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL renders an amount the way Brazilian reports print it, e.g. "R$ 1.518,00".
// Amounts are rounded to cents first; the float conversion only feeds the localized printer.
func FormatBRL(amount decimal.Decimal) string {
	f, _ := amount.Round(2).Float64()
	return brPrinter.Sprintf("R$ %.2f", f)
}

// FormatPercent renders a fraction (0.045) as a localized percentage ("4,50%").
func FormatPercent(rate decimal.Decimal) string {
	f, _ := rate.Mul(decimal.NewFromInt(100)).Round(2).Float64()
	return brPrinter.Sprintf("%.2f%%", f)
}
