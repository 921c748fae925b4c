package dto

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
)

const dateLayout = "2006-01-02"

// RegisterValidators adds the custom tags used by request DTOs to gin's validator.
// It is safe to call more than once.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("yyyymm", validateCompetencyMonth)
}

// validateCompetencyMonth accepts "YYYY-MM" strings.
func validateCompetencyMonth(fl validator.FieldLevel) bool {
	_, err := domain.ParseCompetencyMonth(fl.Field().String())
	return err == nil
}

// ParseDate parses the YYYY-MM-DD form used throughout the API.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// ParseAmount parses a monetary string.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}
