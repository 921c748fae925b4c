package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrTaxCeilingExceeded indicates that trailing revenue is above the top bracket of the tax table.
var ErrTaxCeilingExceeded = errors.New("trailing revenue exceeds the tax table ceiling")

// ErrNoTaxBrackets indicates that no bracket of the tax table is valid on the reference date.
var ErrNoTaxBrackets = errors.New("no tax bracket valid for the reference date")

// ErrMissingChartAccount indicates that a required chart account is absent or not postable.
var ErrMissingChartAccount = errors.New("required chart account missing")

// ErrAccountNotPostable indicates a posting targeting a synthetic (non-leaf) account.
var ErrAccountNotPostable = errors.New("account is not postable")

// ErrInvalidChart indicates a chart of accounts that breaks the hierarchy rules.
var ErrInvalidChart = errors.New("invalid chart of accounts")

// ErrSolverDidNotConverge indicates that the pro-labore solver exhausted its iterations.
// It is non-fatal: the result returned alongside it is the last candidate.
var ErrSolverDidNotConverge = errors.New("pro-labore solver did not converge")

// ErrDuplicatePostingInvariantViolated indicates more than one automatic posting for a single key.
var ErrDuplicatePostingInvariantViolated = errors.New("duplicate automatic posting for key")

// ErrPostingNotEditable indicates an attempt to edit an automatic posting by hand.
var ErrPostingNotEditable = errors.New("posting is not editable")

// ErrMonthConsolidated indicates a manual change to a month whose statement is consolidated.
var ErrMonthConsolidated = errors.New("competency month is consolidated")

// AppError carries an HTTP-ish status code and a safe message alongside the cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError builds an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}
