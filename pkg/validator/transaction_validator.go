package validator

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

var (
	ErrMissingAmount   = errors.New("amount is required")
	ErrNegativeAmount  = errors.New("amount must be non-negative")
	ErrMissingCategory = errors.New("category is required")
	ErrCategoryTooLong = errors.New("category is too long")
)

const maxCategoryLength = 64

type TransactionValidator struct{}

func NewTransactionValidator() *TransactionValidator {
	return &TransactionValidator{}
}

// ValidateSubmission checks caller-supplied transaction fields before any
// scoring happens. amount is a pointer so that a missing field is
// distinguishable from an explicit zero.
func (v *TransactionValidator) ValidateSubmission(amount *decimal.Decimal, category string) error {
	var errs []error

	if amount == nil {
		errs = append(errs, ErrMissingAmount)
	} else if amount.IsNegative() {
		errs = append(errs, ErrNegativeAmount)
	}

	if category == "" {
		errs = append(errs, ErrMissingCategory)
	} else if utf8.RuneCountInString(category) > maxCategoryLength {
		errs = append(errs, ErrCategoryTooLong)
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation errors: %w", errors.Join(errs...))
	}

	return nil
}
