package validator

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestValidateSubmission_Valid(t *testing.T) {
	v := NewTransactionValidator()

	cases := []struct {
		amount   *decimal.Decimal
		category string
	}{
		{amount("50"), "Groceries"},
		{amount("0"), "Rent"},
		{amount("30000"), "Luxury"},
		{amount("12.34"), "Dining"},
	}

	for _, c := range cases {
		if err := v.ValidateSubmission(c.amount, c.category); err != nil {
			t.Errorf("expected valid submission (%s, %s), got %v", c.amount, c.category, err)
		}
	}
}

func TestValidateSubmission_MissingAmount(t *testing.T) {
	v := NewTransactionValidator()

	err := v.ValidateSubmission(nil, "Groceries")
	if !errors.Is(err, ErrMissingAmount) {
		t.Errorf("expected ErrMissingAmount, got %v", err)
	}
}

func TestValidateSubmission_NegativeAmount(t *testing.T) {
	v := NewTransactionValidator()

	err := v.ValidateSubmission(amount("-0.01"), "Groceries")
	if !errors.Is(err, ErrNegativeAmount) {
		t.Errorf("expected ErrNegativeAmount, got %v", err)
	}
}

func TestValidateSubmission_MissingCategory(t *testing.T) {
	v := NewTransactionValidator()

	err := v.ValidateSubmission(amount("50"), "")
	if !errors.Is(err, ErrMissingCategory) {
		t.Errorf("expected ErrMissingCategory, got %v", err)
	}
}

func TestValidateSubmission_CategoryTooLong(t *testing.T) {
	v := NewTransactionValidator()

	err := v.ValidateSubmission(amount("50"), strings.Repeat("x", 65))
	if !errors.Is(err, ErrCategoryTooLong) {
		t.Errorf("expected ErrCategoryTooLong, got %v", err)
	}
}

func TestValidateSubmission_CollectsAllErrors(t *testing.T) {
	v := NewTransactionValidator()

	err := v.ValidateSubmission(nil, "")
	if !errors.Is(err, ErrMissingAmount) || !errors.Is(err, ErrMissingCategory) {
		t.Errorf("expected both validation errors, got %v", err)
	}
}
