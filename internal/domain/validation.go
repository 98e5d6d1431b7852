package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidHolderName = fmt.Errorf("%w: invalid holder name", ErrInvalidAccountParameters)
	ErrAmountTooLarge    = fmt.Errorf("%w: amount exceeds maximum allowed", ErrInvalidAmount)
	ErrAmountTooPrecise  = fmt.Errorf("%w: amount has more than two decimal places", ErrInvalidAmount)
)

// Validation constants
const (
	MaxHolderNameLength = 255
	MaxOperationAmount  = "1000000000000" // 1 trillion
)

var maxOperationAmount = decimal.RequireFromString(MaxOperationAmount)

// ValidateAmount validates a deposit or withdrawal amount: strictly
// positive, at most two decimal places, below the operation ceiling.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if amount.Exponent() < -2 {
		return ErrAmountTooPrecise
	}

	if amount.GreaterThan(maxOperationAmount) {
		return ErrAmountTooLarge
	}

	return nil
}

// ValidateHolderName validates a holder first or last name.
func ValidateHolderName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidHolderName)
	}

	if len(name) > MaxHolderNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidHolderName, MaxHolderNameLength)
	}

	return nil
}

// ValidatePagination clamps pagination parameters to sane bounds.
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
