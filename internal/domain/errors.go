package domain

import "errors"

var (
	// Lookup errors
	ErrAccountNotFound = errors.New("account not found")
	ErrHolderNotFound  = errors.New("holder not found")

	// Validation errors (fixable by changing input)
	ErrInvalidAmount            = errors.New("amount must be positive")
	ErrInvalidAccountParameters = errors.New("invalid account parameters")
	ErrNotSavingsAccount        = errors.New("account is not a savings account")

	// State errors (fixable by changing balance)
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvariantViolation covers defensive failures: re-entrant lock
	// acquisition or a detected balance/log divergence. Not fixable by
	// the caller.
	ErrInvariantViolation = errors.New("internal invariant violation")
)
