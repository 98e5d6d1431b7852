package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountKind distinguishes current accounts from savings accounts.
type AccountKind string

const (
	KindCurrent AccountKind = "current"
	KindSavings AccountKind = "savings"
)

// Valid reports whether the kind is one of the known tags.
func (k AccountKind) Valid() bool {
	return k == KindCurrent || k == KindSavings
}

// Account is a single-balance financial record owned by a holder.
// Balance is a projection of the transaction log; only the ledger
// service mutates it, and only while holding the account's lock.
type Account struct {
	ID             string
	HolderID       string
	Kind           AccountKind
	Balance        decimal.Decimal
	OverdraftLimit decimal.Decimal // current accounts only, >= 0
	InterestRate   decimal.Decimal // savings accounts only, percent, >= 0
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// WithdrawalFloor returns the lowest balance the account may reach:
// -overdraft_limit for current accounts, zero for savings accounts.
func (a *Account) WithdrawalFloor() decimal.Decimal {
	if a.Kind == KindCurrent {
		return a.OverdraftLimit.Neg()
	}
	return decimal.Zero
}

// ValidateWithdrawal checks that withdrawing amount keeps the balance at
// or above the account's floor.
func (a *Account) ValidateWithdrawal(amount decimal.Decimal) error {
	newBalance := a.Balance.Sub(amount)
	if newBalance.LessThan(a.WithdrawalFloor()) {
		return ErrInsufficientFunds
	}
	return nil
}

// ApplyDeposit returns the balance after crediting amount.
func (a *Account) ApplyDeposit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Add(amount)
}

// ApplyWithdrawal returns the balance after debiting amount.
func (a *Account) ApplyWithdrawal(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Sub(amount)
}

// ValidateParameters checks the kind-specific creation parameters.
// Current accounts require a non-negative overdraft limit and carry no
// interest rate; savings accounts require a non-negative rate and carry
// no overdraft limit. The opening balance must not be negative.
func (a *Account) ValidateParameters() error {
	if !a.Kind.Valid() {
		return ErrInvalidAccountParameters
	}

	if a.Balance.IsNegative() {
		return ErrInvalidAccountParameters
	}

	switch a.Kind {
	case KindCurrent:
		if a.OverdraftLimit.IsNegative() || !a.InterestRate.IsZero() {
			return ErrInvalidAccountParameters
		}
	case KindSavings:
		if a.InterestRate.IsNegative() || !a.OverdraftLimit.IsZero() {
			return ErrInvalidAccountParameters
		}
	}

	return nil
}
