package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind identifies the balance-affecting event type.
type TransactionKind string

const (
	TxDeposit    TransactionKind = "deposit"
	TxWithdrawal TransactionKind = "withdrawal"
	TxInterest   TransactionKind = "interest"
)

// Transaction is one immutable, ordered, balance-affecting event.
// Sequence is strictly increasing per account and defines the total
// order of that account's history. Amount is always the positive
// magnitude; the sign convention is applied via SignedAmount.
type Transaction struct {
	ID               string
	AccountID        string
	Sequence         int64
	Kind             TransactionKind
	Amount           decimal.Decimal
	ResultingBalance decimal.Decimal
	CreatedAt        time.Time
}

// SignedAmount returns the amount with the sign it contributes to the
// running balance: negative for withdrawals, positive otherwise.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Kind == TxWithdrawal {
		return t.Amount.Neg()
	}
	return t.Amount
}
