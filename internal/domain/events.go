package domain

import "time"

// Event types
const (
	EventTypeAccountOpened       = "account.opened"
	EventTypeDepositCommitted    = "deposit.committed"
	EventTypeWithdrawalCommitted = "withdrawal.committed"
	EventTypeInterestAccrued     = "interest.accrued"
)

// Aggregate types
const (
	AggregateTypeAccount = "account"
)

// OutboxEvent represents an event recorded in the same storage
// transaction as the state change it describes, to be published later.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// AccountOpenedEvent payload
type AccountOpenedEvent struct {
	AccountID      string `json:"account_id"`
	HolderID       string `json:"holder_id"`
	Kind           string `json:"kind"`
	OpeningBalance string `json:"opening_balance"`
}

// LedgerEntryCommittedEvent payload, shared by deposit, withdrawal and
// interest events.
type LedgerEntryCommittedEvent struct {
	AccountID        string `json:"account_id"`
	TransactionID    string `json:"transaction_id"`
	Sequence         int64  `json:"sequence"`
	Amount           string `json:"amount"`
	ResultingBalance string `json:"resulting_balance"`
}
