package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HolderResponse represents a holder in API responses.
type HolderResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	BirthDate string    `json:"birth_date,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HolderFromDomain converts a domain holder to a response.
func HolderFromDomain(h *domain.Holder) *HolderResponse {
	resp := &HolderResponse{
		ID:        h.ID,
		FirstName: h.FirstName,
		LastName:  h.LastName,
		Address:   h.Address,
		CreatedAt: h.CreatedAt,
	}
	if !h.BirthDate.IsZero() {
		resp.BirthDate = h.BirthDate.Format(birthDateLayout)
	}
	return resp
}

// HoldersFromDomain converts domain holders to responses.
func HoldersFromDomain(holders []*domain.Holder) []*HolderResponse {
	result := make([]*HolderResponse, len(holders))
	for i, h := range holders {
		result[i] = HolderFromDomain(h)
	}
	return result
}

// ListHoldersResponse wraps a holder listing.
type ListHoldersResponse struct {
	Holders []*HolderResponse `json:"holders"`
	Total   int64             `json:"total"`
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID             string          `json:"id"`
	HolderID       string          `json:"holder_id"`
	Kind           string          `json:"kind"`
	Balance        decimal.Decimal `json:"balance"`
	OverdraftLimit decimal.Decimal `json:"overdraft_limit"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	Version        int64           `json:"version"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:             a.ID,
		HolderID:       a.HolderID,
		Kind:           string(a.Kind),
		Balance:        a.Balance,
		OverdraftLimit: a.OverdraftLimit,
		InterestRate:   a.InterestRate,
		Version:        a.Version,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse wraps an account listing.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// BalanceResponse reports the balance after a ledger operation.
type BalanceResponse struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
}

// TransactionResponse represents a log entry in API responses.
type TransactionResponse struct {
	ID               string          `json:"id"`
	AccountID        string          `json:"account_id"`
	Sequence         int64           `json:"sequence"`
	Kind             string          `json:"kind"`
	Amount           decimal.Decimal `json:"amount"`
	ResultingBalance decimal.Decimal `json:"resulting_balance"`
	CreatedAt        time.Time       `json:"created_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:               t.ID,
		AccountID:        t.AccountID,
		Sequence:         t.Sequence,
		Kind:             string(t.Kind),
		Amount:           t.Amount,
		ResultingBalance: t.ResultingBalance,
		CreatedAt:        t.CreatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txns []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// ListTransactionsResponse wraps a transaction listing.
type ListTransactionsResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Total        int64                  `json:"total"`
}

// ReconciliationResponse reports a log replay for one account.
type ReconciliationResponse struct {
	AccountID         string          `json:"account_id"`
	RecordedBalance   decimal.Decimal `json:"recorded_balance"`
	CalculatedBalance decimal.Decimal `json:"calculated_balance"`
	Difference        decimal.Decimal `json:"difference"`
	TransactionCount  int64           `json:"transaction_count"`
	IsReconciled      bool            `json:"is_reconciled"`
	CheckedAt         time.Time       `json:"checked_at"`
}

// ReconciliationFromResult converts a use case result to a response.
func ReconciliationFromResult(r *usecase.ReconciliationResult) *ReconciliationResponse {
	return &ReconciliationResponse{
		AccountID:         r.AccountID,
		RecordedBalance:   r.RecordedBalance,
		CalculatedBalance: r.CalculatedBalance,
		Difference:        r.Difference,
		TransactionCount:  r.TransactionCount,
		IsReconciled:      r.IsReconciled,
		CheckedAt:         r.CheckedAt,
	}
}
