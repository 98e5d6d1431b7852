package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// birthDateLayout is the wire format for holder birth dates.
const birthDateLayout = "2006-01-02"

// CreateHolderRequest represents a request to create a holder.
type CreateHolderRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	BirthDate string `json:"birth_date,omitempty"`
	Address   string `json:"address,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateHolderRequest) ToUseCaseInput() (usecase.CreateHolderInput, error) {
	input := usecase.CreateHolderInput{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Address:   r.Address,
	}

	if r.BirthDate != "" {
		birthDate, err := time.Parse(birthDateLayout, r.BirthDate)
		if err != nil {
			return usecase.CreateHolderInput{}, fmt.Errorf("birth_date must be YYYY-MM-DD: %w", err)
		}
		input.BirthDate = birthDate
	}

	return input, nil
}

// OpenAccountRequest represents a request to open an account.
type OpenAccountRequest struct {
	HolderID       string           `json:"holder_id"`
	Kind           string           `json:"kind"`
	InitialBalance *decimal.Decimal `json:"initial_balance,omitempty"`
	OverdraftLimit *decimal.Decimal `json:"overdraft_limit,omitempty"`
	InterestRate   *decimal.Decimal `json:"interest_rate,omitempty"`
}

// ToUseCaseInput converts to use case input. Absent optional fields
// read as zero.
func (r *OpenAccountRequest) ToUseCaseInput() usecase.OpenAccountInput {
	input := usecase.OpenAccountInput{
		HolderID: r.HolderID,
		Kind:     domain.AccountKind(r.Kind),
	}

	if r.InitialBalance != nil {
		input.InitialBalance = *r.InitialBalance
	}
	if r.OverdraftLimit != nil {
		input.OverdraftLimit = *r.OverdraftLimit
	}
	if r.InterestRate != nil {
		input.InterestRate = *r.InterestRate
	}

	return input
}

// AmountRequest represents a deposit or withdrawal request.
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}
